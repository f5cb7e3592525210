// Package visualizer generates Mermaid and Graphviz diagrams from machine
// definitions.
package visualizer

import (
	"errors"
	"fmt"
	"strings"

	"facette.io/natsort"
	fsm "github.com/amp-labs/amp-fsm"
)

// Visualizer errors.
var (
	ErrDefinitionNil  = errors.New("definition cannot be nil")
	ErrNoInitialState = errors.New("definition must have an initial state")
)

// GenerateMermaid converts a Definition to a Mermaid state diagram.
func GenerateMermaid(def *fsm.Definition) (string, error) {
	return GenerateMermaidWithOptions(def, DefaultOptions())
}

// GenerateMermaidFromFile loads a definition from a YAML file and generates
// a Mermaid diagram.
func GenerateMermaidFromFile(path string) (string, error) {
	def, err := fsm.LoadDefinition(path)
	if err != nil {
		return "", fmt.Errorf("failed to load definition: %w", err)
	}

	return GenerateMermaid(def)
}

// GenerateMermaidWithOptions generates a Mermaid diagram with custom options.
func GenerateMermaidWithOptions(def *fsm.Definition, opts Options) (string, error) {
	if def == nil {
		return "", ErrDefinitionNil
	}

	if def.InitialState == "" {
		return "", ErrNoInitialState
	}

	var sb strings.Builder

	if opts.Fence {
		sb.WriteString("```mermaid\n")
	}

	sb.WriteString(fmt.Sprintf("stateDiagram-%s\n", direction(opts)))

	// Initial state marker
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", def.InitialState))

	guarded := stringSet(opts.GuardedStates)

	for _, edge := range sortedEdges(def) {
		if guarded[edge.To] {
			sb.WriteString(fmt.Sprintf("    %s --> %s: guarded\n", edge.From, edge.To))

			continue
		}

		sb.WriteString(fmt.Sprintf("    %s --> %s\n", edge.From, edge.To))
	}

	highlighted := stringSet(opts.HighlightPath)
	terminal := stringSet(def.TerminalStates())

	usedTerminal, usedHighlight := false, false

	for _, state := range sortedStates(def) {
		switch {
		case highlighted[state]:
			sb.WriteString(fmt.Sprintf("    class %s highlighted\n", state))

			usedHighlight = true
		case terminal[state]:
			sb.WriteString(fmt.Sprintf("    class %s terminalState\n", state))

			usedTerminal = true
		}
	}

	if usedTerminal {
		sb.WriteString("    classDef terminalState fill:#ffcdd2,stroke:#b71c1c,stroke-width:2px\n")
	}

	if usedHighlight {
		sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")
	}

	if opts.Fence {
		sb.WriteString("```\n")
	}

	return sb.String(), nil
}

func direction(opts Options) string {
	if opts.Direction == "" {
		return "TD"
	}

	return opts.Direction
}

// sortedStates returns the definition's states in natural sort order so
// output is deterministic regardless of declaration order.
func sortedStates(def *fsm.Definition) []string {
	states := def.States()
	natsort.Sort(states)

	return states
}

// sortedEdges returns the distinct declared pairs ordered naturally by
// (from, to).
func sortedEdges(def *fsm.Definition) []fsm.Transition {
	seen := make(map[fsm.Transition]bool)
	keys := make([]string, 0, len(def.Transitions))
	byKey := make(map[string]fsm.Transition)

	for _, tr := range def.Transitions {
		if seen[tr] {
			continue
		}

		seen[tr] = true

		key := tr.From + "\x00" + tr.To
		keys = append(keys, key)
		byKey[key] = tr
	}

	natsort.Sort(keys)

	edges := make([]fsm.Transition, 0, len(keys))
	for _, key := range keys {
		edges = append(edges, byKey[key])
	}

	return edges
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}

	return set
}
