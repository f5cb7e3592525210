package visualizer

import (
	"fmt"
	"strings"

	fsm "github.com/amp-labs/amp-fsm"
)

// GenerateDOT converts a Definition to a Graphviz digraph.
func GenerateDOT(def *fsm.Definition) (string, error) {
	return GenerateDOTWithOptions(def, DefaultOptions())
}

// GenerateDOTFromFile loads a definition from a YAML file and generates a
// Graphviz digraph.
func GenerateDOTFromFile(path string) (string, error) {
	def, err := fsm.LoadDefinition(path)
	if err != nil {
		return "", fmt.Errorf("failed to load definition: %w", err)
	}

	return GenerateDOT(def)
}

// GenerateDOTWithOptions generates a Graphviz digraph with custom options.
func GenerateDOTWithOptions(def *fsm.Definition, opts Options) (string, error) {
	if def == nil {
		return "", ErrDefinitionNil
	}

	if def.InitialState == "" {
		return "", ErrNoInitialState
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %q {\n", def.Name))
	sb.WriteString(fmt.Sprintf("\trankdir=%q;\n", dotRankDir(opts)))
	sb.WriteString("\tnode [shape=Mrecord];\n")

	terminal := stringSet(def.TerminalStates())
	highlighted := stringSet(opts.HighlightPath)

	for _, state := range sortedStates(def) {
		attrs := []string{fmt.Sprintf("label=%q", state)}

		if terminal[state] {
			attrs = append(attrs, "style=filled", "fillcolor=lightpink")
		}

		if highlighted[state] {
			attrs = append(attrs, "color=orange", "penwidth=3")
		}

		sb.WriteString(fmt.Sprintf("\t%q [%s];\n", state, strings.Join(attrs, ", ")))
	}

	sb.WriteString("\tinit [shape=point];\n")
	sb.WriteString(fmt.Sprintf("\tinit -> %q;\n", def.InitialState))

	guarded := stringSet(opts.GuardedStates)

	for _, edge := range sortedEdges(def) {
		if guarded[edge.To] {
			sb.WriteString(fmt.Sprintf("\t%q -> %q [label=\"guarded\"];\n", edge.From, edge.To))

			continue
		}

		sb.WriteString(fmt.Sprintf("\t%q -> %q;\n", edge.From, edge.To))
	}

	sb.WriteString("}\n")

	return sb.String(), nil
}

// dotRankDir maps the Mermaid-style direction onto Graphviz rankdir.
func dotRankDir(opts Options) string {
	if opts.Direction == "LR" {
		return "LR"
	}

	return "TB"
}
