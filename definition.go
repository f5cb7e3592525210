package fsm

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Transition declares a directed edge permitting the machine to move from
// one state to another. The universe of valid states is derived exactly
// from the endpoints of the declared transitions.
type Transition struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to"   yaml:"to"`
}

// Definition is the construction-time input for a machine: its name, the
// declared transition pairs, and the initial state. Action and Guard
// bindings are attached programmatically, not through the definition.
type Definition struct {
	Name         string       `json:"name"         yaml:"name"`
	InitialState string       `json:"initialState" yaml:"initialState"`
	Transitions  []Transition `json:"transitions"  yaml:"transitions"`
}

// LoadDefinition reads a definition from a YAML file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %q: %w", path, err)
	}

	return LoadDefinitionFromBytes(data)
}

// LoadDefinitionFromBytes parses and validates a definition from YAML bytes.
func LoadDefinitionFromBytes(data []byte) (*Definition, error) {
	var def Definition

	err := yaml.Unmarshal(data, &def)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = def.Validate()
	if err != nil {
		return nil, err
	}

	return &def, nil
}

// LoadDefinitionFromFS reads a definition from a filesystem, typically an
// embed.FS.
func LoadDefinitionFromFS(fsys fs.FS, path string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition from FS: %w", err)
	}

	return LoadDefinitionFromBytes(data)
}

// Validate checks the definition for structural errors. Duplicate (from, to)
// pairs are permitted; the table build treats them as idempotent.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return WrapConfigError("", DeclDefinition, ErrNameRequired)
	}

	if len(d.Transitions) == 0 {
		return WrapConfigError("", DeclDefinition, ErrNoTransitions)
	}

	for i, tr := range d.Transitions {
		if tr.From == "" || tr.To == "" {
			return WrapConfigError("", DeclTransition,
				fmt.Errorf("pair %d: %w", i, ErrStateNameRequired))
		}
	}

	if d.InitialState == "" {
		return WrapConfigError("", DeclDefinition, ErrInitialStateRequired)
	}

	if !d.hasEndpoint(d.InitialState) {
		return WrapConfigError(d.InitialState, DeclDefinition, ErrInitialStateUnknown)
	}

	return nil
}

// States returns the distinct state names in first-appearance order across
// the declared transition endpoints.
func (d *Definition) States() []string {
	seen := make(map[string]bool)
	states := make([]string, 0, len(d.Transitions))

	for _, tr := range d.Transitions {
		if !seen[tr.From] {
			seen[tr.From] = true
			states = append(states, tr.From)
		}

		if !seen[tr.To] {
			seen[tr.To] = true
			states = append(states, tr.To)
		}
	}

	return states
}

// TerminalStates returns the states with no outgoing transitions, in
// first-appearance order.
func (d *Definition) TerminalStates() []string {
	outgoing := make(map[string]bool)
	for _, tr := range d.Transitions {
		outgoing[tr.From] = true
	}

	var terminal []string

	for _, state := range d.States() {
		if !outgoing[state] {
			terminal = append(terminal, state)
		}
	}

	return terminal
}

func (d *Definition) hasEndpoint(name string) bool {
	for _, tr := range d.Transitions {
		if tr.From == name || tr.To == name {
			return true
		}
	}

	return false
}
