package fsmtest

import (
	"context"
	"testing"

	fsm "github.com/amp-labs/amp-fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Step is one transition attempt within a scenario.
type Step struct {
	To        string
	Event     fsm.Event
	WantErr   error  // expected error, matched via errors.Is; nil means success
	WantState string // expected state after the step; empty means don't check
}

// Scenario is a declarative machine test: a definition, its bindings, and a
// sequence of transition attempts with expected outcomes.
type Scenario struct {
	Name       string
	Definition fsm.Definition
	Actions    []fsm.Action
	Guards     []fsm.Guard
	Steps      []Step
	FinalState string // expected state after all steps; empty means don't check
}

// RunScenario executes a scenario as a subtest and returns the traced
// machine for further assertions.
func RunScenario(t *testing.T, scenario Scenario) *TracedMachine {
	t.Helper()

	var traced *TracedMachine

	t.Run(scenario.Name, func(t *testing.T) {
		traced = NewTracedMachine(t, scenario.Definition, scenario.Actions, scenario.Guards)

		ctx := context.Background()

		for i, step := range scenario.Steps {
			err := traced.Transition(ctx, step.To, step.Event)

			if step.WantErr != nil {
				require.ErrorIs(t, err, step.WantErr, "step %d (-> %s)", i, step.To)
			} else {
				require.NoError(t, err, "step %d (-> %s)", i, step.To)
			}

			if step.WantState != "" {
				assert.Equal(t, step.WantState, traced.State(), "step %d (-> %s)", i, step.To)
			}
		}

		if scenario.FinalState != "" {
			assert.Equal(t, scenario.FinalState, traced.State())
		}
	})

	return traced
}

// LightBulbDefinition returns the stock fixture definition: a bulb that
// switches between off and on and breaks terminally.
func LightBulbDefinition() fsm.Definition {
	return fsm.Definition{
		Name:         "light-bulb",
		InitialState: "off",
		Transitions: []fsm.Transition{
			{From: "off", To: "on"},
			{From: "on", To: "off"},
			{From: "off", To: "broken"},
			{From: "on", To: "broken"},
		},
	}
}
