package fsm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lightBulb is the canonical fixture: a bulb that can be switched on and
// off until it breaks, with electricity guarding the on state.
type lightBulb struct {
	electricity bool
	indicator   string
}

func lightBulbDefinition() Definition {
	return Definition{
		Name:         "light-bulb",
		InitialState: "off",
		Transitions: []Transition{
			{From: "off", To: "on"},
			{From: "on", To: "off"},
			{From: "off", To: "broken"},
			{From: "on", To: "broken"},
		},
	}
}

func (b *lightBulb) bindings(t *testing.T) ([]Action, []Guard) {
	t.Helper()

	dim, err := NewAction("off", func(_ context.Context, _ Event) error {
		b.indicator = "dim"

		return nil
	})
	require.NoError(t, err)

	lit, err := NewAction("on", func(_ context.Context, _ Event) error {
		b.indicator = "lit"

		return nil
	})
	require.NoError(t, err)

	smash, err := NewAction("broken", func(_ context.Context, _ Event) error {
		b.indicator = "broken"

		return nil
	})
	require.NoError(t, err)

	electricity, err := NewGuard("on", func(_ context.Context) (bool, error) {
		return b.electricity, nil
	})
	require.NoError(t, err)

	return []Action{dim, lit, smash}, []Guard{electricity}
}

func newLightBulbMachine(t *testing.T, bulb *lightBulb, opts ...Option) *Machine {
	t.Helper()

	actions, guards := bulb.bindings(t)

	machine, err := New(lightBulbDefinition(), actions, guards, opts...)
	require.NoError(t, err)

	return machine
}

func TestMachine_InitialState(t *testing.T) {
	t.Parallel()

	machine := newLightBulbMachine(t, &lightBulb{})

	assert.Equal(t, "off", machine.State())
	assert.Equal(t, "off", machine.InitialState())
	assert.Equal(t, "off", machine.State(), "repeated reads must agree")
	assert.Equal(t, "light-bulb", machine.Name())
	assert.NotEmpty(t, machine.ID())
	assert.Zero(t, machine.TransitionCount())
}

func TestMachine_SuccessScenario(t *testing.T) {
	t.Parallel()

	bulb := &lightBulb{electricity: true}
	machine := newLightBulbMachine(t, bulb, WithLogger(NewSlogLogger(slogt.New(t))))

	require.NoError(t, machine.Transition(context.Background(), "on", "turn on"))
	assert.Equal(t, "on", machine.State())
	assert.Equal(t, "lit", bulb.indicator)

	require.NoError(t, machine.Transition(context.Background(), "off", "turn off"))
	assert.Equal(t, "off", machine.State())
	assert.Equal(t, "dim", bulb.indicator)

	assert.Equal(t, int64(2), machine.TransitionCount())
}

func TestMachine_GuardRejection(t *testing.T) {
	t.Parallel()

	bulb := &lightBulb{electricity: false}
	machine := newLightBulbMachine(t, bulb)

	err := machine.Transition(context.Background(), "on", "turn on")
	require.ErrorIs(t, err, ErrGuardRejected)

	var trErr *TransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "off", trErr.From)
	assert.Equal(t, "on", trErr.To)

	assert.Equal(t, "off", machine.State(), "state must be unchanged")
	assert.Empty(t, bulb.indicator, "no action may run after a rejection")
}

func TestMachine_IllegalTransition(t *testing.T) {
	t.Parallel()

	bulb := &lightBulb{electricity: true}
	machine := newLightBulbMachine(t, bulb)

	// off -> off was never declared.
	err := machine.Transition(context.Background(), "off", nil)
	require.ErrorIs(t, err, ErrIllegalTransition)

	assert.Equal(t, "off", machine.State())
	assert.Empty(t, bulb.indicator)
}

func TestMachine_TerminalState(t *testing.T) {
	t.Parallel()

	bulb := &lightBulb{electricity: true}
	machine := newLightBulbMachine(t, bulb)

	require.NoError(t, machine.Transition(context.Background(), "on", "turn on"))
	require.NoError(t, machine.Transition(context.Background(), "broken", "break"))
	assert.Equal(t, "broken", machine.State())
	assert.Equal(t, "broken", bulb.indicator)

	// broken has no outgoing row, so it behaves as terminal.
	err := machine.Transition(context.Background(), "on", "turn on")
	require.ErrorIs(t, err, ErrInvalidCurrentState)

	assert.Equal(t, "broken", machine.State())
	assert.Equal(t, "broken", bulb.indicator)
}

func TestMachine_GuardContractViolation(t *testing.T) {
	t.Parallel()

	bulb := &lightBulb{}
	actions, _ := bulb.bindings(t)

	guardErr := errors.New("flaky sensor") //nolint:err113 // Test error
	broken, err := NewGuard("on", func(_ context.Context) (bool, error) {
		return false, guardErr
	})
	require.NoError(t, err)

	machine, err := New(lightBulbDefinition(), actions, []Guard{broken})
	require.NoError(t, err)

	transitionErr := machine.Transition(context.Background(), "on", nil)
	require.ErrorIs(t, transitionErr, ErrGuardContract)
	require.ErrorIs(t, transitionErr, guardErr)

	assert.Equal(t, "off", machine.State())
	assert.Empty(t, bulb.indicator)
}

func TestMachine_ExitActionFailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	exitErr := errors.New("exit failed") //nolint:err113 // Test error
	enterRan := false

	exit, err := NewAction("off", func(_ context.Context, _ Event) error {
		return exitErr
	}, OnEnter(false), OnExit(true))
	require.NoError(t, err)

	enter, err := NewAction("on", func(_ context.Context, _ Event) error {
		enterRan = true

		return nil
	})
	require.NoError(t, err)

	machine, err := New(lightBulbDefinition(), []Action{exit, enter}, nil)
	require.NoError(t, err)

	transitionErr := machine.Transition(context.Background(), "on", nil)
	require.Error(t, transitionErr)
	assert.Equal(t, exitErr, transitionErr, "action errors propagate unwrapped")

	assert.Equal(t, "off", machine.State(), "commit must not happen")
	assert.False(t, enterRan, "enter action must not run after a failed exit action")
}

func TestMachine_EnterActionFailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	enterErr := errors.New("enter failed") //nolint:err113 // Test error
	exitRan := false

	exit, err := NewAction("off", func(_ context.Context, _ Event) error {
		exitRan = true

		return nil
	}, OnEnter(false), OnExit(true))
	require.NoError(t, err)

	enter, err := NewAction("on", func(_ context.Context, _ Event) error {
		return enterErr
	})
	require.NoError(t, err)

	machine, err := New(lightBulbDefinition(), []Action{exit, enter}, nil)
	require.NoError(t, err)

	transitionErr := machine.Transition(context.Background(), "on", nil)
	require.Error(t, transitionErr)
	assert.Equal(t, enterErr, transitionErr)

	// The exit action's side effects have already happened; only the
	// commit is withheld.
	assert.Equal(t, "off", machine.State())
	assert.True(t, exitRan)
}

func TestMachine_OrderingGuardExitEnterCommit(t *testing.T) {
	t.Parallel()

	var order []string

	machine, err := NewBuilder("ordering").
		WithInitialState("a").
		AddTransition("a", "b").
		AddGuard("b", func(_ context.Context) (bool, error) {
			order = append(order, "guard")

			return true, nil
		}).
		AddExitAction("a", func(_ context.Context, _ Event) error {
			order = append(order, "exit")

			return nil
		}).
		AddEnterAction("b", func(_ context.Context, _ Event) error {
			order = append(order, "enter")

			return nil
		}).
		Build()
	require.NoError(t, err)

	require.NoError(t, machine.Transition(context.Background(), "b", nil))
	assert.Equal(t, []string{"guard", "exit", "enter"}, order)
	assert.Equal(t, "b", machine.State())
}

func TestMachine_EventPayloadReachesActions(t *testing.T) {
	t.Parallel()

	type payload struct {
		reason string
	}

	var got Event

	machine, err := NewBuilder("payload").
		WithInitialState("a").
		AddTransition("a", "b").
		AddEnterAction("b", func(_ context.Context, event Event) error {
			got = event

			return nil
		}).
		Build()
	require.NoError(t, err)

	want := payload{reason: "because"}
	require.NoError(t, machine.Transition(context.Background(), "b", want))
	assert.Equal(t, want, got)
}

func TestMachine_NilEventIsAllowed(t *testing.T) {
	t.Parallel()

	called := false

	machine, err := NewBuilder("nil-event").
		WithInitialState("a").
		AddTransition("a", "b").
		AddEnterAction("b", func(_ context.Context, event Event) error {
			called = true

			assert.Nil(t, event)

			return nil
		}).
		Build()
	require.NoError(t, err)

	require.NoError(t, machine.Transition(context.Background(), "b", nil))
	assert.True(t, called)
}

func TestMachine_CanTransition(t *testing.T) {
	t.Parallel()

	bulb := &lightBulb{electricity: true}
	machine := newLightBulbMachine(t, bulb)

	assert.True(t, machine.CanTransition("on"))
	assert.True(t, machine.CanTransition("broken"))
	assert.False(t, machine.CanTransition("off"), "self loop was not declared")
	assert.False(t, machine.CanTransition("bogus"))

	require.NoError(t, machine.Transition(context.Background(), "broken", nil))
	assert.False(t, machine.CanTransition("on"), "terminal state has no outgoing rows")
}

func TestMachine_DuplicateTransitionPairsAreIdempotent(t *testing.T) {
	t.Parallel()

	def := Definition{
		Name:         "dupes",
		InitialState: "a",
		Transitions: []Transition{
			{From: "a", To: "b"},
			{From: "a", To: "b"},
		},
	}

	machine, err := New(def, nil, nil)
	require.NoError(t, err)

	require.NoError(t, machine.Transition(context.Background(), "b", nil))
	assert.Equal(t, "b", machine.State())
}

func TestMachine_TransitionHookObservesOutcome(t *testing.T) {
	t.Parallel()

	type hookCall struct {
		from, to, phase string
		err             error
	}

	var calls []hookCall

	bulb := &lightBulb{electricity: false}
	machine := newLightBulbMachine(t, bulb, WithTransitionHook(
		func(_ context.Context, from, to string, _ Event, phase string, err error) {
			calls = append(calls, hookCall{from: from, to: to, phase: phase, err: err})
		}))

	err := machine.Transition(context.Background(), "on", nil)
	require.ErrorIs(t, err, ErrGuardRejected)

	require.Len(t, calls, 2)
	assert.Equal(t, hookCall{from: "off", to: "on", phase: PhaseStart}, calls[0])
	assert.Equal(t, "off", calls[1].from)
	assert.Equal(t, PhaseEnd, calls[1].phase)
	require.ErrorIs(t, calls[1].err, ErrGuardRejected)
}

func TestMachine_WithSynchronization(t *testing.T) {
	t.Parallel()

	def := Definition{
		Name:         "pingpong",
		InitialState: "ping",
		Transitions: []Transition{
			{From: "ping", To: "pong"},
			{From: "pong", To: "ping"},
		},
	}

	machine, err := New(def, nil, nil, WithSynchronization())
	require.NoError(t, err)

	const workers = 8

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			// Every attempt targets a declared pair from one of the two
			// states; under the mutex exactly one of the two can succeed
			// per observed state, the other fails cleanly.
			_ = machine.Transition(context.Background(), "pong", nil)
			_ = machine.Transition(context.Background(), "ping", nil)
		}()
	}

	wg.Wait()

	state := machine.State()
	assert.Contains(t, []string{"ping", "pong"}, state)
}
