package fsm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"
)

// Hook phases.
const (
	PhaseStart = "start"
	PhaseEnd   = "end"
)

// Action phases reported to the logger and tracer.
const (
	actionPhaseEnter = "enter"
	actionPhaseExit  = "exit"
)

// Metric outcome constants.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// TransitionHook is called at the start and end of every Transition call.
// At PhaseStart err is always nil; at PhaseEnd it carries the outcome.
type TransitionHook func(ctx context.Context, from, to string, event Event, phase string, err error)

// Machine executes controlled transitions over an immutable transition
// table. Its only mutable field is the current state, and only a successful
// Transition call changes it.
//
// A Machine is not safe for concurrent Transition calls from multiple
// goroutines unless constructed with WithSynchronization; the default
// contract assumes single-threaded or externally serialized use.
type Machine struct {
	id      string
	name    string
	initial string
	current string
	table   transitionTable
	mu      *sync.Mutex
	logger  Logger
	hooks   []TransitionHook
	count   atomic.Int64
}

// Option customizes a Machine at construction.
type Option func(*Machine)

// WithLogger attaches a logger to the machine. A nil logger keeps the
// engine silent.
func WithLogger(logger Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithSynchronization serializes Transition calls through an internal
// mutex, as a convenience for machines shared across goroutines.
func WithSynchronization() Option {
	return func(m *Machine) {
		m.mu = &sync.Mutex{}
	}
}

// WithTransitionHook registers a hook observing every Transition call.
func WithTransitionHook(hook TransitionHook) Option {
	return func(m *Machine) {
		m.hooks = append(m.hooks, hook)
	}
}

// New builds a machine from a validated definition and its bindings. The
// state registry and transition table are compiled once here and frozen; a
// configuration error aborts construction entirely.
func New(def Definition, actions []Action, guards []Guard, opts ...Option) (*Machine, error) {
	err := def.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}

	registry, err := buildStateRegistry(def.Transitions, actions, guards)
	if err != nil {
		return nil, err
	}

	machine := &Machine{
		id:      uuid.NewString(),
		name:    def.Name,
		initial: def.InitialState,
		current: def.InitialState,
		table:   buildTransitionTable(def.Transitions, registry),
	}

	for _, opt := range opts {
		opt(machine)
	}

	return machine, nil
}

// ID returns the unique instance ID assigned at construction.
func (m *Machine) ID() string {
	return m.id
}

// Name returns the machine name from its definition.
func (m *Machine) Name() string {
	return m.name
}

// InitialState returns the state the machine started in.
func (m *Machine) InitialState() string {
	return m.initial
}

// State returns the current state. Pure read; never fails.
func (m *Machine) State() string {
	if m.mu != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
	}

	return m.current
}

// TransitionCount returns the number of committed transitions.
func (m *Machine) TransitionCount() int64 {
	return m.count.Load()
}

// CanTransition reports whether a transition from the current state to the
// named state is declared. It does not evaluate guards.
func (m *Machine) CanTransition(to string) bool {
	if m.mu != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
	}

	_, ok := m.table[m.current][to]

	return ok
}

// Transition moves the machine to the named state, carrying the event
// payload through to the state actions.
//
// The step order is fixed: the current state must have an outgoing row
// (ErrInvalidCurrentState), the pair must be declared (ErrIllegalTransition),
// the target guard must accept (ErrGuardRejected, or ErrGuardContract if the
// guard errors), then the current state's exit action and the target state's
// enter action run in that order. The current state is committed only after
// both actions succeed.
//
// Errors returned by user actions propagate unwrapped; the engine performs
// no retry and no rollback of side effects an action already produced.
func (m *Machine) Transition(ctx context.Context, to string, event Event) error {
	if m.mu != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
	}

	from := m.current
	start := time.Now()

	ctx, span := startTransitionSpan(ctx, m, from, to)

	for _, hook := range m.hooks {
		hook(ctx, from, to, event, PhaseStart, nil)
	}

	err := m.transition(ctx, from, to, event)
	elapsed := time.Since(start)

	for _, hook := range m.hooks {
		hook(ctx, from, to, event, PhaseEnd, err)
	}

	outcome := outcomeSuccess

	if err != nil {
		outcome = outcomeError

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "committed")
	}

	span.End()

	transitionsTotal.WithLabelValues(sanitizeMachine(m.name), from, to, outcome).Inc()
	transitionDuration.WithLabelValues(sanitizeMachine(m.name), outcome).Observe(elapsed.Seconds())

	if m.logger != nil {
		if err != nil {
			m.logger.TransitionFailed(ctx, from, to, elapsed, err)
		} else {
			m.logger.TransitionExecuted(ctx, from, to, elapsed)
		}
	}

	return err
}

// transition performs the lookup, guard, action, commit sequence. It runs
// under the machine mutex when one is configured.
func (m *Machine) transition(ctx context.Context, from, to string, event Event) error {
	row, ok := m.table[from]
	if !ok {
		return WrapTransitionError(from, to, ErrInvalidCurrentState)
	}

	entry, ok := row[to]
	if !ok {
		return WrapTransitionError(from, to, ErrIllegalTransition)
	}

	if guard := entry.end.guard; guard != nil {
		allowed, err := m.evaluateGuard(ctx, guard)
		if err != nil {
			return WrapTransitionError(from, to, fmt.Errorf("%w: %w", ErrGuardContract, err))
		}

		if !allowed {
			guardRejectionsTotal.WithLabelValues(sanitizeMachine(m.name), from, to).Inc()

			return WrapTransitionError(from, to, ErrGuardRejected)
		}
	}

	if action := entry.begin.exit; action != nil {
		err := m.runAction(ctx, action, actionPhaseExit, event)
		if err != nil {
			return err
		}
	}

	if action := entry.end.enter; action != nil {
		err := m.runAction(ctx, action, actionPhaseEnter, event)
		if err != nil {
			return err
		}
	}

	m.current = to
	m.count.Inc()

	return nil
}

// evaluateGuard runs a guard predicate with tracing and logging. The guard
// receives no event; it only answers whether entry is allowed.
func (m *Machine) evaluateGuard(ctx context.Context, guard *Guard) (bool, error) {
	ctx, span := startGuardSpan(ctx, m, guard.state)
	defer span.End()

	allowed, err := guard.fn(ctx)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "evaluated")
	}

	if m.logger != nil {
		m.logger.GuardEvaluated(ctx, guard.state, allowed, err)
	}

	return allowed, err
}

// runAction runs a state action with tracing and logging. The action's
// error is returned as-is so callers can match on their own error values.
func (m *Machine) runAction(ctx context.Context, action *Action, phase string, event Event) error {
	ctx, span := startActionSpan(ctx, m, action.state, phase)
	defer span.End()

	start := time.Now()
	err := action.fn(ctx, event)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "completed")
	}

	if m.logger != nil {
		m.logger.ActionExecuted(ctx, action.state, phase, elapsed, err)
	}

	return err
}
