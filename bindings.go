package fsm

import "context"

// Event is the opaque payload handed to action functions at transition
// time. The engine never inspects it.
type Event = any

// ActionFunc is a side-effecting callback bound to a state. It receives the
// event that caused the transition. A non-nil error aborts the transition
// before the state commit and is returned to the caller unwrapped.
type ActionFunc func(ctx context.Context, event Event) error

// GuardFunc is a predicate protecting entry into a state. Returning false
// rejects the transition; returning a non-nil error is a contract violation
// and surfaces as ErrGuardContract.
type GuardFunc func(ctx context.Context) (bool, error)

// Action binds an ActionFunc to a state. By default the action runs on
// entering the state; use the OnEnter and OnExit options to change that.
// An action with both flags false is legal but never invoked.
type Action struct {
	state   string
	fn      ActionFunc
	onEnter bool
	onExit  bool
}

// ActionOption customizes an Action binding.
type ActionOption func(*Action)

// OnEnter sets whether the action runs when entering its state.
func OnEnter(v bool) ActionOption {
	return func(a *Action) {
		a.onEnter = v
	}
}

// OnExit sets whether the action runs when exiting its state.
func OnExit(v bool) ActionOption {
	return func(a *Action) {
		a.onExit = v
	}
}

// NewAction creates an Action binding for the named state. The state name
// and function are validated here, at the binding boundary, rather than at
// table-build time.
func NewAction(state string, fn ActionFunc, opts ...ActionOption) (Action, error) {
	if state == "" {
		return Action{}, WrapConfigError(state, DeclAction, ErrStateNameRequired)
	}

	if fn == nil {
		return Action{}, WrapConfigError(state, DeclAction, ErrActionFuncRequired)
	}

	action := Action{
		state:   state,
		fn:      fn,
		onEnter: true,
		onExit:  false,
	}

	for _, opt := range opts {
		opt(&action)
	}

	return action, nil
}

// State reports the state the action is bound to.
func (a Action) State() string {
	return a.state
}

// RunsOnEnter reports whether the action runs on state entry.
func (a Action) RunsOnEnter() bool {
	return a.onEnter
}

// RunsOnExit reports whether the action runs on state exit.
func (a Action) RunsOnExit() bool {
	return a.onExit
}

// Guard binds a GuardFunc to a state. The predicate is evaluated before any
// transition into that state.
type Guard struct {
	state string
	fn    GuardFunc
}

// NewGuard creates a Guard binding for the named state.
func NewGuard(state string, fn GuardFunc) (Guard, error) {
	if state == "" {
		return Guard{}, WrapConfigError(state, DeclGuard, ErrStateNameRequired)
	}

	if fn == nil {
		return Guard{}, WrapConfigError(state, DeclGuard, ErrGuardFuncRequired)
	}

	return Guard{
		state: state,
		fn:    fn,
	}, nil
}

// State reports the state the guard protects.
func (g Guard) State() string {
	return g.state
}
