package fsm

import (
	"errors"
	"fmt"
)

// Configuration errors, raised only during construction. A machine whose
// construction fails with one of these is never returned.
var (
	// ErrNoTransitions indicates that the definition declares no transition pairs.
	ErrNoTransitions = errors.New("no transitions declared")
	// ErrNameRequired indicates that the definition has no machine name.
	ErrNameRequired = errors.New("machine name is required")
	// ErrStateNameRequired indicates an empty state name in a binding or transition.
	ErrStateNameRequired = errors.New("state name is required")
	// ErrActionFuncRequired indicates an Action binding with a nil function.
	ErrActionFuncRequired = errors.New("action function is required")
	// ErrGuardFuncRequired indicates a Guard binding with a nil predicate.
	ErrGuardFuncRequired = errors.New("guard predicate is required")
	// ErrInitialStateRequired indicates that no initial state was declared.
	ErrInitialStateRequired = errors.New("initial state is required")
	// ErrInitialStateUnknown indicates an initial state that is not a transition endpoint.
	ErrInitialStateUnknown = errors.New("initial state does not appear in the transition list")
	// ErrUnknownState indicates an action or guard bound to a state that is
	// not an endpoint of any declared transition.
	ErrUnknownState = errors.New("state is not declared in the transition list")
	// ErrDuplicateEnterAction indicates a second enter action for one state.
	ErrDuplicateEnterAction = errors.New("state already has an enter action")
	// ErrDuplicateExitAction indicates a second exit action for one state.
	ErrDuplicateExitAction = errors.New("state already has an exit action")
	// ErrDuplicateGuard indicates a second guard for one state.
	ErrDuplicateGuard = errors.New("state already has a guard")
)

// Transition errors, raised only from Machine.Transition. The machine stays
// usable and its current state is unchanged.
var (
	// ErrInvalidCurrentState indicates that the current state has no outgoing
	// transitions; terminal and corrupted states behave identically.
	ErrInvalidCurrentState = errors.New("current state is invalid or terminal")
	// ErrIllegalTransition indicates that the requested (from, to) pair was
	// never declared.
	ErrIllegalTransition = errors.New("transition is not declared")
	// ErrGuardRejected indicates that the target state's guard returned false.
	ErrGuardRejected = errors.New("guard declined the transition")
	// ErrGuardContract indicates that the target state's guard broke its
	// contract by returning an error instead of a verdict.
	ErrGuardContract = errors.New("guard violated its contract")
)

// Declaration kinds reported by ConfigError.
const (
	DeclAction     = "action"
	DeclGuard      = "guard"
	DeclTransition = "transition"
	DeclDefinition = "definition"
)

// ConfigError wraps a construction failure with the declaration it came from.
type ConfigError struct {
	State string // offending state name, empty when not applicable
	Decl  string // one of the Decl* kinds
	Err   error
}

func (e *ConfigError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("%s: %v", e.Decl, e.Err)
	}

	return fmt.Sprintf("%s for state %q: %v", e.Decl, e.State, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransitionError wraps a runtime failure with transition context.
type TransitionError struct {
	From string
	To   string
	Err  error
}

func (e *TransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("transition from %s: %v", e.From, e.Err)
	}

	return fmt.Sprintf("transition %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// WrapConfigError wraps an error with declaration context.
func WrapConfigError(state, decl string, err error) error {
	if err == nil {
		return nil
	}

	return &ConfigError{
		State: state,
		Decl:  decl,
		Err:   err,
	}
}

// WrapTransitionError wraps an error with transition context.
func WrapTransitionError(from, to string, err error) error {
	if err == nil {
		return nil
	}

	return &TransitionError{
		From: from,
		To:   to,
		Err:  err,
	}
}
