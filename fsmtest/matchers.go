package fsmtest

import (
	"errors"
	"fmt"
)

// Matcher errors.
var (
	ErrNoTrace              = errors.New("no transitions recorded")
	ErrTransitionNotTaken   = errors.New("transition was not taken")
	ErrTransitionDidNotFail = errors.New("transition did not fail")
	ErrStateNotReached      = errors.New("state was not reached")
)

// Matcher defines an assertion over a traced machine.
type Matcher interface {
	Match(tm *TracedMachine) (bool, error)
	Description() string
}

// TransitionWasTaken creates a matcher checking that a (from, to) pair was
// attempted and committed.
func TransitionWasTaken(from, to string) Matcher {
	return &transitionTakenMatcher{from: from, to: to}
}

type transitionTakenMatcher struct {
	from string
	to   string
}

func (m *transitionTakenMatcher) Match(tm *TracedMachine) (bool, error) {
	if len(tm.trace) == 0 {
		return false, ErrNoTrace
	}

	for _, entry := range tm.trace {
		if entry.From == m.from && entry.To == m.to && entry.Err == nil {
			return true, nil
		}
	}

	return false, fmt.Errorf("%w: from %q to %q", ErrTransitionNotTaken, m.from, m.to)
}

func (m *transitionTakenMatcher) Description() string {
	return fmt.Sprintf("transition from %q to %q should be taken", m.from, m.to)
}

// TransitionFailed creates a matcher checking that a (from, to) attempt
// failed with the given error (matched via errors.Is; a nil want matches
// any failure).
func TransitionFailed(from, to string, want error) Matcher {
	return &transitionFailedMatcher{from: from, to: to, want: want}
}

type transitionFailedMatcher struct {
	from string
	to   string
	want error
}

func (m *transitionFailedMatcher) Match(tm *TracedMachine) (bool, error) {
	if len(tm.trace) == 0 {
		return false, ErrNoTrace
	}

	for _, entry := range tm.trace {
		if entry.From != m.from || entry.To != m.to || entry.Err == nil {
			continue
		}

		if m.want == nil || errors.Is(entry.Err, m.want) {
			return true, nil
		}
	}

	return false, fmt.Errorf("%w: from %q to %q with %v", ErrTransitionDidNotFail, m.from, m.to, m.want)
}

func (m *transitionFailedMatcher) Description() string {
	return fmt.Sprintf("transition from %q to %q should fail with %v", m.from, m.to, m.want)
}

// StateReached creates a matcher checking that the machine committed into
// the named state at least once.
func StateReached(state string) Matcher {
	return &stateReachedMatcher{state: state}
}

type stateReachedMatcher struct {
	state string
}

func (m *stateReachedMatcher) Match(tm *TracedMachine) (bool, error) {
	if tm.InitialState() == m.state {
		return true, nil
	}

	for _, entry := range tm.trace {
		if entry.To == m.state && entry.Err == nil {
			return true, nil
		}
	}

	return false, fmt.Errorf("%w: %q", ErrStateNotReached, m.state)
}

func (m *stateReachedMatcher) Description() string {
	return fmt.Sprintf("state %q should be reached", m.state)
}
