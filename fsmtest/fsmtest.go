// Package fsmtest provides testing utilities for state machines: a traced
// machine wrapper, trace matchers, and a scenario runner.
package fsmtest

import (
	"context"
	"testing"
	"time"

	fsm "github.com/amp-labs/amp-fsm"
	"github.com/stretchr/testify/require"
)

// TracedMachine wraps a Machine and records every Transition call through
// the machine's transition hook.
type TracedMachine struct {
	*fsm.Machine

	t     *testing.T
	trace []TraceEntry
}

// TraceEntry records a single Transition call.
type TraceEntry struct {
	Timestamp time.Time
	From      string
	To        string
	Event     fsm.Event
	Duration  time.Duration
	Err       error
}

// NewTracedMachine builds a machine from the definition and bindings with a
// recording hook installed. Construction failures fail the test.
func NewTracedMachine(
	t *testing.T,
	def fsm.Definition,
	actions []fsm.Action,
	guards []fsm.Guard,
	opts ...fsm.Option,
) *TracedMachine {
	t.Helper()

	traced := &TracedMachine{
		t:     t,
		trace: make([]TraceEntry, 0),
	}

	opts = append(opts, fsm.WithTransitionHook(traced.record))

	machine, err := fsm.New(def, actions, guards, opts...)
	require.NoError(t, err, "failed to build machine")

	traced.Machine = machine

	return traced
}

// record is the transition hook: it opens an entry at the start phase and
// completes it at the end phase.
func (tm *TracedMachine) record(
	_ context.Context, from, to string, event fsm.Event, phase string, err error,
) {
	switch phase {
	case fsm.PhaseStart:
		tm.trace = append(tm.trace, TraceEntry{
			Timestamp: time.Now(),
			From:      from,
			To:        to,
			Event:     event,
		})
	case fsm.PhaseEnd:
		if len(tm.trace) > 0 {
			last := &tm.trace[len(tm.trace)-1]
			last.Duration = time.Since(last.Timestamp)
			last.Err = err
		}
	}
}

// Trace returns a copy of the recorded transition calls.
func (tm *TracedMachine) Trace() []TraceEntry {
	out := make([]TraceEntry, len(tm.trace))
	copy(out, tm.trace)

	return out
}

// Assert checks the trace against the given matchers and fails the test for
// each one that does not hold.
func (tm *TracedMachine) Assert(matchers ...Matcher) {
	tm.t.Helper()

	for _, matcher := range matchers {
		ok, err := matcher.Match(tm)
		if !ok {
			tm.t.Errorf("matcher failed: %s: %v", matcher.Description(), err)
		}
	}
}

// RequireState fails the test immediately unless the machine is in the
// named state.
func (tm *TracedMachine) RequireState(state string) {
	tm.t.Helper()

	require.Equal(tm.t, state, tm.State())
}
