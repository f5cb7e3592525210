// Package fsm implements a declarative finite state machine: a set of
// states discovered from a flat transition list, per-state enter/exit
// actions, and per-state guards, compiled once into an immutable lookup
// table and driven at runtime through Machine.Transition.
//
// A machine is built from three explicit inputs: a Definition naming the
// legal (from, to) transition pairs and the initial state, a set of Action
// bindings, and a set of Guard bindings. Construction validates everything
// up front; a misconfigured machine is never returned. At runtime the only
// mutable piece of a Machine is its current state, and the only operation
// that changes it is Transition.
//
// Within one Transition call the order is fixed: guard, exit action of the
// current state, enter action of the target state, then the state commit.
// A rejected guard or a failed action leaves the current state untouched.
//
// A Machine is not safe for concurrent Transition calls without external
// serialization; pass WithSynchronization to opt into an internal mutex.
package fsm
