package fsm

// stateMetadata is the per-state record produced by the registry build: at
// most one enter action, one exit action, and one guard per state.
type stateMetadata struct {
	name  string
	enter *Action
	exit  *Action
	guard *Guard
}

// buildStateRegistry derives the state universe from the transition
// endpoints and attaches the declared bindings to it. The build never
// invokes a user callable and has no side effects on the caller.
func buildStateRegistry(
	transitions []Transition, actions []Action, guards []Guard,
) (map[string]*stateMetadata, error) {
	if len(transitions) == 0 {
		return nil, WrapConfigError("", DeclDefinition, ErrNoTransitions)
	}

	registry := make(map[string]*stateMetadata)

	for _, tr := range transitions {
		if _, ok := registry[tr.From]; !ok {
			registry[tr.From] = &stateMetadata{name: tr.From}
		}

		if _, ok := registry[tr.To]; !ok {
			registry[tr.To] = &stateMetadata{name: tr.To}
		}
	}

	for i := range actions {
		// Registry-owned copy so entries never alias the caller's slice.
		action := actions[i]

		meta, ok := registry[action.state]
		if !ok {
			return nil, WrapConfigError(action.state, DeclAction, ErrUnknownState)
		}

		if action.onEnter {
			if meta.enter != nil {
				return nil, WrapConfigError(action.state, DeclAction, ErrDuplicateEnterAction)
			}

			meta.enter = &action
		}

		if action.onExit {
			if meta.exit != nil {
				return nil, WrapConfigError(action.state, DeclAction, ErrDuplicateExitAction)
			}

			meta.exit = &action
		}
	}

	for i := range guards {
		guard := guards[i]

		meta, ok := registry[guard.state]
		if !ok {
			return nil, WrapConfigError(guard.state, DeclGuard, ErrUnknownState)
		}

		if meta.guard != nil {
			return nil, WrapConfigError(guard.state, DeclGuard, ErrDuplicateGuard)
		}

		meta.guard = &guard
	}

	return registry, nil
}
