package fsm

// Builder provides a fluent API for constructing machines. Binding errors
// are collected and reported from Build, so calls can be chained freely.
type Builder struct {
	def     Definition
	actions []Action
	guards  []Guard
	opts    []Option
	err     error
}

// NewBuilder creates a builder for a named machine.
func NewBuilder(name string) *Builder {
	return &Builder{
		def: Definition{
			Name: name,
		},
	}
}

// WithInitialState sets the initial state.
func (b *Builder) WithInitialState(state string) *Builder {
	b.def.InitialState = state

	return b
}

// AddTransition declares a (from, to) transition pair.
func (b *Builder) AddTransition(from, to string) *Builder {
	b.def.Transitions = append(b.def.Transitions, Transition{From: from, To: to})

	return b
}

// AddAction attaches a prebuilt Action binding.
func (b *Builder) AddAction(action Action) *Builder {
	b.actions = append(b.actions, action)

	return b
}

// AddEnterAction binds fn to run when entering the named state.
func (b *Builder) AddEnterAction(state string, fn ActionFunc) *Builder {
	action, err := NewAction(state, fn)
	if err != nil {
		b.recordErr(err)

		return b
	}

	return b.AddAction(action)
}

// AddExitAction binds fn to run when exiting the named state.
func (b *Builder) AddExitAction(state string, fn ActionFunc) *Builder {
	action, err := NewAction(state, fn, OnEnter(false), OnExit(true))
	if err != nil {
		b.recordErr(err)

		return b
	}

	return b.AddAction(action)
}

// AddGuard binds a predicate protecting entry into the named state.
func (b *Builder) AddGuard(state string, fn GuardFunc) *Builder {
	guard, err := NewGuard(state, fn)
	if err != nil {
		b.recordErr(err)

		return b
	}

	b.guards = append(b.guards, guard)

	return b
}

// WithLogger attaches a logger to the built machine.
func (b *Builder) WithLogger(logger Logger) *Builder {
	b.opts = append(b.opts, WithLogger(logger))

	return b
}

// WithSynchronization serializes Transition calls on the built machine.
func (b *Builder) WithSynchronization() *Builder {
	b.opts = append(b.opts, WithSynchronization())

	return b
}

// WithTransitionHook registers a hook on the built machine.
func (b *Builder) WithTransitionHook(hook TransitionHook) *Builder {
	b.opts = append(b.opts, WithTransitionHook(hook))

	return b
}

// Build constructs the machine. The first error recorded while binding, or
// any configuration error from construction, is returned here.
func (b *Builder) Build() (*Machine, error) {
	if b.err != nil {
		return nil, b.err
	}

	return New(b.def, b.actions, b.guards, b.opts...)
}

// recordErr keeps the first binding error.
func (b *Builder) recordErr(err error) {
	if b.err == nil {
		b.err = err
	}
}
