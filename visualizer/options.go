package visualizer

// Options configures the diagram output.
type Options struct {
	// Direction controls diagram flow: "TD" (top-down) or "LR" (left-right)
	Direction string

	// HighlightPath highlights a specific state path through the diagram
	HighlightPath []string

	// GuardedStates labels incoming edges of these states as guarded.
	// Guards are code bindings, so the caller names them explicitly.
	GuardedStates []string

	// Fence wraps Mermaid output in a markdown code fence
	Fence bool
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		Direction: "TD",
		Fence:     true,
	}
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithHighlightPath sets states to highlight.
func (o Options) WithHighlightPath(path []string) Options {
	o.HighlightPath = path

	return o
}

// WithGuardedStates sets the states whose incoming edges are guarded.
func (o Options) WithGuardedStates(states []string) Options {
	o.GuardedStates = states

	return o
}

// WithFence enables/disables the markdown code fence on Mermaid output.
func (o Options) WithFence(fence bool) Options {
	o.Fence = fence

	return o
}
