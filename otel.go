package fsm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fsm"

// startTransitionSpan creates the root span for one Transition call.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startTransitionSpan(ctx context.Context, m *Machine, from, to string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "fsm.transition")
	addMachineAttributes(span, m)
	span.SetAttributes(
		attribute.String("from_state", from),
		attribute.String("to_state", to),
	)

	return ctx, span
}

// startGuardSpan creates a child span for guard evaluation.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startGuardSpan(ctx context.Context, m *Machine, state string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "fsm.guard")
	addMachineAttributes(span, m)
	span.SetAttributes(attribute.String("state", state))

	return ctx, span
}

// startActionSpan creates a child span for action execution. The phase is
// "enter" or "exit".
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startActionSpan(ctx context.Context, m *Machine, state, phase string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "fsm.action."+phase)
	addMachineAttributes(span, m)
	span.SetAttributes(
		attribute.String("state", state),
		attribute.String("phase", phase),
	)

	return ctx, span
}

// addMachineAttributes adds machine identity to a span.
func addMachineAttributes(span trace.Span, m *Machine) {
	span.SetAttributes(
		attribute.String("machine", m.name),
		attribute.String("machine_id_hash", hashID(m.id)),
	)
}

// hashID creates a short hash of an ID for span attributes (privacy).
func hashID(id string) string {
	if id == "" {
		return ""
	}

	h := sha256.Sum256([]byte(id))

	return hex.EncodeToString(h[:4]) // First 8 chars
}
