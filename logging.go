package fsm

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger provides logging hooks for machine execution. Implementations
// must be cheap; they are invoked inline on every transition.
type Logger interface {
	TransitionExecuted(ctx context.Context, from, to string, duration time.Duration)
	TransitionFailed(ctx context.Context, from, to string, duration time.Duration, err error)
	ActionExecuted(ctx context.Context, state, phase string, duration time.Duration, err error)
	GuardEvaluated(ctx context.Context, state string, allowed bool, err error)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger over slog.Default().
func NewDefaultLogger() *DefaultLogger {
	return NewSlogLogger(slog.Default())
}

// NewSlogLogger creates a logger over an explicit slog.Logger.
func NewSlogLogger(logger *slog.Logger) *DefaultLogger {
	return &DefaultLogger{
		logger: logger,
	}
}

// NewOtelLogger creates a logger whose records are emitted through the
// OpenTelemetry slog bridge, using the globally registered LoggerProvider.
func NewOtelLogger() *DefaultLogger {
	return NewSlogLogger(otelslog.NewLogger(tracerName))
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, from, to string, duration time.Duration) {
	l.logger.InfoContext(ctx, "Transition executed",
		"from", from,
		"to", to,
		"duration_ms", duration.Milliseconds(),
	)
}

func (l *DefaultLogger) TransitionFailed(
	ctx context.Context, from, to string, duration time.Duration, err error,
) {
	l.logger.ErrorContext(ctx, "Transition failed",
		"from", from,
		"to", to,
		"duration_ms", duration.Milliseconds(),
		"error", err,
	)
}

func (l *DefaultLogger) ActionExecuted(
	ctx context.Context, state, phase string, duration time.Duration, err error,
) {
	if err != nil {
		l.logger.ErrorContext(ctx, "Action completed with error",
			"state", state,
			"phase", phase,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)

		return
	}

	l.logger.InfoContext(ctx, "Action completed",
		"state", state,
		"phase", phase,
		"duration_ms", duration.Milliseconds(),
	)
}

func (l *DefaultLogger) GuardEvaluated(ctx context.Context, state string, allowed bool, err error) {
	if err != nil {
		l.logger.ErrorContext(ctx, "Guard violated its contract",
			"state", state,
			"error", err,
		)

		return
	}

	l.logger.InfoContext(ctx, "Guard evaluated",
		"state", state,
		"allowed", allowed,
	)
}
