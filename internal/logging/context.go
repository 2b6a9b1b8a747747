package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldExperimentID is the standardized key for experiment identifiers.
	FieldExperimentID = "experiment_id"
	// FieldPort is the standardized key for the registry port of an experiment.
	FieldPort = "port"
	// FieldPID is the standardized key for REST server process ids.
	FieldPID = "pid"
	// FieldRequestID is the standardized key for per-invocation request identifiers.
	FieldRequestID = "request_id"
	// FieldPattern is the standardized key for user-supplied id patterns.
	FieldPattern = "pattern"
)

type requestIDKey struct{}

// WithRequestID stores a request identifier on the context so REST calls and
// log lines from one invocation share it.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request identifier stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if id, ok := RequestIDFromContext(ctx); ok {
		return []slog.Attr{slog.String(FieldRequestID, id)}
	}
	return nil
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
