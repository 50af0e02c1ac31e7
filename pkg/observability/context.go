package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Log attribute keys for the request scope.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	OperationKey     = "operation"
)

// Scope identifies one unit of work: an HTTP request, a CLI command or an
// outbox delivery. Loggers built by NewLogger attach it to every record, and
// command handlers copy it into event metadata.
type Scope struct {
	CorrelationID string
	RequestID     string
	Operation     string
}

// Attrs returns the non-empty scope fields as log attributes.
func (s Scope) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	if s.CorrelationID != "" {
		attrs = append(attrs, slog.String(CorrelationIDKey, s.CorrelationID))
	}
	if s.RequestID != "" {
		attrs = append(attrs, slog.String(RequestIDKey, s.RequestID))
	}
	if s.Operation != "" {
		attrs = append(attrs, slog.String(OperationKey, s.Operation))
	}
	return attrs
}

type scopeKey struct{}

// WithScope stores s on the context, replacing any earlier scope.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFromContext returns the scope on ctx, or the zero Scope.
func ScopeFromContext(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}

// StartRequest opens the scope for an inbound request. An empty requestID is
// generated. correlationID is kept only when it is a UUID, since it becomes the
// correlation ID of the task events the request emits; otherwise a fresh one
// is generated.
func StartRequest(ctx context.Context, requestID, correlationID string) context.Context {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if _, err := uuid.Parse(correlationID); err != nil {
		correlationID = uuid.NewString()
	}
	s := ScopeFromContext(ctx)
	s.RequestID = requestID
	s.CorrelationID = correlationID
	return WithScope(ctx, s)
}

// WithCorrelationID sets the correlation ID, generating one when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	s := ScopeFromContext(ctx)
	s.CorrelationID = id
	return WithScope(ctx, s)
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return ScopeFromContext(ctx).CorrelationID
}

// WithRequestID sets the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	s := ScopeFromContext(ctx)
	s.RequestID = id
	return WithScope(ctx, s)
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	return ScopeFromContext(ctx).RequestID
}

// WithOperation names the operation in progress, e.g. "taskpilot task add".
func WithOperation(ctx context.Context, operation string) context.Context {
	s := ScopeFromContext(ctx)
	s.Operation = operation
	return WithScope(ctx, s)
}
