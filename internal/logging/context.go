package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// correlation is what the API client knows about the call in flight.
type correlation struct {
	requestID string
	userID    string
}

type correlationKey struct{}

func correlationFrom(ctx context.Context) correlation {
	c, _ := ctx.Value(correlationKey{}).(correlation)
	return c
}

// WithRequestID tags ctx with the X-Request-ID sent to the API.
func WithRequestID(ctx context.Context, id string) context.Context {
	c := correlationFrom(ctx)
	c.requestID = id
	return context.WithValue(ctx, correlationKey{}, c)
}

// WithUserID tags ctx with the signed-in user. An empty id is ignored.
func WithUserID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	c := correlationFrom(ctx)
	c.userID = id
	return context.WithValue(ctx, correlationKey{}, c)
}

// RequestIDFromContext returns the request ID set by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	return correlationFrom(ctx).requestID
}

// UserIDFromContext returns the user ID set by WithUserID.
func UserIDFromContext(ctx context.Context) string {
	return correlationFrom(ctx).userID
}

// ContextFields returns the trace, request and user fields found in ctx.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()))
	}
	c := correlationFrom(ctx)
	if c.requestID != "" {
		fields = append(fields, zap.String("request.id", c.requestID))
	}
	if c.userID != "" {
		fields = append(fields, zap.String("user.id", c.userID))
	}
	return fields
}
