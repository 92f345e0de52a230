package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strconv"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"go.opentelemetry.io/otel/trace"
)

// ContextKey is the type of the context keys owned by this package.
type ContextKey string

const (
	// IdentityContextKey is the context key for the authenticated Identity.
	IdentityContextKey ContextKey = "identity"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate a trace ID.
	TraceIDLength = 16 // 32 hex characters
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID   int64
	Username string
	Role     domain.Role
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, id)
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityContextKey).(Identity)
	if !ok || id.UserID <= 0 {
		return Identity{}, false
	}
	return id, true
}

// SetTraceID adds a trace ID to the context. When an OpenTelemetry span is
// active its trace ID is reused, so logs and traces correlate.
func SetTraceID(ctx context.Context) context.Context {
	traceID := ""
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	} else {
		traceID = generateTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		slog.Error("failed to generate random trace ID", slog.String("error", err.Error()))
		return "t" + strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(b)
}
