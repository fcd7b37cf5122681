package observability

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	promptKey    contextKey = "prompt"
	modelKey     contextKey = "model"
)

// loggedKeys are copied onto every logger built by FromContext, in this order.
var loggedKeys = []contextKey{requestIDKey, promptKey, modelKey}

// WithRequestID tags ctx with the HTTP request identifier.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithPrompt tags ctx with the prompt function being compiled or called.
func WithPrompt(ctx context.Context, prompt string) context.Context {
	return context.WithValue(ctx, promptKey, prompt)
}

// WithModel tags ctx with the model a request is dispatched to.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, modelKey, model)
}

// GetRequestID returns the request identifier, or "".
func GetRequestID(ctx context.Context) string {
	return lookup(ctx, requestIDKey)
}

// GetPrompt returns the prompt function name, or "".
func GetPrompt(ctx context.Context) string {
	return lookup(ctx, promptKey)
}

// NewRequestID returns a fresh request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

func lookup(ctx context.Context, key contextKey) string {
	value, _ := ctx.Value(key).(string)
	return value
}

func contextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, len(loggedKeys))
	for _, key := range loggedKeys {
		if value := lookup(ctx, key); value != "" {
			fields = append(fields, zap.String(string(key), value))
		}
	}
	return fields
}
