// Package echo provides an offline dispatcher that never leaves the process.
// It echoes the transcript back as content and answers a forced tool call
// with the placeholder value of the tool's schema, so prompts can be called
// end to end without an API key.
package echo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/observability"
)

const dispatcherName = "echo"

// Dispatcher implements domain.Dispatcher without external calls.
type Dispatcher struct{}

// NewDispatcher creates a new echo dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Name returns the dispatcher identifier.
func (d *Dispatcher) Name() string {
	return dispatcherName
}

// Dispatch echoes req back as a completion.
func (d *Dispatcher) Dispatch(ctx context.Context, req *domain.ChatRequest) (*domain.Completion, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	content := buildEchoContent(req.Messages)
	promptTokens := countTokens(content)

	completion := &domain.Completion{
		ID:           "echo-" + uuid.NewString(),
		Model:        req.Model,
		Provider:     dispatcherName,
		Content:      content,
		FinishReason: "stop",
		FinishTime:   time.Now(),
	}

	if tool, ok := req.ForcedTool(); ok {
		args, err := toolArguments(tool.Function.Parameters)
		if err != nil {
			return nil, err
		}
		completion.Content = ""
		completion.FinishReason = "tool_calls"
		completion.ToolCalls = []domain.ToolCall{{
			ID:        "call-" + uuid.NewString(),
			Name:      tool.Function.Name,
			Arguments: args,
		}}
	}

	completionTokens := countTokens(completion.Content) + countTokens(toolText(completion.ToolCalls))
	completion.Usage = domain.Usage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	}

	observability.FromContext(ctx).Debug("echo completed",
		observability.Int("prompt_tokens", promptTokens),
		observability.Int("tool_calls", len(completion.ToolCalls)),
	)

	return completion, nil
}

// toolArguments builds the JSON arguments of a call to a tool with the given parameters.
func toolArguments(params *domain.Schema) (string, error) {
	data, err := json.Marshal(placeholder(params))
	if err != nil {
		return "", fmt.Errorf("failed to encode echo arguments: %w", err)
	}
	return string(data), nil
}

// placeholder returns the simplest value that validates against s: the first
// enum member, zero scalars, empty arrays and objects holding their required properties.
func placeholder(s *domain.Schema) any {
	if s == nil {
		return map[string]any{}
	}
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}

	switch s.Type {
	case "object":
		out := map[string]any{}
		for _, name := range s.Required {
			out[name] = placeholder(s.Properties[name])
		}
		return out
	case "array":
		return []any{}
	case "string":
		return ""
	case "integer", "number":
		return 0
	case "boolean":
		return false
	default:
		return nil
	}
}

// buildEchoContent constructs the echo response from request messages.
func buildEchoContent(messages []domain.Message) string {
	var builder strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&builder, "[%s]: %s\n", msg.Role, msg.Content)
	}
	return builder.String()
}

func toolText(calls []domain.ToolCall) string {
	parts := make([]string, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, call.Arguments)
	}
	return strings.Join(parts, " ")
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int {
	return len(strings.Fields(content))
}
