package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoToolCall indicates the model answered without calling the forced tool.
var ErrNoToolCall = errors.New("no tool call in completion")

// ToolArguments returns the raw JSON arguments of the first call to the named tool.
func (c *Completion) ToolArguments(toolName string) (string, error) {
	if c == nil {
		return "", errors.New("completion cannot be nil")
	}

	for _, call := range c.ToolCalls {
		if call.Name == toolName {
			return call.Arguments, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoToolCall, toolName)
}

// DecodeField unmarshals the wrapped field of the named tool call into out.
func (c *Completion) DecodeField(toolName, fieldName string, out any) error {
	raw, err := c.ToolArguments(toolName)
	if err != nil {
		return err
	}

	var args map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return fmt.Errorf("failed to decode tool arguments: %w", err)
	}

	value, ok := args[fieldName]
	if !ok {
		return fmt.Errorf("tool arguments missing field %q", fieldName)
	}

	if err := json.Unmarshal(value, out); err != nil {
		return fmt.Errorf("failed to decode field %q: %w", fieldName, err)
	}

	return nil
}
