package domain

import (
	"encoding/json"
	"fmt"
)

const (
	minPenalty     = -2.0
	maxPenalty     = 2.0
	maxTemperature = 2.0
	maxTopP        = 1.0
)

// PromptRequest is the compiled prompt: messages plus the forced response tool.
type PromptRequest struct {
	Messages   []Message   `json:"messages"`
	Tools      []Tool      `json:"tools,omitempty"`
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`
	LogitBias  LogitBias   `json:"logit_bias,omitempty"`
	MaxTokens  int         `json:"max_tokens,omitempty"`
}

// Validate checks the forced tool-choice invariant and field bounds.
func (p *PromptRequest) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}

	if p.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens must be >= 1", ErrInvalidRequest)
	}

	if len(p.Tools) == 0 {
		return nil
	}

	if p.ToolChoice == nil {
		return fmt.Errorf("%w: tools require a forced tool_choice", ErrInvalidRequest)
	}

	matches := 0
	for _, tool := range p.Tools {
		if tool.Function.Name == p.ToolChoice.Function.Name {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("%w: tool_choice %q must name exactly one listed tool",
			ErrInvalidRequest, p.ToolChoice.Function.Name)
	}

	return nil
}

// Serialize returns the request as a plain mapping with unset fields omitted.
func (p *PromptRequest) Serialize() (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt request: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompt request: %w", err)
	}

	return out, nil
}

// ForcedTool returns the tool named by tool_choice, if any.
func (p *PromptRequest) ForcedTool() (Tool, bool) {
	if p.ToolChoice == nil {
		return Tool{}, false
	}
	for _, tool := range p.Tools {
		if tool.Function.Name == p.ToolChoice.Function.Name {
			return tool, true
		}
	}
	return Tool{}, false
}

// ChatDefaults holds the model-level sampling parameters merged in at dispatch time.
type ChatDefaults struct {
	Model            string   `env:"OPENAI_MODEL"           envDefault:"gpt-4o-mini"`
	Temperature      float64  `env:"CHAT_TEMPERATURE"       envDefault:"1"`
	TopP             float64  `env:"CHAT_TOP_P"             envDefault:"1"`
	N                int      `env:"CHAT_N"                 envDefault:"1"`
	FrequencyPenalty float64  `env:"CHAT_FREQUENCY_PENALTY" envDefault:"0"`
	PresencePenalty  float64  `env:"CHAT_PRESENCE_PENALTY"  envDefault:"0"`
	Seed             *int64   `env:"CHAT_SEED"`
	Stop             []string `env:"CHAT_STOP"              envSeparator:","`
	User             string   `env:"CHAT_USER"`
}

// ChatRequest is a prompt request plus model and sampling parameters.
type ChatRequest struct {
	PromptRequest

	Model            string          `json:"model"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	N                *int            `json:"n,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	ResponseFormat   *ResponseFormat `json:"response_format,omitempty"`
	Seed             *int64          `json:"seed,omitempty"`
	Stop             []string        `json:"stop,omitempty"`
	Stream           bool            `json:"stream,omitempty"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	User             string          `json:"user,omitempty"`
}

// NewChatRequest merges a compiled prompt with the sampling defaults.
func NewChatRequest(prompt PromptRequest, defaults ChatDefaults) *ChatRequest {
	temperature := defaults.Temperature
	topP := defaults.TopP
	n := defaults.N
	frequencyPenalty := defaults.FrequencyPenalty
	presencePenalty := defaults.PresencePenalty

	req := &ChatRequest{
		PromptRequest:    prompt,
		Model:            defaults.Model,
		FrequencyPenalty: &frequencyPenalty,
		N:                &n,
		PresencePenalty:  &presencePenalty,
		ResponseFormat:   nil,
		Seed:             nil,
		Stop:             defaults.Stop,
		Stream:           false,
		Temperature:      &temperature,
		TopP:             &topP,
		User:             defaults.User,
	}

	if defaults.Seed != nil {
		seed := *defaults.Seed
		req.Seed = &seed
	}

	return req
}

// Validate checks the prompt invariants and the sampling parameter ranges.
func (c *ChatRequest) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}

	if err := c.PromptRequest.Validate(); err != nil {
		return err
	}

	if c.Model == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrInvalidRequest)
	}

	if err := checkRange("frequency_penalty", c.FrequencyPenalty, minPenalty, maxPenalty); err != nil {
		return err
	}
	if err := checkRange("presence_penalty", c.PresencePenalty, minPenalty, maxPenalty); err != nil {
		return err
	}
	if err := checkRange("temperature", c.Temperature, 0, maxTemperature); err != nil {
		return err
	}
	if err := checkRange("top_p", c.TopP, 0, maxTopP); err != nil {
		return err
	}

	if c.N != nil && *c.N < 1 {
		return fmt.Errorf("%w: n must be >= 1", ErrInvalidRequest)
	}

	return nil
}

func checkRange(field string, value *float64, lo, hi float64) error {
	if value == nil {
		return nil
	}
	if *value < lo || *value > hi {
		return fmt.Errorf("%w: %s must be within [%g, %g], got %g", ErrInvalidRequest, field, lo, hi, *value)
	}
	return nil
}
