// Package goopenai dispatches prompt requests through the community
// go-openai client. It speaks the same wire format as the official SDK
// dispatcher and is selected with DISPATCH_BACKEND=goopenai.
package goopenai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/observability"
)

const dispatcherName = "goopenai"

// Config contains go-openai client configuration.
type Config struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Timeout int    `env:"OPENAI_TIMEOUT"  envDefault:"60"`
}

// Dispatcher implements domain.Dispatcher with go-openai.
type Dispatcher struct {
	client *goopenai.Client
}

// NewDispatcher builds a dispatcher from cfg.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		apiCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}
	}

	return &Dispatcher{client: goopenai.NewClientWithConfig(apiCfg)}, nil
}

// Name returns the dispatcher identifier.
func (d *Dispatcher) Name() string {
	return dispatcherName
}

// Dispatch sends the chat request and returns the completion.
func (d *Dispatcher) Dispatch(ctx context.Context, req *domain.ChatRequest) (*domain.Completion, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling chat completions via go-openai")

	clientReq, err := toClientRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.CreateChatCompletion(ctx, clientReq)
	if err != nil {
		logger.Error("chat completion failed", observability.Error(err))
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return toDomainCompletion(resp), nil
}

func toClientRequest(req *domain.ChatRequest) (goopenai.ChatCompletionRequest, error) {
	messages := make([]goopenai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		out := goopenai.ChatCompletionMessage{Content: msg.Content}

		switch msg.Role {
		case domain.RoleSystem:
			out.Role = goopenai.ChatMessageRoleSystem
		case domain.RoleAssistant:
			out.Role = goopenai.ChatMessageRoleAssistant
		case domain.RoleUser:
			out.Role = goopenai.ChatMessageRoleUser
		default:
			return goopenai.ChatCompletionRequest{}, fmt.Errorf("%w: role %q is not supported by %s",
				domain.ErrInvalidRequest, msg.Role, dispatcherName)
		}
		messages[i] = out
	}

	//nolint:exhaustruct // most request fields are optional
	out := goopenai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
		Stop:      req.Stop,
		User:      req.User,
	}

	for _, tool := range req.Tools {
		fn := &goopenai.FunctionDefinition{
			Name:       tool.Function.Name,
			Parameters: tool.Function.Parameters,
		}
		if tool.Function.Description != nil {
			fn.Description = *tool.Function.Description
		}
		out.Tools = append(out.Tools, goopenai.Tool{Type: goopenai.ToolTypeFunction, Function: fn})
	}

	if req.ToolChoice != nil {
		out.ToolChoice = goopenai.ToolChoice{
			Type:     goopenai.ToolTypeFunction,
			Function: goopenai.ToolFunction{Name: req.ToolChoice.Function.Name},
		}
	}

	if len(req.LogitBias) > 0 {
		out.LogitBias = make(map[string]int, len(req.LogitBias))
		for token, bias := range req.LogitBias {
			out.LogitBias[strconv.Itoa(token)] = int(math.Round(bias))
		}
	}

	if req.Temperature != nil {
		out.Temperature = nonZero32(*req.Temperature)
	}
	if req.TopP != nil {
		out.TopP = nonZero32(*req.TopP)
	}
	if req.FrequencyPenalty != nil {
		out.FrequencyPenalty = float32(*req.FrequencyPenalty)
	}
	if req.PresencePenalty != nil {
		out.PresencePenalty = float32(*req.PresencePenalty)
	}
	if req.N != nil {
		out.N = *req.N
	}
	if req.Seed != nil {
		seed := int(*req.Seed)
		out.Seed = &seed
	}
	if req.ResponseFormat != nil {
		out.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatType(req.ResponseFormat.Type),
		}
	}

	return out, nil
}

// nonZero32 keeps an explicit zero on the wire, where go-openai's omitempty would drop it.
func nonZero32(v float64) float32 {
	if v == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(v)
}

func toDomainCompletion(resp goopenai.ChatCompletionResponse) *domain.Completion {
	completion := &domain.Completion{
		ID:       resp.ID,
		Model:    resp.Model,
		Provider: dispatcherName,
		Usage: domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		FinishTime: time.Now(),
	}

	if len(resp.Choices) == 0 {
		return completion
	}

	choice := resp.Choices[0]
	completion.Content = choice.Message.Content
	completion.FinishReason = string(choice.FinishReason)
	for _, call := range choice.Message.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, domain.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	return completion
}
