// Package openai dispatches compiled prompt requests through the official
// OpenAI SDK. It implements domain.Dispatcher and converts between domain
// types and SDK types, including the forced tool choice.
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/observability"
)

const dispatcherName = "openai"

// Config configures the SDK client. Timeout is in seconds.
type Config struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"OPENAI_BASE_URL"    envDefault:"https://api.openai.com/v1"`
	Timeout    int    `env:"OPENAI_TIMEOUT"     envDefault:"60"`
	MaxRetries int    `env:"OPENAI_MAX_RETRIES" envDefault:"3"`
}

// Dispatcher implements the domain.Dispatcher interface for OpenAI.
type Dispatcher struct {
	client openai.Client
	name   string
}

// NewDispatcher creates a new OpenAI dispatcher.
func NewDispatcher(config Config) (*Dispatcher, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	if config.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(config.MaxRetries))
	}

	return &Dispatcher{
		client: openai.NewClient(opts...),
		name:   dispatcherName,
	}, nil
}

// Dispatch sends the chat request and returns the completion.
func (d *Dispatcher) Dispatch(ctx context.Context, req *domain.ChatRequest) (*domain.Completion, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI API")

	// Convert domain request to SDK parameters
	params, err := toSDKParams(req)
	if err != nil {
		return nil, err
	}

	// Call OpenAI SDK
	resp, err := d.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenAI API call failed", observability.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	logger.Debug("OpenAI API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	// Convert SDK response to domain response
	return d.toDomainCompletion(resp), nil
}

// Name returns the dispatcher identifier.
func (d *Dispatcher) Name() string {
	return d.name
}

// toSDKParams converts domain request to SDK ChatCompletionNewParams
func toSDKParams(req *domain.ChatRequest) (openai.ChatCompletionNewParams, error) {
	// Convert messages
	messages := make([]openai.ChatCompletionMessageParamUnion, len(req.Messages))
	for i, msg := range req.Messages {
		switch msg.Role {
		case domain.RoleUser:
			messages[i] = openai.UserMessage(msg.Content)
		case domain.RoleAssistant:
			messages[i] = openai.AssistantMessage(msg.Content)
		case domain.RoleSystem:
			messages[i] = openai.SystemMessage(msg.Content)
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("%w: role %q is not supported by %s",
				domain.ErrInvalidRequest, msg.Role, dispatcherName)
		}
	}

	//nolint:exhaustruct // OpenAI SDK struct has many optional fields
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}

	tools, err := toSDKTools(req.Tools)
	if err != nil {
		return params, err
	}
	params.Tools = tools

	if req.ToolChoice != nil {
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
					Name: req.ToolChoice.Function.Name,
				},
			},
		}
	}

	if len(req.LogitBias) > 0 {
		params.LogitBias = make(map[string]int64, len(req.LogitBias))
		for token, bias := range req.LogitBias {
			params.LogitBias[fmt.Sprint(token)] = int64(math.Round(bias))
		}
	}

	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	if req.FrequencyPenalty != nil {
		params.FrequencyPenalty = openai.Float(*req.FrequencyPenalty)
	}
	if req.PresencePenalty != nil {
		params.PresencePenalty = openai.Float(*req.PresencePenalty)
	}
	if req.N != nil {
		params.N = openai.Int(int64(*req.N))
	}
	if req.Seed != nil {
		params.Seed = openai.Int(*req.Seed)
	}
	if req.User != "" {
		params.User = openai.String(req.User)
	}
	if len(req.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: req.Stop}
	}
	if req.ResponseFormat != nil {
		switch req.ResponseFormat.Type {
		case "json_object":
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
			}
		case "text":
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfText: &openai.ResponseFormatTextParam{},
			}
		default:
			return params, fmt.Errorf("unsupported response format: %s", req.ResponseFormat.Type)
		}
	}

	return params, nil
}

func toSDKTools(tools []domain.Tool) ([]openai.ChatCompletionToolParam, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, tool := range tools {
		parameters, err := tool.Function.Parameters.Map()
		if err != nil {
			return nil, fmt.Errorf("invalid parameters for tool %s: %w", tool.Function.Name, err)
		}

		//nolint:exhaustruct // Strict is left unset
		def := openai.FunctionDefinitionParam{
			Name:       tool.Function.Name,
			Parameters: openai.FunctionParameters(parameters),
		}
		if tool.Function.Description != nil {
			def.Description = openai.String(*tool.Function.Description)
		}

		out = append(out, openai.ChatCompletionToolParam{Function: def})
	}

	return out, nil
}

// toDomainCompletion converts SDK response to domain completion
func (d *Dispatcher) toDomainCompletion(resp *openai.ChatCompletion) *domain.Completion {
	completion := &domain.Completion{
		ID:       resp.ID,
		Model:    resp.Model,
		Provider: d.name,
		Usage: domain.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
		FinishTime: time.Now(),
	}

	if len(resp.Choices) == 0 {
		return completion
	}

	choice := resp.Choices[0]
	completion.Content = choice.Message.Content
	completion.FinishReason = choice.FinishReason
	for _, call := range choice.Message.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, domain.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	return completion
}
