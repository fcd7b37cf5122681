package domain

import "time"

// Default roles recognized by a transcript, in matching precedence order.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolTypeFunction is the only tool type a prompt request carries.
const ToolTypeFunction = "function"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// FunctionDefinition describes the single function the model is forced to call.
type FunctionDefinition struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters"`
}

// Tool wraps a function definition in the chat-completions tool envelope.
type Tool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// ToolChoice forces the model to call one named function.
type ToolChoice struct {
	Type     string             `json:"type"`
	Function ToolChoiceFunction `json:"function"`
}

// ToolChoiceFunction names the forced function.
type ToolChoiceFunction struct {
	Name string `json:"name"`
}

// LogitBias maps token IDs to a bias in [-100, 100].
type LogitBias map[int]float64

// ResponseFormat selects the provider's response format (e.g. "json_object").
type ResponseFormat struct {
	Type string `json:"type"`
}

// Completion represents a provider-neutral chat completion response.
type Completion struct {
	ID           string     `json:"id"`
	Model        string     `json:"model"`
	Provider     string     `json:"provider"`
	Content      string     `json:"content"`
	FinishReason string     `json:"finish_reason,omitempty"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	Usage        Usage      `json:"usage"`
	FinishTime   time.Time  `json:"finish_time"`
}

// ToolCall is a single function call emitted by the model.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON object
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
