// Package promptfn compiles Go functions into forced-tool-call chat requests.
//
// The wrapped function is a metadata source only: its doc comment (or an
// explicit template) becomes the transcript, its arguments become template
// variables and its return type becomes the schema of the single tool the
// model must call. The function body never runs.
package promptfn

import (
	"fmt"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/schema"
	"github.com/davidbz/promptc/internal/signature"
	"github.com/davidbz/promptc/internal/transcript"
)

// Reserved template variables.
const (
	VarArguments  = "_arguments"
	VarSourceCode = "_source_code"
)

// Config controls how a request is assembled.
type Config struct {
	Template        string   // overrides the doc comment when set
	Roles           []string // defaults to system, user
	ToolName        string   // defaults to FormatResponse
	ToolDescription string   // defaults to the doc comment
	FieldName       string   // defaults to data
	LogitBias       domain.LogitBias
	MaxTokens       int
}

// Build binds the arguments, renders the transcript and derives the response tool.
func Build(sig signature.Signature, args []any, kwargs map[string]any, cfg Config) (*domain.PromptRequest, error) {
	bound, err := sig.Bind(args, kwargs)
	if err != nil {
		return nil, err
	}

	content := cfg.Template
	if content == "" {
		content = sig.Doc
	}

	vars := bound.Map()
	vars[VarArguments] = bound.Map()
	vars[VarSourceCode] = sig.Source

	messages, err := transcript.New(content, cfg.Roles...).RenderToMessages(vars)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", sig.Name, err)
	}

	description := cfg.ToolDescription
	if description == "" {
		description = sig.Doc
	}

	def, err := schema.Derive(sig.Return, cfg.ToolName, description, cfg.FieldName)
	if err != nil {
		return nil, fmt.Errorf("return type of %s: %w", sig.Name, err)
	}

	req := &domain.PromptRequest{
		Messages: messages,
		Tools: []domain.Tool{
			{Type: domain.ToolTypeFunction, Function: def},
		},
		ToolChoice: &domain.ToolChoice{
			Type:     domain.ToolTypeFunction,
			Function: domain.ToolChoiceFunction{Name: def.Name},
		},
		LogitBias: cfg.LogitBias,
		MaxTokens: cfg.MaxTokens,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}
