package domain

import "context"

// Dispatcher sends an assembled chat request to a model provider.
type Dispatcher interface {
	// Dispatch performs the network call and blocks until it completes or fails.
	Dispatch(ctx context.Context, req *ChatRequest) (*Completion, error)

	// Name returns the dispatcher identifier.
	Name() string
}

// PromptFunc is a compiled-on-call prompt function.
type PromptFunc interface {
	// Name returns the wrapped function's name.
	Name() string

	// Compile binds the arguments and assembles the prompt request.
	Compile(args []any, kwargs map[string]any) (*PromptRequest, error)

	// ToolName returns the name of the forced response tool.
	ToolName() string

	// FieldName returns the property wrapping the response value.
	FieldName() string

	// Roles returns the role markers recognized in the rendered transcript.
	Roles() []string
}

// PromptRegistry manages the prompt functions exposed over HTTP.
type PromptRegistry interface {
	// Register adds a prompt function to the registry.
	Register(ctx context.Context, fn PromptFunc) error

	// Get retrieves a prompt function by name.
	Get(ctx context.Context, name string) (PromptFunc, error)

	// List returns all registered prompt function names.
	List(ctx context.Context) ([]string, error)
}
