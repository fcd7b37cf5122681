package promptfn

import (
	"context"
	"fmt"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/schema"
	"github.com/davidbz/promptc/internal/signature"
	"github.com/davidbz/promptc/internal/transcript"
)

// KeywordArg passes an argument by parameter name.
type KeywordArg struct {
	Name  string
	Value any
}

// Kw returns a keyword argument for Build, Invoke and Call.
func Kw(name string, value any) KeywordArg {
	return KeywordArg{Name: name, Value: value}
}

// DefaultChatDefaults returns the sampling parameters used when none are configured.
func DefaultChatDefaults() domain.ChatDefaults {
	return domain.ChatDefaults{
		Model:            "gpt-4o-mini",
		Temperature:      1,
		TopP:             1,
		N:                1,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		Seed:             nil,
		Stop:             nil,
		User:             "",
	}
}

// Fn wraps a function so that calling it compiles a prompt request instead of running it.
type Fn struct {
	sig        signature.Signature
	cfg        Config
	serialize  bool
	dispatcher domain.Dispatcher
	defaults   domain.ChatDefaults
}

// New wraps fn. Without options it uses the doc comment as template, the
// default tool and field names, and serializes on Invoke.
func New(fn any, opts ...Option) (*Fn, error) {
	s := settings{
		cfg:        Config{},
		serialize:  true,
		dispatcher: nil,
		defaults:   DefaultChatDefaults(),
		sigOpts:    nil,
	}
	for _, opt := range opts {
		opt(&s)
	}

	sig, err := signature.FromFunc(fn, s.sigOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to describe prompt function: %w", err)
	}

	if s.cfg.ToolName == "" {
		s.cfg.ToolName = schema.DefaultToolName
	}
	if s.cfg.FieldName == "" {
		s.cfg.FieldName = schema.DefaultFieldName
	}

	return &Fn{
		sig:        sig,
		cfg:        s.cfg,
		serialize:  s.serialize,
		dispatcher: s.dispatcher,
		defaults:   s.defaults,
	}, nil
}

// MustNew is like New but panics on error. For package-level prompt declarations.
func MustNew(fn any, opts ...Option) *Fn {
	f, err := New(fn, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Name returns the wrapped function's name.
func (f *Fn) Name() string {
	return f.sig.Name
}

// Signature returns the wrapped function's metadata.
func (f *Fn) Signature() signature.Signature {
	return f.sig
}

// ToolName returns the name of the forced response tool.
func (f *Fn) ToolName() string {
	return f.cfg.ToolName
}

// FieldName returns the property wrapping the response value.
func (f *Fn) FieldName() string {
	return f.cfg.FieldName
}

// Roles returns the role markers recognized in the rendered transcript.
func (f *Fn) Roles() []string {
	if len(f.cfg.Roles) == 0 {
		return transcript.DefaultRoles()
	}
	return append([]string(nil), f.cfg.Roles...)
}

// Compile assembles the prompt request for explicit positional and keyword arguments.
func (f *Fn) Compile(args []any, kwargs map[string]any) (*domain.PromptRequest, error) {
	return Build(f.sig, args, kwargs, f.cfg)
}

// Build compiles the request, keeping it callable.
func (f *Fn) Build(args ...any) (*Request, error) {
	positional, kwargs := splitArgs(args)

	req, err := f.Compile(positional, kwargs)
	if err != nil {
		return nil, err
	}

	return &Request{
		PromptRequest: *req,
		dispatcher:    f.dispatcher,
		defaults:      f.defaults,
	}, nil
}

// Invoke compiles the request and returns the serialized payload
// (map[string]any), or the *Request when serialization is disabled.
func (f *Fn) Invoke(args ...any) (any, error) {
	req, err := f.Build(args...)
	if err != nil {
		return nil, err
	}

	if !f.serialize {
		return req, nil
	}

	return req.Serialize()
}

// Call compiles the request and dispatches it.
func (f *Fn) Call(ctx context.Context, args ...any) (*domain.Completion, error) {
	req, err := f.Build(args...)
	if err != nil {
		return nil, err
	}

	return req.Call(ctx)
}

// Decode calls f and decodes the forced tool call's field into a T.
func Decode[T any](ctx context.Context, f *Fn, args ...any) (T, error) {
	var out T

	completion, err := f.Call(ctx, args...)
	if err != nil {
		return out, err
	}

	if err := completion.DecodeField(f.ToolName(), f.FieldName(), &out); err != nil {
		return out, fmt.Errorf("failed to decode %s response: %w", f.Name(), err)
	}

	return out, nil
}

func splitArgs(args []any) ([]any, map[string]any) {
	var (
		positional []any
		kwargs     map[string]any
	)
	for _, arg := range args {
		kw, ok := arg.(KeywordArg)
		if !ok {
			positional = append(positional, arg)
			continue
		}
		if kwargs == nil {
			kwargs = make(map[string]any)
		}
		kwargs[kw.Name] = kw.Value
	}
	return positional, kwargs
}
