package promptfn

import (
	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/signature"
)

type settings struct {
	cfg        Config
	serialize  bool
	dispatcher domain.Dispatcher
	defaults   domain.ChatDefaults
	sigOpts    []signature.Option
}

// Option configures a wrapped function.
type Option func(*settings)

// WithTemplate uses template instead of the doc comment.
func WithTemplate(template string) Option {
	return func(s *settings) { s.cfg.Template = template }
}

// WithRoles sets the roles recognized in the template.
func WithRoles(roles ...string) Option {
	return func(s *settings) { s.cfg.Roles = roles }
}

// WithToolName names the forced response tool.
func WithToolName(name string) Option {
	return func(s *settings) { s.cfg.ToolName = name }
}

// WithToolDescription describes the forced response tool.
func WithToolDescription(description string) Option {
	return func(s *settings) { s.cfg.ToolDescription = description }
}

// WithFieldName names the property wrapping the response value.
func WithFieldName(field string) Option {
	return func(s *settings) { s.cfg.FieldName = field }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(s *settings) { s.cfg.MaxTokens = n }
}

// WithLogitBias biases token selection.
func WithLogitBias(bias domain.LogitBias) Option {
	return func(s *settings) { s.cfg.LogitBias = bias }
}

// WithSerialize controls whether Invoke returns the payload map or the *Request.
func WithSerialize(serialize bool) Option {
	return func(s *settings) { s.serialize = serialize }
}

// WithDispatcher sets the dispatcher used by Call.
func WithDispatcher(d domain.Dispatcher) Option {
	return func(s *settings) { s.dispatcher = d }
}

// WithDefaults sets the sampling parameters merged in at dispatch time.
func WithDefaults(defaults domain.ChatDefaults) Option {
	return func(s *settings) { s.defaults = defaults }
}

// WithSignature passes options to the signature description (names, defaults, doc).
func WithSignature(opts ...signature.Option) Option {
	return func(s *settings) { s.sigOpts = append(s.sigOpts, opts...) }
}
