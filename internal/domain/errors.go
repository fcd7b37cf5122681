package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrBinding          = errors.New("argument binding failed")
	ErrUnsupportedType  = errors.New("unsupported type")
	ErrTemplate         = errors.New("template error")
	ErrTranscriptFormat = errors.New("malformed transcript")
	ErrDispatch         = errors.New("dispatch failed")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrPromptNotFound   = errors.New("prompt not found")
)

// BindingError reports call arguments that do not match a signature.
type BindingError struct {
	Func   string
	Param  string
	Reason string
}

func (e *BindingError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s: %s", ErrBinding, e.Func, e.Reason)
	}
	return fmt.Sprintf("%s: %s: parameter %q: %s", ErrBinding, e.Func, e.Param, e.Reason)
}

// Is reports whether target is ErrBinding.
func (e *BindingError) Is(target error) bool { return target == ErrBinding }

// UnsupportedTypeError reports a return type that has no JSON Schema.
type UnsupportedTypeError struct {
	Type   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%s: %s", ErrUnsupportedType, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", ErrUnsupportedType, e.Type, e.Reason)
}

// Is reports whether target is ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// TemplateError reports an undefined variable or a template syntax fault.
type TemplateError struct {
	Variable string
	Err      error
}

func (e *TemplateError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("%s: undefined variable %q: %v", ErrTemplate, e.Variable, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrTemplate, e.Err)
}

// Is reports whether target is ErrTemplate.
func (e *TemplateError) Is(target error) bool { return target == ErrTemplate }

// Unwrap returns the underlying template engine error.
func (e *TemplateError) Unwrap() error { return e.Err }

// TranscriptFormatError reports rendered text that does not split into role/content pairs.
type TranscriptFormatError struct {
	Reason string
}

func (e *TranscriptFormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTranscriptFormat, e.Reason)
}

// Is reports whether target is ErrTranscriptFormat.
func (e *TranscriptFormatError) Is(target error) bool { return target == ErrTranscriptFormat }

// DispatchError wraps a transport failure verbatim.
type DispatchError struct {
	Dispatcher string
	Err        error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s via %s: %v", ErrDispatch, e.Dispatcher, e.Err)
}

// Is reports whether target is ErrDispatch.
func (e *DispatchError) Is(target error) bool { return target == ErrDispatch }

// Unwrap returns the transport error.
func (e *DispatchError) Unwrap() error { return e.Err }
