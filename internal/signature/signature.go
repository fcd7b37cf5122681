// Package signature describes a function's parameters, doc comment and
// return type, and binds call-time arguments against that description.
package signature

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/davidbz/promptc/internal/domain"
)

// Param is one declared parameter.
type Param struct {
	Name       string
	Type       reflect.Type // nil accepts any value
	Default    any
	HasDefault bool
	Variadic   bool // collects the remaining positional arguments
}

// Signature is the metadata of a wrapped function. The function itself is never called.
type Signature struct {
	Name   string
	Doc    string
	Source string
	Params []Param
	Return reflect.Type // nil when the function declares no result
}

// Param returns the parameter with the given name.
func (s Signature) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Bind maps positional and keyword arguments onto the parameters and applies defaults.
func (s Signature) Bind(args []any, kwargs map[string]any) (*Arguments, error) {
	params := s.Params
	var variadic *Param
	if n := len(params); n > 0 && params[n-1].Variadic {
		variadic = &params[n-1]
		params = params[:n-1]
	}

	if len(args) > len(params) && variadic == nil {
		return nil, s.bindingError("", fmt.Sprintf("too many positional arguments: got %d, want at most %d",
			len(args), len(params)))
	}

	values := make(map[string]any, len(s.Params))

	for i, p := range params {
		if i >= len(args) {
			break
		}
		v, err := coerce(p.Type, args[i])
		if err != nil {
			return nil, s.bindingError(p.Name, err.Error())
		}
		values[p.Name] = v
	}

	if variadic != nil && len(args) > len(params) {
		v, err := collect(variadic.Type, args[len(params):])
		if err != nil {
			return nil, s.bindingError(variadic.Name, err.Error())
		}
		values[variadic.Name] = v
	}

	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		p, ok := s.Param(name)
		if !ok {
			return nil, s.bindingError(name, "unexpected keyword argument")
		}
		if _, dup := values[name]; dup {
			return nil, s.bindingError(name, "got multiple values")
		}
		v, err := coerce(p.Type, kwargs[name])
		if err != nil {
			return nil, s.bindingError(name, err.Error())
		}
		values[name] = v
	}

	names := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		names = append(names, p.Name)
		if _, ok := values[p.Name]; ok {
			continue
		}
		switch {
		case p.HasDefault:
			values[p.Name] = p.Default
		case p.Variadic:
			values[p.Name] = emptyVariadic(p.Type)
		default:
			return nil, s.bindingError(p.Name, "missing required argument")
		}
	}

	return &Arguments{names: names, values: values}, nil
}

func (s Signature) bindingError(param, reason string) error {
	return &domain.BindingError{Func: s.displayName(), Param: param, Reason: reason}
}

func (s Signature) displayName() string {
	if s.Name == "" {
		return "<func>"
	}
	return s.Name
}

// coerce converts v to t, going through JSON for values decoded from the wire
// (float64 for int parameters, map[string]any for structs).
func coerce(t reflect.Type, v any) (any, error) {
	if t == nil {
		return v, nil
	}

	if v == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
			return reflect.Zero(t).Interface(), nil
		default:
			return nil, fmt.Errorf("nil is not a valid %s", t)
		}
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return v, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cannot use %T as %s", v, t)
	}

	target := reflect.New(t)
	if err := json.Unmarshal(data, target.Interface()); err != nil {
		return nil, fmt.Errorf("cannot use %T as %s", v, t)
	}

	return target.Elem().Interface(), nil
}

func collect(sliceType reflect.Type, args []any) (any, error) {
	if sliceType == nil {
		return append([]any(nil), args...), nil
	}

	out := reflect.MakeSlice(sliceType, 0, len(args))
	for i, arg := range args {
		v, err := coerce(sliceType.Elem(), arg)
		if err != nil {
			return nil, fmt.Errorf("variadic argument %d: %w", i, err)
		}
		if v == nil {
			out = reflect.Append(out, reflect.Zero(sliceType.Elem()))
			continue
		}
		out = reflect.Append(out, reflect.ValueOf(v))
	}

	return out.Interface(), nil
}

func emptyVariadic(sliceType reflect.Type) any {
	if sliceType == nil {
		return []any{}
	}
	return reflect.MakeSlice(sliceType, 0, 0).Interface()
}
