package signature

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Arguments is the ordered mapping of parameter names to bound values.
type Arguments struct {
	names  []string
	values map[string]any
}

// Names returns the parameter names in declaration order.
func (a *Arguments) Names() []string {
	return append([]string(nil), a.names...)
}

// Get returns the value bound to name.
func (a *Arguments) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Len returns the number of bound parameters.
func (a *Arguments) Len() int {
	return len(a.names)
}

// Map returns a copy of the bindings.
func (a *Arguments) Map() map[string]any {
	out := make(map[string]any, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the bindings as an object in declaration order.
func (a *Arguments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range a.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal argument name: %w", err)
		}
		value, err := json.Marshal(a.values[name])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal argument %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
