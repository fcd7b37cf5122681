package schema

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/davidbz/promptc/internal/domain"
)

const (
	// DefaultToolName is the name of the derived response tool.
	DefaultToolName = "FormatResponse"

	// DefaultFieldName is the property wrapping the response value.
	DefaultFieldName = "data"
)

// Derive builds the tool definition whose only parameter, field, holds a value of target.
// An empty description is omitted from the definition.
func Derive(target reflect.Type, name, description, field string) (domain.FunctionDefinition, error) {
	if name == "" {
		name = DefaultToolName
	}
	if field == "" {
		field = DefaultFieldName
	}

	value, err := For(target)
	if err != nil {
		return domain.FunctionDefinition{}, fmt.Errorf("failed to derive %s: %w", name, err)
	}
	value.Title = Title(field)

	def := domain.FunctionDefinition{
		Name:        name,
		Description: nil,
		Parameters: &domain.Schema{
			Title:      name,
			Type:       "object",
			Properties: map[string]*domain.Schema{field: value},
			Required:   []string{field},
		},
	}
	if description != "" {
		def.Description = &description
	}

	return def, nil
}

// TypeOf returns the reflect.Type of T, unwrapping interface types.
//
// TypeOf[any]() returns the interface type itself, which For rejects.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// IsUnsupported reports whether err means the type has no schema.
func IsUnsupported(err error) bool {
	return errors.Is(err, domain.ErrUnsupportedType)
}
