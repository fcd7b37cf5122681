// Package schema derives JSON Schemas from Go types and wraps them into
// forced-call tool definitions.
//
// Supported shapes: booleans, integers, floats, strings, []byte, time.Time,
// slices and arrays, maps keyed by strings or integers, structs and pointers
// to any of these. Interfaces, channels, funcs, complex numbers and recursive
// structs have no schema.
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/davidbz/promptc/internal/domain"
)

//nolint:gochecknoglobals // Type identity lookups
var (
	timeType  = reflect.TypeOf(time.Time{})
	bytesType = reflect.TypeOf([]byte(nil))
)

// For returns the JSON Schema describing values of type t.
func For(t reflect.Type) (*domain.Schema, error) {
	if t == nil {
		return nil, &domain.UnsupportedTypeError{Type: "", Reason: "type is not declared"}
	}

	v := visitor{inProgress: make(map[reflect.Type]bool)}
	return v.visit(t)
}

type visitor struct {
	inProgress map[reflect.Type]bool
}

func (v *visitor) visit(t reflect.Type) (*domain.Schema, error) {
	switch {
	case t == timeType:
		return &domain.Schema{Type: "string", Format: "date-time"}, nil
	case t == bytesType:
		return &domain.Schema{Type: "string", Format: "binary"}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return &domain.Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &domain.Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &domain.Schema{Type: "number"}, nil
	case reflect.String:
		return &domain.Schema{Type: "string"}, nil
	case reflect.Pointer:
		return v.visit(t.Elem())
	case reflect.Slice, reflect.Array:
		items, err := v.visit(t.Elem())
		if err != nil {
			return nil, err
		}
		return &domain.Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		return v.visitMap(t)
	case reflect.Struct:
		return v.visitStruct(t)
	default:
		return nil, &domain.UnsupportedTypeError{
			Type:   t.String(),
			Reason: fmt.Sprintf("%s values have no JSON Schema", t.Kind()),
		}
	}
}

func (v *visitor) visitMap(t reflect.Type) (*domain.Schema, error) {
	switch t.Key().Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return nil, &domain.UnsupportedTypeError{
			Type:   t.String(),
			Reason: "map keys must be strings or integers",
		}
	}

	values, err := v.visit(t.Elem())
	if err != nil {
		return nil, err
	}

	return &domain.Schema{Type: "object", AdditionalProperties: values}, nil
}

func (v *visitor) visitStruct(t reflect.Type) (*domain.Schema, error) {
	if v.inProgress[t] {
		return nil, &domain.UnsupportedTypeError{Type: t.String(), Reason: "recursive types are not supported"}
	}
	v.inProgress[t] = true
	defer delete(v.inProgress, t)

	out := &domain.Schema{
		Title:      t.Name(),
		Type:       "object",
		Properties: make(map[string]*domain.Schema),
	}

	if err := v.addFields(out, t); err != nil {
		return nil, err
	}

	return out, nil
}

// addFields adds t's exported fields to out, flattening untagged embedded structs.
func (v *visitor) addFields(out *domain.Schema, t reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		name, optional, skip := jsonName(field)
		if skip {
			continue
		}

		if field.Anonymous && field.Tag.Get("json") == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				if err := v.addFields(out, embedded); err != nil {
					return err
				}
				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		prop, err := v.visit(field.Type)
		if err != nil {
			return err
		}

		prop.Title = Title(name)
		if desc := fieldDescription(field); desc != "" {
			prop.Description = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" {
			for _, value := range strings.Split(enum, ",") {
				prop.Enum = append(prop.Enum, strings.TrimSpace(value))
			}
		}

		out.Properties[name] = prop
		if !optional && field.Type.Kind() != reflect.Pointer {
			out.Required = append(out.Required, name)
		}
	}

	return nil
}

func jsonName(field reflect.StructField) (string, bool, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}

	return name, strings.Contains(opts, "omitempty"), false
}

func fieldDescription(field reflect.StructField) string {
	if desc := field.Tag.Get("description"); desc != "" {
		return desc
	}
	return field.Tag.Get("jsonschema")
}

// Title turns a field name into a human title: "first_name" -> "First Name".
func Title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
