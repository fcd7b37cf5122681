package signature

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"runtime"
	"strings"
)

//nolint:gochecknoglobals // Type identity lookup
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Option overrides metadata that reflection or source parsing cannot provide.
type Option func(*Signature) error

// WithName sets the function name.
func WithName(name string) Option {
	return func(s *Signature) error {
		s.Name = name
		return nil
	}
}

// WithNames sets the parameter names in declaration order.
func WithNames(names ...string) Option {
	return func(s *Signature) error {
		if len(names) != len(s.Params) {
			return fmt.Errorf("expected %d parameter names, got %d", len(s.Params), len(names))
		}
		for i, name := range names {
			s.Params[i].Name = name
		}
		return nil
	}
}

// WithDefault gives the named parameter a default value.
func WithDefault(name string, value any) Option {
	return func(s *Signature) error {
		for i := range s.Params {
			if s.Params[i].Name == name {
				s.Params[i].Default = value
				s.Params[i].HasDefault = true
				return nil
			}
		}
		return fmt.Errorf("no parameter named %q", name)
	}
}

// WithDoc sets the doc comment.
func WithDoc(doc string) Option {
	return func(s *Signature) error {
		s.Doc = doc
		return nil
	}
}

// WithSource sets the function source text.
func WithSource(source string) Option {
	return func(s *Signature) error {
		s.Source = source
		return nil
	}
}

// WithReturn overrides the declared return type.
func WithReturn(t reflect.Type) Option {
	return func(s *Signature) error {
		s.Return = t
		return nil
	}
}

// FromFunc describes fn. Parameter types and the return type come from
// reflection; names, doc comment and source come from fn's source file when
// it can be read, and otherwise default to arg0, arg1, ... and empty text.
// Options are applied last.
func FromFunc(fn any, opts ...Option) (Signature, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return Signature{}, fmt.Errorf("expected a function, got %T", fn)
	}

	ft := rv.Type()
	sig := Signature{
		Name:   "",
		Doc:    "",
		Source: "",
		Params: make([]Param, ft.NumIn()),
		Return: returnType(ft),
	}
	for i := range sig.Params {
		sig.Params[i] = Param{
			Name:       fmt.Sprintf("arg%d", i),
			Type:       ft.In(i),
			Default:    nil,
			HasDefault: false,
			Variadic:   ft.IsVariadic() && i == ft.NumIn()-1,
		}
	}

	if rfn := runtime.FuncForPC(rv.Pointer()); rfn != nil {
		sig.Name = shortName(rfn.Name())
		file, line := rfn.FileLine(rfn.Entry())
		// Unreadable source leaves the reflected defaults in place.
		_ = loadSource(&sig, file, line)
	}

	for _, opt := range opts {
		if err := opt(&sig); err != nil {
			return Signature{}, fmt.Errorf("invalid signature option for %s: %w", sig.displayName(), err)
		}
	}

	return sig, nil
}

// returnType picks the first result that is not an error.
func returnType(ft reflect.Type) reflect.Type {
	for i := 0; i < ft.NumOut(); i++ {
		if out := ft.Out(i); out != errorType {
			return out
		}
	}
	return nil
}

// shortName trims the package path, type arguments and method-value suffix
// from a runtime name.
func shortName(full string) string {
	name := stripTypeArgs(full)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// stripTypeArgs removes every bracketed type-argument list, as in pkg.F[...].
func stripTypeArgs(name string) string {
	if !strings.Contains(name, "[") {
		return name
	}
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// loadSource parses file and fills names, doc and source from the innermost
// function declaration or literal spanning line.
func loadSource(sig *Signature, file string, line int) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, file, src, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("failed to parse source: %w", err)
	}

	var (
		best     ast.Node
		bestType *ast.FuncType
		bestDoc  *ast.CommentGroup
	)
	ast.Inspect(parsed, func(n ast.Node) bool {
		var (
			ft  *ast.FuncType
			doc *ast.CommentGroup
		)
		switch fn := n.(type) {
		case *ast.FuncDecl:
			ft, doc = fn.Type, fn.Doc
		case *ast.FuncLit:
			ft = fn.Type
		default:
			return true
		}
		if fset.Position(n.Pos()).Line > line || fset.Position(n.End()).Line < line {
			return true
		}
		if best == nil || n.End()-n.Pos() < best.End()-best.Pos() {
			best, bestType, bestDoc = n, ft, doc
		}
		return true
	})
	if best == nil {
		return errors.New("function not found in source")
	}

	sig.Source = string(src[fset.Position(best.Pos()).Offset:fset.Position(best.End()).Offset])
	if bestDoc != nil {
		sig.Doc = strings.TrimSpace(bestDoc.Text())
	}

	names := paramNames(bestType)
	if len(names) == len(sig.Params) {
		for i, name := range names {
			if name != "" && name != "_" {
				sig.Params[i].Name = name
			}
		}
	}

	return nil
}

func paramNames(ft *ast.FuncType) []string {
	if ft.Params == nil {
		return nil
	}

	var names []string
	for _, field := range ft.Params.List {
		if len(field.Names) == 0 {
			names = append(names, "")
			continue
		}
		for _, ident := range field.Names {
			names = append(names, ident.Name)
		}
	}
	return names
}
