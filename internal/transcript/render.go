package transcript

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"unicode"

	"github.com/davidbz/promptc/internal/domain"
)

var undefinedName = regexp.MustCompile(`(?:function|key) "([^"]+)"`)

// keywords are identifiers the template lexer claims before any function lookup.
var keywords = map[string]bool{
	"block": true, "break": true, "continue": true, "define": true, "else": true,
	"end": true, "false": true, "if": true, "nil": true, "range": true,
	"template": true, "true": true, "with": true,
}

// Render expands {{ }} placeholders in text with the given variables.
//
// Each variable whose name is a valid identifier is reachable as {{name}};
// every variable is also reachable as {{.name}}. Unknown names fail.
// Variables named after a template keyword, such as end or with, are only
// reachable as {{.end}}.
func Render(text string, vars map[string]any) (string, error) {
	funcs := make(template.FuncMap, len(vars))
	for name, value := range vars {
		if !isIdentifier(name) || keywords[name] {
			continue
		}
		funcs[name] = func() any { return value }
	}

	tmpl, err := template.New("transcript").
		Option("missingkey=error").
		Funcs(funcs).
		Parse(text)
	if err != nil {
		if name, ok := bareKeyword(text, vars); ok {
			return "", &domain.TemplateError{
				Variable: name,
				Err:      fmt.Errorf("%q is a template keyword, reference it as {{.%s}}: %w", name, name, err),
			}
		}
		return "", newTemplateError(err)
	}

	if vars == nil {
		vars = map[string]any{}
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, vars); err != nil {
		return "", newTemplateError(err)
	}

	return out.String(), nil
}

// bareKeyword finds a variable named after a keyword that text references as {{name}}.
func bareKeyword(text string, vars map[string]any) (string, bool) {
	for name := range vars {
		if !keywords[name] {
			continue
		}
		pattern := regexp.MustCompile(`\{\{-?\s*` + regexp.QuoteMeta(name) + `\s*-?\}\}`)
		if pattern.MatchString(text) {
			return name, true
		}
	}
	return "", false
}

func newTemplateError(err error) *domain.TemplateError {
	variable := ""
	if m := undefinedName.FindStringSubmatch(err.Error()); m != nil {
		variable = m[1]
	}
	return &domain.TemplateError{Variable: variable, Err: err}
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
