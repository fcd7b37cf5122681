// Package transcript renders role-tagged prompt templates into chat messages.
//
// A template is plain text with {{ }} placeholders. Lines starting with a
// declared role name and a colon ("system:", "user:") open a new message;
// one or two newlines before the marker are treated the same.
package transcript

import (
	"fmt"

	"github.com/davidbz/promptc/internal/domain"
)

// DefaultRoles are the roles recognized when none are declared.
func DefaultRoles() []string {
	return []string{domain.RoleSystem, domain.RoleUser}
}

// Transcript is a role-tagged template.
type Transcript struct {
	Content string
	Roles   []string
}

// New creates a transcript; with no roles given it recognizes DefaultRoles.
func New(content string, roles ...string) Transcript {
	if len(roles) == 0 {
		roles = DefaultRoles()
	}
	return Transcript{
		Content: content,
		Roles:   append([]string(nil), roles...),
	}
}

// Render expands the template with vars.
func (t Transcript) Render(vars map[string]any) (string, error) {
	return Render(t.Content, vars)
}

// RenderToMessages renders the template and splits it into one message per role marker.
func (t Transcript) RenderToMessages(vars map[string]any) ([]domain.Message, error) {
	text, err := t.Render(vars)
	if err != nil {
		return nil, err
	}

	segments, err := Split(text, t.roles())
	if err != nil {
		return nil, fmt.Errorf("failed to split transcript: %w", err)
	}

	messages := make([]domain.Message, 0, len(segments))
	for _, segment := range segments {
		messages = append(messages, domain.Message{
			Role:    segment.Role(),
			Content: segment.Content,
		})
	}

	return messages, nil
}

func (t Transcript) roles() []string {
	if len(t.Roles) == 0 {
		return DefaultRoles()
	}
	return t.Roles
}
