package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/davidbz/promptc/internal/domain"
)

// Segment is one role marker and the text that follows it.
type Segment struct {
	Marker  string
	Content string
}

// Role returns the marker trimmed of whitespace and its trailing colon.
func (s Segment) Role() string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s.Marker), ":"))
}

// markerPattern matches "role:" at the start of a line for any declared role.
func markerPattern(roles []string) *regexp.Regexp {
	quoted := make([]string, 0, len(roles))
	for _, role := range roles {
		if role == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(role))
	}
	return regexp.MustCompile(`(?m)^[ \t]*(?:` + strings.Join(quoted, "|") + `):`)
}

// Split cuts text into (marker, content) segments at every line-leading role marker.
//
// Whitespace around markers is dropped. Text without any marker becomes a
// single segment of the first role; content before the first marker, or a
// marker with nothing after it, is a TranscriptFormatError.
func Split(text string, roles []string) ([]Segment, error) {
	if !hasRole(roles) {
		return nil, &domain.TranscriptFormatError{Reason: "no roles declared"}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	locs := markerPattern(roles).FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Segment{{Marker: firstRole(roles) + ":", Content: text}}, nil
	}

	if lead := strings.TrimSpace(text[:locs[0][0]]); lead != "" {
		return nil, &domain.TranscriptFormatError{
			Reason: fmt.Sprintf("content before first role marker: %q", abbreviate(lead)),
		}
	}

	tokens := make([]string, 0, len(locs)*2)
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		tokens = append(tokens, text[loc[0]:loc[1]], strings.TrimSpace(text[loc[1]:end]))
	}

	return pair(tokens)
}

// pair groups a flat [marker, content, ...] token list two at a time.
func pair(tokens []string) ([]Segment, error) {
	if len(tokens)%2 != 0 {
		return nil, &domain.TranscriptFormatError{
			Reason: fmt.Sprintf("odd number of segments: %d", len(tokens)),
		}
	}

	segments := make([]Segment, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		segment := Segment{Marker: tokens[i], Content: tokens[i+1]}
		if segment.Content == "" {
			return nil, &domain.TranscriptFormatError{
				Reason: fmt.Sprintf("role marker %q has no content", segment.Role()),
			}
		}
		segments = append(segments, segment)
	}

	return segments, nil
}

// HasMarker reports whether text contains a line-leading marker for any of roles.
func HasMarker(text string, roles []string) bool {
	if !hasRole(roles) {
		return false
	}
	return markerPattern(roles).MatchString(text)
}

func hasRole(roles []string) bool {
	return firstRole(roles) != ""
}

func firstRole(roles []string) string {
	for _, role := range roles {
		if role != "" {
			return role
		}
	}
	return ""
}

func abbreviate(s string) string {
	const limit = 40
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
