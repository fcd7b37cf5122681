// Package prompts holds the prompt functions served over HTTP. Each one is
// compiled from an explicit template and explicit parameter names so that
// the server binary does not need its source tree at runtime.
package prompts

import (
	"fmt"

	"github.com/davidbz/promptc/internal/promptfn"
	"github.com/davidbz/promptc/internal/signature"
)

// Summary is the structured result of Summarize.
type Summary struct {
	Title   string   `json:"title"   description:"A short headline for the text"`
	Bullets []string `json:"bullets" description:"Key points, one sentence each"`
}

// Sentiment is the structured result of Classify.
type Sentiment struct {
	Label      string  `json:"label"      enum:"positive,neutral,negative"`
	Confidence float64 `json:"confidence" description:"Between 0 and 1"`
}

// Summarize condenses text into a titled list of bullet points.
func Summarize(text string, maxBullets int) Summary {
	return Summary{}
}

const summarizeTemplate = `system: You summarize documents. Respond with at most {{maxBullets}} bullet points.

user: {{text}}`

// Translate renders text in the target language.
func Translate(text string, language string) string {
	return ""
}

const translateTemplate = `system: You are a professional translator. Preserve tone and formatting.

user: Translate the following text into {{language}}:

{{text}}`

// Classify labels the sentiment of text.
func Classify(text string) Sentiment {
	return Sentiment{}
}

const classifyTemplate = `system: You classify the sentiment of customer messages.

user: {{text}}

assistant: I will pick exactly one label and estimate my confidence.

user: Go ahead.`

// Keywords extracts search keywords from text, skipping any excluded words.
func Keywords(text string, exclude ...string) []string {
	return nil
}

const keywordsTemplate = `system: Extract up to ten search keywords.{{if exclude}} Never use: {{range $i, $w := exclude}}{{if $i}}, {{end}}{{$w}}{{end}}.{{end}}

user: {{text}}`

// Haiku writes a haiku about topic, one line per element.
func Haiku(topic string) []string {
	return nil
}

const haikuTemplate = `user: Write a haiku about {{topic}}.`

// All wraps every prompt function with the shared options.
func All(opts ...promptfn.Option) ([]*promptfn.Fn, error) {
	type entry struct {
		fn       any
		template string
		names    []string
		extra    []promptfn.Option
	}

	entries := []entry{
		{
			fn:       Summarize,
			template: summarizeTemplate,
			names:    []string{"text", "maxBullets"},
			extra: []promptfn.Option{
				promptfn.WithSignature(signature.WithName("Summarize"), signature.WithDefault("maxBullets", 5)),
			},
		},
		{
			fn:       Translate,
			template: translateTemplate,
			names:    []string{"text", "language"},
			extra:    []promptfn.Option{promptfn.WithSignature(signature.WithName("Translate"))},
		},
		{
			fn:       Classify,
			template: classifyTemplate,
			names:    []string{"text"},
			extra: []promptfn.Option{
				promptfn.WithSignature(signature.WithName("Classify")),
				promptfn.WithRoles("system", "user", "assistant"),
			},
		},
		{
			fn:       Keywords,
			template: keywordsTemplate,
			names:    []string{"text", "exclude"},
			extra:    []promptfn.Option{promptfn.WithSignature(signature.WithName("Keywords"))},
		},
		{
			fn:       Haiku,
			template: haikuTemplate,
			names:    []string{"topic"},
			extra: []promptfn.Option{
				promptfn.WithSignature(signature.WithName("Haiku")),
				promptfn.WithFieldName("lines"),
				promptfn.WithMaxTokens(64),
			},
		},
	}

	fns := make([]*promptfn.Fn, 0, len(entries))
	for _, e := range entries {
		options := make([]promptfn.Option, 0, len(opts)+len(e.extra)+2)
		options = append(options, opts...)
		options = append(options,
			promptfn.WithTemplate(e.template),
			promptfn.WithSignature(signature.WithNames(e.names...)),
		)
		options = append(options, e.extra...)

		fn, err := promptfn.New(e.fn, options...)
		if err != nil {
			return nil, fmt.Errorf("failed to wrap prompt %d: %w", len(fns), err)
		}
		fns = append(fns, fn)
	}

	return fns, nil
}
