package prompts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/promptfn"
	"github.com/davidbz/promptc/internal/prompts"
)

func byName(t *testing.T) map[string]*promptfn.Fn {
	t.Helper()

	fns, err := prompts.All()
	require.NoError(t, err)

	out := make(map[string]*promptfn.Fn, len(fns))
	for _, fn := range fns {
		out[fn.Name()] = fn
	}
	return out
}

func TestAll(t *testing.T) {
	fns := byName(t)

	require.Len(t, fns, 5)
	for _, name := range []string{"Summarize", "Translate", "Classify", "Keywords", "Haiku"} {
		require.Contains(t, fns, name)
	}
}

func TestSummarize(t *testing.T) {
	fn := byName(t)["Summarize"]

	req, err := fn.Compile([]any{"Go 1.25 ships."}, nil)
	require.NoError(t, err)

	require.Equal(t, []domain.Message{
		{Role: "system", Content: "You summarize documents. Respond with at most 5 bullet points."},
		{Role: "user", Content: "Go 1.25 ships."},
	}, req.Messages)

	data := req.Tools[0].Function.Parameters.Properties["data"]
	require.Equal(t, "object", data.Type)
	require.ElementsMatch(t, []string{"title", "bullets"}, data.Required)
	require.Equal(t, "A short headline for the text", data.Properties["title"].Description)
}

func TestClassify(t *testing.T) {
	fn := byName(t)["Classify"]

	req, err := fn.Compile(nil, map[string]any{"text": "Great service!"})
	require.NoError(t, err)

	require.Len(t, req.Messages, 4)
	require.Equal(t, "assistant", req.Messages[2].Role)

	label := req.Tools[0].Function.Parameters.Properties["data"].Properties["label"]
	require.Equal(t, []any{"positive", "neutral", "negative"}, label.Enum)
}

func TestKeywords(t *testing.T) {
	fn := byName(t)["Keywords"]

	t.Run("should list excluded words", func(t *testing.T) {
		req, err := fn.Compile([]any{"Gophers love channels.", "love", "the"}, nil)
		require.NoError(t, err)

		require.Equal(t, "Extract up to ten search keywords. Never use: love, the.", req.Messages[0].Content)
	})

	t.Run("should omit the exclusion clause when empty", func(t *testing.T) {
		req, err := fn.Compile([]any{"Gophers love channels."}, nil)
		require.NoError(t, err)

		require.Equal(t, "Extract up to ten search keywords.", req.Messages[0].Content)
	})
}

func TestHaiku(t *testing.T) {
	fn := byName(t)["Haiku"]

	req, err := fn.Compile([]any{"rain"}, nil)
	require.NoError(t, err)

	require.Equal(t, "lines", fn.FieldName())
	require.Equal(t, 64, req.MaxTokens)
	require.Equal(t, []string{"lines"}, req.Tools[0].Function.Parameters.Required)
}

func TestTranslate_MissingArgument(t *testing.T) {
	fn := byName(t)["Translate"]

	_, err := fn.Compile([]any{"hello"}, nil)

	require.ErrorIs(t, err, domain.ErrBinding)
}
