package signature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShortName(t *testing.T) {
	tests := []struct {
		full     string
		expected string
	}{
		{full: "github.com/acme/app/prompts.Summarize", expected: "Summarize"},
		{full: "main.Add", expected: "Add"},
		{full: "github.com/acme/app/prompts.First[...]", expected: "First"},
		{full: "github.com/acme/app/prompts.Pair[go.shape.string,go.shape.int]", expected: "Pair"},
		{full: "github.com/acme/app/prompts.(*Agent).Ask-fm", expected: "Ask"},
		{full: "github.com/acme/app/prompts.(*Box[...]).Open-fm", expected: "Open"},
		{full: "github.com/acme/app/prompts.TestX.func1", expected: "func1"},
	}

	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			require.Equal(t, tt.expected, shortName(tt.full))
		})
	}
}
