package echo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptc/internal/dispatch/echo"
	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/promptfn"
)

type Verdict struct {
	Label  string   `json:"label" enum:"yes,no"`
	Score  float64  `json:"score"`
	Tags   []string `json:"tags"`
	Reason *string  `json:"reason"`
}

func Judge(claim string) Verdict {
	return Verdict{}
}

func TestNewDispatcher(t *testing.T) {
	require.Equal(t, "echo", echo.NewDispatcher().Name())
}

func TestDispatch_PlainMessages(t *testing.T) {
	req := &domain.ChatRequest{
		PromptRequest: domain.PromptRequest{
			Messages: []domain.Message{{Role: "user", Content: "Hello world"}},
		},
		Model: "gpt-4o-mini",
	}

	completion, err := echo.NewDispatcher().Dispatch(context.Background(), req)

	require.NoError(t, err)
	require.Equal(t, "[user]: Hello world\n", completion.Content)
	require.Equal(t, "echo", completion.Provider)
	require.Equal(t, "gpt-4o-mini", completion.Model)
	require.Equal(t, 3, completion.Usage.PromptTokens)
	require.Empty(t, completion.ToolCalls)
}

func TestDispatch_ForcedTool(t *testing.T) {
	fn := promptfn.MustNew(Judge,
		promptfn.WithTemplate("user: Is {{claim}} true?"),
		promptfn.WithDispatcher(echo.NewDispatcher()),
	)

	verdict, err := promptfn.Decode[Verdict](context.Background(), fn, "water is wet")

	require.NoError(t, err)
	require.Equal(t, "yes", verdict.Label)
	require.Zero(t, verdict.Score)
	require.Empty(t, verdict.Tags)
	require.Nil(t, verdict.Reason)
}

func TestDispatch_NilRequest(t *testing.T) {
	completion, err := echo.NewDispatcher().Dispatch(context.Background(), nil)

	require.Error(t, err)
	require.Nil(t, completion)
}
