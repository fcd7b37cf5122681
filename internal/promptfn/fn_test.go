package promptfn_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/mocks"
	"github.com/davidbz/promptc/internal/promptfn"
	"github.com/davidbz/promptc/internal/signature"
)

// Return the sum.
func Sum(a, b int) int {
	return a + b
}

// system: You write haiku.
//
// user: Write a haiku about {{topic}} in {{language}}.
func Haiku(topic string, language string) []string {
	return nil
}

func Untyped(x int) {}

func Anything(x int) any {
	return x
}

func TestFn_Invoke(t *testing.T) {
	t.Run("should compile a plain doc comment", func(t *testing.T) {
		fn := promptfn.MustNew(Sum)

		out, err := fn.Invoke(2, 3)
		require.NoError(t, err)

		payload, ok := out.(map[string]any)
		require.True(t, ok)

		choice := payload["tool_choice"].(map[string]any)
		require.Equal(t, "FormatResponse", choice["function"].(map[string]any)["name"])

		tools := payload["tools"].([]any)
		require.Len(t, tools, 1)
		function := tools[0].(map[string]any)["function"].(map[string]any)
		require.Equal(t, "FormatResponse", function["name"])
		require.Equal(t, "Return the sum.", function["description"])

		params := function["parameters"].(map[string]any)
		require.Equal(t, []any{"data"}, params["required"])
		data := params["properties"].(map[string]any)["data"].(map[string]any)
		require.Equal(t, "integer", data["type"])

		messages := payload["messages"].([]any)
		require.Equal(t, []any{
			map[string]any{"role": "system", "content": "Return the sum."},
		}, messages)

		require.NotContains(t, payload, "logit_bias")
		require.NotContains(t, payload, "max_tokens")
	})

	t.Run("should render arguments into the doc template", func(t *testing.T) {
		fn := promptfn.MustNew(Haiku, promptfn.WithSerialize(false))

		out, err := fn.Invoke("autumn", promptfn.Kw("language", "English"))
		require.NoError(t, err)

		req, ok := out.(*promptfn.Request)
		require.True(t, ok)
		require.Equal(t, []domain.Message{
			{Role: "system", Content: "You write haiku."},
			{Role: "user", Content: "Write a haiku about autumn in English."},
		}, req.Messages)

		data := req.Tools[0].Function.Parameters.Properties["data"]
		require.Equal(t, "array", data.Type)
		require.Equal(t, "string", data.Items.Type)
	})
}

func TestFn_Build(t *testing.T) {
	t.Run("should prefer an explicit template", func(t *testing.T) {
		fn := promptfn.MustNew(Sum, promptfn.WithTemplate("system:\nYou add.\n\nuser:\nAdd {{a}} and {{b}}."))

		req, err := fn.Build(2, 3)

		require.NoError(t, err)
		require.Equal(t, []domain.Message{
			{Role: "system", Content: "You add."},
			{Role: "user", Content: "Add 2 and 3."},
		}, req.Messages)
		// The tool description still defaults to the doc comment.
		require.Equal(t, "Return the sum.", *req.Tools[0].Function.Description)
	})

	t.Run("should expose reserved variables", func(t *testing.T) {
		fn := promptfn.MustNew(Sum, promptfn.WithTemplate(
			"system: {{range $k, $v := _arguments}}{{$k}}={{$v}} {{end}}\nuser: {{_source_code}}"))

		req, err := fn.Build(2, 3)

		require.NoError(t, err)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "a=2 b=3", req.Messages[0].Content)
		require.True(t, strings.HasPrefix(req.Messages[1].Content, "func Sum(a, b int) int {"))
	})

	t.Run("should honor tool options", func(t *testing.T) {
		fn := promptfn.MustNew(Sum,
			promptfn.WithToolName("Total"),
			promptfn.WithToolDescription("Formats the response."),
			promptfn.WithFieldName("result"),
			promptfn.WithMaxTokens(16),
			promptfn.WithLogitBias(domain.LogitBias{50256: -100}),
		)

		req, err := fn.Build(2, 3)

		require.NoError(t, err)
		require.Equal(t, "Total", req.ToolChoice.Function.Name)
		require.Equal(t, "Formats the response.", *req.Tools[0].Function.Description)
		require.Equal(t, []string{"result"}, req.Tools[0].Function.Parameters.Required)
		require.Equal(t, 16, req.MaxTokens)
		require.InDelta(t, -100.0, req.LogitBias[50256], 0.0001)
		require.Equal(t, "Total", fn.ToolName())
		require.Equal(t, "result", fn.FieldName())
	})

	t.Run("should apply signature defaults", func(t *testing.T) {
		fn := promptfn.MustNew(Sum,
			promptfn.WithTemplate("user: {{a}}+{{b}}"),
			promptfn.WithSignature(signature.WithDefault("b", 10)),
		)

		req, err := fn.Build(1)

		require.NoError(t, err)
		require.Equal(t, "1+10", req.Messages[0].Content)
	})

	t.Run("should fail on a missing argument", func(t *testing.T) {
		fn := promptfn.MustNew(Sum)

		req, err := fn.Build(2)

		require.ErrorIs(t, err, domain.ErrBinding)
		require.Nil(t, req)
	})

	t.Run("should fail on an unannotated return type", func(t *testing.T) {
		fn := promptfn.MustNew(Untyped)

		req, err := fn.Build(1)

		require.ErrorIs(t, err, domain.ErrUnsupportedType)
		require.Nil(t, req)
	})

	t.Run("should fail on an any return type", func(t *testing.T) {
		fn := promptfn.MustNew(Anything)

		_, err := fn.Build(1)

		require.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("should fail on an undefined template variable", func(t *testing.T) {
		fn := promptfn.MustNew(Sum, promptfn.WithTemplate("user: {{missing_var}}"))

		req, err := fn.Build(2, 3)

		require.ErrorIs(t, err, domain.ErrTemplate)
		require.Nil(t, req)
	})

	t.Run("should fail on a malformed transcript", func(t *testing.T) {
		fn := promptfn.MustNew(Sum, promptfn.WithTemplate("lead\nuser: {{a}}"))

		_, err := fn.Build(2, 3)

		require.ErrorIs(t, err, domain.ErrTranscriptFormat)
	})
}

func TestNew(t *testing.T) {
	t.Run("should reject non functions", func(t *testing.T) {
		fn, err := promptfn.New("not a function")

		require.Error(t, err)
		require.Nil(t, fn)
	})

	t.Run("should report the function name", func(t *testing.T) {
		require.Equal(t, "Sum", promptfn.MustNew(Sum).Name())
	})

	t.Run("should panic in MustNew on error", func(t *testing.T) {
		require.Panics(t, func() { promptfn.MustNew(42) })
	})

	t.Run("should report the recognized roles", func(t *testing.T) {
		require.Equal(t, []string{"system", "user"}, promptfn.MustNew(Sum).Roles())
		require.Equal(t, []string{"critic", "user"},
			promptfn.MustNew(Sum, promptfn.WithRoles("critic", "user")).Roles())
	})
}

func TestFn_Call(t *testing.T) {
	completion := &domain.Completion{
		ID:    "cmpl-1",
		Model: "gpt-4o-mini",
		ToolCalls: []domain.ToolCall{
			{ID: "call-1", Name: "FormatResponse", Arguments: `{"data":5}`},
		},
	}

	t.Run("should dispatch the forced tool request", func(t *testing.T) {
		dispatcher := mocks.NewMockDispatcher(t)
		dispatcher.EXPECT().Name().Return("mock").Maybe()
		dispatcher.EXPECT().
			Dispatch(mock.Anything, mock.MatchedBy(func(req *domain.ChatRequest) bool {
				return req.Model == "gpt-4o-mini" &&
					req.ToolChoice.Function.Name == "FormatResponse" &&
					*req.Temperature == 1 &&
					len(req.Messages) == 1
			})).
			Return(completion, nil)

		fn := promptfn.MustNew(Sum, promptfn.WithDispatcher(dispatcher))

		got, err := fn.Call(context.Background(), 2, 3)

		require.NoError(t, err)
		require.Equal(t, "cmpl-1", got.ID)
	})

	t.Run("should decode the response field", func(t *testing.T) {
		dispatcher := mocks.NewMockDispatcher(t)
		dispatcher.EXPECT().Name().Return("mock").Maybe()
		dispatcher.EXPECT().Dispatch(mock.Anything, mock.Anything).Return(completion, nil)

		fn := promptfn.MustNew(Sum, promptfn.WithDispatcher(dispatcher))

		value, err := promptfn.Decode[int](context.Background(), fn, 2, 3)

		require.NoError(t, err)
		require.Equal(t, 5, value)
	})

	t.Run("should wrap transport failures", func(t *testing.T) {
		transportErr := errors.New("connection reset")
		dispatcher := mocks.NewMockDispatcher(t)
		dispatcher.EXPECT().Name().Return("mock").Maybe()
		dispatcher.EXPECT().Dispatch(mock.Anything, mock.Anything).Return(nil, transportErr)

		fn := promptfn.MustNew(Sum, promptfn.WithDispatcher(dispatcher))

		got, err := fn.Call(context.Background(), 2, 3)

		require.Nil(t, got)
		require.ErrorIs(t, err, domain.ErrDispatch)
		require.ErrorIs(t, err, transportErr)
	})

	t.Run("should not dispatch when building fails", func(t *testing.T) {
		dispatcher := mocks.NewMockDispatcher(t)

		fn := promptfn.MustNew(Sum, promptfn.WithDispatcher(dispatcher))

		_, err := fn.Call(context.Background(), 2)

		require.ErrorIs(t, err, domain.ErrBinding)
	})

	t.Run("should reject invalid sampling defaults before dispatch", func(t *testing.T) {
		dispatcher := mocks.NewMockDispatcher(t)
		defaults := promptfn.DefaultChatDefaults()
		defaults.Temperature = 5

		fn := promptfn.MustNew(Sum, promptfn.WithDispatcher(dispatcher), promptfn.WithDefaults(defaults))

		_, err := fn.Call(context.Background(), 2, 3)

		require.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("should fail without a dispatcher", func(t *testing.T) {
		_, err := promptfn.MustNew(Sum).Call(context.Background(), 2, 3)

		require.ErrorIs(t, err, promptfn.ErrNoDispatcher)
	})
}

func TestRequest_CallAsync(t *testing.T) {
	dispatcher := mocks.NewMockDispatcher(t)
	dispatcher.EXPECT().Name().Return("mock").Maybe()
	dispatcher.EXPECT().
		Dispatch(mock.Anything, mock.Anything).
		Return(&domain.Completion{ID: "cmpl-2"}, nil).
		Once()

	req, err := promptfn.MustNew(Sum, promptfn.WithDispatcher(dispatcher)).Build(2, 3)
	require.NoError(t, err)

	results := req.CallAsync(context.Background())

	result, ok := <-results
	require.True(t, ok)
	require.NoError(t, result.Err)
	require.Equal(t, "cmpl-2", result.Completion.ID)

	_, ok = <-results
	require.False(t, ok)
}
