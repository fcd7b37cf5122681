package registry_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/registry"
)

// stubPrompt is a minimal domain.PromptFunc for registry tests.
type stubPrompt struct {
	name string
}

func (s *stubPrompt) Name() string      { return s.name }
func (s *stubPrompt) ToolName() string  { return "FormatResponse" }
func (s *stubPrompt) FieldName() string { return "data" }
func (s *stubPrompt) Roles() []string   { return []string{"system", "user"} }

func (s *stubPrompt) Compile(_ []any, _ map[string]any) (*domain.PromptRequest, error) {
	return &domain.PromptRequest{}, nil
}

func TestRegistry_Register(t *testing.T) {
	t.Run("should register prompt successfully", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		err := reg.Register(ctx, &stubPrompt{name: "Summarize"})
		require.NoError(t, err)

		registered, err := reg.Get(ctx, "Summarize")
		require.NoError(t, err)
		require.Equal(t, "Summarize", registered.Name())
	})

	t.Run("should return error when prompt is nil", func(t *testing.T) {
		err := registry.NewRegistry().Register(context.Background(), nil)

		require.Error(t, err)
		require.Contains(t, err.Error(), "prompt function cannot be nil")
	})

	t.Run("should return error when name is empty", func(t *testing.T) {
		err := registry.NewRegistry().Register(context.Background(), &stubPrompt{name: ""})

		require.Error(t, err)
		require.Contains(t, err.Error(), "prompt name cannot be empty")
	})

	t.Run("should return error when prompt already registered", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		require.NoError(t, reg.Register(ctx, &stubPrompt{name: "Summarize"}))

		err := reg.Register(ctx, &stubPrompt{name: "Summarize"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "already registered")
	})
}

func TestRegistry_Get(t *testing.T) {
	t.Run("should return error when name is empty", func(t *testing.T) {
		_, err := registry.NewRegistry().Get(context.Background(), "")

		require.Error(t, err)
		require.Contains(t, err.Error(), "prompt name cannot be empty")
	})

	t.Run("should return not found for unknown prompts", func(t *testing.T) {
		_, err := registry.NewRegistry().Get(context.Background(), "nonexistent")

		require.ErrorIs(t, err, domain.ErrPromptNotFound)
	})
}

func TestRegistry_List(t *testing.T) {
	t.Run("should return empty list when nothing registered", func(t *testing.T) {
		names, err := registry.NewRegistry().List(context.Background())

		require.NoError(t, err)
		require.NotNil(t, names)
		require.Empty(t, names)
	})

	t.Run("should return names in sorted order", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		for _, name := range []string{"Translate", "Haiku", "Summarize"} {
			require.NoError(t, reg.Register(ctx, &stubPrompt{name: name}))
		}

		names, err := reg.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Haiku", "Summarize", "Translate"}, names)
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := registry.NewRegistry()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_ = reg.Register(ctx, &stubPrompt{name: fmt.Sprintf("prompt-%d", idx)})
		}(i)
	}
	wg.Wait()

	names, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, names, 10)
}
