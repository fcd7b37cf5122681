package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/promptc/internal/observability"
)

func TestInitLogger(t *testing.T) {
	t.Run("should build a logger at the configured level", func(t *testing.T) {
		logger, err := observability.InitLogger(&observability.LogConfig{Level: "debug", Development: false})

		require.NoError(t, err)
		require.NotNil(t, logger)
		require.True(t, logger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("should reject an unknown level", func(t *testing.T) {
		logger, err := observability.InitLogger(&observability.LogConfig{Level: "loud", Development: false})

		require.Error(t, err)
		require.Nil(t, logger)
		require.Contains(t, err.Error(), "invalid log level")
	})
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	observability.SetLogger(zap.New(core))
	t.Cleanup(func() { observability.SetLogger(nil) })

	ctx := context.Background()
	ctx = observability.WithRequestID(ctx, "req-1")
	ctx = observability.WithPrompt(ctx, "Summarize")
	ctx = observability.WithModel(ctx, "gpt-4o-mini")

	observability.FromContext(ctx).Info("compiled")

	entries := logs.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	require.Equal(t, "req-1", fields["request_id"])
	require.Equal(t, "Summarize", fields["prompt"])
	require.Equal(t, "gpt-4o-mini", fields["model"])
	require.Len(t, fields, 3)
}

func TestFromContext_Empty(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	observability.SetLogger(zap.New(core))
	t.Cleanup(func() { observability.SetLogger(nil) })

	observability.FromContext(context.Background()).Info("bare")

	require.Empty(t, logs.All()[0].ContextMap())
}

func TestNewRequestID(t *testing.T) {
	id := observability.NewRequestID()

	require.Len(t, id, 36)
	require.NotEqual(t, id, observability.NewRequestID())
}
