package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	t.Run("stores and retrieves logger", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("missing logger falls back to nop", func(t *testing.T) {
		logger := FromContext(context.Background())
		assert.NotNil(t, logger)
	})
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")
	enriched.Info("hello")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithActor(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithActor(context.Background(), logger, "bao")
	enriched.Info("stock event")

	assert.Equal(t, "bao", GetActor(ctx))
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "bao", entries[0].ContextMap()["actor"])
}

func TestGetRequestID(t *testing.T) {
	t.Run("empty when absent", func(t *testing.T) {
		assert.Equal(t, "", GetRequestID(context.Background()))
	})
}

func TestGetActor(t *testing.T) {
	t.Run("empty when absent", func(t *testing.T) {
		assert.Equal(t, "", GetActor(context.Background()))
	})
}
