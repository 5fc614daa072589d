package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextReturnsNopWhenMissing(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotNil(t, l)
	// must not panic
	l.Info("dropped")
}

func TestWithContextRoundTrip(t *testing.T) {
	base := zap.NewNop()
	ctx := WithContext(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))
}

func TestWithRequestIDEnrichesLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), base, "req-123")
	enriched.Info("handled")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithUserEnrichesLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, enriched := WithUser(context.Background(), base, "u-1", "supervisor")
	enriched.Info("approved")

	assert.Equal(t, "u-1", GetUserID(ctx))
	assert.Equal(t, "supervisor", GetRole(ctx))
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "u-1", fields["user_id"])
	assert.Equal(t, "supervisor", fields["role"])
}

func TestGettersOnEmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetRole(ctx))
}
