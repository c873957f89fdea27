package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestWithContextAndFromContext(t *testing.T) {
	l, _ := newObservedLogger()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestFromContextReturnsNopWhenMissing(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("no-op") })
}

func TestWithRequestID(t *testing.T) {
	l, logs := newObservedLogger()
	ctx, enriched := WithRequestID(context.Background(), l, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	enriched.Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	l, _ := newObservedLogger()
	ctx, _ := WithUserID(context.Background(), l, "user-42")
	assert.Equal(t, "user-42", GetUserID(ctx))
}

func TestWithSessionKey(t *testing.T) {
	l, _ := newObservedLogger()
	ctx, _ := WithSessionKey(context.Background(), l, "sess-abc")
	assert.Equal(t, "sess-abc", GetSessionKey(ctx))
}

func TestGettersReturnEmptyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetSessionKey(ctx))
}

func TestContextLoggerInjectsContextFields(t *testing.T) {
	l, logs := newObservedLogger()

	ctx := WithContext(context.Background(), l)
	ctx, _ = WithRequestID(ctx, FromContext(ctx), "req-9")
	ctx, _ = WithUserID(ctx, FromContext(ctx), "user-9")

	L(ctx).Info("checkout started")

	entries := logs.All()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, "checkout started", last.Message)
	fields := last.ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "user-9", fields["user_id"])
}

func TestContextLoggerWithFields(t *testing.T) {
	l, logs := newObservedLogger()
	ctx := WithContext(context.Background(), l)

	WithLogger(ctx, l).With(zap.String("order_id", "o-1")).Info("placed")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "o-1", entries[0].ContextMap()["order_id"])
}

func TestContextLoggerNilLoggerDoesNotPanic(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	assert.NotPanics(t, func() { cl.Info("safe") })
}

func TestWithTraceContextNoSpan(t *testing.T) {
	l, logs := newObservedLogger()
	enriched := WithTraceContext(context.Background(), l)
	enriched.Info("plain")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotContains(t, fields, "trace_id")
	assert.NotContains(t, fields, "span_id")
}
