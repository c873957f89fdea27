package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey contextKey = "user_id"
	// SessionKeyKey is the context key for the guest cart session key
	SessionKeyKey contextKey = "session_key"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns an enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithUserID adds the authenticated user ID to context and returns an enriched logger
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	enriched := logger.With(zap.String("user_id", userID))
	return WithContext(ctx, enriched), enriched
}

// WithSessionKey adds the guest session key to context and returns an enriched logger
func WithSessionKey(ctx context.Context, logger *zap.Logger, sessionKey string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, SessionKeyKey, sessionKey)
	enriched := logger.With(zap.String("session_key", sessionKey))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserID retrieves the authenticated user ID from context
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetSessionKey retrieves the guest session key from context
func GetSessionKey(ctx context.Context) string {
	if sessionKey, ok := ctx.Value(SessionKeyKey).(string); ok {
		return sessionKey
	}
	return ""
}

// WithTraceContext adds trace_id and span_id to the logger from the context's
// span. If no valid span exists, returns the original logger unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// ContextLogger wraps a zap logger and injects trace correlation plus the
// request-scoped identifiers (request_id, user_id, session_key) from the
// context into every entry.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger from the given context.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// WithLogger returns a ContextLogger using the provided logger instead of
// extracting one from context.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: logger}
}

func (cl *ContextLogger) enrichedLogger() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}

	l = WithTraceContext(cl.ctx, l)

	if requestID := GetRequestID(cl.ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if userID := GetUserID(cl.ctx); userID != "" {
		l = l.With(zap.String("user_id", userID))
	}
	if sessionKey := GetSessionKey(cl.ctx); sessionKey != "" {
		l = l.With(zap.String("session_key", sessionKey))
	}
	return l
}

// With creates a child ContextLogger with additional fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(fields...)}
}

// Debug logs a debug level message with trace context.
func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Debug(msg, fields...)
}

// Info logs an info level message with trace context.
func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Info(msg, fields...)
}

// Warn logs a warning level message with trace context.
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Warn(msg, fields...)
}

// Error logs an error level message with trace context.
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Error(msg, fields...)
}

// Zap returns the underlying zap.Logger enriched with trace context.
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enrichedLogger()
}
