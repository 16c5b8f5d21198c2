package common

import (
	"context"
	"log/slog"
	"time"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyIntakeID    contextKey = "intake_id"
	ContextKeyGeneration  contextKey = "generation"
	ContextKeyContentHash contextKey = "content_hash"
	ContextKeyLogger      contextKey = "logger"
)

// WithIntakeID adds an intake ID to the context
func WithIntakeID(ctx context.Context, intakeID string) context.Context {
	return context.WithValue(ctx, ContextKeyIntakeID, intakeID)
}

// IntakeIDFromContext extracts the intake ID from context
func IntakeIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyIntakeID).(string); ok {
		return id
	}
	return ""
}

// WithGeneration tags the context with the orchestrator generation that owns it.
func WithGeneration(ctx context.Context, gen uint64) context.Context {
	return context.WithValue(ctx, ContextKeyGeneration, gen)
}

// GenerationFromContext returns the owning generation, or 0 for standalone runs.
func GenerationFromContext(ctx context.Context) uint64 {
	if gen, ok := ctx.Value(ContextKeyGeneration).(uint64); ok {
		return gen
	}
	return 0
}

// WithContentHash adds the artifact's hex sha256 to the context
func WithContentHash(ctx context.Context, hashHex string) context.Context {
	return context.WithValue(ctx, ContextKeyContentHash, hashHex)
}

// ContentHashFromContext extracts the artifact hash from context
func ContentHashFromContext(ctx context.Context) string {
	if h, ok := ctx.Value(ContextKeyContentHash).(string); ok {
		return h
	}
	return ""
}

// WithLogger stores a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

// LoggerFromContext returns the request-scoped logger, or fallback when none is set.
func LoggerFromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(ContextKeyLogger).(*slog.Logger); ok && l != nil {
		return l
	}
	if fallback == nil {
		return slog.Default()
	}
	return fallback
}

// WithTimeout creates a context with the specified timeout. A non-positive
// timeout only adds cancellation.
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
