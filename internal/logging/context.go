package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithTabID creates a child logger with a tab_id field
func WithTabID(ctx context.Context, tabID string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("tab_id", tabID).Logger()
	return WithContext(ctx, childLogger)
}

// WithClientID creates a child logger with a client_id field
func WithClientID(ctx context.Context, clientID string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("client_id", clientID).Logger()
	return WithContext(ctx, childLogger)
}
