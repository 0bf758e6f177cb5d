package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_JSONWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.DebugLevel, Format: "json", Output: &buf})

	ctx := WithComponent(WithContext(context.Background(), logger), "tabs")
	ctx = WithTabID(ctx, "/vital-signs")
	FromContext(ctx).Info().Msg("tab activated")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"component":"tabs"`)
	assert.Contains(t, out, `"tab_id":"/vital-signs"`)
	assert.Contains(t, out, `"message":"tab activated"`)
}

func TestFromContext_WithoutLoggerIsDisabled(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
