package logging

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })
	SetDefault(zerolog.New(&buf))

	FromContext(context.Background()).Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestFromContext_UsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Warn().Str("component", "test").Msg("scoped")
	assert.Contains(t, buf.String(), `"component":"test"`)
}

func TestTraceIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	id := GetOrGenerateTraceID(ctx)
	_, err := ulid.Parse(id)
	require.NoError(t, err)

	ctx = ContextWithTraceID(ctx, id)
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
}

func TestWithTrace_StampsEvents(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTrace(context.Background(), zerolog.New(&buf))

	FromContext(ctx).Info().Msg("traced")
	assert.Contains(t, buf.String(), TraceIDFromContext(ctx))
}

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.log")
		res := NewLoggerWithPath(Config{Level: "debug", Output: OutputFile, File: path})
		t.Cleanup(func() { _ = res.Close() })

		assert.True(t, res.UsingFile)
		assert.Equal(t, path, res.FilePath)
		assert.Equal(t, zerolog.DebugLevel, res.Logger.GetLevel())
	})

	t.Run("unwritable file falls back", func(t *testing.T) {
		res := NewLoggerWithPath(Config{Output: OutputFile, File: filepath.Join(t.TempDir(), "missing", "x.log")})
		assert.False(t, res.UsingFile)
		assert.True(t, res.FallbackUsed)
		assert.NotEmpty(t, res.FallbackReason)
	})

	t.Run("bad level defaults to info", func(t *testing.T) {
		res := NewLoggerWithPath(Config{Level: "loud"})
		assert.Equal(t, zerolog.InfoLevel, res.Logger.GetLevel())
	})
}
