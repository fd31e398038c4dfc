package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrettyHandler(t *testing.T) {
	t.Run("Create PrettyHandler with default options", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		require.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
		assert.NotNil(t, handler.Handler, "Expected handler to wrap a slog handler")
		assert.NotNil(t, handler.l, "Expected handler to have a logger")
	})
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	levels := []struct {
		level  slog.Level
		prefix string
	}{
		{slog.LevelDebug, "DEBUG:"},
		{slog.LevelInfo, "INFO:"},
		{slog.LevelWarn, "WARN:"},
		{slog.LevelError, "ERROR:"},
	}

	for _, tc := range levels {
		t.Run("Handle "+tc.prefix+" record", func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
				SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
			})

			record := slog.NewRecord(time.Now(), tc.level, "collected options", 0)
			record.AddAttrs(slog.String("span", "[0..2]"), slog.Int("options", 7))

			err := handler.Handle(ctx, record)

			require.NoError(t, err)
			output := buf.String()
			assert.Contains(t, output, tc.prefix, "Expected level prefix")
			assert.Contains(t, output, "collected options", "Expected message")
			assert.Contains(t, output, "[0..2]", "Expected string attribute value")
			assert.Contains(t, output, "7", "Expected int attribute value")
			assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, output, "Expected formatted timestamp")
		})
	}

	t.Run("Handle record without attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "empty", 0)
		require.NoError(t, handler.Handle(ctx, record))

		assert.Contains(t, buf.String(), "{}", "Expected empty JSON object for attributes")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Logger respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo)

		logger.Debug("hidden message")
		logger.Info("visible message", slog.Int("sentence_length", 3))

		output := buf.String()
		assert.NotContains(t, output, "hidden message", "Expected debug record to be filtered")
		assert.Contains(t, output, "visible message")
		assert.Contains(t, output, "sentence_length")
	})
}
