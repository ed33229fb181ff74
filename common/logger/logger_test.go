package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/Narendra1431-dot/Portfolio-web-development/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewWithOptions(t *testing.T) {
	t.Run("JSONAddsTraceContext", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithOptions(logger.Options{Writer: &buf, Format: logger.FormatJSON, Level: slog.LevelInfo})

		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		}))

		log.InfoContext(ctx, "contact stored", "id", 7)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "contact stored", record["msg"])
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", record["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", record["span_id"])
	})

	t.Run("JSONWithoutSpan", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithOptions(logger.Options{Writer: &buf, Format: logger.FormatJSON, Level: slog.LevelInfo})

		log.Info("no span")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.NotContains(t, record, "trace_id")
	})

	t.Run("TextColorsErrors", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithOptions(logger.Options{Writer: &buf, Format: logger.FormatText, Level: slog.LevelDebug})

		log.Error("insert failed")

		assert.Contains(t, buf.String(), "[31minsert failed")
		assert.Contains(t, buf.String(), "level=ERROR")
	})

	t.Run("LevelFilters", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithOptions(logger.Options{Writer: &buf, Format: logger.FormatText, Level: slog.LevelWarn})

		log.Info("hidden")

		assert.Empty(t, buf.String())
	})
}
