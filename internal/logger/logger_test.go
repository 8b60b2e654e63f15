package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true

	t.Run("should respect the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		log.Debug("hidden")
		log.Info("comparing fork", "fork", "alice/repo")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "[INFO]")
		assert.Contains(t, out, "comparing fork")
		assert.Contains(t, out, "fork=alice/repo")
	})

	t.Run("should default to warn", func(t *testing.T) {
		var buf bytes.Buffer
		log := slog.New(NewPrettyHandler(&buf, nil))

		log.Info("hidden")
		log.Warn("compare failed")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "[WARN]")
	})

	t.Run("should prefix grouped attributes", func(t *testing.T) {
		var buf bytes.Buffer
		log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		log.WithGroup("quota").With("remaining", 10).Debug("refreshed", "limit", 60)

		assert.Contains(t, buf.String(), "quota.remaining=10")
		assert.Contains(t, buf.String(), "quota.limit=60")
	})
}

func TestContextLogger(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	base := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithLogger(context.Background(), base)
	ctx = With(ctx, "run_id", "abc")

	Error(ctx, "run failed", errors.New("boom"))

	assert.Contains(t, buf.String(), "run_id=abc")
	assert.Contains(t, buf.String(), "error=boom")
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}
