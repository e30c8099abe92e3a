package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/fyrsmithlabs/healthdash/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger(t *testing.T, format string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Level = TraceLevel
	cfg.Format = format
	cfg.Sampling.Enabled = false
	cfg.Output.Writer = &buf

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	return logger, &buf
}

func TestNewLogger(t *testing.T) {
	logger, buf := newBufferLogger(t, "json")

	logger.Info(context.Background(), "records fetched", zap.Int("count", 3))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, `"msg":"records fetched"`)
	assert.Contains(t, out, `"count":3`)
	assert.Contains(t, out, `"service":"healthdash"`)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format must be")
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tests := []struct {
		name    string
		logFunc func()
		level   zapcore.Level
		message string
	}{
		{"trace", func() { tl.Trace(ctx, "trace message") }, TraceLevel, "trace message"},
		{"debug", func() { tl.Debug(ctx, "debug message") }, zapcore.DebugLevel, "debug message"},
		{"info", func() { tl.Info(ctx, "info message") }, zapcore.InfoLevel, "info message"},
		{"warn", func() { tl.Warn(ctx, "warn message") }, zapcore.WarnLevel, "warn message"},
		{"error", func() { tl.Error(ctx, "error message") }, zapcore.ErrorLevel, "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl.Reset()
			tt.logFunc()

			logs := tl.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			assert.Equal(t, tt.message, logs[0].Message)
		})
	}
}

func TestLogger_ContextFields(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-42")

	tl.Info(ctx, "profile updated")

	tl.AssertField(t, "profile updated", "request.id", "req-1")
	tl.AssertField(t, "profile updated", "user.id", "user-42")
}

func TestLogger_TraceCorrelation(t *testing.T) {
	tl := NewTestLogger()

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	tl.Info(ctx, "traced")
	tl.AssertTraceCorrelation(t, "traced")
}

func TestWithUserID_EmptyIsNoop(t *testing.T) {
	ctx := WithUserID(context.Background(), "")
	assert.Empty(t, UserIDFromContext(ctx))
}

func TestContextFields_Merge(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-42")
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithRequestID(ctx, "req-2")

	assert.Equal(t, "req-2", RequestIDFromContext(ctx))
	assert.Equal(t, "user-42", UserIDFromContext(ctx), "request ID does not drop the user")
	assert.Len(t, ContextFields(ctx), 2)
	assert.Empty(t, ContextFields(context.Background()))
}

func TestFromSettings(t *testing.T) {
	cfg, err := FromSettings(config.LoggingConfig{Level: "trace", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	_, err = FromSettings(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestLevelFromString(t *testing.T) {
	lvl, err := LevelFromString("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, lvl)

	lvl, err = LevelFromString("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)
}

func TestSampling_ThrottlesRepeatedWarnings(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Format = "json"
	cfg.Output.Writer = &buf
	cfg.Sampling.Levels = map[zapcore.Level]LevelSamplingConfig{
		zapcore.WarnLevel: {Initial: 2, Thereafter: 0},
	}

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)

	ctx := context.Background()
	for range 5 {
		logger.Warn(ctx, "section failed to load")
		logger.Error(ctx, "request failed")
	}
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("section failed to load")))
	assert.Equal(t, 5, bytes.Count([]byte(out), []byte("request failed")), "errors are never sampled")
}

func TestLevelFromString_Unknown(t *testing.T) {
	_, err := LevelFromString("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trace, debug")

	lvl, err := LevelFromString("Warning")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)
}
