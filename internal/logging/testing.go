package logging

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger records every entry, at all levels, for assertions in tests
// of packages that take a *Logger.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
}

// NewTestLogger returns a TestLogger with no sampling and no redaction.
func NewTestLogger() *TestLogger {
	core, observed := observer.New(TraceLevel)
	return &TestLogger{Logger: &Logger{zap: zap.New(core)}, observed: observed}
}

// All returns the recorded entries.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.observed.All()
}

// Messages returns the messages logged at level, in order.
func (t *TestLogger) Messages(level zapcore.Level) []string {
	var msgs []string
	for _, e := range t.observed.FilterLevelExact(level).All() {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// Reset drops the recorded entries.
func (t *TestLogger) Reset() {
	t.observed.TakeAll()
}

func (t *TestLogger) logged(level zapcore.Level, substr string) bool {
	for _, e := range t.observed.All() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// AssertLogged fails tb unless an entry at level contains substr.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, substr string) {
	tb.Helper()
	if !t.logged(level, substr) {
		tb.Errorf("no %v entry containing %q; got %v", level, substr, t.Messages(level))
	}
}

// AssertNotLogged fails tb if an entry at level contains substr.
func (t *TestLogger) AssertNotLogged(tb testing.TB, level zapcore.Level, substr string) {
	tb.Helper()
	if t.logged(level, substr) {
		tb.Errorf("unexpected %v entry containing %q", level, substr)
	}
}

// Field returns the value of key on the first entry with message msg.
func (t *TestLogger) Field(msg, key string) (any, bool) {
	for _, e := range t.observed.FilterMessage(msg).All() {
		if v, ok := e.ContextMap()[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// AssertField fails tb unless the entry msg carries key=expected.
func (t *TestLogger) AssertField(tb testing.TB, msg, key string, expected any) {
	tb.Helper()
	v, ok := t.Field(msg, key)
	if !ok || !reflect.DeepEqual(v, expected) {
		tb.Errorf("field %q=%v not found on %q (got %v)", key, expected, msg, v)
	}
}

// AssertNoSecrets fails tb if a token, password or bearer header appears
// in any entry in clear text.
func (t *TestLogger) AssertNoSecrets(tb testing.TB) {
	tb.Helper()
	for _, e := range t.observed.All() {
		if bearerPattern.MatchString(e.Message) {
			tb.Errorf("bearer token in message %q", e.Message)
		}
		for k, v := range e.ContextMap() {
			s, ok := v.(string)
			if !ok || s == "" {
				continue
			}
			if isSensitiveKey(k) && !strings.HasPrefix(s, "[REDACTED") {
				tb.Errorf("field %q not redacted: %q", k, s)
			}
			if bearerPattern.MatchString(s) {
				tb.Errorf("bearer token in field %q", k)
			}
		}
	}
}

// AssertTraceCorrelation fails tb unless the entry msg carries a trace ID.
func (t *TestLogger) AssertTraceCorrelation(tb testing.TB, msg string) {
	tb.Helper()
	if _, ok := t.Field(msg, "trace_id"); !ok {
		tb.Errorf("message %q missing trace_id", msg)
	}
}
