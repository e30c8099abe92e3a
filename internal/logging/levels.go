package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel sits below Debug. The API client logs request and response
// bodies at this level.
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses the --log-level and logging.level values.
// It accepts zap's names plus "trace" and "warning".
func LevelFromString(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return TraceLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.WarnLevel, fmt.Errorf("unknown level %q (use trace, debug, info, warn or error)", level)
	}
	return l, nil
}
