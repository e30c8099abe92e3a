package logging

import (
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

// instrumentationName is the scope reported to the OTEL log pipeline.
const instrumentationName = "github.com/fyrsmithlabs/healthdash"

// newDualCore tees the stderr core and, when a provider is given, the
// otelzap bridge. Sampling applies to both.
func newDualCore(cfg *Config, otelProvider log.LoggerProvider) (zapcore.Core, error) {
	var cores []zapcore.Core

	if cfg.Output.Stderr {
		enc, err := NewRedactingEncoder(newEncoder(cfg.Format), cfg.Redaction)
		if err != nil {
			return nil, fmt.Errorf("failed to create redacting encoder: %w", err)
		}
		ws := zapcore.Lock(os.Stderr)
		if cfg.Output.Writer != nil {
			ws = zapcore.AddSync(cfg.Output.Writer)
		}
		cores = append(cores, zapcore.NewCore(enc, ws, cfg.Level))
	}

	if cfg.Output.OTEL && otelProvider != nil {
		bridge := otelzap.NewCore(instrumentationName, otelzap.WithLoggerProvider(otelProvider))
		cores = append(cores, levelGate{Core: bridge, min: cfg.Level})
	}

	if len(cores) == 0 {
		return nil, errors.New("no log output available: enable stderr, or otel with telemetry on")
	}
	return newSampledCore(zapcore.NewTee(cores...), cfg.Sampling), nil
}

// levelGate applies the configured level to the otelzap core, which
// otherwise accepts everything.
type levelGate struct {
	zapcore.Core
	min zapcore.Level
}

func (g levelGate) Enabled(l zapcore.Level) bool { return l >= g.min && g.Core.Enabled(l) }

func (g levelGate) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !g.Enabled(e.Level) {
		return ce
	}
	return g.Core.Check(e, ce)
}

func (g levelGate) With(fields []zapcore.Field) zapcore.Core {
	return levelGate{Core: g.Core.With(fields), min: g.min}
}
