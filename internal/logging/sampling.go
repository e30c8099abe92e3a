package logging

import (
	"go.uber.org/zap/zapcore"
)

// newSampledCore throttles repeated entries below Error. The dashboard
// reloads on a timer, so a broken section would otherwise log the same
// warning on every tick. Each level band gets its own sampler so a burst of
// debug output cannot starve warnings.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}

	cores := []zapcore.Core{
		bandCore{Core: core, from: zapcore.ErrorLevel, to: zapcore.FatalLevel},
	}
	for _, lvl := range []zapcore.Level{TraceLevel, zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel} {
		band := bandCore{Core: core, from: lvl, to: lvl}
		rate, ok := cfg.Levels[lvl]
		if !ok {
			cores = append(cores, band)
			continue
		}
		cores = append(cores, zapcore.NewSamplerWithOptions(band, cfg.Tick, rate.Initial, rate.Thereafter))
	}
	return zapcore.NewTee(cores...)
}

// bandCore passes entries whose level lies in [from, to].
type bandCore struct {
	zapcore.Core
	from, to zapcore.Level
}

func (c bandCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.from && lvl <= c.to && c.Core.Enabled(lvl)
}

func (c bandCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c bandCore) With(fields []zapcore.Field) zapcore.Core {
	return bandCore{Core: c.Core.With(fields), from: c.from, to: c.to}
}
