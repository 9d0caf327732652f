package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// fixedLevelCore ignores the level of the core it wraps.
type fixedLevelCore struct {
	zapcore.Core

	level zapcore.Level
}

func (c *fixedLevelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

//nolint:gocritic // zapcore.Core fixes the signature.
func (c *fixedLevelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

//nolint:ireturn // zapcore.Core fixes the signature.
func (c *fixedLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &fixedLevelCore{Core: c.Core.With(fields), level: c.level}
}

// WithLevel makes a logger log from lvl up whatever the global level is.
//
//nolint:ireturn // zap.Option is the integration point.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &fixedLevelCore{Core: core, level: lvl}
	})
}
