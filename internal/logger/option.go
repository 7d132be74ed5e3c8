package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelCore overrides the level of a wrapped core.
// The CLI client commands use it to keep their output quiet without touching
// the shared atomic level the daemon relies on.
type levelCore struct {
	zapcore.Core

	// level is the minimum level accepted by this core.
	level zapcore.Level
}

// Enabled reports whether l passes the overridden level.
func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check adds the core to the checked entry when its level is enabled.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *levelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the override when fields are attached.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{
		Core:  c.Core.With(fields),
		level: c.level,
	}
}

// WithLevel returns an option that pins the logger to lvl.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelCore{Core: core, level: lvl}
	})
}
