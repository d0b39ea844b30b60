package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Init builds the global zap logger. "production" gets JSON output, anything
// else the development console encoder.
func Init(env string) error {
	var conf zap.Config
	if env == "production" {
		conf = zap.NewProductionConfig()
	} else {
		conf = zap.NewDevelopmentConfig()
		level.SetLevel(zapcore.DebugLevel)
	}
	conf.Level = level

	l, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}
	zap.ReplaceGlobals(l.With(zap.String("env", env)))

	return nil
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(text string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(text)); err != nil {
		zap.L().Warn("ignoring unknown log level", zap.String("level", text))
		return
	}
	level.SetLevel(l)
}

func Level() zapcore.Level {
	return level.Level()
}
