package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const loggerMessageKey = "message"

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
// Debug messages are emitted only when debug is true.
func NewApplicationLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.LevelKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = loggerMessageKey
	config.EncoderConfig.StacktraceKey = ""
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
