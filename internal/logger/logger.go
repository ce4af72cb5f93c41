package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger on stdout: JSON in production, coloured console otherwise.
func New(env string) (*zap.Logger, error) {
	return NewTo(env, "stdout")
}

// NewTo is New with an explicit output path, e.g. "stderr" for commands
// whose stdout carries data.
func NewTo(env, output string) (*zap.Logger, error) {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{output}

	return cfg.Build()
}
