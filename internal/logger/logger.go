package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "vocab-trainer-bot"

// New builds a JSON logger for the "production" environment, a no-op logger
// for "test" and a development logger otherwise.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.InitialFields = map[string]any{"service": serviceName}
		return cfg.Build()
	case "test":
		return zap.NewNop(), nil
	}

	return zap.NewDevelopment()
}
