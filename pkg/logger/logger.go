package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger appropriate for the given environment.
// "development" gets a human-readable console encoder at debug level;
// everything else gets production JSON at info level.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// NewNamed builds an environment-appropriate logger named after the service.
func NewNamed(env, name string) (*zap.Logger, error) {
	log, err := New(env)
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}
