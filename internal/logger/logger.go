package logger

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logEnvKey   = "LOG_ENV"
	logLevelKey = "LOG_LEVEL"
)

var logger *zap.Logger

func init() {
	var err error
	logger, err = build(os.Getenv(logEnvKey), os.Getenv(logLevelKey))
	if err != nil {
		log.Fatal("logger init: ", err)
	}
}

// build picks the zap preset by env (dev by default, prod, or test for a nop logger)
// and optionally overrides its level.
func build(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "", "dev":
		cfg = zap.NewDevelopmentConfig()
	case "prod":
		cfg = zap.NewProductionConfig()
	case "test":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown %s %q", logEnvKey, env)
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, errors.Wrap(err, "parse log level")
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build(zap.AddCallerSkip(1))
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

// Sync flushes buffered entries, call it before exit.
func Sync() {
	_ = logger.Sync()
}
