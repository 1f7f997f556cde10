package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envVar   = "REPLICA_ENV"
	levelVar = "REPLICA_LOG_LEVEL"
)

// New builds the process logger from REPLICA_ENV and REPLICA_LOG_LEVEL.
// Stack traces are attached to errors only; every request logs at info.
func New() *zap.SugaredLogger {
	cfg := config(os.Getenv(envVar), os.Getenv(levelVar))
	logger, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}
	return logger.Sugar()
}

func config(env, level string) zap.Config {
	var cfg zap.Config
	if strings.EqualFold(env, "dev") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.InitialFields = map[string]interface{}{
			"env":     env,
			"service": "etfreplica",
		}
	}

	var l zapcore.Level
	if level != "" && l.UnmarshalText([]byte(level)) == nil {
		cfg.Level = zap.NewAtomicLevelAt(l)
	}
	return cfg
}

type contextKey struct{}

func NewContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext falls back to the global logger when ctx carries none.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger); ok && logger != nil {
			return logger
		}
	}
	return zap.S()
}

func init() {
	logger := New()
	zap.ReplaceGlobals(logger.Desugar())
}
