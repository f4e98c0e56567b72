package utils

import (
	"context"
	"runtime"

	"go.uber.org/zap"
)

type loggerKey struct{}

func init() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
}

// WithLogger attaches a logger that GetLogger returns for ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func GetLogger(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && logger != nil {
			return logger
		}
	}
	return zap.L()
}

func GetPanicInfo() string {
	buf := make([]byte, 16384)
	l := runtime.Stack(buf, false)
	return string(buf[:l])
}
