package utils

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMu  sync.RWMutex
	logger = zap.NewNop()
)

// InitLogger builds the process logger. Debug switches to debug level with
// caller info.
func InitLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
	} else {
		cfg.DisableCaller = true
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	logMu.Lock()
	logger = l
	logMu.Unlock()
	zap.RedirectStdLog(l)
	return l, nil
}

// Logger returns the process logger, a no-op one before InitLogger.
func Logger() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}
