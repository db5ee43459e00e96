// Package logger wraps zap with a process-wide, file-and-console logger.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls how the global logger is built.
type Config struct {
	LogFile   string // Path of the log file, empty disables file output
	LogLevel  string // Minimal level: debug, info, warn or error
	AppName   string // Added to every entry as the "app" field
	AddCaller bool   // Whether to annotate entries with caller position
}

// Logger is a thin wrapper over zap.Logger so packages depend on this
// package instead of zap directly.
type Logger struct {
	*zap.Logger
}

var (
	global *Logger
	mu     sync.RWMutex
)

// Init builds the global logger from cfg. Must be called once at startup
// before any call to Get.
func Init(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.Lock(os.Stdout),
			level,
		),
	}

	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}

		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(file),
			level,
		))
	}

	opts := []zap.Option{
		zap.Fields(zap.String("app", cfg.AppName)),
	}
	if cfg.AddCaller {
		opts = append(opts, zap.AddCaller())
	}

	zl := zap.New(zapcore.NewTee(cores...), opts...)

	mu.Lock()
	global = &Logger{zl}
	mu.Unlock()

	return nil
}

// Get returns the global logger. If Init was never called a no-op
// logger is returned so library code can log unconditionally.
func Get() *Logger {
	mu.RLock()
	defer mu.RUnlock()

	if global == nil {
		return &Logger{zap.NewNop()}
	}
	return global
}

// Sync flushes buffered log entries. Intended for deferred use in main.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()

	if global != nil {
		_ = global.Logger.Sync()
	}
}
