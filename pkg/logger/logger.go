package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Leveled logger shared by the API server and the bundle CLI.
// - backed by a zap SugaredLogger writing console-encoded lines to stdout
// - Init(level) flips an AtomicLevel, so it is safe to call at any time

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar = newSugar(zapcore.NewCore(newEncoder(), zapcore.Lock(os.Stdout), level))
)

func newEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func newSugar(core zapcore.Core) *zap.SugaredLogger {
	return zap.New(core).Sugar()
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn", "warning":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	case "fatal":
		level.SetLevel(zapcore.FatalLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// setCore swaps the output core; used by tests to capture entries.
func setCore(core zapcore.Core) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	prev := sugar
	sugar = newSugar(core)
	return prev
}

func restore(s *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = s
}

// ReplaceCore routes all output through core and returns a func that puts
// the previous logger back. Tests use it with zaptest/observer.
func ReplaceCore(core zapcore.Core) func() {
	prev := setCore(core)
	return func() { restore(prev) }
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debugf(format string, v ...interface{}) { current().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { current().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { current().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { current().Errorf(format, v...) }

// Fatalf logs and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	current().Fatalf(format, v...)
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = current().Sync()
}

// LevelString returns the current level as text.
func LevelString() string {
	switch level.Level() {
	case zapcore.DebugLevel:
		return "debug"
	case zapcore.WarnLevel:
		return "warn"
	case zapcore.ErrorLevel:
		return "error"
	case zapcore.FatalLevel:
		return "fatal"
	}
	return "info"
}
