// Package logger provides leveled logging for the CLI on top of zap.
// It supports --verbose and --debug flags. In debug mode, logs are also
// written to $HOME/.clearcrash/logs/clearcrash-YYYY-MM-DD.log for
// troubleshooting. Library packages take a *zap.Logger; L hands them the
// one configured here.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Verbose and debug output sit below zap's info level.
const (
	VerboseLevel = zapcore.DebugLevel
	DebugLevel   = zapcore.DebugLevel - 1
)

// Logger wraps the process logger and its operation timers.
type Logger struct {
	mu      sync.Mutex
	level   zapcore.Level
	zl      *zap.Logger
	file    *os.File
	timings map[string]time.Time
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Initialize sets up the global logger
func Initialize(verbose, debug bool) {
	once.Do(func() {
		level := zapcore.InfoLevel
		if verbose {
			level = VerboseLevel
		}
		if debug {
			level = DebugLevel
		}

		cores := []zapcore.Core{
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderConfig(term.IsTerminal(int(os.Stderr.Fd())))),
				zapcore.Lock(os.Stderr),
				level,
			),
		}

		// Also log to file in debug mode
		var file *os.File
		if debug {
			logDir := filepath.Join(os.ExpandEnv("$HOME"), ".clearcrash", "logs")
			_ = os.MkdirAll(logDir, 0o755)
			logFile := filepath.Join(logDir, fmt.Sprintf("clearcrash-%s.log", time.Now().Format("2006-01-02")))
			if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				file = f
				cores = append(cores, zapcore.NewCore(
					zapcore.NewConsoleEncoder(encoderConfig(false)),
					zapcore.AddSync(f),
					level,
				))
			}
		}

		opts := []zap.Option{}
		if debug {
			opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(2))
		}
		defaultLogger = newLogger(zap.New(zapcore.NewTee(cores...), opts...), level)
		defaultLogger.file = file
		if file != nil {
			Debugf("Logging to %s", file.Name())
		}
	})
}

func newLogger(zl *zap.Logger, level zapcore.Level) *Logger {
	return &Logger{
		level:   level,
		zl:      zl,
		timings: make(map[string]time.Time),
	}
}

func encoderConfig(colors bool) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("[15:04:05]")
	cfg.NameKey = ""
	cfg.StacktraceKey = ""
	cfg.EncodeLevel = levelEncoder(colors)
	cfg.ConsoleSeparator = " "
	return cfg
}

func levelEncoder(colors bool) zapcore.LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		var prefix, color string
		switch {
		case l <= DebugLevel:
			prefix, color = "DEBUG", "\033[35m" // magenta
		case l == VerboseLevel:
			prefix, color = "VERBOSE", "\033[36m" // cyan
		case l == zapcore.InfoLevel:
			prefix, color = "INFO", "\033[32m" // green
		case l == zapcore.WarnLevel:
			prefix, color = "WARN", "\033[33m" // yellow
		default:
			prefix, color = "ERROR", "\033[31m" // red
		}
		if colors {
			prefix = color + prefix + "\033[0m"
		}
		enc.AppendString(prefix + ":")
	}
}

// L returns the configured zap logger, or a no-op logger before Initialize.
func L() *zap.Logger {
	if defaultLogger == nil {
		return zap.NewNop()
	}
	return defaultLogger.zl.WithOptions(zap.AddCallerSkip(-2))
}

// Close flushes and closes any resources used by the logger
func Close() {
	if defaultLogger == nil {
		return
	}
	_ = defaultLogger.zl.Sync()
	if defaultLogger.file != nil {
		_ = defaultLogger.file.Close()
	}
}

// Info logs at info level (always shown)
func Info(msg string) { logAt(zapcore.InfoLevel, msg) }
func Infof(format string, args ...interface{}) { Info(fmt.Sprintf(format, args...)) }

// Verbose logs at verbose level (shown with --verbose)
func Verbose(msg string) { logAt(VerboseLevel, msg) }
func Verbosef(format string, args ...interface{}) { Verbose(fmt.Sprintf(format, args...)) }

// Debug logs at debug level (shown with --debug)
func Debug(msg string) { logAt(DebugLevel, msg) }
func Debugf(format string, args ...interface{}) { Debug(fmt.Sprintf(format, args...)) }

// Warn logs warnings
func Warn(msg string) { logAt(zapcore.WarnLevel, msg) }
func Warnf(format string, args ...interface{}) { Warn(fmt.Sprintf(format, args...)) }

// Error logs errors (always shown)
func Error(msg string) { logAt(zapcore.ErrorLevel, msg) }
func Errorf(format string, args ...interface{}) { Error(fmt.Sprintf(format, args...)) }

// StartTimer begins timing an operation
func StartTimer(operation string) {
	if defaultLogger != nil && defaultLogger.level <= VerboseLevel {
		defaultLogger.mu.Lock()
		defaultLogger.timings[operation] = time.Now()
		defaultLogger.mu.Unlock()
		Verbosef("⏱  Starting: %s", operation)
	}
}

// EndTimer logs the duration of an operation
func EndTimer(operation string) {
	if defaultLogger != nil && defaultLogger.level <= VerboseLevel {
		defaultLogger.mu.Lock()
		start, ok := defaultLogger.timings[operation]
		delete(defaultLogger.timings, operation)
		defaultLogger.mu.Unlock()
		if ok {
			Verbosef("✓ Completed %s in %v", operation, time.Since(start))
		}
	}
}

func logAt(level zapcore.Level, msg string) {
	if defaultLogger == nil {
		return
	}
	if ce := defaultLogger.zl.Check(level, msg); ce != nil {
		ce.Write()
	}
}
