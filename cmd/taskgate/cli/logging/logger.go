// Package logging provides structured logging for taskgate using slog.
//
// Hooks run as short-lived processes, so logs append to a single JSON file
// under ~/.taskgate/logs rather than stdout, which the hook protocol owns.
package logging

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/taskgate/cli/cmd/taskgate/cli/paths"
)

// LogLevelEnvVar is the environment variable that controls log level.
const LogLevelEnvVar = "TASKGATE_LOG_LEVEL"

// logFileName is the shared append-only log file under the logs directory.
const logFileName = "taskgate.log"

var (
	logger       *slog.Logger
	logFile      *os.File
	logBufWriter *bufio.Writer

	// mu protects logger, logFile and logBufWriter
	mu sync.RWMutex

	// logLevelGetter optionally supplies the level from settings. Set via
	// SetLogLevelGetter before Init to avoid a settings import cycle.
	logLevelGetter func() string
)

// SetLogLevelGetter sets a callback used when TASKGATE_LOG_LEVEL is unset.
func SetLogLevelGetter(getter func() string) {
	mu.Lock()
	defer mu.Unlock()
	logLevelGetter = getter
}

// Init opens the log file. Falls back to stderr when the logs directory
// cannot be created; logging never fails the caller.
func Init() {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	levelStr := os.Getenv(LogLevelEnvVar)
	if levelStr == "" && logLevelGetter != nil {
		levelStr = logLevelGetter()
	}
	level := parseLogLevel(levelStr)

	logsDir, err := paths.LogsDir()
	if err != nil {
		logger = createLogger(os.Stderr, level)
		return
	}
	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		logger = createLogger(os.Stderr, level)
		return
	}

	f, err := os.OpenFile(filepath.Join(logsDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		logger = createLogger(os.Stderr, level)
		return
	}

	logFile = f
	logBufWriter = bufio.NewWriterSize(f, 8192)
	logger = createLogger(logBufWriter, level)
}

// Close flushes and closes the log file. Safe to call multiple times.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if logBufWriter != nil {
		_ = logBufWriter.Flush()
		logBufWriter = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	logger = nil
}

func createLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// current returns the active logger, defaulting to a stderr logger so log
// calls before Init are not lost.
func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return logger
}

// contextAttrs extracts structured attributes carried by the context.
func contextAttrs(ctx context.Context) []any {
	var attrs []any
	if component := ComponentFromContext(ctx); component != "" {
		attrs = append(attrs, slog.String("component", component))
	}
	if sessionID := SessionIDFromContext(ctx); sessionID != "" {
		attrs = append(attrs, slog.String("session_id", sessionID))
	}
	return attrs
}

// Debug logs at debug level with context attributes.
func Debug(ctx context.Context, msg string, args ...any) {
	current().Debug(msg, append(contextAttrs(ctx), args...)...)
}

// Info logs at info level with context attributes.
func Info(ctx context.Context, msg string, args ...any) {
	current().Info(msg, append(contextAttrs(ctx), args...)...)
}

// Warn logs at warn level with context attributes.
func Warn(ctx context.Context, msg string, args ...any) {
	current().Warn(msg, append(contextAttrs(ctx), args...)...)
}

// Error logs at error level with context attributes.
func Error(ctx context.Context, msg string, args ...any) {
	current().Error(msg, append(contextAttrs(ctx), args...)...)
}
