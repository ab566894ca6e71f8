package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	once         sync.Once
)

// Config selects where logs go and how verbose they are.
type Config struct {
	// FilePath adds a log file next to stdout when set.
	FilePath string
	// Level is a zerolog level name; empty means info.
	Level string
}

// InitLogging configures the global logger. Only the first call has effect.
func InitLogging(cfg Config) error {
	var initErr error
	once.Do(func() {
		level, err := ParseLevel(cfg.Level)
		if err != nil {
			initErr = err
			return
		}

		writers := []io.Writer{os.Stdout}
		if cfg.FilePath != "" {
			file, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
			if err != nil {
				// The logger is not ready yet.
				fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", cfg.FilePath, err)
			} else {
				writers = append(writers, file)
			}
		}

		globalLogger = New(zerolog.MultiLevelWriter(writers...), level)
		log.Logger = globalLogger
	})
	return initErr
}

// New builds a timestamped logger writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}

// ParseLevel maps a level name to a zerolog level; empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// WithLogger returns a context carrying the global logger with extra fields.
func WithLogger(ctx context.Context, fields map[string]interface{}) context.Context {
	l := globalLogger.With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// getLogger returns the context logger, or the global one when ctx has none.
func getLogger(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &globalLogger
	}
	return l
}

// DebugLog logs a debug level message.
func DebugLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Debug().Msgf(msg, args...)
}

// InfoLog logs an info level message.
func InfoLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Info().Msgf(msg, args...)
}

// WarnLog logs a warning level message.
func WarnLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Warn().Msgf(msg, args...)
}

// ErrorLog logs an error level message.
func ErrorLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Error().Msgf(msg, args...)
}

// ErrorLogWithErr logs an error level message with err as the error field.
func ErrorLogWithErr(ctx context.Context, err error, msg string, args ...interface{}) {
	getLogger(ctx).Error().Err(err).Msgf(msg, args...)
}
