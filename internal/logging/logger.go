// Package logging provides structured logging for the go-fsuipc project
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with FSUIPC-specific structured fields
type Logger struct {
	zlog      zerolog.Logger
	sessionID string
}

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// LogLevel represents the available log levels
type LogLevel int

const (
	LevelTrace LogLevel = LogLevel(zerolog.TraceLevel)
	LevelDebug LogLevel = LogLevel(zerolog.DebugLevel)
	LevelInfo  LogLevel = LogLevel(zerolog.InfoLevel)
	LevelWarn  LogLevel = LogLevel(zerolog.WarnLevel)
	LevelError LogLevel = LogLevel(zerolog.ErrorLevel)
	LevelFatal LogLevel = LogLevel(zerolog.FatalLevel)
)

// ParseLevel converts a level name such as "debug" or "warning".
func ParseLevel(s string) (LogLevel, error) {
	if s == "warning" {
		return LevelWarn, nil
	}
	l, err := zerolog.ParseLevel(s)
	if err != nil {
		return LevelInfo, err
	}
	if l == zerolog.NoLevel {
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return LogLevel(l), nil
}

// Config holds logging configuration
type Config struct {
	Level   LogLevel
	Format  string // "json" or "text"
	Output  io.Writer
	Sync    bool // If true, writes are synchronous (useful for testing)
	NoColor bool // If true, disables ANSI color codes (useful for testing)
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// asyncWriter wraps an io.Writer with an async buffered channel
// This prevents blocking in hot paths
type asyncWriter struct {
	out    io.Writer
	ch     chan []byte
	done   chan struct{}
	closed bool
	mu     sync.Mutex
}

func newAsyncWriter(w io.Writer, bufferSize int) *asyncWriter {
	aw := &asyncWriter{
		out:  w,
		ch:   make(chan []byte, bufferSize),
		done: make(chan struct{}),
	}
	go aw.run()
	return aw
}

func (aw *asyncWriter) run() {
	defer close(aw.done)
	for msg := range aw.ch {
		aw.out.Write(msg)
	}
}

func (aw *asyncWriter) Write(p []byte) (n int, err error) {
	aw.mu.Lock()
	if aw.closed {
		aw.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	aw.mu.Unlock()

	// Make a copy since p might be reused
	msg := make([]byte, len(p))
	copy(msg, p)

	// Non-blocking write - drop if buffer full (better than blocking)
	select {
	case aw.ch <- msg:
		return len(p), nil
	default:
		return len(p), nil
	}
}

func (aw *asyncWriter) Close() error {
	aw.mu.Lock()
	if !aw.closed {
		aw.closed = true
		close(aw.ch)
	}
	aw.mu.Unlock()
	<-aw.done
	return nil
}

// consoleOutput builds the primary writer described by config.
func consoleOutput(config *Config) io.Writer {
	// Use async writer unless Sync mode is enabled
	var output io.Writer = config.Output
	if !config.Sync {
		output = newAsyncWriter(config.Output, 1000)
	}
	if config.Format == "json" {
		return output
	}
	return zerolog.ConsoleWriter{Out: output, NoColor: config.NoColor}
}

// NewLogger creates a new structured logger
func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	return newLogger(consoleOutput(config), config.Level)
}

func newLogger(w io.Writer, level LogLevel) *Logger {
	zlog := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{zlog: zlog.Level(zerolog.Level(level))}
}

// Default returns the default logger, creating it if necessary
func Default() *Logger {
	mu.RLock()
	if defaultLogger != nil {
		defer mu.RUnlock()
		return defaultLogger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil)
	}
	return defaultLogger
}

// SetDefault sets the default logger
func SetDefault(logger *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// WithSession returns a logger with session context
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{
		zlog:      l.zlog.With().Str("session", id).Logger(),
		sessionID: id,
	}
}

// WithRequest returns a logger with request context
func (l *Logger) WithRequest(op string, offset, size uint32) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("op", op).
			Str("offset", fmt.Sprintf("0x%04X", offset)).
			Uint32("size", size).
			Logger(),
		sessionID: l.sessionID,
	}
}

// WithError returns a logger with error context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		zlog:      l.zlog.With().Err(err).Logger(),
		sessionID: l.sessionID,
	}
}

// SessionID returns the session id attached with WithSession, if any.
func (l *Logger) SessionID() string { return l.sessionID }

func (l *Logger) log(event *zerolog.Event, msg string, args []any) {
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			key, ok := args[i].(string)
			if !ok {
				key = fmt.Sprint(args[i])
			}
			event = event.Interface(key, args[i+1])
		}
	}
	event.Msg(msg)
}

// Standard logging methods
func (l *Logger) Trace(msg string, args ...any) { l.log(l.zlog.Trace(), msg, args) }
func (l *Logger) Debug(msg string, args ...any) { l.log(l.zlog.Debug(), msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(l.zlog.Info(), msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(l.zlog.Warn(), msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(l.zlog.Error(), msg, args) }

// Fatal logs at fatal severity. Unlike zerolog's Fatal it does not exit.
func (l *Logger) Fatal(msg string, args ...any) {
	l.log(l.zlog.WithLevel(zerolog.FatalLevel), msg, args)
}

// Context-aware logging
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.Debug(msg, args...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.Info(msg, args...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.Warn(msg, args...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.Error(msg, args...)
}

// Printf-style logging for compatibility
func (l *Logger) Printf(format string, args ...any) {
	l.zlog.Info().Msgf(format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zlog.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.zlog.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zlog.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zlog.Error().Msgf(format, args...)
}

// Convenience functions for global logger
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

func DebugCtx(ctx context.Context, msg string, args ...any) {
	Default().DebugContext(ctx, msg, args...)
}

func InfoCtx(ctx context.Context, msg string, args ...any) {
	Default().InfoContext(ctx, msg, args...)
}

func WarnCtx(ctx context.Context, msg string, args ...any) {
	Default().WarnContext(ctx, msg, args...)
}

func ErrorCtx(ctx context.Context, msg string, args ...any) {
	Default().ErrorContext(ctx, msg, args...)
}
