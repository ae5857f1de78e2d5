package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ehrlich-b/go-fsuipc/internal/constants"
)

// Severity is the numeric log severity used by file logging setup:
// 0 trace, 1 debug, 2 info, 3 warning, 4 error, 5 fatal.
type Severity uint8

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityFatal
)

var severityNames = [...]string{"trace", "debug", "info", "warning", "error", "fatal"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// Level returns the matching LogLevel.
func (s Severity) Level() LogLevel {
	switch s {
	case SeverityTrace:
		return LevelTrace
	case SeverityDebug:
		return LevelDebug
	case SeverityWarning:
		return LevelWarn
	case SeverityError:
		return LevelError
	case SeverityFatal:
		return LevelFatal
	default:
		return LevelInfo
	}
}

// SeverityFromByte maps a raw severity byte; unknown values are info.
func SeverityFromByte(b byte) Severity {
	if int(b) < len(severityNames) {
		return Severity(b)
	}
	return SeverityInfo
}

// FileConfig describes the optional rotating log file.
type FileConfig struct {
	Enable       bool
	FileName     string // defaults to constants.DefaultLogFileName
	Severity     Severity
	RotationSize int64 // bytes; defaults to constants.DefaultLogRotationSize
}

func (fc FileConfig) withDefaults() FileConfig {
	if fc.FileName == "" {
		fc.FileName = constants.DefaultLogFileName
	}
	if fc.RotationSize <= 0 {
		fc.RotationSize = constants.DefaultLogRotationSize
	}
	return fc
}

// rotationMegabytes converts a byte size to lumberjack's megabyte unit,
// rounding up so small sizes still rotate.
func rotationMegabytes(size int64) int {
	const mb = 1024 * 1024
	n := (size + mb - 1) / mb
	if n < 1 {
		n = 1
	}
	return int(n)
}

const footerLine = "This is the last line of the log. Good Bye."

// Sink owns the console writer and an optional rotating file, and builds
// loggers writing to both.
type Sink struct {
	mu      sync.Mutex
	console io.Writer
	level   LogLevel
	file    *lumberjack.Logger
	active  FileConfig
}

// NewSink creates a sink whose console side follows config.
func NewSink(config *Config) *Sink {
	if config == nil {
		config = DefaultConfig()
	}
	return &Sink{
		console: consoleOutput(config),
		level:   config.Level,
	}
}

// Setup enables, reconfigures or disables file logging and returns a logger
// writing to the console plus the file when enabled.
func (s *Sink) Setup(fc FileConfig) (*Logger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fc.Enable {
		if err := s.closeFile(); err != nil {
			return nil, err
		}
		return newLogger(s.console, s.level), nil
	}

	fc = fc.withDefaults()
	if s.file != nil && s.file.Filename != fc.FileName {
		if err := s.closeFile(); err != nil {
			return nil, err
		}
	}
	if s.file == nil {
		s.file = &lumberjack.Logger{Filename: fc.FileName}
		s.file.MaxSize = rotationMegabytes(fc.RotationSize)
		header := fmt.Sprintf("%s Started logging to file: %s with severity level: %s and rotation size: %d\n",
			time.Now().Format(time.RFC3339), fc.FileName, fc.Severity, fc.RotationSize)
		if _, err := s.file.Write([]byte(header)); err != nil {
			s.file = nil
			return nil, fmt.Errorf("failed to open log file %s: %w", fc.FileName, err)
		}
	}
	s.file.MaxSize = rotationMegabytes(fc.RotationSize)
	s.active = fc

	fileWriter := zerolog.ConsoleWriter{Out: s.file, NoColor: true, TimeFormat: time.RFC3339}
	level := fc.Severity.Level()
	// The logger level gates both outputs, so the console keeps its own
	// threshold through a level writer.
	multi := zerolog.MultiLevelWriter(
		levelWriter{w: s.console, min: zerolog.Level(s.level)},
		levelWriter{w: fileWriter, min: zerolog.Level(level)},
	)
	lowest := level
	if s.level < lowest {
		lowest = s.level
	}
	return newLogger(multi, lowest), nil
}

// Active returns the current file configuration and whether a file is open.
func (s *Sink) Active() (FileConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.file != nil
}

// Close writes the footer and closes the file, if any.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeFile()
}

func (s *Sink) closeFile() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	s.active = FileConfig{}
	f.Write([]byte(time.Now().Format(time.RFC3339) + " " + footerLine + "\n"))
	return f.Close()
}

// levelWriter forwards only events at or above min.
type levelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (lw levelWriter) Write(p []byte) (int, error) {
	return lw.w.Write(p)
}

func (lw levelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < lw.min {
		return len(p), nil
	}
	return lw.w.Write(p)
}
