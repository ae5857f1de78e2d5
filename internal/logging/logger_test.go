package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func syncLogger(buf *bytes.Buffer, level LogLevel) *Logger {
	return NewLogger(&Config{
		Level:   level,
		Format:  "text",
		Output:  buf,
		Sync:    true,
		NoColor: true,
	})
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "default config",
			config: nil,
		},
		{
			name: "json format",
			config: &Config{
				Level:  LevelInfo,
				Format: "json",
				Output: &bytes.Buffer{},
			},
		},
		{
			name: "text format",
			config: &Config{
				Level:  LevelDebug,
				Format: "text",
				Output: &bytes.Buffer{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Error("NewLogger() returned nil")
			}
		})
	}
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := syncLogger(&buf, LevelDebug)

	sessionLogger := logger.WithSession("abc123")
	sessionLogger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "session=abc123") {
		t.Errorf("Expected session=abc123 in output, got: %s", output)
	}
	assert.Equal(t, "abc123", sessionLogger.SessionID())

	buf.Reset()
	reqLogger := sessionLogger.WithRequest("READ", 0x0200, 4)
	reqLogger.Info("request message")

	output = buf.String()
	for _, want := range []string{"session=abc123", "op=READ", "offset=0x0200", "size=4"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %s in output, got: %s", want, output)
		}
	}
	assert.Equal(t, "abc123", reqLogger.SessionID())
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := syncLogger(&buf, LevelDebug)

	logger.WithError(errors.New("test error")).Error("operation failed")

	output := buf.String()
	if !strings.Contains(output, "test error") {
		t.Errorf("Expected error message in output, got: %s", output)
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := syncLogger(&buf, LevelWarn)

	logger.Trace("trace message")
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	logger.Fatal("fatal message")

	output := buf.String()
	assert.NotContains(t, output, "trace message")
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
	assert.Contains(t, output, "fatal message")
}

func TestKeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := syncLogger(&buf, LevelInfo)

	logger.Info("opened", "fs_version", "MSFS", 7, "odd", "dangling")

	output := buf.String()
	assert.Contains(t, output, "fs_version=MSFS")
	assert.Contains(t, output, "7=odd")
	assert.NotContains(t, output, "dangling")
}

func TestRequestEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := syncLogger(&buf, LevelTrace)

	logger.RequestStored("WRITE", 0x3000, 2, 1)
	assert.Contains(t, buf.String(), "stored request")
	assert.Contains(t, buf.String(), "offset=0x3000")
	assert.Contains(t, buf.String(), "pending=1")

	buf.Reset()
	logger.PinFailed("READ", 0x10, 4, errors.New("no memory"))
	assert.Contains(t, buf.String(), "failed to pin caller buffer")

	buf.Reset()
	logger.FlushStart(3)
	logger.FlushDone(2, 1)
	assert.Contains(t, buf.String(), "releasing requests")
	assert.Contains(t, buf.String(), "released=2")
	assert.Contains(t, buf.String(), "WRN")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"debug", LevelDebug, false},
		{"warning", LevelWarn, false},
		{"warn", LevelWarn, false},
		{"fatal", LevelFatal, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	logger1 := Default()
	logger2 := Default()

	if logger1 != logger2 {
		t.Error("Default() should return the same instance")
	}

	var buf bytes.Buffer
	custom := syncLogger(&buf, LevelInfo)
	SetDefault(custom)
	defer SetDefault(logger1)

	Info("global message")
	assert.Contains(t, buf.String(), "global message")
}

func TestNop(t *testing.T) {
	Nop().Error("nothing")
}
