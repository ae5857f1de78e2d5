// Package fsuipc bridges Go callers to an FSUIPC client library. Reads and
// writes are only scheduled by the library and executed by a later Process
// call, so the session keeps every caller buffer pinned until then and
// syncs it back afterwards.
package fsuipc

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/ehrlich-b/go-fsuipc/internal/interfaces"
	"github.com/ehrlich-b/go-fsuipc/internal/logging"
	"github.com/ehrlich-b/go-fsuipc/internal/queue"
)

// SessionState represents the connection state as last reported
type SessionState string

const (
	SessionStateClosed SessionState = "closed"
	SessionStateOpen   SessionState = "open"
)

// Options contains optional configuration for a session
type Options struct {
	// Pinner pins caller buffers. Defaults to CopyPinner.
	Pinner Pinner

	// Observer receives metrics events. Defaults to a MetricsObserver on
	// the session's own Metrics.
	Observer Observer

	// LogOutput is the console log destination. Defaults to os.Stderr.
	LogOutput io.Writer

	// LogLevel is the console level name ("trace" .. "fatal"). Defaults to info.
	LogLevel string

	// LogFormat is "text" or "json". Defaults to text.
	LogFormat string

	// Log enables file logging from the start.
	Log *LogConfig
}

// DefaultOptions returns the options used when nil is passed to NewSession
func DefaultOptions() *Options {
	return &Options{
		Pinner:    CopyPinner{},
		LogOutput: os.Stderr,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LogConfig configures the rotating log file. Zero FileName and
// RotationSize select DefaultLogFileName and DefaultLogRotationSize.
type LogConfig struct {
	FileLogging  bool
	FileName     string
	Severity     LogSeverity
	RotationSize int64
}

// Session owns the request registry, the last result code, the logger and
// the metrics for one underlying library instance.
type Session struct {
	ID xid.ID

	mu       sync.Mutex
	lib      Library
	pinner   Pinner
	registry *queue.Registry
	result   ResultCode
	state    SessionState
	openedAt time.Time

	sink     *logging.Sink
	logger   *logging.Logger
	metrics  *Metrics
	observer Observer
}

// SessionInfo is a reporting snapshot of a session
type SessionInfo struct {
	ID            string       `json:"id"`
	State         SessionState `json:"state"`
	Result        string       `json:"result"`
	ResultMessage string       `json:"result_message"`
	Pending       int          `json:"pending"`
	FSVersion     string       `json:"fs_version"`
	Version       string       `json:"fsuipc_version"`
	LibVersion    string       `json:"lib_version"`
	OpenedAt      *time.Time   `json:"opened_at,omitempty"`
}

// NewSession binds a session to lib. This is the equivalent of loading the
// bridge: nothing is opened yet.
func NewSession(lib Library, options *Options) *Session {
	if options == nil {
		options = DefaultOptions()
	}

	pinner := options.Pinner
	if pinner == nil {
		pinner = CopyPinner{}
	}

	logConfig := logging.DefaultConfig()
	if options.LogOutput != nil {
		logConfig.Output = options.LogOutput
	}
	if options.LogFormat != "" {
		logConfig.Format = options.LogFormat
	}
	if options.LogLevel != "" {
		if level, err := logging.ParseLevel(options.LogLevel); err == nil {
			logConfig.Level = level
		}
	}
	sink := logging.NewSink(logConfig)
	base, _ := sink.Setup(logging.FileConfig{})

	metrics := NewMetrics()
	var observer Observer = NewMetricsObserver(metrics)
	if options.Observer != nil {
		observer = options.Observer
	}

	s := &Session{
		ID:       xid.New(),
		lib:      lib,
		pinner:   pinner,
		result:   ResultOK,
		state:    SessionStateClosed,
		sink:     sink,
		metrics:  metrics,
		observer: observer,
	}
	s.logger = base.WithSession(s.ID.String())
	s.registry = queue.NewRegistry(s.logger)

	if options.Log != nil {
		if err := s.SetupLogging(*options.Log); err != nil {
			s.logger.WithError(err).Warn("failed to set up file logging")
		}
	}
	return s
}

// SetupLogging enables, reconfigures or disables file logging.
func (s *Session) SetupLogging(cfg LogConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger, err := s.sink.Setup(logging.FileConfig{
		Enable:       cfg.FileLogging,
		FileName:     cfg.FileName,
		Severity:     cfg.Severity,
		RotationSize: cfg.RotationSize,
	})
	if err != nil {
		return WrapError("SETUP_LOGGING", err)
	}
	s.logger = logger.WithSession(s.ID.String())
	s.registry.SetLogger(s.logger)
	return nil
}

// Logger returns the session logger.
func (s *Session) Logger() *logging.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger
}

// Open links the library to the simulator. sim may be SimAny.
func (s *Session) Open(sim SimVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.lib.Open(uint32(sim))
	s.setResult(err)
	if err != nil {
		s.logger.WithError(err).Error("failed to open connection", "sim", sim.String(), "result", s.result.String())
		return NewResultError("OPEN", 0, 0, s.result)
	}

	s.state = SessionStateOpen
	s.openedAt = time.Now()
	s.logger.Info("connection opened",
		"fs_version", SimVersion(s.lib.FSVersion()).String(),
		"fsuipc_version", FormatVersion(s.lib.Version()))
	return nil
}

// Close disconnects and then releases every pending request, so callers
// still see whatever the pinned storage held.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.lib.Close()
	wasOpen := s.state == SessionStateOpen
	s.state = SessionStateClosed
	s.flushLocked()
	if wasOpen {
		s.logger.Info("connection closed")
	}
	if err != nil {
		return WrapError("CLOSE", err)
	}
	return nil
}

// Read schedules a read of size bytes at offset into buf. buf is updated by
// the next Process or Close.
func (s *Session) Read(offset, size uint32, buf []byte) error {
	return s.schedule(queue.OpRead, offset, size, buf)
}

// Write schedules a write of the first size bytes of buf at offset.
func (s *Session) Write(offset, size uint32, buf []byte) error {
	return s.schedule(queue.OpWrite, offset, size, buf)
}

func (s *Session) schedule(op queue.Op, offset, size uint32, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	r := queue.NewRecord(s.pinner, op, offset, size)
	if err := r.Alloc(buf); err != nil {
		s.logger.PinFailed(op.String(), offset, size, err)
		s.observe(op, size, start, false)
		return s.requestError(op.String(), offset, size, err)
	}

	err := s.call(op, offset, r.Pinned())
	s.setResult(err)
	if err != nil {
		s.logger.RequestFailed(op.String(), offset, size, s.result, err)
		if derr := r.Discard(); derr != nil {
			s.logger.WithRequest(op.String(), offset, size).WithError(derr).Warn("failed to discard request")
		}
		s.observe(op, size, start, false)
		return NewResultError(op.String(), offset, size, s.result)
	}

	s.registry.Add(r)
	pending := s.registry.Len()
	s.logger.RequestStored(op.String(), offset, size, pending)
	s.observer.ObservePending(uint32(pending))
	s.observe(op, size, start, true)
	return nil
}

// Process executes every scheduled request and then releases all pending
// records, whether or not the library call succeeded.
func (s *Session) Process() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.lib.Process()
	s.setResult(err)
	s.observer.ObserveProcess(uint64(time.Since(start).Nanoseconds()), err == nil)
	s.flushLocked()

	if err != nil {
		s.logger.WithError(err).Error("process failed", "result", s.result.String())
		return NewResultError("PROCESS", 0, 0, s.result)
	}
	s.logger.Trace("processed requests")
	return nil
}

// ReadData reads size bytes at offset into buf immediately: schedule,
// process and sync back in one call. Other scheduled requests are executed
// by the same Process but stay pending until the next Process or Close.
func (s *Session) ReadData(offset, size uint32, buf []byte) error {
	return s.transfer(queue.OpRead, offset, size, buf)
}

// WriteData writes the first size bytes of buf at offset immediately.
func (s *Session) WriteData(offset, size uint32, buf []byte) error {
	return s.transfer(queue.OpWrite, offset, size, buf)
}

func (s *Session) transfer(op queue.Op, offset, size uint32, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	r := queue.NewRecord(s.pinner, op, offset, size)
	if err := r.Alloc(buf); err != nil {
		s.logger.PinFailed(op.String(), offset, size, err)
		s.observe(op, size, start, false)
		return s.requestError(op.String(), offset, size, err)
	}

	var first error
	err := s.call(op, offset, r.Pinned())
	s.setResult(err)
	if err != nil {
		s.logger.RequestFailed(op.String(), offset, size, s.result, err)
		first = NewResultError(op.String(), offset, size, s.result)
	}
	s.observe(op, size, start, err == nil)

	pstart := time.Now()
	err = s.lib.Process()
	s.setResult(err)
	s.observer.ObserveProcess(uint64(time.Since(pstart).Nanoseconds()), err == nil)
	if err != nil && first == nil {
		s.logger.WithError(err).Error("process failed", "result", s.result.String())
		first = NewResultError("PROCESS", offset, size, s.result)
	}

	if err := r.Release(); err != nil {
		s.logger.WithRequest(op.String(), offset, size).WithError(err).Warn("failed to release request")
		if first == nil {
			first = s.requestError(op.String(), offset, size, err)
		}
	}
	return first
}

// Result returns the result code of the most recent library call.
func (s *Session) Result() ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// State returns the connection state as last reported by Open/Close.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the number of requests waiting for Process.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Len()
}

// FSVersion returns the connected simulator, or SimAny when not open.
func (s *Session) FSVersion() SimVersion {
	return SimVersion(s.lib.FSVersion())
}

// Version returns the FSUIPC version in BCD form.
func (s *Session) Version() uint32 {
	return s.lib.Version()
}

// VersionString returns the FSUIPC version as text, e.g. "7.100".
func (s *Session) VersionString() string {
	return FormatVersion(s.lib.Version())
}

// LibVersion returns the client library version times 1000.
func (s *Session) LibVersion() uint32 {
	return s.lib.LibVersion()
}

// LibVersionString returns the client library version as text, e.g. "2.002".
func (s *Session) LibVersionString() string {
	return FormatLibVersion(s.lib.LibVersion())
}

// Metrics returns the session metrics.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// MetricsSnapshot returns a snapshot of the session metrics.
func (s *Session) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// Info returns a reporting snapshot of the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := SessionInfo{
		ID:            s.ID.String(),
		State:         s.state,
		Result:        s.result.String(),
		ResultMessage: s.result.Message(),
		Pending:       s.registry.Len(),
		FSVersion:     SimVersion(s.lib.FSVersion()).String(),
		Version:       FormatVersion(s.lib.Version()),
		LibVersion:    FormatLibVersion(s.lib.LibVersion()),
	}
	if s.state == SessionStateOpen {
		opened := s.openedAt
		info.OpenedAt = &opened
	}
	return info
}

func (s *Session) call(op queue.Op, offset uint32, pinned []byte) error {
	if op == queue.OpWrite {
		return s.lib.Write(offset, pinned)
	}
	return s.lib.Read(offset, pinned)
}

func (s *Session) setResult(err error) {
	s.result = interfaces.ResultOf(err)
}

func (s *Session) flushLocked() {
	report := s.registry.FlushAll()
	if report.Released > 0 || report.Failed > 0 {
		s.observer.ObserveFlush(uint64(report.Released), uint64(report.Failed))
	}
}

func (s *Session) observe(op queue.Op, size uint32, start time.Time, success bool) {
	latency := uint64(time.Since(start).Nanoseconds())
	if op == queue.OpWrite {
		s.observer.ObserveWrite(uint64(size), latency, success)
		return
	}
	s.observer.ObserveRead(uint64(size), latency, success)
}

func (s *Session) requestError(op string, offset, size uint32, err error) *Error {
	e := WrapError(op, err)
	e.Offset = offset
	e.Size = size
	return e
}
