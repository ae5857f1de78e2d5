package constants

import "time"

// Default configuration constants
const (
	// DefaultLogFileName is the log file used when file logging is enabled
	// without an explicit name
	DefaultLogFileName = "fsuipc_go.log"

	// DefaultLogRotationSize is the log file size that triggers rotation (10MB)
	DefaultLogRotationSize = 10 * 1024 * 1024

	// DefaultMemorySize is the size of the simulated FSUIPC offset space (64KB)
	DefaultMemorySize = 64 * 1024

	// MaxOffset is the largest offset accepted by typed data requests
	MaxOffset = 0x7FFFFFFF
)

// Timing constants for the polling client
const (
	// DefaultProcessPeriod is the interval between processing cycles
	DefaultProcessPeriod = 250 * time.Millisecond

	// DefaultConnectPeriod is the interval between connection attempts
	DefaultConnectPeriod = 2 * time.Second
)

// Recorder constants
const (
	// DefaultRecorderBatchSize is the number of samples buffered before a
	// transaction is committed
	DefaultRecorderBatchSize = 64
)
