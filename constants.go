package fsuipc

import "github.com/ehrlich-b/go-fsuipc/internal/constants"

// Re-export constants for public API
const (
	DefaultLogFileName     = constants.DefaultLogFileName
	DefaultLogRotationSize = constants.DefaultLogRotationSize
	DefaultMemorySize      = constants.DefaultMemorySize
	MaxOffset              = constants.MaxOffset
	DefaultProcessPeriod   = constants.DefaultProcessPeriod
	DefaultConnectPeriod   = constants.DefaultConnectPeriod
)
