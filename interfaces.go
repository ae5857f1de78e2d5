package fsuipc

import (
	"github.com/ehrlich-b/go-fsuipc/internal/interfaces"
	"github.com/ehrlich-b/go-fsuipc/internal/logging"
	"github.com/ehrlich-b/go-fsuipc/internal/queue"
)

// Re-export internal types for public API
type (
	Library     = interfaces.Library
	StatLibrary = interfaces.StatLibrary
	ResultCode  = interfaces.ResultCode
	Pinner      = queue.Pinner
	FlushReport = queue.FlushReport
	LogSeverity = logging.Severity
)

// CopyPinner pins caller buffers by copying them into pooled storage.
type CopyPinner = queue.CopyPinner

// DirectPinner hands caller buffers to the library unchanged.
type DirectPinner = queue.DirectPinner

// Library result codes
const (
	ResultOK      = interfaces.ResultOK
	ResultOpen    = interfaces.ResultOpen
	ResultNoFS    = interfaces.ResultNoFS
	ResultRegMsg  = interfaces.ResultRegMsg
	ResultAtom    = interfaces.ResultAtom
	ResultMap     = interfaces.ResultMap
	ResultView    = interfaces.ResultView
	ResultVersion = interfaces.ResultVersion
	ResultWrongFS = interfaces.ResultWrongFS
	ResultNotOpen = interfaces.ResultNotOpen
	ResultNoData  = interfaces.ResultNoData
	ResultTimeout = interfaces.ResultTimeout
	ResultSendMsg = interfaces.ResultSendMsg
	ResultData    = interfaces.ResultData
	ResultRunning = interfaces.ResultRunning
	ResultSize    = interfaces.ResultSize
)

// Log severities, 0 (trace) to 5 (fatal)
const (
	SeverityTrace   = logging.SeverityTrace
	SeverityDebug   = logging.SeverityDebug
	SeverityInfo    = logging.SeverityInfo
	SeverityWarning = logging.SeverityWarning
	SeverityError   = logging.SeverityError
	SeverityFatal   = logging.SeverityFatal
)

// SeverityFromByte maps a raw severity value; unknown values are info.
func SeverityFromByte(b byte) LogSeverity {
	return logging.SeverityFromByte(b)
}
