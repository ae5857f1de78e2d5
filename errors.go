package fsuipc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ehrlich-b/go-fsuipc/internal/queue"
)

// Error represents a structured bridge error with request context and the
// underlying library's result code
type Error struct {
	Op     string     // Operation that failed (e.g., "READ", "PROCESS")
	Offset uint32     // FSUIPC offset (0 if not applicable)
	Size   uint32     // Transfer size in bytes (0 if not applicable)
	Code   ErrorCode  // High-level error category
	Result ResultCode // Library result code (ResultOK if the library was not reached)
	Msg    string     // Human-readable message
	Inner  error      // Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	if e.Offset != 0 || e.Size != 0 {
		parts = append(parts, fmt.Sprintf("offset=0x%04X", e.Offset), fmt.Sprintf("size=%d", e.Size))
	}

	if e.Result != ResultOK {
		parts = append(parts, fmt.Sprintf("result=%s", e.Result))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("fsuipc: %s (%s)", msg, strings.Join(parts, " "))
	}

	return fmt.Sprintf("fsuipc: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support for FSUIPCError and ResultCode comparison
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if fe, ok := target.(FSUIPCError); ok {
		return e.Code == ErrorCode(fe)
	}

	if rc, ok := target.(ResultCode); ok {
		return e.Result == rc && rc != ResultOK
	}

	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}

	return false
}

// ErrorCode represents high-level error categories
type ErrorCode string

const (
	ErrCodeInvalidParameters ErrorCode = "invalid parameters"
	ErrCodePinFailed         ErrorCode = "failed to pin buffer"
	ErrCodeNoRuntime         ErrorCode = "runtime unavailable"
	ErrCodeLibrary           ErrorCode = "library call failed"
	ErrCodeAlreadyOpen       ErrorCode = "already open"
	ErrCodeNotOpen           ErrorCode = "not open"
	ErrCodeNoSimulator       ErrorCode = "simulator not available"
	ErrCodeVersion           ErrorCode = "version mismatch"
	ErrCodeNoData            ErrorCode = "no requests"
	ErrCodeTimeout           ErrorCode = "timeout"
	ErrCodeIPC               ErrorCode = "IPC failure"
	ErrCodeRequestFull       ErrorCode = "request memory full"
)

// FSUIPCError is a plain sentinel usable with errors.Is
type FSUIPCError string

func (e FSUIPCError) Error() string {
	return string(e)
}

// Sentinel errors matching the error categories
const (
	ErrInvalidParameters FSUIPCError = "invalid parameters"
	ErrPinFailed         FSUIPCError = "failed to pin buffer"
	ErrNoRuntime         FSUIPCError = "runtime unavailable"
	ErrLibrary           FSUIPCError = "library call failed"
	ErrAlreadyOpen       FSUIPCError = "already open"
	ErrNotOpen           FSUIPCError = "not open"
	ErrNoSimulator       FSUIPCError = "simulator not available"
	ErrVersion           FSUIPCError = "version mismatch"
	ErrNoData            FSUIPCError = "no requests"
	ErrTimeout           FSUIPCError = "timeout"
	ErrIPC               FSUIPCError = "IPC failure"
	ErrRequestFull       FSUIPCError = "request memory full"
)

// Error constructors

// NewError creates a new structured error
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{
		Op:   op,
		Code: code,
		Msg:  msg,
	}
}

// NewRequestError creates an error for a specific transfer
func NewRequestError(op string, offset, size uint32, code ErrorCode, msg string) *Error {
	return &Error{
		Op:     op,
		Offset: offset,
		Size:   size,
		Code:   code,
		Msg:    msg,
	}
}

// NewResultError creates an error from a failing library call
func NewResultError(op string, offset, size uint32, result ResultCode) *Error {
	return &Error{
		Op:     op,
		Offset: offset,
		Size:   size,
		Code:   mapResultToCode(result),
		Result: result,
		Msg:    result.Message(),
		Inner:  result,
	}
}

// WrapError wraps an existing error with bridge context
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}

	// If it's already a structured error, just update the operation
	var fe *Error
	if errors.As(inner, &fe) {
		wrapped := *fe
		wrapped.Op = op
		return &wrapped
	}

	var rc ResultCode
	if errors.As(inner, &rc) {
		return NewResultError(op, 0, 0, rc)
	}

	return &Error{
		Op:    op,
		Code:  mapQueueErrorToCode(inner),
		Msg:   inner.Error(),
		Inner: inner,
	}
}

// mapResultToCode maps library result codes to error categories
func mapResultToCode(result ResultCode) ErrorCode {
	switch result {
	case ResultOpen:
		return ErrCodeAlreadyOpen
	case ResultNotOpen:
		return ErrCodeNotOpen
	case ResultNoFS, ResultRunning:
		return ErrCodeNoSimulator
	case ResultVersion, ResultWrongFS:
		return ErrCodeVersion
	case ResultNoData:
		return ErrCodeNoData
	case ResultTimeout:
		return ErrCodeTimeout
	case ResultRegMsg, ResultAtom, ResultMap, ResultView, ResultSendMsg, ResultData:
		return ErrCodeIPC
	case ResultSize:
		return ErrCodeRequestFull
	default:
		return ErrCodeLibrary
	}
}

// mapQueueErrorToCode maps request bookkeeping errors to error categories
func mapQueueErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, queue.ErrNoRuntime):
		return ErrCodeNoRuntime
	case errors.Is(err, queue.ErrPinFailed):
		return ErrCodePinFailed
	case errors.Is(err, queue.ErrNilBuffer),
		errors.Is(err, queue.ErrSizeExceedsBuffer),
		errors.Is(err, queue.ErrAlreadyArmed):
		return ErrCodeInvalidParameters
	default:
		return ErrCodeLibrary
	}
}

// IsCode checks if an error matches a specific error code
func IsCode(err error, code ErrorCode) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

// IsResult checks if an error carries a specific library result code
func IsResult(err error, result ResultCode) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Result == result
	}
	var rc ResultCode
	return errors.As(err, &rc) && rc == result
}
