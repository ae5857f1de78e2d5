package logging

import "fmt"

// Request bookkeeping events. They share field names so log lines can be
// filtered by op/offset regardless of which layer emitted them.

func hexOffset(offset uint32) string {
	return fmt.Sprintf("0x%04X", offset)
}

// RequestStored logs a request handed to the library and registered.
func (l *Logger) RequestStored(op string, offset, size uint32, pending int) {
	l.zlog.Debug().
		Str("op", op).
		Str("offset", hexOffset(offset)).
		Uint32("size", size).
		Int("pending", pending).
		Msg("stored request")
}

// RequestFailed logs a request the library refused.
func (l *Logger) RequestFailed(op string, offset, size uint32, result fmt.Stringer, err error) {
	l.zlog.Error().
		Str("op", op).
		Str("offset", hexOffset(offset)).
		Uint32("size", size).
		Stringer("result", result).
		Err(err).
		Msg("request failed")
}

// PinFailed logs a caller buffer that could not be pinned.
func (l *Logger) PinFailed(op string, offset, size uint32, err error) {
	l.zlog.Warn().
		Str("op", op).
		Str("offset", hexOffset(offset)).
		Uint32("size", size).
		Err(err).
		Msg("failed to pin caller buffer")
}

// FlushStart logs the beginning of a registry flush.
func (l *Logger) FlushStart(pending int) {
	l.zlog.Trace().Int("pending", pending).Msg("releasing requests")
}

// FlushDone logs the end of a registry flush.
func (l *Logger) FlushDone(released, failed int) {
	event := l.zlog.Debug()
	if failed > 0 {
		event = l.zlog.Warn()
	}
	event.Int("released", released).Int("failed", failed).Msg("released requests")
}
