// Package queue holds the deferred request bookkeeping: records that pin a
// caller buffer until the underlying library has processed the batch, and
// the registry that releases them afterwards.
package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRuntime is returned when a record has no pinner to work with.
	ErrNoRuntime = errors.New("queue: runtime handle unavailable")

	// ErrNilBuffer is returned by Alloc when the caller buffer is nil.
	ErrNilBuffer = errors.New("queue: nil caller buffer")

	// ErrPinFailed wraps any error reported by the pinner.
	ErrPinFailed = errors.New("queue: failed to pin caller buffer")

	// ErrNotArmed is returned when releasing a record that holds no pin.
	ErrNotArmed = errors.New("queue: record not armed")

	// ErrAlreadyArmed is returned when Alloc is called twice.
	ErrAlreadyArmed = errors.New("queue: record already allocated")

	// ErrSizeExceedsBuffer is returned when the transfer size is larger
	// than the caller buffer.
	ErrSizeExceedsBuffer = errors.New("queue: size exceeds caller buffer")
)

// Op identifies the kind of transfer a record stands for.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "WRITE"
	}
	return "READ"
}

// State is the lifecycle position of a Record.
type State uint8

const (
	StateUnarmed State = iota
	StateArmed
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateReleased:
		return "released"
	default:
		return "unarmed"
	}
}

// Record keeps one caller buffer pinned while the underlying library holds
// a reference to its storage. The library sees only Pinned(); the caller
// buffer is brought up to date by Release.
type Record struct {
	op     Op
	offset uint32
	size   uint32
	caller []byte
	pinned []byte
	pinner Pinner
	state  State
}

// NewRecord returns an unarmed record for a transfer of size bytes at offset.
func NewRecord(pinner Pinner, op Op, offset, size uint32) *Record {
	return &Record{
		op:     op,
		offset: offset,
		size:   size,
		pinner: pinner,
	}
}

func (r *Record) Op() Op         { return r.op }
func (r *Record) Offset() uint32 { return r.offset }
func (r *Record) Size() uint32   { return r.size }
func (r *Record) State() State   { return r.state }

// Alloc takes a reference to caller and pins it. On failure the reference is
// dropped and the record stays unarmed.
func (r *Record) Alloc(caller []byte) error {
	if r.pinner == nil {
		return ErrNoRuntime
	}
	if caller == nil {
		return ErrNilBuffer
	}
	if r.state != StateUnarmed {
		return ErrAlreadyArmed
	}
	if uint64(r.size) > uint64(len(caller)) {
		return fmt.Errorf("%w: size %d, buffer %d", ErrSizeExceedsBuffer, r.size, len(caller))
	}

	r.caller = caller
	pinned, err := r.pinner.Pin(caller)
	if err != nil {
		r.caller = nil
		return fmt.Errorf("%w: %v", ErrPinFailed, err)
	}
	r.pinned = pinned
	r.state = StateArmed
	return nil
}

// Pinned returns the pinned storage limited to the transfer size, or nil if
// the record is not armed.
func (r *Record) Pinned() []byte {
	if r.state != StateArmed {
		return nil
	}
	return r.pinned[:r.size]
}

// Release copies the pinned storage back into the caller buffer and unpins
// it. If the pinner fails the record stays armed.
func (r *Record) Release() error {
	return r.unpin(true)
}

// Discard unpins without copying back, leaving the caller buffer as it was
// before Alloc.
func (r *Record) Discard() error {
	return r.unpin(false)
}

// Close releases the record if it is still armed.
func (r *Record) Close() error {
	if r.state != StateArmed {
		return nil
	}
	return r.Release()
}

func (r *Record) unpin(commit bool) error {
	if r.state != StateArmed {
		return ErrNotArmed
	}
	if r.pinner == nil {
		return ErrNoRuntime
	}
	if err := r.pinner.Unpin(r.caller, r.pinned, commit); err != nil {
		return err
	}
	r.caller = nil
	r.pinned = nil
	r.state = StateReleased
	return nil
}
