package queue

// Pinner obtains storage for a caller buffer that stays valid and directly
// addressable until Unpin.
type Pinner interface {
	// Pin returns storage holding a copy of caller's bytes. The storage
	// must be at least len(caller) long.
	Pin(caller []byte) ([]byte, error)

	// Unpin ends the pin. When commit is true the storage contents are
	// copied back into caller first.
	Unpin(caller, pinned []byte, commit bool) error
}

// CopyPinner pins by copying into pooled storage.
type CopyPinner struct{}

func (CopyPinner) Pin(caller []byte) ([]byte, error) {
	pinned := GetBuffer(len(caller))
	copy(pinned, caller)
	return pinned, nil
}

func (CopyPinner) Unpin(caller, pinned []byte, commit bool) error {
	if commit {
		copy(caller, pinned)
	}
	PutBuffer(pinned)
	return nil
}

// DirectPinner hands the caller buffer itself to the library. Scheduled
// reads then land in the caller buffer as soon as the batch is processed.
type DirectPinner struct{}

func (DirectPinner) Pin(caller []byte) ([]byte, error) { return caller, nil }

func (DirectPinner) Unpin(caller, pinned []byte, commit bool) error { return nil }
