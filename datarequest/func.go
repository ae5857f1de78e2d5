package datarequest

// Func wraps a request with conversions to and from a derived value, such
// as knots from a raw 1/128 knot counter.
type Func[T any] struct {
	Request
	get func() T
	set func(T)
}

// NewFunc wraps r. set may be nil for read-only values.
func NewFunc[T any](r Request, get func() T, set func(T)) *Func[T] {
	return &Func[T]{Request: r, get: get, set: set}
}

// Value converts the current buffer contents.
func (f *Func[T]) Value() T {
	return f.get()
}

// SetValue converts v into the buffer.
func (f *Func[T]) SetValue(v T) error {
	if f.set == nil {
		return ErrReadOnly
	}
	f.set(v)
	return nil
}

// SetKind switches the wrapped request between reading and writing. It is
// a no-op for requests with a fixed kind.
func (f *Func[T]) SetKind(k Kind) {
	if s, ok := f.Request.(interface{ SetKind(Kind) }); ok {
		s.SetKind(k)
	}
}
