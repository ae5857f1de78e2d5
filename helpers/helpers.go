// Package helpers builds ready-made data requests for commonly used FSUIPC
// offsets, converting raw simulator units to familiar ones.
package helpers

import "github.com/ehrlich-b/go-fsuipc/datarequest"

// MetresToFeet converts metres to feet.
const MetresToFeet = 3.28084

const (
	two32 = 65536.0 * 65536.0
	two64 = two32 * two32
)

// The offsets used here are known-good, so construction cannot fail.
func scalar[T datarequest.Number](offset uint32) *datarequest.Scalar[T] {
	r, err := datarequest.NewScalar[T](offset)
	if err != nil {
		panic(err)
	}
	return r
}

func str(offset uint32, size int) *datarequest.String {
	r, err := datarequest.NewString(offset, size)
	if err != nil {
		panic(err)
	}
	return r
}

func boolFunc(r *datarequest.Short) *datarequest.Func[bool] {
	return datarequest.NewFunc(r, func() bool { return r.Value() != 0 }, nil)
}

func stringFunc(r *datarequest.String) *datarequest.Func[string] {
	return datarequest.NewFunc(r, r.Value, r.SetValue)
}
