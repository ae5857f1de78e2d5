package main

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseOffset accepts decimal or 0x-prefixed offsets.
func parseOffset(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	return uint32(v), nil
}

// parseHex decodes "01 02 ff" or "0102ff".
func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "-", "").Replace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("no data")
	}
	return b, nil
}

// encodeInt encodes v little-endian in size bytes.
func encodeInt(v int64, size int) ([]byte, error) {
	buf := make([]byte, size)
	switch size {
	case 1:
		if v < math.MinInt8 || v > math.MaxUint8 {
			return nil, fmt.Errorf("%d does not fit in 1 byte", v)
		}
		buf[0] = byte(v)
	case 2:
		if v < math.MinInt16 || v > math.MaxUint16 {
			return nil, fmt.Errorf("%d does not fit in 2 bytes", v)
		}
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		if v < math.MinInt32 || v > math.MaxUint32 {
			return nil, fmt.Errorf("%d does not fit in 4 bytes", v)
		}
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf, uint64(v))
	default:
		return nil, fmt.Errorf("integer size must be 1, 2, 4 or 8, got %d", size)
	}
	return buf, nil
}

// formatValue renders raw offset data as hex, a signed little-endian
// integer, a float or a NUL terminated string.
func formatValue(buf []byte, format string) (string, error) {
	switch format {
	case "hex", "":
		parts := make([]string, len(buf))
		for i, b := range buf {
			parts[i] = fmt.Sprintf("%02x", b)
		}
		return strings.Join(parts, " "), nil
	case "int":
		switch len(buf) {
		case 1:
			return strconv.Itoa(int(int8(buf[0]))), nil
		case 2:
			return strconv.Itoa(int(int16(binary.LittleEndian.Uint16(buf)))), nil
		case 4:
			return strconv.Itoa(int(int32(binary.LittleEndian.Uint32(buf)))), nil
		case 8:
			return strconv.FormatInt(int64(binary.LittleEndian.Uint64(buf)), 10), nil
		}
		return "", fmt.Errorf("int format needs size 1, 2, 4 or 8, got %d", len(buf))
	case "float":
		switch len(buf) {
		case 4:
			f := math.Float32frombits(binary.LittleEndian.Uint32(buf))
			return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
		case 8:
			f := math.Float64frombits(binary.LittleEndian.Uint64(buf))
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
		return "", fmt.Errorf("float format needs size 4 or 8, got %d", len(buf))
	case "string":
		if i := bytes.IndexByte(buf, 0); i >= 0 {
			buf = buf[:i]
		}
		return strings.TrimSpace(string(buf)), nil
	default:
		return "", fmt.Errorf("unknown format %q (want hex, int, float or string)", format)
	}
}
