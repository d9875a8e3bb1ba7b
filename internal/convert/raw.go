package convert

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/samcharles93/matrixio/pkg/matrix"
)

// Defaults for headerless camera dumps.
const (
	DefaultRawWidth  = 2160
	DefaultRawHeight = 1944
	DefaultRawType   = 0
)

// rawRatio maps 10-bit samples onto the 8-bit range.
const rawRatio = 127.5 / 511.5

// decodeRAW reads width*height little-endian 16-bit samples and scales them
// to UnsignedByte. A short file leaves the missing samples at zero; an empty
// one is an error.
func decodeRAW(r io.Reader, width, height, rawType int) (*matrix.Matrix, int, error) {
	if rawType != 0 {
		return nil, 0, fmt.Errorf("%w: raw type %d", ErrUnsupported, rawType)
	}
	if width <= 0 || height <= 0 {
		return nil, 0, fmt.Errorf("%w: raw dimensions %dx%d", matrix.ErrCorruptHeader, width, height)
	}

	n := width * height
	buf := make([]byte, 2*n)
	got, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return nil, 0, fmt.Errorf("%w: nothing to read from raw image", matrix.ErrTruncated)
	case errors.Is(err, io.ErrUnexpectedEOF):
	default:
		return nil, 0, fmt.Errorf("%w: %w", matrix.ErrIO, err)
	}

	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(binary.LittleEndian.Uint16(buf[2*i:])) * rawRatio
	}
	m, err := matrix.FromFloat64s(height, width, 1, matrix.Uint8, vals)
	if err != nil {
		return nil, 0, err
	}
	return m, got / 2, nil
}
