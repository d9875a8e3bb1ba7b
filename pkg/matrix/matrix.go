// Package matrix defines the 2D numeric array exchanged by the matrixio codecs.
//
// A Matrix is rows x cols cells, each cell holding Channels interleaved
// components of a single element Type. Data is a little-endian, row-major
// byte buffer.
package matrix

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var le = binary.LittleEndian

// Matrix is a dense 2D array of numeric cells.
//
// Stride is the number of bytes between the starts of two consecutive rows.
// Zero means rows are packed (Stride == RowBytes()). A larger stride makes the
// matrix a view with gaps between rows; such a matrix is not Continuous.
type Matrix struct {
	Rows     int
	Cols     int
	Channels int
	Type     Type
	Stride   int
	Data     []byte
}

// New allocates a zeroed, packed matrix.
func New(rows, cols, channels int, t Type) (*Matrix, error) {
	if err := checkShape(rows, cols, channels, t); err != nil {
		return nil, err
	}
	n, err := payloadSize(rows, cols, channels, t)
	if err != nil {
		return nil, err
	}
	return &Matrix{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Type:     t,
		Data:     make([]byte, n),
	}, nil
}

// FromBytes wraps an existing packed buffer without copying it.
func FromBytes(rows, cols, channels int, t Type, data []byte) (*Matrix, error) {
	if err := checkShape(rows, cols, channels, t); err != nil {
		return nil, err
	}
	n, err := payloadSize(rows, cols, channels, t)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("matrix: buffer holds %d bytes, %dx%dx%d %s needs %d", len(data), rows, cols, channels, t, n)
	}
	return &Matrix{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Type:     t,
		Data:     data,
	}, nil
}

// ElemSize is the size in bytes of one cell (all channels).
func (m *Matrix) ElemSize() int {
	return m.Channels * m.Type.Size()
}

// RowBytes is the size in bytes of one packed row.
func (m *Matrix) RowBytes() int {
	return m.Cols * m.ElemSize()
}

// Len is the size in bytes of the packed payload.
func (m *Matrix) Len() int {
	return m.Rows * m.RowBytes()
}

// Empty reports whether the matrix has no cells.
func (m *Matrix) Empty() bool {
	return m == nil || m.Rows == 0 || m.Cols == 0
}

func (m *Matrix) stride() int {
	if m.Stride == 0 {
		return m.RowBytes()
	}
	return m.Stride
}

// Continuous reports whether Data holds exactly the packed payload.
func (m *Matrix) Continuous() bool {
	if m == nil {
		return false
	}
	return m.stride() == m.RowBytes() && len(m.Data) == m.Len()
}

// Row returns the bytes of row r.
func (m *Matrix) Row(r int) []byte {
	start := r * m.stride()
	return m.Data[start : start+m.RowBytes()]
}

// Compact returns a packed copy of m. Rows of a strided view are gathered
// into a fresh buffer.
func (m *Matrix) Compact() (*Matrix, error) {
	out, err := New(m.Rows, m.Cols, m.Channels, m.Type)
	if err != nil {
		return nil, err
	}
	rb := m.RowBytes()
	if m.Rows > 0 && (m.Rows-1)*m.stride()+rb > len(m.Data) {
		return nil, fmt.Errorf("%w: stride %d overruns %d byte buffer", ErrUnsupportedLayout, m.stride(), len(m.Data))
	}
	for r := 0; r < m.Rows; r++ {
		copy(out.Data[r*rb:], m.Row(r))
	}
	return out, nil
}

// Float64s decodes every component, row-major and channel-interleaved.
// The matrix must be Continuous.
func (m *Matrix) Float64s() ([]float64, error) {
	if !m.Continuous() {
		return nil, ErrUnsupportedLayout
	}
	size := m.Type.Size()
	n := m.Rows * m.Cols * m.Channels
	out := make([]float64, n)
	for i := range out {
		out[i] = decode(m.Type, m.Data[i*size:])
	}
	return out, nil
}

// FromFloat64s builds a packed matrix from row-major, channel-interleaved
// values, converting each to t with saturation for integer types.
func FromFloat64s(rows, cols, channels int, t Type, vals []float64) (*Matrix, error) {
	m, err := New(rows, cols, channels, t)
	if err != nil {
		return nil, err
	}
	if len(vals) != rows*cols*channels {
		return nil, fmt.Errorf("matrix: got %d values for %dx%dx%d", len(vals), rows, cols, channels)
	}
	size := t.Size()
	for i, v := range vals {
		encode(t, m.Data[i*size:], clamp(t, v))
	}
	return m, nil
}

// String summarises the matrix shape.
func (m *Matrix) String() string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%dx%dx%d %s", m.Rows, m.Cols, m.Channels, m.Type)
}

func checkShape(rows, cols, channels int, t Type) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("matrix: negative dimension %dx%d", rows, cols)
	}
	if channels < 1 || channels > MaxChannels {
		return fmt.Errorf("matrix: invalid channel count %d", channels)
	}
	if !t.Valid() {
		return fmt.Errorf("matrix: unknown element type %d", uint8(t))
	}
	return nil
}

var errTooLarge = errors.New("matrix: too large")

func payloadSize(rows, cols, channels int, t Type) (int, error) {
	n := 1
	for _, d := range []int{rows, cols, channels, t.Size()} {
		if d == 0 {
			return 0, nil
		}
		if n > math.MaxInt/d {
			return 0, errTooLarge
		}
		n *= d
	}
	return n, nil
}

// PayloadSize returns rows*cols*channels*size(t) in bytes, failing on overflow.
func PayloadSize(rows, cols, channels int, t Type) (int, error) {
	if err := checkShape(rows, cols, channels, t); err != nil {
		return 0, err
	}
	return payloadSize(rows, cols, channels, t)
}

func decode(t Type, b []byte) float64 {
	switch t {
	case Uint8:
		return float64(b[0])
	case Int8:
		return float64(int8(b[0]))
	case Uint16:
		return float64(le.Uint16(b))
	case Int16:
		return float64(int16(le.Uint16(b)))
	case Int32:
		return float64(int32(le.Uint32(b)))
	case Float32:
		return float64(math.Float32frombits(le.Uint32(b)))
	case Float64:
		return math.Float64frombits(le.Uint64(b))
	}
	return 0
}

func encode(t Type, b []byte, v float64) {
	switch t {
	case Uint8:
		b[0] = uint8(v)
	case Int8:
		b[0] = byte(int8(v))
	case Uint16:
		le.PutUint16(b, uint16(v))
	case Int16:
		le.PutUint16(b, uint16(int16(v)))
	case Int32:
		le.PutUint32(b, uint32(int32(v)))
	case Float32:
		le.PutUint32(b, math.Float32bits(float32(v)))
	case Float64:
		le.PutUint64(b, math.Float64bits(v))
	}
}

// SwapBytes reverses the byte order of every component in place. It converts
// a big-endian payload into the little-endian layout Matrix uses.
func (m *Matrix) SwapBytes() {
	size := m.Type.Size()
	if size < 2 {
		return
	}
	for i := 0; i+size <= len(m.Data); i += size {
		c := m.Data[i : i+size]
		for a, b := 0, size-1; a < b; a, b = a+1, b-1 {
			c[a], c[b] = c[b], c[a]
		}
	}
}
