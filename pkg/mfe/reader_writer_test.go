package mfe

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/matrixio/pkg/matrix"
)

func float32Matrix(t *testing.T, rows, cols int, vals ...float32) *matrix.Matrix {
	t.Helper()
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	m, err := matrix.FromBytes(rows, cols, 1, matrix.Float32, data)
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}
	return m
}

func TestWriteReadFloat32Scenario(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "m.mfe")
	m := float32Matrix(t, 2, 3, 1, 2, 3, 4, 5, 6)
	if err := Write(path, m, "hello"); err != nil {
		t.Fatalf("write: %v", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() != 52 {
		t.Fatalf("file size: got %d want 52", st.Size())
	}

	got, comment, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if comment != "hello" {
		t.Fatalf("comment: got %q", comment)
	}
	if got.Rows != 2 || got.Cols != 3 || got.Channels != 1 || got.Type != matrix.Float32 {
		t.Fatalf("shape mismatch: %s", got)
	}
	vals, err := got.Float64s()
	if err != nil {
		t.Fatalf("decode values: %v", err)
	}
	for i, v := range vals {
		if v != float64(i+1) {
			t.Fatalf("value %d: got %v want %d", i, v, i+1)
		}
	}
}

func TestRoundTripAllTypesAndChannels(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	types := []matrix.Type{matrix.Uint8, matrix.Int8, matrix.Uint16, matrix.Int16, matrix.Int32, matrix.Float32, matrix.Float64}
	for _, typ := range types {
		for _, channels := range []int{1, 3, 4} {
			m, err := matrix.New(3, 5, channels, typ)
			if err != nil {
				t.Fatalf("new matrix: %v", err)
			}
			for i := range m.Data {
				m.Data[i] = byte(i*7 + channels)
			}
			path := filepath.Join(dir, typ.String()+".mfe")
			if err := Write(path, m, "round trip"); err != nil {
				t.Fatalf("%s/%d: write: %v", typ, channels, err)
			}
			got, comment, err := Read(path)
			if err != nil {
				t.Fatalf("%s/%d: read: %v", typ, channels, err)
			}
			if comment != "round trip" {
				t.Fatalf("%s/%d: comment %q", typ, channels, comment)
			}
			if got.Rows != m.Rows || got.Cols != m.Cols || got.Channels != channels || got.Type != typ {
				t.Fatalf("%s/%d: shape mismatch %s", typ, channels, got)
			}
			if !bytes.Equal(got.Data, m.Data) {
				t.Fatalf("%s/%d: payload mismatch", typ, channels)
			}
		}
	}
}

func TestEmptyComment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := float32Matrix(t, 1, 1, 42)
	if err := Encode(&buf, m, ""); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.Len() != HeaderSize+4 {
		t.Fatalf("encoded size: got %d", buf.Len())
	}
	_, comment, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if comment != "" {
		t.Fatalf("expected empty comment, got %q", comment)
	}
}

func TestHeaderEncodingLittleEndian(t *testing.T) {
	t.Parallel()

	h := Header{
		Format: [3]byte{'M', 'F', 'E'},
		Offset: 0x11223344,
		Type:   21,
		Cols:   0x0102,
		Rows:   0x0304,
		Depth:  3,
	}
	var raw [HeaderSize]byte
	if !encodeHeader(raw[:], h) {
		t.Fatalf("encode header failed")
	}
	if string(raw[:3]) != "MFE" {
		t.Fatalf("format marker: %q", raw[:3])
	}
	if raw[3] != 0x44 || raw[6] != 0x11 {
		t.Fatalf("offset is not little-endian: %x", raw[3:7])
	}
	if raw[11] != 0x02 || raw[12] != 0x01 {
		t.Fatalf("cols is not little-endian at offset 11: %x", raw[11:15])
	}
	if raw[19] != 3 {
		t.Fatalf("depth not at offset 19: %x", raw[19:23])
	}
	decoded, ok := decodeHeader(raw[:])
	if !ok {
		t.Fatalf("decode header failed")
	}
	if decoded != h {
		t.Fatalf("header round-trip mismatch: got %+v want %+v", decoded, h)
	}
}

func TestNewHeaderDefaults(t *testing.T) {
	t.Parallel()
	h := NewHeader()
	if string(h.Format[:]) != "n/a" || h.Offset != 0 {
		t.Fatalf("unexpected default header %+v", h)
	}
	if h.Valid() {
		t.Fatalf("default header must not be valid")
	}
}

func TestReadTruncatedHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "short.mfe")
	if err := os.WriteFile(path, []byte("MFE\x17\x00"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, _, err := Read(path)
	if !errors.Is(err, matrix.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadTruncatedPayload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "m.mfe")
	if err := Write(path, float32Matrix(t, 2, 3, 1, 2, 3, 4, 5, 6), "c"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Truncate(path, HeaderSize+1+20); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	m, _, err := Read(path)
	if !errors.Is(err, matrix.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if m != nil {
		t.Fatalf("partial matrix returned")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if _, _, err := Decode(bytes.NewReader(raw)); !errors.Is(err, matrix.ErrTruncated) {
		t.Fatalf("Decode: expected ErrTruncated, got %v", err)
	}
}

func TestReadTruncatedComment(t *testing.T) {
	t.Parallel()

	h := HeaderFor(float32Matrix(t, 1, 1, 0), 100)
	var raw [HeaderSize]byte
	encodeHeader(raw[:], h)
	path := filepath.Join(t.TempDir(), "c.mfe")
	if err := os.WriteFile(path, append(raw[:], "abc"...), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, _, err := Read(path); !errors.Is(err, matrix.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadCorruptOffset(t *testing.T) {
	t.Parallel()

	h := HeaderFor(float32Matrix(t, 1, 1, 0), 0)
	h.Offset = 10
	var raw [HeaderSize]byte
	encodeHeader(raw[:], h)
	_, _, err := Decode(bytes.NewReader(append(raw[:], 0, 0, 0, 0)))
	if !errors.Is(err, matrix.ErrCorruptHeader) {
		t.Fatalf("expected ErrCorruptHeader, got %v", err)
	}
}

func TestReadRejectsForeignMarker(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Encode(&buf, float32Matrix(t, 1, 1, 7), ""); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := buf.Bytes()
	copy(raw, "n/a")
	if _, _, err := Decode(bytes.NewReader(raw)); !errors.Is(err, matrix.ErrCorruptHeader) {
		t.Fatalf("expected ErrCorruptHeader, got %v", err)
	}
}

func TestWriteRejectsStridedMatrix(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "strided.mfe")
	view := &matrix.Matrix{Rows: 2, Cols: 1, Channels: 1, Type: matrix.Uint8, Stride: 2, Data: []byte{1, 0, 2, 0}}
	err := Write(path, view, "")
	if !errors.Is(err, matrix.ErrUnsupportedLayout) {
		t.Fatalf("expected ErrUnsupportedLayout, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("expected no file to be written, stat err=%v", statErr)
	}
}

func TestWriteRejectsInvalidShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    *matrix.Matrix
	}{
		{"zero channels", &matrix.Matrix{Rows: 1, Cols: 1, Channels: 0, Type: matrix.Uint8, Data: []byte{}}},
		{"unknown type", &matrix.Matrix{Rows: 1, Cols: 1, Channels: 1, Type: matrix.Type(7), Data: make([]byte, 8)}},
		{"too many channels", &matrix.Matrix{Rows: 1, Cols: 1, Channels: 600, Type: matrix.Uint8, Data: make([]byte, 600)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "bad.mfe")
			if err := Write(path, tt.m, ""); !errors.Is(err, matrix.ErrUnsupportedLayout) {
				t.Fatalf("expected ErrUnsupportedLayout, got %v", err)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Fatalf("expected no file to be written, stat err=%v", err)
			}
			var buf bytes.Buffer
			if err := Encode(&buf, tt.m, ""); !errors.Is(err, matrix.ErrUnsupportedLayout) {
				t.Fatalf("encode: expected ErrUnsupportedLayout, got %v", err)
			}
			if buf.Len() != 0 {
				t.Fatalf("encode wrote %d bytes", buf.Len())
			}
		})
	}
}

func TestReadIgnoresDepthField(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Encode(&buf, float32Matrix(t, 1, 2, 1, 2), ""); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := buf.Bytes()
	binary.LittleEndian.PutUint32(raw[19:23], 9)
	m, _, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Channels != 1 || m.Rows != 1 || m.Cols != 2 {
		t.Fatalf("unexpected shape %dx%dx%d", m.Rows, m.Cols, m.Channels)
	}
}

func TestReadMissingFile(t *testing.T) {
	t.Parallel()
	_, _, err := Read(filepath.Join(t.TempDir(), "missing.mfe"))
	if !errors.Is(err, matrix.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestWriteUnwritablePath(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing-dir", "m.mfe")
	if err := Write(path, float32Matrix(t, 1, 1, 1), ""); !errors.Is(err, matrix.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestReadHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "h.mfe")
	m, err := matrix.New(4, 2, 3, matrix.Uint16)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := Write(path, m, DefaultComment); err != nil {
		t.Fatalf("write: %v", err)
	}
	h, comment, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if comment != DefaultComment {
		t.Fatalf("comment: %q", comment)
	}
	if h.Rows != 4 || h.Cols != 2 || h.Depth != 3 || h.Type != matrix.TypeCode(matrix.Uint16, 3) {
		t.Fatalf("unexpected header %+v", h)
	}
	if h.Offset != HeaderSize+uint32(len(DefaultComment)) {
		t.Fatalf("offset: got %d", h.Offset)
	}
	if !h.Valid() {
		t.Fatalf("header should be valid")
	}
}
