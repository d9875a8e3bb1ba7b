package mfe

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samcharles93/matrixio/pkg/matrix"
)

// Read loads the matrix and comment stored in the MFE file at path.
func Read(path string) (*matrix.Matrix, string, error) {
	f, size, err := open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	m, comment, err := newDecoder(f, size).decode()
	if err != nil {
		return nil, "", fmt.Errorf("mfe: %s: %w", path, err)
	}
	return m, comment, nil
}

// ReadHeader loads only the header and comment of the MFE file at path.
func ReadHeader(path string) (Header, string, error) {
	f, size, err := open(path)
	if err != nil {
		return Header{}, "", err
	}
	defer func() { _ = f.Close() }()

	d := newDecoder(f, size)
	h, err := d.header()
	if err != nil {
		return Header{}, "", fmt.Errorf("mfe: %s: %w", path, err)
	}
	comment, err := d.comment(h)
	if err != nil {
		return Header{}, "", fmt.Errorf("mfe: %s: %w", path, err)
	}
	return h, comment, nil
}

// Decode reads one MFE document from r.
func Decode(r io.Reader) (*matrix.Matrix, string, error) {
	m, comment, err := newDecoder(r, -1).decode()
	if err != nil {
		return nil, "", fmt.Errorf("mfe: %w", err)
	}
	return m, comment, nil
}

func open(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("mfe: %w: %w", matrix.ErrIO, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("mfe: %w: %w", matrix.ErrIO, err)
	}
	return f, st.Size(), nil
}

// decoder tracks how many bytes remain when the input size is known so that
// corrupt length fields fail before allocation. size < 0 means unknown.
type decoder struct {
	r    *bufio.Reader
	off  int64
	size int64
}

func newDecoder(r io.Reader, size int64) *decoder {
	return &decoder{r: bufio.NewReader(r), size: size}
}

func (d *decoder) decode() (*matrix.Matrix, string, error) {
	h, err := d.header()
	if err != nil {
		return nil, "", err
	}
	comment, err := d.comment(h)
	if err != nil {
		return nil, "", err
	}
	m, err := d.payload(h)
	if err != nil {
		return nil, "", err
	}
	return m, comment, nil
}

func (d *decoder) header() (Header, error) {
	var raw [HeaderSize]byte
	n, err := io.ReadFull(d.r, raw[:])
	d.off += int64(n)
	if err != nil {
		return Header{}, shortRead(err, "header", HeaderSize, int64(n))
	}
	h, _ := decodeHeader(raw[:])
	if h.Valid() {
		return h, nil
	}
	if string(h.Format[:]) != Magic {
		return Header{}, fmt.Errorf("%w: format marker %q", matrix.ErrCorruptHeader, string(h.Format[:]))
	}
	return Header{}, fmt.Errorf("%w: offset %d is smaller than the %d byte header", matrix.ErrCorruptHeader, h.Offset, HeaderSize)
}

func (d *decoder) comment(h Header) (string, error) {
	b, err := d.readN(h.CommentLen(), "comment")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) payload(h Header) (*matrix.Matrix, error) {
	t, channels, err := matrix.ParseTypeCode(h.Type)
	if err != nil {
		return nil, err
	}
	n, err := matrix.PayloadSize(int(h.Rows), int(h.Cols), channels, t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", matrix.ErrCorruptHeader, err)
	}
	data, err := d.readN(int64(n), "payload")
	if err != nil {
		return nil, err
	}
	return matrix.FromBytes(int(h.Rows), int(h.Cols), channels, t, data)
}

func (d *decoder) readN(n int64, what string) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if d.size >= 0 {
		if rem := d.size - d.off; n > rem {
			return nil, fmt.Errorf("%w: %s needs %d bytes, %d available", matrix.ErrTruncated, what, n, max(rem, 0))
		}
		buf := make([]byte, n)
		got, err := io.ReadFull(d.r, buf)
		d.off += int64(got)
		if err != nil {
			return nil, shortRead(err, what, n, int64(got))
		}
		return buf, nil
	}

	// Unknown input size: let the buffer grow with the data actually present.
	var buf bytes.Buffer
	buf.Grow(int(min(n, 1<<20)))
	got, err := io.CopyN(&buf, d.r, n)
	d.off += got
	if err != nil {
		return nil, shortRead(err, what, n, got)
	}
	return buf.Bytes(), nil
}

func shortRead(err error, what string, want, got int64) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", matrix.ErrTruncated, what, want, got)
	}
	return fmt.Errorf("%w: read %s: %w", matrix.ErrIO, what, err)
}
