package edf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/samcharles93/matrixio/internal/rawfile"
	"github.com/samcharles93/matrixio/pkg/matrix"
)

// Logger receives notices about tolerated anomalies while reading.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Options tune Read and Decode. The zero value is ready to use.
type Options struct {
	Logger Logger
}

func (o *Options) debug(msg string, args ...any) {
	if o != nil && o.Logger != nil {
		o.Logger.Debug(msg, args...)
	}
}

func (o *Options) warn(msg string, args ...any) {
	if o != nil && o.Logger != nil {
		o.Logger.Warn(msg, args...)
	}
}

// File is a decoded EDF image.
//
// HeaderStart is the byte offset of the line opening the header block and
// HeaderStop the offset just past the line closing it, where the payload
// begins. Both are -1 until a header has been scanned.
type File struct {
	Metadata    Metadata
	Matrix      *matrix.Matrix
	HeaderStart int64
	HeaderStop  int64
}

// New returns a File ready to be filled and saved.
func New(m *matrix.Matrix, md Metadata) *File {
	return &File{Metadata: md, Matrix: m, HeaderStart: -1, HeaderStop: -1}
}

// Read loads the EDF image at path. opts may be nil.
func Read(path string, opts *Options) (*File, error) {
	raw, err := rawfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("edf: %w: %w", matrix.ErrIO, err)
	}
	defer func() { _ = raw.Close() }()

	f, err := decode(raw.Data, path, opts)
	if err != nil {
		return nil, fmt.Errorf("edf: %s: %w", path, err)
	}
	return f, nil
}

// Decode parses an EDF image held in data. The returned matrix does not
// alias data. opts may be nil.
func Decode(data []byte, opts *Options) (*File, error) {
	f, err := decode(data, "", opts)
	if err != nil {
		return nil, fmt.Errorf("edf: %w", err)
	}
	return f, nil
}

func decode(data []byte, path string, opts *Options) (*File, error) {
	f := New(nil, Metadata{Path: path})
	if err := f.scanHeader(data); err != nil {
		return nil, err
	}
	if err := f.checkRequired(); err != nil {
		return nil, err
	}
	if err := f.loadPayload(data, opts); err != nil {
		return nil, err
	}
	return f, nil
}

// scanHeader walks data line by line, recording the header block bounds and
// collecting its properties. Offsets are raw byte positions in data.
func (f *File) scanHeader(data []byte) error {
	f.HeaderStart, f.HeaderStop = -1, -1

	off := 0
	lineNo := 0
	for off < len(data) {
		lineStart := off
		var raw []byte
		if i := bytes.IndexByte(data[off:], '\n'); i >= 0 {
			raw = data[off : off+i]
			off += i + 1
		} else {
			raw = data[off:]
			off = len(data)
		}
		lineNo++
		line := strings.TrimSpace(string(raw))

		if IsBeginHeaderLine(line) {
			if f.HeaderStart < 0 {
				f.HeaderStart = int64(lineStart)
			}
			continue
		}
		if line != "" && f.HeaderStart < 0 {
			return fmt.Errorf("%w: content found before header at line %d (%q), expecting '{'",
				ErrMalformed, lineNo, truncate(line, 10))
		}
		if IsEndHeaderLine(line) {
			f.HeaderStop = int64(off)
			return nil
		}
		if line == "" {
			continue
		}
		if IsHeaderLine(line) {
			f.Metadata.Add(ParseHeaderLine(line))
		}
	}

	if f.HeaderStart < 0 {
		return fmt.Errorf("%w: no header block", ErrMalformed)
	}
	return fmt.Errorf("%w: header block is not closed", ErrMalformed)
}

func (f *File) checkRequired() error {
	for _, key := range requiredKeys {
		if !f.Metadata.Has(key) {
			return fmt.Errorf("%w: %s", ErrMissingProperty, key)
		}
	}
	return nil
}

func (f *File) loadPayload(data []byte, opts *Options) error {
	rows, err := f.numericValue(KeyDim2)
	if err != nil {
		return err
	}
	cols, err := f.numericValue(KeyDim1)
	if err != nil {
		return err
	}
	name, _ := f.Metadata.Value(KeyDataType)
	typ, known := TypeForDataType(name)
	if !known {
		opts.warn("unrecognised edf DataType, decoding as FloatValue", "data_type", name, "path", f.Metadata.Path)
	}

	size, err := matrix.PayloadSize(rows, cols, 1, typ)
	if err != nil {
		return fmt.Errorf("%w: %v", matrix.ErrCorruptHeader, err)
	}
	if declared, ok := f.optionalValue(KeyBinarySize); ok && declared != size {
		opts.debug("edf binary size differs from dimensions", "declared", declared, "computed", size, "path", f.Metadata.Path)
	}

	start := f.HeaderStop
	if avail := int64(len(data)) - start; int64(size) > avail {
		return fmt.Errorf("%w: payload needs %d bytes, %d available", matrix.ErrTruncated, size, avail)
	}
	payload := make([]byte, size)
	copy(payload, data[start:])

	m, err := matrix.FromBytes(rows, cols, 1, typ, payload)
	if err != nil {
		return err
	}
	if order, _ := f.Metadata.Value(KeyByteOrder); strings.TrimSpace(order) == HighByteFirst {
		m.SwapBytes()
	}
	f.Matrix = m
	return nil
}

// HeaderSize is the byte length of the header block, falling back to the
// EDF_HeaderSize property when no block has been scanned.
func (f *File) HeaderSize() int64 {
	if f.HeaderStart >= 0 && f.HeaderStop > f.HeaderStart {
		return f.HeaderStop - f.HeaderStart
	}
	if v, ok := f.optionalValue(KeyHeaderSize); ok {
		return int64(v)
	}
	return 0
}

// Path is the file the metadata was read from or last saved to.
func (f *File) Path() string {
	return f.Metadata.Path
}

func (f *File) numericValue(key string) (int, error) {
	s, _ := f.Metadata.Value(key)
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid numeric value %q for %s", matrix.ErrCorruptHeader, s, key)
	}
	return int(v), nil
}

func (f *File) optionalValue(key string) (int, bool) {
	if !f.Metadata.Has(key) {
		return 0, false
	}
	v, err := f.numericValue(key)
	return v, err == nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
