package edf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/samcharles93/matrixio/pkg/matrix"
)

// Write saves m with the header properties of md to path. md is not modified.
func Write(path string, m *matrix.Matrix, md Metadata) error {
	md.Properties = append([]Property(nil), md.Properties...)
	return New(m, md).Save(path)
}

// Encode writes m and the header properties of md to w. md is not modified.
func Encode(w io.Writer, m *matrix.Matrix, md Metadata) error {
	md.Properties = append([]Property(nil), md.Properties...)
	f := New(m, md)
	if err := f.UpdateHeader(); err != nil {
		return fmt.Errorf("edf: %w", err)
	}
	if err := f.writeHeader(w); err != nil {
		return fmt.Errorf("edf: %w", err)
	}
	if err := f.writeMatrix(w); err != nil {
		return fmt.Errorf("edf: %w", err)
	}
	return nil
}

// Save updates the header from the matrix, then writes the header (truncating
// path) followed by the payload.
func (f *File) Save(path string) error {
	if err := f.UpdateHeader(); err != nil {
		return fmt.Errorf("edf: %w", err)
	}
	if err := f.SaveHeader(path); err != nil {
		return err
	}
	return f.SaveMatrix(path)
}

// UpdateHeader sets DataType, Dim_1, Dim_2 and ByteOrder from the matrix.
// Payloads are always stored little-endian.
func (f *File) UpdateHeader() error {
	if f.Matrix == nil {
		return ErrNoData
	}
	if f.Matrix.Channels != 1 {
		return fmt.Errorf("%w: %d channels, edf holds single-channel images", matrix.ErrUnsupportedLayout, f.Matrix.Channels)
	}
	if !f.Matrix.Continuous() {
		return fmt.Errorf("%w: matrix buffer is not contiguous", matrix.ErrUnsupportedLayout)
	}
	name, ok := DataTypeFor(f.Matrix.Type)
	if !ok {
		return fmt.Errorf("%w: no edf DataType for %s", matrix.ErrUnsupportedLayout, f.Matrix.Type)
	}
	f.Metadata.Set(KeyDataType, name)
	f.Metadata.Set(KeyDim1, strconv.Itoa(f.Matrix.Cols))
	f.Metadata.Set(KeyDim2, strconv.Itoa(f.Matrix.Rows))
	f.Metadata.Set(KeyByteOrder, LowByteFirst)
	return nil
}

// SaveHeader writes the header block to path, truncating the file.
func (f *File) SaveHeader(path string) (err error) {
	if f.Metadata.Len() == 0 {
		return fmt.Errorf("edf: %s: %w", path, ErrNoProperties)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("edf: %w: %w", matrix.ErrIO, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("edf: %w: %w", matrix.ErrIO, cerr)
		}
	}()

	bw := bufio.NewWriter(out)
	if err := f.writeHeader(bw); err != nil {
		return fmt.Errorf("edf: %w: %w", matrix.ErrIO, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("edf: %w: %w", matrix.ErrIO, err)
	}
	f.Metadata.Path = path
	return nil
}

// SaveMatrix appends the payload to path, creating the file if needed.
func (f *File) SaveMatrix(path string) (err error) {
	if f.Matrix.Empty() {
		return fmt.Errorf("edf: %s: %w", path, ErrNoData)
	}
	if !f.Matrix.Continuous() {
		return fmt.Errorf("edf: %w: matrix buffer is not contiguous", matrix.ErrUnsupportedLayout)
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("edf: %w: %w", matrix.ErrIO, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("edf: %w: %w", matrix.ErrIO, cerr)
		}
	}()

	if err := f.writeMatrix(out); err != nil {
		return fmt.Errorf("edf: %w: %w", matrix.ErrIO, err)
	}
	f.Metadata.Path = path
	return nil
}

func (f *File) writeHeader(w io.Writer) error {
	if f.Metadata.Len() == 0 {
		return ErrNoProperties
	}
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString("\n{\n")
	for _, p := range f.Metadata.Properties {
		_, _ = fmt.Fprintf(bw, "%s = %s ;\n", p.Key, p.Value)
	}
	_, _ = bw.WriteString("}\n")
	return bw.Flush()
}

func (f *File) writeMatrix(w io.Writer) error {
	if f.Matrix.Empty() {
		return ErrNoData
	}
	_, err := w.Write(f.Matrix.Data[:f.Matrix.Len()])
	return err
}
