package mfe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/samcharles93/matrixio/pkg/matrix"
)

// Write stores m and comment in a new MFE file at path, truncating any
// existing file. Nothing is written when m is not contiguous.
func Write(path string, m *matrix.Matrix, comment string) (err error) {
	if err := checkWritable(m, comment); err != nil {
		return fmt.Errorf("mfe: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mfe: %w: %w", matrix.ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("mfe: %w: %w", matrix.ErrIO, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := encode(bw, m, comment); err != nil {
		return fmt.Errorf("mfe: %w: %w", matrix.ErrIO, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("mfe: %w: %w", matrix.ErrIO, err)
	}
	return nil
}

// Encode writes m and comment to w in MFE layout.
func Encode(w io.Writer, m *matrix.Matrix, comment string) error {
	if err := checkWritable(m, comment); err != nil {
		return fmt.Errorf("mfe: %w", err)
	}
	if err := encode(w, m, comment); err != nil {
		return fmt.Errorf("mfe: %w", err)
	}
	return nil
}

func encode(w io.Writer, m *matrix.Matrix, comment string) error {
	var raw [HeaderSize]byte
	encodeHeader(raw[:], HeaderFor(m, len(comment)))
	if _, err := w.Write(raw[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, comment); err != nil {
		return err
	}
	_, err := w.Write(m.Data[:m.Len()])
	return err
}

func checkWritable(m *matrix.Matrix, comment string) error {
	if m == nil {
		return errors.New("nil matrix")
	}
	if _, err := matrix.PayloadSize(m.Rows, m.Cols, m.Channels, m.Type); err != nil {
		return fmt.Errorf("%w: %w", matrix.ErrUnsupportedLayout, err)
	}
	if !m.Continuous() {
		return fmt.Errorf("%w: matrix buffer is not contiguous", matrix.ErrUnsupportedLayout)
	}
	if uint64(m.Rows) > math.MaxUint32 || uint64(m.Cols) > math.MaxUint32 {
		return fmt.Errorf("%w: %dx%d does not fit the header", matrix.ErrUnsupportedLayout, m.Rows, m.Cols)
	}
	if uint64(len(comment)) > math.MaxUint32-HeaderSize {
		return fmt.Errorf("comment too long (%d bytes)", len(comment))
	}
	return nil
}
