package convert

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samcharles93/matrixio/pkg/matrix"
)

// decodeTXT reads the two line text form: "<cols> <rows>" then every value
// in row-major order on a single space separated line.
func decodeTXT(r io.Reader) (*matrix.Matrix, error) {
	br := bufio.NewReader(r)

	first, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("%w: missing dimensions line", matrix.ErrTruncated)
	}
	dims := strings.Split(strings.TrimSpace(first), " ")
	if len(dims) != 2 {
		return nil, fmt.Errorf("%w: first line should hold \"COLS ROWS\", got %q", matrix.ErrCorruptHeader, first)
	}
	cols, cerr := strconv.Atoi(dims[0])
	rows, rerr := strconv.Atoi(dims[1])
	if cerr != nil || rerr != nil || rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %q", matrix.ErrCorruptHeader, first)
	}

	second, err := readLine(br)
	if err != nil && second == "" {
		return nil, fmt.Errorf("%w: missing values line", matrix.ErrTruncated)
	}
	fields := strings.Fields(second)
	want := rows * cols
	if len(fields) < want {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix", matrix.ErrTruncated, len(fields), rows, cols)
	}

	vals := make([]float64, want)
	for i := range vals {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %q", matrix.ErrCorruptHeader, i, fields[i])
		}
		vals[i] = v
	}
	return matrix.FromFloat64s(rows, cols, 1, matrix.Float64, vals)
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

// encodeTXT writes m as text. Every value is followed by a space, matching
// the files produced by earlier tools.
func encodeTXT(w io.Writer, m *matrix.Matrix) error {
	if m.Channels != 1 {
		return fmt.Errorf("%w: txt holds single-channel matrices, got %d channels", matrix.ErrUnsupportedLayout, m.Channels)
	}
	vals, err := m.Float64s()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintf(bw, "%d %d\n", m.Cols, m.Rows)
	buf := make([]byte, 0, 32)
	for _, v := range vals {
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		buf = append(buf, ' ')
		_, _ = bw.Write(buf)
	}
	return bw.Flush()
}
