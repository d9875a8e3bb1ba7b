// Package convert loads and saves matrices in every supported on-disk
// format, picking the codec from the file extension or, failing that, from
// the file contents.
package convert

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samcharles93/matrixio/internal/logger"
	"github.com/samcharles93/matrixio/pkg/edf"
	"github.com/samcharles93/matrixio/pkg/matrix"
	"github.com/samcharles93/matrixio/pkg/mfe"
)

var (
	ErrUnknownFormat = errors.New("unknown matrix format")
	ErrUnsupported   = errors.New("unsupported operation")
)

// CommentKey is the property an MFE comment is surfaced as.
const CommentKey = "Comment"

// Document is a matrix together with the header properties that travel
// with it.
type Document struct {
	Format     Format
	Matrix     *matrix.Matrix
	Properties []edf.Property
}

// Comment returns the value of the first Comment property.
func (d *Document) Comment() (string, bool) {
	for _, p := range d.Properties {
		if p.Key == CommentKey {
			return p.Value, true
		}
	}
	return "", false
}

// Options carry the settings that the file contents cannot supply.
type Options struct {
	RawWidth  int
	RawHeight int
	RawType   int
	// Comment overrides the comment written to MFE files.
	Comment string
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		RawWidth:  DefaultRawWidth,
		RawHeight: DefaultRawHeight,
		RawType:   DefaultRawType,
	}
}

func (o Options) withDefaults() Options {
	if o.RawWidth == 0 {
		o.RawWidth = DefaultRawWidth
	}
	if o.RawHeight == 0 {
		o.RawHeight = DefaultRawHeight
	}
	return o
}

func (o Options) mfeComment(doc *Document) string {
	if o.Comment != "" {
		return o.Comment
	}
	if c, ok := doc.Comment(); ok {
		return c
	}
	return mfe.DefaultComment
}

// Load reads the matrix at path. The format comes from the extension, or
// from the file contents when the extension is not recognised.
func Load(ctx context.Context, path string, opts Options) (*Document, error) {
	log := logger.FromContext(ctx)
	format := FormatFromPath(path)
	if format == Unknown {
		detected, err := Detect(path)
		if err != nil {
			return nil, fmt.Errorf("convert: %s: %w", path, err)
		}
		log.Debug("detected format from contents", "path", path, "format", detected)
		format = detected
	}

	switch format {
	case MFE:
		m, comment, err := mfe.Read(path)
		if err != nil {
			return nil, err
		}
		return mfeDocument(m, comment), nil
	case EDF:
		f, err := edf.Read(path, &edf.Options{Logger: log})
		if err != nil {
			return nil, err
		}
		return &Document{Format: EDF, Matrix: f.Matrix, Properties: f.Metadata.Properties}, nil
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("convert: %w: %w", matrix.ErrIO, err)
	}
	defer func() { _ = in.Close() }()

	doc, err := decode(ctx, in, format, opts)
	if err != nil {
		return nil, fmt.Errorf("convert: %s: %w", path, err)
	}
	return doc, nil
}

// Save writes doc to path in the format named by its extension.
func Save(ctx context.Context, path string, doc *Document, opts Options) (err error) {
	format := FormatFromPath(path)
	if format == Unknown {
		return fmt.Errorf("convert: %s: %w", path, ErrUnknownFormat)
	}
	doc, err = prepare(format, doc)
	if err != nil {
		return fmt.Errorf("convert: %s: %w", path, err)
	}

	err = writeFile(path, func(w io.Writer) error {
		return encode(w, format, doc, opts)
	})
	if err != nil {
		return fmt.Errorf("convert: %s: %w", path, err)
	}
	logger.FromContext(ctx).Debug("saved matrix", "path", path, "format", format, "matrix", doc.Matrix)
	return nil
}

// writeFile creates path and fills it with write. The file is removed when
// write or the final flush fails.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", matrix.ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", matrix.ErrIO, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", matrix.ErrIO, err)
	}
	return nil
}

// Decode reads a matrix of the given format from r.
func Decode(ctx context.Context, r io.Reader, format Format, opts Options) (*Document, error) {
	doc, err := decode(ctx, r, format, opts)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return doc, nil
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, format Format, doc *Document, opts Options) error {
	doc, err := prepare(format, doc)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if err := encode(w, format, doc, opts); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	return nil
}

func decode(ctx context.Context, r io.Reader, format Format, opts Options) (*Document, error) {
	log := logger.FromContext(ctx)
	switch format {
	case MFE:
		m, comment, err := mfe.Decode(r)
		if err != nil {
			return nil, err
		}
		return mfeDocument(m, comment), nil
	case EDF:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", matrix.ErrIO, err)
		}
		f, err := edf.Decode(data, &edf.Options{Logger: log})
		if err != nil {
			return nil, err
		}
		return &Document{Format: EDF, Matrix: f.Matrix, Properties: f.Metadata.Properties}, nil
	case TXT:
		m, err := decodeTXT(r)
		if err != nil {
			return nil, err
		}
		return &Document{Format: TXT, Matrix: m}, nil
	case RAW:
		opts = opts.withDefaults()
		m, samples, err := decodeRAW(r, opts.RawWidth, opts.RawHeight, opts.RawType)
		if err != nil {
			return nil, err
		}
		if samples < opts.RawWidth*opts.RawHeight {
			log.Warn("raw image shorter than configured size, padding with zeros",
				"samples", samples, "width", opts.RawWidth, "height", opts.RawHeight)
		}
		return &Document{Format: RAW, Matrix: m}, nil
	case YAML:
		return decodeYAML(r)
	case JSON:
		return decodeJSON(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

func encode(w io.Writer, format Format, doc *Document, opts Options) error {
	switch format {
	case MFE:
		return mfe.Encode(w, doc.Matrix, opts.mfeComment(doc))
	case EDF:
		return edf.Encode(w, doc.Matrix, edf.Metadata{Properties: doc.Properties})
	case TXT:
		return encodeTXT(w, doc.Matrix)
	case YAML:
		return encodeYAML(w, doc)
	case JSON:
		return encodeJSON(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

// prepare checks that doc can be written as format before any file is
// touched and returns a copy whose matrix is contiguous. doc itself is not
// modified.
func prepare(format Format, doc *Document) (*Document, error) {
	if !format.CanLoad() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
	if !format.CanSave() {
		return nil, fmt.Errorf("%w: saving %s files", ErrUnsupported, format)
	}
	if doc == nil || doc.Matrix.Empty() {
		return nil, fmt.Errorf("%w: empty matrix", ErrUnsupported)
	}
	m := doc.Matrix
	if _, err := matrix.PayloadSize(m.Rows, m.Cols, m.Channels, m.Type); err != nil {
		return nil, fmt.Errorf("%w: %w", matrix.ErrUnsupportedLayout, err)
	}
	if (format == EDF || format == TXT) && m.Channels != 1 {
		return nil, fmt.Errorf("%w: %s holds single-channel matrices, got %d channels", matrix.ErrUnsupportedLayout, format, m.Channels)
	}
	out := *doc
	if !out.Matrix.Continuous() {
		compact, err := out.Matrix.Compact()
		if err != nil {
			return nil, err
		}
		out.Matrix = compact
	}
	return &out, nil
}

func mfeDocument(m *matrix.Matrix, comment string) *Document {
	return &Document{
		Format:     MFE,
		Matrix:     m,
		Properties: []edf.Property{{Key: CommentKey, Value: comment}},
	}
}

// Convert loads src and saves it to dst, returning the loaded document.
func Convert(ctx context.Context, src, dst string, opts Options) (*Document, error) {
	doc, err := Load(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	if err := Save(ctx, dst, doc, opts); err != nil {
		return nil, err
	}
	return doc, nil
}

// Bytes encodes doc in format into a new buffer.
func Bytes(format Format, doc *Document, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, format, doc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
