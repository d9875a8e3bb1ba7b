package convert

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/matrixio/pkg/edf"
	"github.com/samcharles93/matrixio/pkg/matrix"
)

// storedDocument is the YAML and JSON storage layout: a "matrix" node
// holding the shape and row-major interleaved values, plus the optional
// property list.
type storedDocument struct {
	Matrix     storedMatrix     `yaml:"matrix" json:"matrix"`
	Properties []storedProperty `yaml:"properties,omitempty" json:"properties,omitempty"`
}

type storedMatrix struct {
	Rows     int       `yaml:"rows" json:"rows"`
	Cols     int       `yaml:"cols" json:"cols"`
	Channels int       `yaml:"channels" json:"channels"`
	Type     string    `yaml:"type" json:"type"`
	Data     []float64 `yaml:"data,flow" json:"data"`
}

type storedProperty struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

func toStored(doc *Document) (*storedDocument, error) {
	m := doc.Matrix
	vals, err := m.Float64s()
	if err != nil {
		return nil, err
	}
	out := &storedDocument{Matrix: storedMatrix{
		Rows:     m.Rows,
		Cols:     m.Cols,
		Channels: m.Channels,
		Type:     m.Type.String(),
		Data:     vals,
	}}
	for _, p := range doc.Properties {
		out.Properties = append(out.Properties, storedProperty(p))
	}
	return out, nil
}

func (s *storedDocument) document(format Format) (*Document, error) {
	typ, err := matrix.ParseType(s.Matrix.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", matrix.ErrCorruptHeader, err)
	}
	channels := s.Matrix.Channels
	if channels == 0 {
		channels = 1
	}
	if want := s.Matrix.Rows * s.Matrix.Cols * channels; want != len(s.Matrix.Data) || want <= 0 {
		return nil, fmt.Errorf("%w: %d values for a %dx%dx%d matrix",
			matrix.ErrCorruptHeader, len(s.Matrix.Data), s.Matrix.Rows, s.Matrix.Cols, channels)
	}
	m, err := matrix.FromFloat64s(s.Matrix.Rows, s.Matrix.Cols, channels, typ, s.Matrix.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", matrix.ErrCorruptHeader, err)
	}
	doc := &Document{Format: format, Matrix: m}
	for _, p := range s.Properties {
		doc.Properties = append(doc.Properties, edf.Property(p))
	}
	return doc, nil
}

func decodeYAML(r io.Reader) (*Document, error) {
	var s storedDocument
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", matrix.ErrCorruptHeader, err)
	}
	return s.document(YAML)
}

func encodeYAML(w io.Writer, doc *Document) error {
	s, err := toStored(doc)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func decodeJSON(r io.Reader) (*Document, error) {
	var s storedDocument
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: json: %w", matrix.ErrCorruptHeader, err)
	}
	return s.document(JSON)
}

func encodeJSON(w io.Writer, doc *Document) error {
	s, err := toStored(doc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
