package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/matrixio/internal/convert"
	"github.com/samcharles93/matrixio/internal/logger"
	"github.com/samcharles93/matrixio/pkg/edf"
	"github.com/samcharles93/matrixio/pkg/mfe"
)

type inspectReport struct {
	File       string           `json:"file"`
	Format     string           `json:"format"`
	Rows       int              `json:"rows"`
	Cols       int              `json:"cols"`
	Channels   int              `json:"channels"`
	Type       string           `json:"type"`
	Bytes      int              `json:"bytes"`
	MFE        *mfeHeaderInfo   `json:"mfe_header,omitempty"`
	EDF        *edfHeaderInfo   `json:"edf_header,omitempty"`
	Properties []reportProperty `json:"properties,omitempty"`
}

type reportProperty struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type mfeHeaderInfo struct {
	Magic    string `json:"magic"`
	Offset   uint32 `json:"offset"`
	TypeCode uint32 `json:"type_code"`
	Depth    uint32 `json:"depth"`
	Comment  string `json:"comment"`
}

type edfHeaderInfo struct {
	Start int64 `json:"start"`
	Stop  int64 `json:"stop"`
	Size  int64 `json:"size"`
}

func inspectCmd() *cli.Command {
	var (
		filePath   string
		asJSON     bool
		properties bool
		opts       = convert.DefaultOptions()
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the header and shape of a matrix file",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to the matrix file",
				Destination: &filePath,
				Required:    true,
			},
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON", Destination: &asJSON},
			&cli.BoolFlag{Name: "properties", Aliases: []string{"p"}, Usage: "list header properties", Destination: &properties},
		}, rawFlags(&opts)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyCodecConfig(cmd, cfg, &opts)
			report, err := buildInspectReport(ctx, filePath, opts)
			if err != nil {
				return err
			}
			w := outWriter(cmd)
			if asJSON {
				return writeJSON(w, report)
			}
			printInspectReport(w, report, properties)
			return nil
		},
	}
}

func buildInspectReport(ctx context.Context, path string, opts convert.Options) (*inspectReport, error) {
	log := logger.FromContext(ctx)
	report := &inspectReport{File: path}

	var doc *convert.Document
	switch convert.FormatFromPath(path) {
	case convert.EDF:
		f, err := edf.Read(path, &edf.Options{Logger: log})
		if err != nil {
			return nil, err
		}
		doc = &convert.Document{Format: convert.EDF, Matrix: f.Matrix, Properties: f.Metadata.Properties}
		report.EDF = &edfHeaderInfo{Start: f.HeaderStart, Stop: f.HeaderStop, Size: f.HeaderSize()}
	default:
		var err error
		doc, err = convert.Load(ctx, path, opts)
		if err != nil {
			return nil, err
		}
	}

	if doc.Format == convert.MFE {
		h, comment, err := mfe.ReadHeader(path)
		if err != nil {
			return nil, err
		}
		report.MFE = &mfeHeaderInfo{
			Magic:    string(h.Format[:]),
			Offset:   h.Offset,
			TypeCode: h.Type,
			Depth:    h.Depth,
			Comment:  comment,
		}
	}

	m := doc.Matrix
	report.Format = doc.Format.String()
	report.Rows = m.Rows
	report.Cols = m.Cols
	report.Channels = m.Channels
	report.Type = m.Type.String()
	report.Bytes = m.Len()
	for _, p := range doc.Properties {
		report.Properties = append(report.Properties, reportProperty(p))
	}
	log.Debug("inspected file", "path", path, "format", doc.Format, "matrix", m)
	return report, nil
}

func printInspectReport(w io.Writer, r *inspectReport, properties bool) {
	_, _ = fmt.Fprintf(w, "file:       %s\n", r.File)
	_, _ = fmt.Fprintf(w, "format:     %s\n", r.Format)
	_, _ = fmt.Fprintf(w, "shape:      %d rows x %d cols x %d channels\n", r.Rows, r.Cols, r.Channels)
	_, _ = fmt.Fprintf(w, "type:       %s\n", r.Type)
	_, _ = fmt.Fprintf(w, "bytes:      %d\n", r.Bytes)
	if h := r.MFE; h != nil {
		_, _ = fmt.Fprintf(w, "mfe header: magic=%q offset=%d type_code=%#x depth=%d\n", h.Magic, h.Offset, h.TypeCode, h.Depth)
		_, _ = fmt.Fprintf(w, "comment:    %s\n", h.Comment)
	}
	if h := r.EDF; h != nil {
		_, _ = fmt.Fprintf(w, "edf header: start=%d stop=%d size=%d properties=%d\n", h.Start, h.Stop, h.Size, len(r.Properties))
	}
	if !properties || len(r.Properties) == 0 {
		return
	}
	width := 0
	for _, p := range r.Properties {
		width = max(width, len(p.Key))
	}
	_, _ = fmt.Fprintln(w, "properties:")
	for _, p := range r.Properties {
		_, _ = fmt.Fprintf(w, "  %s%s  %s\n", p.Key, strings.Repeat(" ", width-len(p.Key)), p.Value)
	}
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
