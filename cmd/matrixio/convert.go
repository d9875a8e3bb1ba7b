package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/matrixio/internal/convert"
	"github.com/samcharles93/matrixio/internal/logger"
)

func convertCmd() *cli.Command {
	var (
		inPath  string
		outPath string
		toFmt   string
		opts    = convert.DefaultOptions()
	)

	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a matrix file between mfe, edf, txt, yaml, json (and from raw)",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "in",
				Aliases:     []string{"i"},
				Usage:       "input matrix file",
				Destination: &inPath,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file; the extension selects the format",
				Destination: &outPath,
			},
			&cli.StringFlag{
				Name:        "to",
				Usage:       "output format when --out is omitted (" + formatNames() + ")",
				Destination: &toFmt,
			},
			&cli.StringFlag{
				Name:        "comment",
				Usage:       "comment stored in .mfe output (default: the input's comment or \"MatrixViewer\")",
				Destination: &opts.Comment,
			},
		}, rawFlags(&opts)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyCodecConfig(cmd, cfg, &opts)

			dst, derived, err := resolveConvertOut(inPath, outPath, toFmt)
			if err != nil {
				return err
			}
			if derived {
				log.Info("writing to derived output path", "out", dst)
			}

			doc, err := convert.Convert(ctx, inPath, dst, opts)
			if err != nil {
				return err
			}
			log.Info("converted matrix",
				"in", inPath,
				"from", doc.Format,
				"out", dst,
				"to", convert.FormatFromPath(dst),
				"matrix", doc.Matrix,
			)
			_, _ = fmt.Fprintln(outWriter(cmd), dst)
			return nil
		},
	}
}

func formatNames() string {
	var names []string
	for _, f := range convert.Formats() {
		if f.CanSave() {
			names = append(names, f.String())
		}
	}
	return strings.Join(names, ", ")
}
