package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/matrixio/internal/convert"
)

var (
	logLevel   string
	logFormat  string
	debug      bool
	configFile string

	// cfg is the config file loaded before any command runs.
	cfg Config
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (auto, pretty, json, text)",
			Value:       "auto",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Usage:       "path to config.yaml (default ~/.config/matrixio/config.yaml)",
		Sources:     cli.EnvVars(envMatrixioConfig),
		Destination: &configFile,
	}
}

// rawFlags bind the settings for headerless .raw input.
func rawFlags(opts *convert.Options) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "raw-width",
			Usage:       "width in pixels of .raw input",
			Value:       convert.DefaultRawWidth,
			Destination: &opts.RawWidth,
		},
		&cli.IntFlag{
			Name:        "raw-height",
			Usage:       "height in pixels of .raw input",
			Value:       convert.DefaultRawHeight,
			Destination: &opts.RawHeight,
		},
		&cli.IntFlag{
			Name:        "raw-type",
			Usage:       "sample layout of .raw input (0: 16-bit little-endian, 10-bit data)",
			Value:       convert.DefaultRawType,
			Destination: &opts.RawType,
		},
	}
}
