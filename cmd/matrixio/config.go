package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/matrixio/internal/convert"
)

// Config represents the matrixio configuration file
// (~/.config/matrixio/config.yaml). Numeric fields are pointers so "not set"
// differs from zero.
type Config struct {
	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
	MaxBodyBytes  *int64 `yaml:"max_body_bytes"`

	// Codecs
	MFEComment string `yaml:"mfe_comment"`
	RawWidth   *int   `yaml:"raw_width"`
	RawHeight  *int   `yaml:"raw_height"`
	RawType    *int   `yaml:"raw_type"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "matrixio", "config.yaml")
}

func resolveConfigPath(flag string) string {
	if flag != "" {
		return filepath.Clean(flag)
	}
	return configPath()
}

// LoadConfig reads the config file at path. A missing file yields a zero
// Config; a file that exists but does not parse is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// applyLoggingConfig applies config file defaults to the global logging
// flags when they were not explicitly set.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyCodecConfig applies config file defaults to dispatcher options.
func applyCodecConfig(c *cli.Command, cfg Config, opts *convert.Options) {
	if cfg.MFEComment != "" && !c.IsSet("comment") {
		opts.Comment = cfg.MFEComment
	}
	if cfg.RawWidth != nil && !c.IsSet("raw-width") {
		opts.RawWidth = *cfg.RawWidth
	}
	if cfg.RawHeight != nil && !c.IsSet("raw-height") {
		opts.RawHeight = *cfg.RawHeight
	}
	if cfg.RawType != nil && !c.IsSet("raw-type") {
		opts.RawType = *cfg.RawType
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxBody *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxBodyBytes != nil && !c.IsSet("max-body") {
		*maxBody = *cfg.MaxBodyBytes
	}
}
