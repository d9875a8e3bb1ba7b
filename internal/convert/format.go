package convert

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an on-disk matrix representation.
type Format string

const (
	Unknown Format = ""
	MFE     Format = "mfe"
	EDF     Format = "edf"
	TXT     Format = "txt"
	RAW     Format = "raw"
	YAML    Format = "yaml"
	JSON    Format = "json"
)

var formats = []Format{MFE, EDF, TXT, RAW, YAML, JSON}

// Formats lists every format the dispatcher knows.
func Formats() []Format {
	return append([]Format(nil), formats...)
}

// CanLoad reports whether files of this format can be read.
func (f Format) CanLoad() bool {
	switch f {
	case MFE, EDF, TXT, RAW, YAML, JSON:
		return true
	}
	return false
}

// CanSave reports whether files of this format can be written. RAW is
// read-only.
func (f Format) CanSave() bool {
	return f.CanLoad() && f != RAW
}

func (f Format) String() string {
	if f == Unknown {
		return "unknown"
	}
	return string(f)
}

// ParseFormat maps a format name or file extension (with or without the
// leading dot) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "mfe":
		return MFE, nil
	case "edf":
		return EDF, nil
	case "txt":
		return TXT, nil
	case "raw":
		return RAW, nil
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks a format from the extension of path, ignoring case.
func FormatFromPath(path string) Format {
	ext := filepath.Ext(path)
	if ext == "" {
		return Unknown
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return Unknown
	}
	return f
}

// Supported reports whether path has an extension the dispatcher handles.
func Supported(path string) bool {
	return FormatFromPath(path) != Unknown
}
