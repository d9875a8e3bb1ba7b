package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samcharles93/matrixio/internal/convert"
)

const (
	envMatrixioOutDir = "MATRIXIO_OUT_DIR"
	envMatrixioConfig = "MATRIXIO_CONFIG"
)

// resolveConvertOut picks the output path of a conversion. An explicit
// --out wins; otherwise the input's base name gets the extension of the
// target format and lands in $MATRIXIO_OUT_DIR or next to the input. The
// parent directory is created. The bool reports whether the path was
// derived rather than given.
func resolveConvertOut(inPath, outFlag, toFlag string) (string, bool, error) {
	outFlag = strings.TrimSpace(outFlag)
	if outFlag != "" {
		outPath := filepath.Clean(outFlag)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return "", false, err
		}
		return outPath, false, nil
	}

	if strings.TrimSpace(toFlag) == "" {
		return "", true, fmt.Errorf("--out or --to is required")
	}
	to, err := convert.ParseFormat(toFlag)
	if err != nil {
		return "", true, err
	}
	if !to.CanSave() {
		return "", true, fmt.Errorf("%w: saving %s files", convert.ErrUnsupported, to)
	}

	base := filepath.Base(filepath.Clean(inPath))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", true, fmt.Errorf("invalid input path: %q", inPath)
	}
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "." + string(to)

	outDir := strings.TrimSpace(os.Getenv(envMatrixioOutDir))
	if outDir == "" {
		outDir = filepath.Dir(filepath.Clean(inPath))
	}
	outPath := filepath.Join(outDir, name)
	if filepath.Clean(outPath) == filepath.Clean(inPath) {
		return "", true, fmt.Errorf("output would overwrite input %s; set --out", inPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", true, err
	}
	return outPath, true, nil
}
