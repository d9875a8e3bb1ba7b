package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/samcharles93/matrixio/pkg/edf"
	"github.com/samcharles93/matrixio/pkg/matrix"
	"github.com/samcharles93/matrixio/pkg/mfe"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")
	full := append([]string{"matrixio", "--log-format", "text", "--config", cfgPath}, args...)
	err := app.Run(context.Background(), full)
	return out.String(), err
}

func writeSampleMFE(t *testing.T, dir string) string {
	t.Helper()
	m, err := matrix.FromFloat64s(2, 2, 1, matrix.Float32, []float64{0.5, 1, -1, 4})
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	path := filepath.Join(dir, "sample.mfe")
	if err := mfe.Write(path, m, "calibration"); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestConvertCommand(t *testing.T) {
	t.Setenv(envMatrixioOutDir, "")
	dir := t.TempDir()
	src := writeSampleMFE(t, dir)

	out, err := runApp(t, "convert", "--in", src, "--to", "edf")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	dst := filepath.Join(dir, "sample.edf")
	if strings.TrimSpace(out) != dst {
		t.Fatalf("expected output path %q, got %q", dst, out)
	}

	f, err := edf.Read(dst, nil)
	if err != nil {
		t.Fatalf("read converted: %v", err)
	}
	if f.Matrix.Type != matrix.Float32 || f.Matrix.Rows != 2 || f.Matrix.Cols != 2 {
		t.Fatalf("unexpected matrix %s", f.Matrix)
	}
	if v, _ := f.Metadata.Value("Comment"); v != "calibration" {
		t.Fatalf("comment property: %q", v)
	}

	back := filepath.Join(dir, "roundtrip.mfe")
	if _, err := runApp(t, "convert", "--in", dst, "--out", back, "--comment", "relabelled"); err != nil {
		t.Fatalf("convert back: %v", err)
	}
	_, comment, err := mfe.Read(back)
	if err != nil || comment != "relabelled" {
		t.Fatalf("comment: got %q %v", comment, err)
	}
}

func TestInspectCommand(t *testing.T) {
	src := writeSampleMFE(t, t.TempDir())

	out, err := runApp(t, "inspect", "--file", src, "--json")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var report inspectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if report.Format != "mfe" || report.Type != "Float32" || report.Bytes != 16 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.MFE == nil || report.MFE.Magic != "MFE" || report.MFE.Offset != uint32(mfe.HeaderSize+len("calibration")) || report.MFE.Comment != "calibration" {
		t.Fatalf("unexpected mfe header %+v", report.MFE)
	}

	out, err = runApp(t, "inspect", "--file", src, "--properties")
	if err != nil {
		t.Fatalf("inspect text: %v", err)
	}
	for _, want := range []string{"format:     mfe", "shape:      2 rows x 2 cols x 1 channels", "Comment  calibration"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestInspectEDFCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.edf")
	m, _ := matrix.New(3, 2, 1, matrix.Uint16)
	if err := edf.Write(path, m, edf.Metadata{Properties: []edf.Property{{Key: "Title", Value: "dark"}}}); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := runApp(t, "inspect", "--file", path, "--json")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var report inspectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.EDF == nil || report.EDF.Start != 1 || report.EDF.Size != report.EDF.Stop-1 {
		t.Fatalf("unexpected edf header %+v", report.EDF)
	}
	if len(report.Properties) != 5 || report.Properties[0].Key != "Title" {
		t.Fatalf("unexpected properties %+v", report.Properties)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	if err := app.Run(context.Background(), []string{"matrixio", "--config", path, "version"}); err == nil {
		t.Fatal("expected config parse error")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"version"`) {
		t.Fatalf("unexpected output %q", out)
	}
}
