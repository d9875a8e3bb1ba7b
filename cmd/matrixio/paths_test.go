package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConvertOut(t *testing.T) {
	t.Run("explicit output wins", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "nested", "frame.edf")

		got, derived, err := resolveConvertOut("in.mfe", outPath, "json")
		if err != nil {
			t.Fatalf("resolveConvertOut returned error: %v", err)
		}
		if derived {
			t.Fatalf("expected explicit output to not be derived")
		}
		if got != filepath.Clean(outPath) {
			t.Fatalf("unexpected output path: got %q want %q", got, outPath)
		}
		if _, err := os.Stat(filepath.Dir(got)); err != nil {
			t.Fatalf("expected output directory to exist: %v", err)
		}
	})

	t.Run("derived next to input", func(t *testing.T) {
		t.Setenv(envMatrixioOutDir, "")
		in := filepath.Join(t.TempDir(), "frame.v2.mfe")

		got, derived, err := resolveConvertOut(in, "", "EDF")
		if err != nil {
			t.Fatalf("resolveConvertOut returned error: %v", err)
		}
		if !derived {
			t.Fatalf("expected output to be derived")
		}
		if want := filepath.Join(filepath.Dir(in), "frame.v2.edf"); got != want {
			t.Fatalf("unexpected output path: got %q want %q", got, want)
		}
	})

	t.Run("env output dir", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), "converted")
		t.Setenv(envMatrixioOutDir, envDir)

		got, _, err := resolveConvertOut(filepath.Join(t.TempDir(), "frame.edf"), "", "yml")
		if err != nil {
			t.Fatalf("resolveConvertOut returned error: %v", err)
		}
		if want := filepath.Join(envDir, "frame.yaml"); got != want {
			t.Fatalf("unexpected output path: got %q want %q", got, want)
		}
		if _, err := os.Stat(envDir); err != nil {
			t.Fatalf("expected env dir to be created: %v", err)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Setenv(envMatrixioOutDir, "")
		if _, _, err := resolveConvertOut("a.mfe", "", ""); err == nil {
			t.Fatal("expected error without --out or --to")
		}
		if _, _, err := resolveConvertOut("a.mfe", "", "png"); err == nil {
			t.Fatal("expected error for unknown format")
		}
		if _, _, err := resolveConvertOut("a.mfe", "", "raw"); err == nil {
			t.Fatal("expected error for read-only format")
		}
		if _, _, err := resolveConvertOut(filepath.Join(t.TempDir(), "a.edf"), "", "edf"); err == nil {
			t.Fatal("expected error when output would overwrite input")
		}
	})
}
