package edf

import (
	"testing"

	"github.com/samcharles93/matrixio/pkg/matrix"
)

func TestMetadataUpdateFirstMatchOnly(t *testing.T) {
	t.Parallel()

	md := Metadata{}
	md.Add(Property{Key: "Title", Value: "a"})
	md.Add(Property{Key: "Title", Value: "b"})

	if !md.Update("Title", "c") {
		t.Fatalf("expected update to find Title")
	}
	if md.Properties[0].Value != "c" || md.Properties[1].Value != "b" {
		t.Fatalf("update touched the wrong entries: %+v", md.Properties)
	}
	if md.Update("Missing", "x") {
		t.Fatalf("update of missing key should report false")
	}
	if md.Len() != 2 {
		t.Fatalf("update must not append, len=%d", md.Len())
	}

	md.Set("Missing", "x")
	if v, ok := md.Value("Missing"); !ok || v != "x" {
		t.Fatalf("set should append missing key, got %q %v", v, ok)
	}
	if v, _ := md.Value("Title"); v != "c" {
		t.Fatalf("value should return first match, got %q", v)
	}

	md.Clear()
	if md.Len() != 0 {
		t.Fatalf("clear left %d properties", md.Len())
	}
}

func TestDataTypeTable(t *testing.T) {
	t.Parallel()

	cases := map[string]matrix.Type{
		"SignedByte":    matrix.Int8,
		"UnsignedByte":  matrix.Uint8,
		"SignedShort":   matrix.Int16,
		"UnsignedShort": matrix.Uint16,
		"SignedInteger": matrix.Int32,
		"FloatValue":    matrix.Float32,
		"DoubleValue":   matrix.Float64,
	}
	for name, want := range cases {
		got, ok := TypeForDataType(name)
		if !ok || got != want {
			t.Fatalf("TypeForDataType(%q): got %s %v", name, got, ok)
		}
		back, ok := DataTypeFor(want)
		if !ok || back != name {
			t.Fatalf("DataTypeFor(%s): got %q %v", want, back, ok)
		}
	}

	if got, ok := TypeForDataType("  FloatValue "); !ok || got != matrix.Float32 {
		t.Fatalf("whitespace should be simplified")
	}
	if got, ok := TypeForDataType("UnsignedInteger"); ok || got != matrix.Float32 {
		t.Fatalf("unknown DataType should fall back to Float32, got %s %v", got, ok)
	}
}
