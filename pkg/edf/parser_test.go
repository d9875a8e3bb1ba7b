package edf

import "testing"

func TestParseHeaderLine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		line  string
		key   string
		value string
	}{
		{"simple", "Dim_1 = 512 ;", "Dim_1", "512"},
		{"equals override", "DataType       = SignedInteger ;", "DataType", "SignedInteger"},
		{"four space run wins", "equation     a = 12", "equation", "a = 12"},
		{"colon with spaces", "Title : my image", "Title", "my image"},
		{"bare equals", "Size=12;", "Size", "12"},
		{"bare colon", "Mode:fast", "Mode", "fast"},
		{"double space", "Name  value here", "Name", "value here"},
		{"single space", "Name value", "Name", "value"},
		{"start marker", "# Dim_2 = 3 ;", "Dim_2", "3"},
		{"no separator", "standalone", "standalone", ""},
		{"value keeps inner separators", "ByteOrder = LowByteFirst ;", "ByteOrder", "LowByteFirst"},
		{"rejoin with separator", "History = a = b ;", "History", "a = b"},
		{"empty", "   ", "", ""},
		{"only marker", "#", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseHeaderLine(tc.line)
			if got.Key != tc.key || got.Value != tc.value {
				t.Fatalf("ParseHeaderLine(%q): got {%q, %q} want {%q, %q}", tc.line, got.Key, got.Value, tc.key, tc.value)
			}
		})
	}
}

func TestParseHeaderLineMarkers(t *testing.T) {
	t.Parallel()

	got := ParseHeaderLineMarkers("// Gain = 2.5 end", "//", "end")
	if got.Key != "Gain" || got.Value != "2.5" {
		t.Fatalf("custom markers: got %+v", got)
	}

	// The end marker is chopped exactly once, not trimmed repeatedly.
	got = ParseHeaderLineMarkers("Note = x;; ", "#", ";")
	if got.Value != "x;" {
		t.Fatalf("end marker chop: got %q", got.Value)
	}

	got = ParseHeaderLineMarkers("Key = v ;", "", "")
	if got.Key != "Key" || got.Value != "v ;" {
		t.Fatalf("empty markers: got %+v", got)
	}
}

func TestLinePredicates(t *testing.T) {
	t.Parallel()

	if !IsHeaderLine("Dim_1 = 512 ;") {
		t.Fatalf("expected property line")
	}
	if IsHeaderLine("Dim_1=512;") {
		t.Fatalf("property line requires ' = '")
	}
	if IsHeaderLine("Dim_1 = 512") {
		t.Fatalf("property line requires trailing ';'")
	}
	if !IsBeginHeaderLine("  junk{ ") || IsBeginHeaderLine("{junk") {
		t.Fatalf("begin marker detection")
	}
	if !IsEndHeaderLine("}") || IsEndHeaderLine("} x") {
		t.Fatalf("end marker detection")
	}
}
