package edf

import "strings"

// Default markers stripped by ParseHeaderLine.
const (
	DefaultStartMarker = "#"
	DefaultEndMarker   = ";"
)

// separators are tried in order; the first one that splits a line into at
// least two non-empty fields wins. Reordering changes results on lines that
// contain both spaces and '='.
var separators = [...]string{"    ", " : ", " = ", "=", ":", "  ", " "}

// ParseHeaderLine splits one header line into a property using the default
// markers.
func ParseHeaderLine(line string) Property {
	return ParseHeaderLineMarkers(line, DefaultStartMarker, DefaultEndMarker)
}

// ParseHeaderLineMarkers splits one header line into a property.
//
// A leading startMarker is removed, then the separators are tried in order.
// If the chosen split leaves a value starting with '=' (eg "DataType    = X"
// split on the four space run) and the line has exactly one '=' field split,
// the '=' split is used instead. A trailing endMarker is chopped from the
// value. A line no separator can split becomes a key with an empty value.
func ParseHeaderLineMarkers(line, startMarker, endMarker string) Property {
	line = strings.TrimPrefix(line, startMarker)
	line = strings.TrimSpace(line)
	if line == "" {
		return Property{}
	}

	for _, sep := range separators {
		fields := splitNonEmpty(line, sep)
		if len(fields) < 2 {
			continue
		}
		key := strings.TrimSpace(fields[0])
		value := strings.TrimSpace(strings.Join(fields[1:], sep))

		if strings.HasPrefix(value, "=") {
			if eq := splitNonEmpty(line, "="); len(eq) == 2 {
				key = strings.TrimSpace(eq[0])
				value = strings.TrimSpace(eq[1])
			}
		}

		if strings.HasSuffix(value, endMarker) {
			value = value[:len(value)-len(endMarker)]
		}
		return Property{Key: key, Value: strings.TrimSpace(value)}
	}
	return Property{Key: line}
}

func splitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsHeaderLine reports whether a trimmed line holds a "key = value ;" property.
func IsHeaderLine(line string) bool {
	return strings.HasSuffix(line, ";") && strings.Contains(line, " = ")
}

// IsBeginHeaderLine reports whether line opens the header block. The line may
// carry leading junk, so only the trailing '{' is checked.
func IsBeginHeaderLine(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), "{")
}

// IsEndHeaderLine reports whether line closes the header block.
func IsEndHeaderLine(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), "}")
}
