package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"

	"github.com/samcharles93/matrixio/pkg/matrix"
	"github.com/samcharles93/matrixio/pkg/mfe"
)

// sniffLen bounds how much of a file Detect looks at.
const sniffLen = 8192

var (
	mfeType = filetype.NewType("mfe", "application/x-mfe")
	edfType = filetype.NewType("edf", "application/x-edf")
)

func init() {
	filetype.AddMatcher(mfeType, matchMFE)
	filetype.AddMatcher(edfType, matchEDF)
}

func matchMFE(head []byte) bool {
	return bytes.HasPrefix(head, []byte(mfe.Magic))
}

// matchEDF accepts input whose first non-blank line ends with '{'.
func matchEDF(head []byte) bool {
	head = bytes.TrimLeft(head, " \t\r\n")
	if len(head) == 0 {
		return false
	}
	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	} else if len(head) == sniffLen {
		return false
	}
	return bytes.HasSuffix(bytes.TrimSpace(line), []byte("{"))
}

// Detect guesses the format of the file at path from its leading bytes.
// Only MFE and EDF carry a recognisable signature. Other known file types,
// such as PNG or TIFF images, are reported with ErrUnsupported.
func Detect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("convert: %w: %w", matrix.ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Unknown, fmt.Errorf("convert: %w: %w", matrix.ErrIO, err)
	}
	return DetectBytes(head[:n])
}

// DetectBytes is Detect for data already in memory.
func DetectBytes(head []byte) (Format, error) {
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == types.Unknown {
		return Unknown, fmt.Errorf("%w: unrecognised content", ErrUnknownFormat)
	}
	switch kind {
	case mfeType:
		return MFE, nil
	case edfType:
		return EDF, nil
	}
	return Unknown, fmt.Errorf("%w: %s (%s)", ErrUnsupported, kind.Extension, kind.MIME.Value)
}
