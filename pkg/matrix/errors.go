package matrix

import "errors"

// Error kinds shared by every codec that reads or writes a Matrix.
// Codecs wrap these with context; callers test with errors.Is.
var (
	ErrIO                = errors.New("cannot access file")
	ErrTruncated         = errors.New("truncated data")
	ErrCorruptHeader     = errors.New("corrupt header")
	ErrUnsupportedLayout = errors.New("unsupported matrix layout")
)
