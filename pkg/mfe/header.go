package mfe

import (
	"encoding/binary"
	"fmt"

	"github.com/samcharles93/matrixio/pkg/matrix"
)

var le = binary.LittleEndian

// Header is the decoded fixed-size MFE header.
type Header struct {
	Format [3]byte
	Offset uint32
	Type   uint32
	Cols   uint32
	Rows   uint32
	// Depth is written as the channel count but is informational on read;
	// channels always come from Type.
	Depth  uint32
}

// NewHeader returns the unwritten default header (format "n/a", zero fields).
func NewHeader() Header {
	return Header{Format: [3]byte{'n', '/', 'a'}}
}

// HeaderFor builds the header describing m with a comment of commentLen bytes.
func HeaderFor(m *matrix.Matrix, commentLen int) Header {
	h := Header{
		Offset: uint32(HeaderSize + commentLen),
		Type:   matrix.TypeCode(m.Type, m.Channels),
		Cols:   uint32(m.Cols),
		Rows:   uint32(m.Rows),
		Depth:  uint32(m.Channels),
	}
	copy(h.Format[:], Magic)
	return h
}

// CommentLen is the comment length implied by Offset.
// It is negative when Offset is smaller than the fixed header.
func (h Header) CommentLen() int64 {
	return int64(h.Offset) - HeaderSize
}

// Valid reports whether the marker is "MFE" and Offset covers the fixed header.
func (h Header) Valid() bool {
	return string(h.Format[:]) == Magic && h.CommentLen() >= 0
}

func (h Header) String() string {
	desc := fmt.Sprintf("type %#x", h.Type)
	if t, ch, err := matrix.ParseTypeCode(h.Type); err == nil {
		desc = fmt.Sprintf("%s x%d", t, ch)
	}
	return fmt.Sprintf("format=%q offset=%d %dx%d depth=%d (%s)",
		string(h.Format[:]), h.Offset, h.Rows, h.Cols, h.Depth, desc)
}

func encodeHeader(dst []byte, h Header) bool {
	if len(dst) < HeaderSize {
		return false
	}
	copy(dst[0:3], h.Format[:])
	le.PutUint32(dst[3:7], h.Offset)
	le.PutUint32(dst[7:11], h.Type)
	le.PutUint32(dst[11:15], h.Cols)
	le.PutUint32(dst[15:19], h.Rows)
	le.PutUint32(dst[19:23], h.Depth)
	return true
}

func decodeHeader(src []byte) (Header, bool) {
	if len(src) < HeaderSize {
		return Header{}, false
	}
	var h Header
	copy(h.Format[:], src[0:3])
	h.Offset = le.Uint32(src[3:7])
	h.Type = le.Uint32(src[7:11])
	h.Cols = le.Uint32(src[11:15])
	h.Rows = le.Uint32(src[15:19])
	h.Depth = le.Uint32(src[19:23])
	return h, true
}
