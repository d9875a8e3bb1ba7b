// Package mfe implements the Matrix Format Exchange file format.
//
// An MFE file is a fixed 23-byte little-endian header, a free-text comment
// and the raw row-major matrix payload:
//
//	offset 0:  [3]byte format marker ("MFE")
//	offset 3:  uint32  offset of the payload (HeaderSize + comment length)
//	offset 7:  uint32  packed element type and channel code
//	offset 11: uint32  cols
//	offset 15: uint32  rows
//	offset 19: uint32  depth (channel count)
//	offset 23: comment bytes, then rows*cols*channels*size(type) payload bytes
package mfe

const (
	// Magic is the format marker written at offset 0.
	Magic = "MFE"

	// HeaderSize is the encoded header length in bytes. The layout has no padding.
	HeaderSize = 23

	// DefaultComment is the comment stored when a caller has none.
	DefaultComment = "MatrixViewer"
)
