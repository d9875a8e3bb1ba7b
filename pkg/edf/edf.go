// Package edf reads and writes ESRF Data Format images.
//
// An EDF file is a text header block framed by '{' and '}' lines holding
// "key = value ;" properties, immediately followed by the raw binary payload:
//
//	{
//	Dim_1 = 512 ;
//	Dim_2 = 256 ;
//	DataType = FloatValue ;
//	}
//	<rows*cols*size(DataType) bytes>
//
// Only single-channel images are supported.
package edf

import (
	"strings"

	"github.com/samcharles93/matrixio/pkg/matrix"
)

// Header property keys.
const (
	KeyDim1       = "Dim_1"
	KeyDim2       = "Dim_2"
	KeyDataType   = "DataType"
	KeyByteOrder  = "ByteOrder"
	KeyHeaderSize = "EDF_HeaderSize"
	KeyBinarySize = "EDF_BinarySize"
)

// ByteOrder values.
const (
	LowByteFirst  = "LowByteFirst"
	HighByteFirst = "HighByteFirst"
)

var requiredKeys = [...]string{KeyDim1, KeyDim2, KeyDataType}

var dataTypes = []struct {
	name string
	typ  matrix.Type
}{
	{"SignedByte", matrix.Int8},
	{"UnsignedByte", matrix.Uint8},
	{"SignedShort", matrix.Int16},
	{"UnsignedShort", matrix.Uint16},
	{"SignedInteger", matrix.Int32},
	{"FloatValue", matrix.Float32},
	{"DoubleValue", matrix.Float64},
}

// TypeForDataType maps a DataType header value to an element type.
// Some files in the wild label float images as integers, so unknown names
// decode as Float32; ok reports whether the name was recognised.
func TypeForDataType(name string) (t matrix.Type, ok bool) {
	name = strings.Join(strings.Fields(name), " ")
	for _, dt := range dataTypes {
		if dt.name == name {
			return dt.typ, true
		}
	}
	return matrix.Float32, false
}

// DataTypeFor is the inverse of TypeForDataType.
func DataTypeFor(t matrix.Type) (string, bool) {
	for _, dt := range dataTypes {
		if dt.typ == t {
			return dt.name, true
		}
	}
	return "", false
}
