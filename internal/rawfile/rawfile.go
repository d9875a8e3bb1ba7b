// Package rawfile exposes a whole file as a read-only byte slice.
package rawfile

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ErrTooLarge is returned for files that cannot be indexed as a []byte.
var ErrTooLarge = errors.New("rawfile: file too large")

// File is the content of a file, memory-mapped when possible.
type File struct {
	Data    []byte
	mmapped bool
}

// Open maps the file at path read-only. If mmap is unavailable (or the file
// is empty) it falls back to ReadAt-based loading.
// The returned file must be closed to release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, ErrTooLarge
	}
	size := int(size64)
	if size == 0 {
		return &File{Data: []byte{}}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return &File{Data: data, mmapped: true}, nil
	}

	data, err = ReadAll(f, size)
	if err != nil {
		return nil, err
	}
	return &File{Data: data}, nil
}

// ReadAll loads size bytes from r starting at offset 0.
func ReadAll(r io.ReaderAt, size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrTooLarge
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		if err == io.EOF {
			return out[:off], nil
		}
		return nil, err
	}
	return out, nil
}

// Mapped reports whether Data is backed by an mmap.
func (f *File) Mapped() bool {
	return f != nil && f.mmapped
}

// Close releases the mapping. Data must not be used afterwards.
func (f *File) Close() error {
	if f == nil || f.Data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.mmapped = false
	return err
}
