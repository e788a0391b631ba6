// Package fileio provides the positioned byte I/O surface the rest of the
// library builds on: seek, partial/full read and write, size query, and
// flush-to-disk, with every underlying syscall failure wrapped with a stack
// trace via github.com/pkg/errors so callers higher up can log a cause while
// still reducing the failure to one of mp3tag's integer codes.
package fileio

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// File wraps an *os.File with the small set of operations the codec,
// container and placement layers need. It does not buffer; every call maps
// to exactly one syscall (plus retry loops hidden inside io.ReadFull).
type File struct {
	f *os.File
}

// Open opens path for reading only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "fileio: open")
	}
	return &File{f: f}, nil
}

// OpenRW opens path for reading and writing, creating it if absent.
func OpenRW(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "fileio: open rw")
	}
	return &File{f: f}, nil
}

// Create creates (or truncates) path for reading and writing. Used for the
// <path>.tmp sibling during an atomic rewrite.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "fileio: create")
	}
	return &File{f: f}, nil
}

// Seek repositions the file offset.
func (fl *File) Seek(offset int64, whence int) (int64, error) {
	n, err := fl.f.Seek(offset, whence)
	if err != nil {
		return 0, errors.Wrap(err, "fileio: seek")
	}
	return n, nil
}

// ReadAt reads len(p) bytes starting at off, failing if fewer are available.
func (fl *File) ReadAt(p []byte, off int64) error {
	_, err := fl.f.ReadAt(p, off)
	if err != nil {
		return errors.Wrap(err, "fileio: read at")
	}
	return nil
}

// ReadFull reads exactly len(p) bytes from the current offset.
func (fl *File) ReadFull(p []byte) error {
	_, err := io.ReadFull(fl.f, p)
	if err != nil {
		return errors.Wrap(err, "fileio: read")
	}
	return nil
}

// WriteAt writes p at the given offset.
func (fl *File) WriteAt(p []byte, off int64) error {
	_, err := fl.f.WriteAt(p, off)
	if err != nil {
		return errors.Wrap(err, "fileio: write at")
	}
	return nil
}

// Write writes p at the current offset.
func (fl *File) Write(p []byte) error {
	_, err := fl.f.Write(p)
	if err != nil {
		return errors.Wrap(err, "fileio: write")
	}
	return nil
}

// Size returns the current file size.
func (fl *File) Size() (int64, error) {
	fi, err := fl.f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "fileio: stat")
	}
	return fi.Size(), nil
}

// Sync flushes file contents to stable storage.
func (fl *File) Sync() error {
	if err := fl.f.Sync(); err != nil {
		return errors.Wrap(err, "fileio: sync")
	}
	return nil
}

// Close closes the underlying handle.
func (fl *File) Close() error {
	if err := fl.f.Close(); err != nil {
		return errors.Wrap(err, "fileio: close")
	}
	return nil
}

// CopyFrom streams n bytes from the current offset of src into dst's current
// offset, using buf as scratch space (size chosen by the caller, typically a
// bytefmt-sized constant).
func CopyFrom(dst *File, src *File, n int64, buf []byte) error {
	_, err := io.CopyBuffer(writerFunc(func(p []byte) (int, error) {
		if err := dst.Write(p); err != nil {
			return 0, err
		}
		return len(p), nil
	}), io.LimitReader(readerFunc(func(p []byte) (int, error) {
		return src.f.Read(p)
	}), n), buf)
	if err != nil {
		return errors.Wrap(err, "fileio: copy")
	}
	return nil
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
