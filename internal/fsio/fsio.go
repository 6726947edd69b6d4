// Package fsio is the filesystem boundary of the extraction engine. The
// engine depends only on these interfaces; the embedding application
// supplies the adapter (OS in production, instrumented fakes in tests).
package fsio

import (
	"io"
	"io/fs"
	"os"
)

// File is an open archive handle supporting positioned reads.
type File interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// FS is the filesystem capability the extraction engine requires.
type FS interface {
	Open(path string) (File, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error

	// Remove deletes a single file or empty directory. Failing on a
	// non-empty directory is the expected way callers probe emptiness.
	Remove(path string) error

	Stat(path string) (fs.FileInfo, error)
}

// OS adapts the local filesystem.
type OS struct{}

var _ FS = OS{}

type osFile struct {
	*os.File
	size int64
}

func (f *osFile) Size() int64 { return f.size }

// Open opens path for positioned reads and captures its size.
func (OS) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &osFile{File: f, size: info.Size()}, nil
}

func (OS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OS) Remove(path string) error {
	return os.Remove(path)
}

func (OS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
