// Package input opens and checks the file lines are extracted from.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/praetorian-inc/line/pkg/index"
	"golang.org/x/term"
)

// sniffSize is how much of a file is inspected for NUL bytes.
const sniffSize = 8192

// ErrEmptyFile is returned by Open for a zero-length file.
var ErrEmptyFile = errors.New("file is empty")

// File is an open, seekable input.
type File struct {
	*os.File

	// Info is nil when the file's metadata could not be read.
	Info os.FileInfo

	// StatErr holds the metadata failure, if any. The file is still usable.
	StatErr error

	// Key identifies this version of the file in the line-count index. It
	// is the zero Key when Info is nil.
	Key index.Key
}

// Open opens path for extraction. Directories are rejected and an empty
// file yields ErrEmptyFile. When the file's metadata can't be read the
// path is still treated as a regular file and StatErr is set.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening `%s`: %w", path, err)
	}

	file := &File{File: f}
	info, err := f.Stat()
	if err != nil {
		file.StatErr = err
		return file, nil
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("`%s` is not a file", path)
	}
	if info.Mode().IsRegular() && info.Size() == 0 {
		f.Close()
		return nil, ErrEmptyFile
	}

	file.Info = info
	if info.Mode().IsRegular() {
		key, err := index.KeyFor(path, info)
		if err == nil {
			file.Key = key
		}
	}
	return file, nil
}

// Sniff reports whether the file looks binary and rewinds it.
func (f *File) Sniff() (bool, error) {
	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f.File, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, fmt.Errorf("reading `%s`: %w", f.Name(), err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("rewinding `%s`: %w", f.Name(), err)
	}
	return IsBinary(buf[:n]), nil
}

// IsBinary reports whether content has a NUL byte in its first 8 KiB.
func IsBinary(content []byte) bool {
	checkSize := len(content)
	if checkSize > sniffSize {
		checkSize = sniffSize
	}
	return bytes.IndexByte(content[:checkSize], 0) != -1
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
