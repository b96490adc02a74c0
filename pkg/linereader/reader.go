// Package linereader reads specific lines from a stream that can only move
// forward.
package linereader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// bufferSize is the read buffer used for both skipping and counting.
const bufferSize = 64 * 1024

// ErrRewind is returned when a caller asks for a line the reader has
// already moved past.
var ErrRewind = errors.New("requested line precedes the current position")

// Reader returns lines by zero-based number. Requests must be made in
// non-decreasing order; lines that are skipped over are never copied.
type Reader struct {
	r       *bufio.Reader
	current int
}

// New wraps r, which must be positioned at the start of the input.
func New(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, bufferSize)}
}

// Current returns the number of lines consumed so far, which is also the
// number of the next line ReadLine can return without skipping.
func (lr *Reader) Current() int {
	return lr.current
}

// ReadLine skips forward to line target and returns its bytes, including
// the terminating newline when there is one. The returned slice is owned by
// the caller.
//
// It returns ErrRewind if target has already been consumed, and io.EOF if
// the input ends before target.
func (lr *Reader) ReadLine(target int) ([]byte, error) {
	if target < lr.current {
		return nil, fmt.Errorf("reading line %d at line %d: %w", target, lr.current, ErrRewind)
	}
	if err := lr.skip(target - lr.current); err != nil {
		return nil, err
	}

	line, err := lr.r.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading line %d: %w", target, err)
	}
	if len(line) == 0 {
		return nil, io.EOF
	}
	lr.current++
	return line, nil
}

// skip advances n lines. Only newline positions are inspected.
func (lr *Reader) skip(n int) error {
	for n > 0 {
		chunk, err := lr.r.ReadSlice('\n')
		switch {
		case err == nil:
			lr.current++
			n--
		case errors.Is(err, bufio.ErrBufferFull):
			// Line longer than the buffer, keep scanning.
		case errors.Is(err, io.EOF):
			if len(chunk) > 0 {
				// Final line without a trailing newline.
				lr.current++
			}
			return io.EOF
		default:
			return fmt.Errorf("skipping to line %d: %w", lr.current+n, err)
		}
	}
	return nil
}

// Count returns the number of lines in r. A final line without a trailing
// newline counts; an empty input has zero lines.
func Count(r io.Reader) (int, error) {
	buf := make([]byte, bufferSize)
	count := 0
	var last byte
	read := false
	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
			read = true
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("counting lines: %w", err)
		}
	}
	if read && last != '\n' {
		count++
	}
	return count, nil
}
