package linereader

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine_Sequential(t *testing.T) {
	r := New(strings.NewReader("one\ntwo\nthree"))

	line, err := r.ReadLine(0)
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(line))
	assert.Equal(t, 1, r.Current())

	line, err = r.ReadLine(1)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(line))

	line, err = r.ReadLine(2)
	require.NoError(t, err)
	assert.Equal(t, "three", string(line), "last line keeps its missing newline")
	assert.Equal(t, 3, r.Current())
}

func TestReadLine_Skips(t *testing.T) {
	r := New(strings.NewReader("a\nb\nc\nd\ne\n"))

	line, err := r.ReadLine(3)
	require.NoError(t, err)
	assert.Equal(t, "d\n", string(line))
	assert.Equal(t, 4, r.Current())

	line, err = r.ReadLine(4)
	require.NoError(t, err)
	assert.Equal(t, "e\n", string(line))
}

func TestReadLine_Rewind(t *testing.T) {
	r := New(strings.NewReader("a\nb\nc\n"))

	_, err := r.ReadLine(2)
	require.NoError(t, err)

	_, err = r.ReadLine(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRewind))

	_, err = r.ReadLine(2)
	assert.True(t, errors.Is(err, ErrRewind), "a line can't be read twice")
}

func TestReadLine_PastEOF(t *testing.T) {
	r := New(strings.NewReader("a\nb"))

	_, err := r.ReadLine(5)
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, 2, r.Current(), "only consumed lines are counted")

	r = New(strings.NewReader("a\nb\n"))
	_, err = r.ReadLine(2)
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, 2, r.Current())
}

func TestReadLine_LongLines(t *testing.T) {
	long := strings.Repeat("x", 3*bufferSize+17)
	input := long + "\n" + "short\n" + long

	r := New(strings.NewReader(input))
	line, err := r.ReadLine(1)
	require.NoError(t, err)
	assert.Equal(t, "short\n", string(line))

	line, err = r.ReadLine(2)
	require.NoError(t, err)
	assert.Equal(t, long, string(line))
}

func TestReadLine_ReturnedBytesAreOwned(t *testing.T) {
	r := New(strings.NewReader("first\nsecond\nthird\n"))

	first, err := r.ReadLine(0)
	require.NoError(t, err)
	_, err = r.ReadLine(2)
	require.NoError(t, err)

	assert.Equal(t, "first\n", string(first))
}

func TestReadLine_SmallReads(t *testing.T) {
	r := New(iotest.OneByteReader(strings.NewReader("one\ntwo\nthree\n")))

	line, err := r.ReadLine(2)
	require.NoError(t, err)
	assert.Equal(t, "three\n", string(line))
}

func TestReadLine_ReadError(t *testing.T) {
	boom := errors.New("boom")
	r := New(iotest.ErrReader(boom))

	_, err := r.ReadLine(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, io.EOF))
}

func TestCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"single newline", "\n", 1},
		{"no trailing newline", "one\ntwo\nthree", 3},
		{"trailing newline", "one\ntwo\nthree\n", 3},
		{"blank lines", "\n\n\n", 3},
		{"one line", "solo", 1},
		{"trailing nul", "a\n\x00", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Count(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCount_LargeInput(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 100000; i++ {
		buf.WriteString("some line of text\n")
	}
	got, err := Count(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100000, got)
}

func TestCount_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := Count(iotest.ErrReader(boom))
	assert.True(t, errors.Is(err, boom))
}
