package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_InsertAndGet(t *testing.T) {
	c := NewCache(4)

	for _, line := range []int{2, 5, 9} {
		ok, err := c.Insert(line, []byte{byte('a' + line)})
		require.NoError(t, err)
		assert.True(t, ok)
	}

	b, ok := c.Get(5)
	assert.True(t, ok)
	assert.Equal(t, []byte{'f'}, b)

	_, ok = c.Get(4)
	assert.False(t, ok)
	assert.Equal(t, 3, c.Len())
}

func TestCache_OutOfOrderInsertStaysSorted(t *testing.T) {
	c := NewCache(0)
	for _, line := range []int{7, 1, 4, 0} {
		_, err := c.Insert(line, []byte("x"))
		require.NoError(t, err)
	}

	var got []int
	for _, l := range c.lines {
		got = append(got, l.number)
	}
	assert.Equal(t, []int{0, 1, 4, 7}, got)
	assert.True(t, c.Has(4))
	assert.False(t, c.Has(5))
}

func TestCache_DuplicateKeepsFirst(t *testing.T) {
	c := NewCache(2)
	_, err := c.Insert(3, []byte("first"))
	require.NoError(t, err)
	_, err = c.Insert(8, []byte("other"))
	require.NoError(t, err)

	ok, err := c.Insert(3, []byte("second"))
	require.NoError(t, err)
	assert.False(t, ok)

	b, _ := c.Get(3)
	assert.Equal(t, "first", string(b))
}

func TestCache_Frozen(t *testing.T) {
	c := NewCache(1)
	_, err := c.Insert(0, []byte("a"))
	require.NoError(t, err)

	c.Freeze()
	assert.True(t, c.Frozen())

	_, err = c.Insert(1, []byte("b"))
	assert.ErrorIs(t, err, ErrFrozen)

	b, ok := c.Get(0)
	assert.True(t, ok)
	assert.Equal(t, "a", string(b))
}
