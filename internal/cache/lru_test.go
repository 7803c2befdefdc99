package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU(30)
	c.Set("a", make([]byte, 10))
	c.Set("b", make([]byte, 10))
	c.Set("c", make([]byte, 10))
	assert.Equal(t, int64(30), c.Size())

	// Touch a so b is the eviction candidate.
	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("d", make([]byte, 10))
	_, ok = c.Get("b")
	assert.False(t, ok)
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, 3, c.Len())
}

func TestLRU_EdgeCases(t *testing.T) {
	c := NewLRU(50)

	c.Set("big", make([]byte, 60))
	_, ok := c.Get("big")
	assert.False(t, ok, "values larger than the capacity are not cached")

	c.Set("k", make([]byte, 10))
	c.Set("k", make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Len(t, v, 20)

	c.Set("k", make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())

	c.Remove("k")
	c.Remove("missing")
	assert.Zero(t, c.Size())
	assert.Zero(t, c.Len())
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRU(100)
	c.Set("k", []byte("v"))
	c.Get("k")
	c.Get("k")
	c.Get("x")

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}
