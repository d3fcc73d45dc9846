package fifo

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetPut(t *testing.T) {
	c := New[string, int](10)
	c.Put("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = c.Get("b")
	assert.False(t, ok)
	c.Put("a", 2)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestCacheEvictsOldestTenth(t *testing.T) {
	c := New[int, int](20)
	for i := 0; i < 20; i++ {
		assert.Equal(t, 0, c.Put(i, i))
	}
	assert.Equal(t, 20, c.Len())
	evicted := c.Put(20, 20)
	assert.Equal(t, 2, evicted)
	assert.Equal(t, 19, c.Len())
	for _, k := range []int{0, 1} {
		_, ok := c.Get(k)
		assert.False(t, ok, "expected key %d to be evicted", k)
	}
	for _, k := range []int{2, 19, 20} {
		_, ok := c.Get(k)
		assert.True(t, ok, "expected key %d to survive", k)
	}
}

func TestCacheSmallCapacityEvictsOne(t *testing.T) {
	c := New[string, string](3)
	c.Put("a", "a")
	c.Put("b", "b")
	c.Put("c", "c")
	assert.Equal(t, 1, c.Put("d", "d"))
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 3, c.Len())
}

func TestCachePutIfAndClear(t *testing.T) {
	c := New[string, int](0)
	assert.Equal(t, DefaultCapacity, c.Capacity())
	assert.False(t, c.PutIf("x", 1, func() bool { return false }))
	assert.True(t, c.PutIf("y", 2, func() bool { return true }))
	_, ok := c.Get("x")
	assert.False(t, ok)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCacheConcurrentUse(t *testing.T) {
	c := New[string, int](50)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("%d-%d", g, i)
				c.Put(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
