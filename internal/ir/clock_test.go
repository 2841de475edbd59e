package ir

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatementClockStartsAtOne(t *testing.T) {
	c := NewStatementClock()
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
}

func TestStatementClockAtResumesAfterStart(t *testing.T) {
	c := NewStatementClockAt(41)
	assert.Equal(t, int64(41), c.Current())
	assert.Equal(t, int64(42), c.Next())
}

func TestStatementClockConcurrentNextAreDistinct(t *testing.T) {
	c := NewStatementClock()
	var wg sync.WaitGroup
	ids := make([]int64, 100)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = c.Next()
		}(i)
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate statement id %d", id)
		seen[id] = true
	}
}
