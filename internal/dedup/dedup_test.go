package dedup

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldProcess_Duplicate(t *testing.T) {
	s := NewSet(DefaultCapacity)

	assert.True(t, s.ShouldProcess("evt-1"))
	assert.False(t, s.ShouldProcess("evt-1"))
	assert.False(t, s.ShouldProcess("evt-1"))
	assert.Equal(t, 1, s.Len())
}

func TestShouldProcess_ClearsAtCapacity(t *testing.T) {
	const capacity = 30
	s := NewSet(capacity)

	for i := range capacity {
		assert.True(t, s.ShouldProcess(fmt.Sprintf("evt-%d", i)))
	}
	assert.Equal(t, capacity, s.Len())

	// The insertion past capacity flushes everything and keeps only itself.
	assert.True(t, s.ShouldProcess("evt-overflow"))
	assert.Equal(t, 1, s.Len())

	// A pre-flush id is admitted again: the flush forgot it.
	assert.True(t, s.ShouldProcess("evt-0"))
}

func TestShouldProcess_ConcurrentSameID(t *testing.T) {
	s := NewSet(DefaultCapacity)

	const workers = 32
	var admitted atomic.Int64
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.ShouldProcess("evt-racy") {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), admitted.Load())
}

func TestNewSet_DefaultsCapacity(t *testing.T) {
	s := NewSet(0)
	for i := range DefaultCapacity {
		s.ShouldProcess(fmt.Sprintf("evt-%d", i))
	}
	assert.Equal(t, DefaultCapacity, s.Len())
}
