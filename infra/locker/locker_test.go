package locker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocker_TryLockIsExclusive(t *testing.T) {
	l := New()

	assert.True(t, l.TryLock("acc-1"))
	assert.False(t, l.TryLock("acc-1"))
	assert.True(t, l.TryLock("acc-2"))
	assert.True(t, l.IsProcessing("acc-1"))

	l.Unlock("acc-1")
	assert.False(t, l.IsProcessing("acc-1"))
	assert.True(t, l.TryLock("acc-1"))
}

func TestLocker_ConcurrentTryLockSingleWinner(t *testing.T) {
	l := New()
	var winners int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryLock("acc-1") {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners)
}
