package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLocksSerializeSameSession(t *testing.T) {
	locks := newSessionLocks()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.acquire("sess-1")
			counter++
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestSessionLocksReleaseCleansUp(t *testing.T) {
	locks := newSessionLocks()

	release := locks.acquire("sess-1")
	release()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks, "released entries are removed from the map")
}

func TestSessionLocksIndependentSessions(t *testing.T) {
	locks := newSessionLocks()

	releaseA := locks.acquire("sess-a")
	// A held lock on one session must not block another session.
	releaseB := locks.acquire("sess-b")

	releaseB()
	releaseA()
}
