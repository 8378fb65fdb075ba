package budget

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedLocksMutualExclusion(t *testing.T) {
	locks := newKeyedLocks()

	var mu sync.Mutex
	inCritical := 0
	maxInCritical := 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Acquire("budget-1")
			defer release()

			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxInCritical != 1 {
		t.Errorf("observed %d concurrent holders for one key", maxInCritical)
	}
}

func TestKeyedLocksIndependentKeys(t *testing.T) {
	locks := newKeyedLocks()

	releaseA := locks.Acquire("budget-a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		release := locks.Acquire("budget-b")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestKeyedLocksTableStaysBounded(t *testing.T) {
	locks := newKeyedLocks()

	for i := 0; i < 100; i++ {
		release := locks.Acquire("budget-1")
		release()
	}

	locks.mu.Lock()
	size := len(locks.locks)
	locks.mu.Unlock()

	if size != 0 {
		t.Errorf("lock table retained %d entries after release", size)
	}
}

func TestKeyedLocksReleaseIsIdempotent(t *testing.T) {
	locks := newKeyedLocks()

	release := locks.Acquire("budget-1")
	release()
	release() // must not unlock someone else's holding

	done := make(chan struct{})
	go func() {
		r := locks.Acquire("budget-1")
		r()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reacquire after double release blocked")
	}
}
