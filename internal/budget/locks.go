package budget

import (
	"sync"
)

// keyedLocks serializes reconciliation passes per budget identity. Entries
// are reference counted and removed once the last holder releases, so the
// table stays bounded by the number of in-flight passes.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{
		locks: make(map[string]*lockEntry),
	}
}

// Acquire blocks until the lock for key is held and returns the release
// function. Release must be called on every exit path.
func (k *keyedLocks) Acquire(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()
			k.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}
