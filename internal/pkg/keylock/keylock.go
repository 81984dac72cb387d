// Package keylock provides string-keyed mutual exclusion. The tracking
// service locks on the employee id so the check-in guard and the status
// upsert execute as a unit, while operations on different employees run
// concurrently.
package keylock

import "sync"

type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for key, creating it on first use. Entries are
// never evicted; the key space is bounded by the employee population.
func (k *KeyedMutex) Lock(key string) {
	k.mutexFor(key).Lock()
}

// Unlock releases the mutex for key. Unlocking a key that was never
// locked panics, same as sync.Mutex.
func (k *KeyedMutex) Unlock(key string) {
	k.mutexFor(key).Unlock()
}

func (k *KeyedMutex) mutexFor(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
