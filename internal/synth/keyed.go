package synth

import "sync"

// keyedMutex serialises work per string key. Entries are created on demand
// and discarded once the last holder releases, so idle keys cost nothing.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[string]*keyedEntry)}
}

// lock blocks until the key is held and returns the release func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	entry := k.entries[key]
	if entry == nil {
		entry = &keyedEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
