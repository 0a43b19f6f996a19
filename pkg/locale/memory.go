package locale

import (
	"context"
	"sync"
)

// MemoryStore keeps dictionaries in process memory. It is the reference
// implementation used by tests and by deployments that persist dictionaries
// elsewhere; internal/locale/dirstore provides the file-backed variant.
type MemoryStore struct {
	mu           sync.RWMutex
	dictionaries map[string]Dictionary
}

// NewMemoryStore returns an empty in-memory dictionary store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{dictionaries: make(map[string]Dictionary)}
}

// Dictionary implements Store. Missing languages yield an empty dictionary.
func (s *MemoryStore) Dictionary(_ context.Context, language string) (Dictionary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dictionaries[language].Clone(), nil
}

// SaveDictionary implements Store.
func (s *MemoryStore) SaveDictionary(_ context.Context, language string, dict Dictionary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaries[language] = dict.Clone()
	return nil
}

// Languages lists the language codes with stored dictionaries.
func (s *MemoryStore) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.dictionaries))
	for lang := range s.dictionaries {
		out = append(out, lang)
	}
	return out
}
