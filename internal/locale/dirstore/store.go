// Package dirstore persists locale dictionaries as one JSON file per
// language code inside a directory, mirroring the classic languages-folder
// layout. Writes go through a temp file and rename so readers never observe
// a partial dictionary.
package dirstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-dcschema/pkg/locale"
)

// Store reads and writes <dir>/<language>.json files.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

var _ locale.Store = (*Store)(nil)

// Dictionary implements locale.Store. A language with no file yields an
// empty dictionary.
func (s *Store) Dictionary(_ context.Context, language string) (locale.Dictionary, error) {
	path, err := s.path(language)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return locale.Dictionary{}, nil
		}
		return nil, fmt.Errorf("dirstore: read %s dictionary: %w", language, err)
	}
	var dict locale.Dictionary
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("dirstore: parse %s dictionary: %w", language, err)
	}
	if dict == nil {
		dict = locale.Dictionary{}
	}
	return dict, nil
}

// SaveDictionary implements locale.Store.
func (s *Store) SaveDictionary(_ context.Context, language string, dict locale.Dictionary) error {
	path, err := s.path(language)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("dirstore: create %s: %w", s.dir, err)
	}

	payload, err := json.MarshalIndent(dict, "", "  ")
	if err != nil {
		return fmt.Errorf("dirstore: marshal %s dictionary: %w", language, err)
	}

	tmp, err := os.CreateTemp(s.dir, language+".*.tmp")
	if err != nil {
		return fmt.Errorf("dirstore: temp file for %s: %w", language, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("dirstore: write %s dictionary: %w", language, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("dirstore: close %s dictionary: %w", language, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("dirstore: replace %s dictionary: %w", language, err)
	}
	return nil
}

// path validates the language code so it cannot escape the store directory.
func (s *Store) path(language string) (string, error) {
	if language == "" {
		return "", fmt.Errorf("dirstore: language code is required")
	}
	for _, r := range language {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", fmt.Errorf("dirstore: invalid language code %q", language)
		}
	}
	return filepath.Join(s.dir, language+".json"), nil
}
