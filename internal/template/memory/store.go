// Package memory provides in-process entity repositories for templates,
// sections, questions, and translations. The compare-and-set link writes
// (backing table, field reference) enforce the write-once invariants the
// synthesis layer relies on.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-dcschema/pkg/dynschema"
	"github.com/goliatone/go-dcschema/pkg/template"
)

// Store implements every repository interface in pkg/template over mutex
// guarded maps.
type Store struct {
	mu           sync.RWMutex
	templates    map[string]template.Template
	sections     map[string]template.Section
	questions    map[string]template.Question
	translations map[string]template.Translation
}

// NewStore returns an empty entity store.
func NewStore() *Store {
	return &Store{
		templates:    make(map[string]template.Template),
		sections:     make(map[string]template.Section),
		questions:    make(map[string]template.Question),
		translations: make(map[string]template.Translation),
	}
}

// Repositories bundles the store into the aggregate consumers accept.
func (s *Store) Repositories() template.Repositories {
	return template.Repositories{
		Templates:    s,
		Sections:     s,
		Questions:    s,
		Translations: s,
	}
}

var (
	_ template.TemplateRepository    = (*Store)(nil)
	_ template.SectionRepository     = (*Store)(nil)
	_ template.QuestionRepository    = (*Store)(nil)
	_ template.TranslationRepository = (*Store)(nil)
)

// Template implements template.TemplateRepository.
func (s *Store) Template(_ context.Context, id string) (template.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return template.Template{}, fmt.Errorf("memory: template %s: %w", id, template.ErrNotFound)
	}
	return t, nil
}

// CreateTemplate implements template.TemplateRepository.
func (s *Store) CreateTemplate(_ context.Context, t template.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[t.ID]; exists {
		return fmt.Errorf("memory: template %s already exists", t.ID)
	}
	s.templates[t.ID] = t
	return nil
}

// UpdateTemplate implements template.TemplateRepository. The backing table
// link is preserved; use SetBackingTable to write it.
func (s *Store) UpdateTemplate(_ context.Context, t template.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.templates[t.ID]
	if !ok {
		return fmt.Errorf("memory: template %s: %w", t.ID, template.ErrNotFound)
	}
	t.BackingTable = current.BackingTable
	s.templates[t.ID] = t
	return nil
}

// SetBackingTable implements template.TemplateRepository with write-once
// semantics.
func (s *Store) SetBackingTable(_ context.Context, id string, ref dynschema.TableRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return fmt.Errorf("memory: template %s: %w", id, template.ErrNotFound)
	}
	if t.BackingTable != "" {
		return fmt.Errorf("memory: template %s: %w", id, template.ErrTableLinked)
	}
	t.BackingTable = ref
	s.templates[id] = t
	return nil
}

// Section implements template.SectionRepository.
func (s *Store) Section(_ context.Context, id string) (template.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, ok := s.sections[id]
	if !ok {
		return template.Section{}, fmt.Errorf("memory: section %s: %w", id, template.ErrNotFound)
	}
	return sec, nil
}

// CreateSection implements template.SectionRepository.
func (s *Store) CreateSection(_ context.Context, sec template.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sections[sec.ID]; exists {
		return fmt.Errorf("memory: section %s already exists", sec.ID)
	}
	s.sections[sec.ID] = sec
	return nil
}

// SectionsByTemplate implements template.SectionRepository, ordered by
// position.
func (s *Store) SectionsByTemplate(_ context.Context, templateID string) ([]template.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []template.Section
	for _, sec := range s.sections {
		if sec.TemplateID == templateID {
			out = append(out, sec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// Question implements template.QuestionRepository.
func (s *Store) Question(_ context.Context, id string) (template.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return template.Question{}, fmt.Errorf("memory: question %s: %w", id, template.ErrNotFound)
	}
	return cloneQuestion(q), nil
}

// CreateQuestion implements template.QuestionRepository.
func (s *Store) CreateQuestion(_ context.Context, q template.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.questions[q.ID]; exists {
		return fmt.Errorf("memory: question %s already exists", q.ID)
	}
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

// UpdateQuestion implements template.QuestionRepository. The field link is
// preserved; use SetFieldRef to write it.
func (s *Store) UpdateQuestion(_ context.Context, q template.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.questions[q.ID]
	if !ok {
		return fmt.Errorf("memory: question %s: %w", q.ID, template.ErrNotFound)
	}
	q.Field = current.Field
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

// QuestionsByTemplate implements template.QuestionRepository, ordered by
// position.
func (s *Store) QuestionsByTemplate(_ context.Context, templateID string) ([]template.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []template.Question
	for _, q := range s.questions {
		if q.TemplateID == templateID {
			out = append(out, cloneQuestion(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// SetFieldRef implements template.QuestionRepository with write-once
// semantics.
func (s *Store) SetFieldRef(_ context.Context, id string, ref dynschema.FieldRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return fmt.Errorf("memory: question %s: %w", id, template.ErrNotFound)
	}
	if q.Field != "" {
		return fmt.Errorf("memory: question %s: %w", id, template.ErrFieldLinked)
	}
	q.Field = ref
	s.questions[id] = q
	return nil
}

// Translation implements template.TranslationRepository.
func (s *Store) Translation(_ context.Context, id string) (template.Translation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tr, ok := s.translations[id]
	if !ok {
		return template.Translation{}, fmt.Errorf("memory: translation %s: %w", id, template.ErrNotFound)
	}
	return cloneTranslation(tr), nil
}

// CreateTranslation implements template.TranslationRepository.
func (s *Store) CreateTranslation(_ context.Context, tr template.Translation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.translations[tr.ID]; exists {
		return fmt.Errorf("memory: translation %s already exists", tr.ID)
	}
	s.translations[tr.ID] = cloneTranslation(tr)
	return nil
}

// UpdateTranslation implements template.TranslationRepository.
func (s *Store) UpdateTranslation(_ context.Context, tr template.Translation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.translations[tr.ID]; !ok {
		return fmt.Errorf("memory: translation %s: %w", tr.ID, template.ErrNotFound)
	}
	s.translations[tr.ID] = cloneTranslation(tr)
	return nil
}

// TranslationsByQuestion implements template.TranslationRepository, ordered
// by language for stable output.
func (s *Store) TranslationsByQuestion(_ context.Context, questionID string) ([]template.Translation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []template.Translation
	for _, tr := range s.translations {
		if tr.QuestionID == questionID {
			out = append(out, cloneTranslation(tr))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Language < out[j].Language })
	return out, nil
}

func cloneQuestion(q template.Question) template.Question {
	if q.Options != nil {
		q.Options = append([]string(nil), q.Options...)
	}
	if q.TotalsOf != nil {
		q.TotalsOf = append([]string(nil), q.TotalsOf...)
	}
	if q.Grid != nil {
		grid := template.GridLayout{
			Rows:    append([]string(nil), q.Grid.Rows...),
			Columns: append([]string(nil), q.Grid.Columns...),
		}
		q.Grid = &grid
	}
	if q.GridPos != nil {
		pos := *q.GridPos
		q.GridPos = &pos
	}
	return q
}

func cloneTranslation(tr template.Translation) template.Translation {
	if tr.Options != nil {
		tr.Options = append([]string(nil), tr.Options...)
	}
	return tr
}
