package synth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dcschema/pkg/template"
)

// SyncTranslation merges a translation's option vocabulary into the shared
// dictionary for its language. Invoked after every translation create or
// update. Only options-type questions carry a vocabulary; everything else is
// a no-op. The read-merge-write runs under a per-language lock so concurrent
// merges from unrelated questions sharing the language cannot overwrite each
// other, and entries from other templates are always preserved.
func (m *Manager) SyncTranslation(ctx context.Context, translationID string) error {
	tr, err := m.repos.Translations.Translation(ctx, translationID)
	if err != nil {
		return fmt.Errorf("synth: sync translation %s: %w", translationID, err)
	}
	q, err := m.repos.Questions.Question(ctx, tr.QuestionID)
	if err != nil {
		return fmt.Errorf("synth: sync translation %s: %w", translationID, err)
	}
	if q.Type != template.TypeOptions {
		return nil
	}

	if len(q.Options) != len(tr.Options) {
		return &template.OptionCountError{
			QuestionID: q.ID,
			Canonical:  len(q.Options),
			Translated: len(tr.Options),
		}
	}

	unlock := m.languageLocks.lock(tr.Language)
	defer unlock()

	dict, err := m.locales.Dictionary(ctx, tr.Language)
	if err != nil {
		return fmt.Errorf("synth: load %s dictionary: %w", tr.Language, err)
	}
	dict = dict.Clone()

	changed := false
	for i := range q.Options {
		canonical, translated := q.Options[i], tr.Options[i]
		if canonical == translated {
			// An untranslated entry carries no information; writing it
			// would only pollute the dictionary.
			continue
		}
		if dict[canonical] != translated {
			dict[canonical] = translated
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := m.locales.SaveDictionary(ctx, tr.Language, dict); err != nil {
		return fmt.Errorf("synth: save %s dictionary: %w", tr.Language, err)
	}
	return nil
}
