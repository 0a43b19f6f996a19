package synth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dcschema/pkg/dynschema"
	"github.com/goliatone/go-dcschema/pkg/template"
)

// SyncField keeps a question's dynamic field in step with its logical
// definition. Invoked after every question create or update. Grid
// pseudo-questions never own a field and return immediately. The first
// synthesis creates the field and writes the reference back exactly once; the
// per-question lock plus the repository's compare-and-set guarantee a
// concurrent duplicate trigger cannot create a second field. Every later run
// is a pure overwrite of the existing field and is safe to repeat.
func (m *Manager) SyncField(ctx context.Context, questionID string) error {
	unlock := m.questionLocks.lock(questionID)
	defer unlock()

	q, err := m.repos.Questions.Question(ctx, questionID)
	if err != nil {
		return fmt.Errorf("synth: sync question %s: %w", questionID, err)
	}
	if q.Type == template.TypeGrid {
		return nil
	}

	mapping, err := m.mapper.Map(m.language, q)
	if err != nil {
		return err
	}

	spec := dynschema.FieldSpec{
		Label:    sanitizeText(q.Name),
		Type:     mapping.Type,
		Options:  mapping.Options,
		Required: q.Required,
		HelpText: sanitizeText(q.Tooltip),
	}

	if q.Field != "" {
		if err := m.store.UpdateField(ctx, q.Field, spec); err != nil {
			return fmt.Errorf("synth: update field %s for question %s: %w", q.Field, questionID, err)
		}
		return nil
	}

	tmpl, err := m.repos.Templates.Template(ctx, q.TemplateID)
	if err != nil {
		return fmt.Errorf("synth: sync question %s: %w", questionID, err)
	}
	if tmpl.BackingTable == "" {
		return fmt.Errorf("synth: question %s on template %s: %w", questionID, q.TemplateID, ErrNotProvisioned)
	}

	spec.Name = m.idgen.FieldName()
	ref, err := m.store.CreateField(ctx, tmpl.BackingTable, spec)
	if err != nil {
		return fmt.Errorf("synth: create field for question %s: %w", questionID, err)
	}

	if err := m.repos.Questions.SetFieldRef(ctx, questionID, ref); err != nil {
		return fmt.Errorf("synth: link field %s to question %s: %w", ref, questionID, err)
	}
	return nil
}
