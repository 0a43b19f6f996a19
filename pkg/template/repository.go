package template

import (
	"context"
	"errors"

	"github.com/goliatone/go-dcschema/pkg/dynschema"
)

// ErrNotFound is returned when an entity identifier does not resolve.
var ErrNotFound = errors.New("template: not found")

// ErrTableLinked is returned by SetBackingTable when the template already has
// a backing table. The link is written exactly once.
var ErrTableLinked = errors.New("template: backing table already linked")

// ErrFieldLinked is returned by SetFieldRef when the question already has a
// dynamic field. The link is written exactly once.
var ErrFieldLinked = errors.New("template: field already linked")

// TemplateRepository persists templates. SetBackingTable is the only mutation
// the synthesis layer performs; everything else belongs to the owning Service.
type TemplateRepository interface {
	Template(ctx context.Context, id string) (Template, error)
	CreateTemplate(ctx context.Context, t Template) error
	UpdateTemplate(ctx context.Context, t Template) error

	// SetBackingTable links the provisioned dynamic table to the template.
	// It is a compare-and-set: a template that is already linked returns
	// ErrTableLinked instead of silently overwriting.
	SetBackingTable(ctx context.Context, id string, ref dynschema.TableRef) error
}

// SectionRepository persists the per-template section tree.
type SectionRepository interface {
	Section(ctx context.Context, id string) (Section, error)
	CreateSection(ctx context.Context, s Section) error
	SectionsByTemplate(ctx context.Context, templateID string) ([]Section, error)
}

// QuestionRepository persists questions. SetFieldRef mirrors SetBackingTable:
// the dynamic field link is written at most once per question.
type QuestionRepository interface {
	Question(ctx context.Context, id string) (Question, error)
	CreateQuestion(ctx context.Context, q Question) error
	UpdateQuestion(ctx context.Context, q Question) error
	QuestionsByTemplate(ctx context.Context, templateID string) ([]Question, error)

	// SetFieldRef links the synthesized dynamic field to the question,
	// failing with ErrFieldLinked when a link already exists.
	SetFieldRef(ctx context.Context, id string, ref dynschema.FieldRef) error
}

// TranslationRepository persists question translations.
type TranslationRepository interface {
	Translation(ctx context.Context, id string) (Translation, error)
	CreateTranslation(ctx context.Context, tr Translation) error
	UpdateTranslation(ctx context.Context, tr Translation) error
	TranslationsByQuestion(ctx context.Context, questionID string) ([]Translation, error)
}

// Repositories bundles the four entity repositories so consumers can accept
// one value instead of four.
type Repositories struct {
	Templates    TemplateRepository
	Sections     SectionRepository
	Questions    QuestionRepository
	Translations TranslationRepository
}
