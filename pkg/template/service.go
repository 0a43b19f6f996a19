package template

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Hooks are the synthesis entry points the service invokes right after the
// matching entity mutation commits. Hooks receive only the identifier and
// re-read current state themselves, so they never act on stale caller data.
// pkg/synth provides the production implementation.
type Hooks interface {
	ProvisionSchema(ctx context.Context, templateID string) error
	SyncField(ctx context.Context, questionID string) error
	SyncTranslation(ctx context.Context, translationID string) error
}

// OptionCountError reports a translation whose option list does not line up
// with the question's canonical options. It is a user-facing validation
// failure; nothing is written when it occurs.
type OptionCountError struct {
	QuestionID string
	Canonical  int
	Translated int
}

func (e *OptionCountError) Error() string {
	return fmt.Sprintf("template: question %s has %d options but the translation supplies %d",
		e.QuestionID, e.Canonical, e.Translated)
}

// ServiceOption customises the Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for mutation logging. Defaults to a
// disabled logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides entity ID generation, mainly for deterministic
// tests.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Service owns template/section/question/translation mutations. Every write
// validates against current state, commits through the repositories, and then
// invokes the matching synthesis hook synchronously. Hook failures propagate
// to the caller so the enclosing request fails visibly.
type Service struct {
	repos  Repositories
	hooks  Hooks
	logger *slog.Logger
	newID  func() string
}

// NewService wires a Service over the supplied repositories and hooks.
func NewService(repos Repositories, hooks Hooks, options ...ServiceOption) *Service {
	s := &Service{
		repos:  repos,
		hooks:  hooks,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Template returns a template by ID.
func (s *Service) Template(ctx context.Context, id string) (Template, error) {
	return s.repos.Templates.Template(ctx, id)
}

// Questions returns a template's questions.
func (s *Service) Questions(ctx context.Context, templateID string) ([]Question, error) {
	return s.repos.Questions.QuestionsByTemplate(ctx, templateID)
}

// CreateTemplate registers a new template and provisions its backing table.
// The returned template carries the table reference written by the hook.
func (s *Service) CreateTemplate(ctx context.Context, name, comments string) (Template, error) {
	if name == "" {
		return Template{}, fmt.Errorf("template: name is required")
	}

	t := Template{ID: s.newID(), Name: name, Comments: comments}
	if err := s.repos.Templates.CreateTemplate(ctx, t); err != nil {
		return Template{}, fmt.Errorf("template: create template: %w", err)
	}
	s.logger.Info("template created", "template", t.ID, "name", name)

	if err := s.hooks.ProvisionSchema(ctx, t.ID); err != nil {
		return Template{}, err
	}
	return s.repos.Templates.Template(ctx, t.ID)
}

// CreateSection adds a section to a template. Position defaults to the end of
// the current sibling list when zero.
func (s *Service) CreateSection(ctx context.Context, sec Section) (Section, error) {
	if sec.Name == "" {
		return Section{}, fmt.Errorf("template: section name is required")
	}
	if _, err := s.repos.Templates.Template(ctx, sec.TemplateID); err != nil {
		return Section{}, fmt.Errorf("template: section template: %w", err)
	}
	if sec.Parent != "" {
		parent, err := s.repos.Sections.Section(ctx, sec.Parent)
		if err != nil {
			return Section{}, fmt.Errorf("template: section parent: %w", err)
		}
		if parent.TemplateID != sec.TemplateID {
			return Section{}, fmt.Errorf("template: section parent belongs to another template")
		}
	}
	if sec.Position == 0 {
		existing, err := s.repos.Sections.SectionsByTemplate(ctx, sec.TemplateID)
		if err != nil {
			return Section{}, fmt.Errorf("template: list sections: %w", err)
		}
		sec.Position = len(existing) + 1
	}

	sec.ID = s.newID()
	if err := s.repos.Sections.CreateSection(ctx, sec); err != nil {
		return Section{}, fmt.Errorf("template: create section: %w", err)
	}
	return sec, nil
}

// CreateQuestion validates and persists a question, then synthesizes its
// dynamic field. The returned question carries the field reference for
// non-grid types.
func (s *Service) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	if err := s.validateQuestion(ctx, &q, ""); err != nil {
		return Question{}, err
	}

	q.ID = s.newID()
	q.Field = ""
	if err := s.repos.Questions.CreateQuestion(ctx, q); err != nil {
		return Question{}, fmt.Errorf("template: create question: %w", err)
	}
	s.logger.Info("question created", "question", q.ID, "template", q.TemplateID, "type", q.Type.String())

	if err := s.hooks.SyncField(ctx, q.ID); err != nil {
		return Question{}, err
	}
	return s.repos.Questions.Question(ctx, q.ID)
}

// UpdateQuestion validates and persists changes to an existing question, then
// re-synchronizes its dynamic field in place. The stored field reference is
// preserved regardless of what the caller supplies.
func (s *Service) UpdateQuestion(ctx context.Context, q Question) (Question, error) {
	current, err := s.repos.Questions.Question(ctx, q.ID)
	if err != nil {
		return Question{}, err
	}
	q.TemplateID = current.TemplateID
	q.Field = current.Field
	if err := s.validateQuestion(ctx, &q, q.ID); err != nil {
		return Question{}, err
	}

	if err := s.repos.Questions.UpdateQuestion(ctx, q); err != nil {
		return Question{}, fmt.Errorf("template: update question: %w", err)
	}

	if err := s.hooks.SyncField(ctx, q.ID); err != nil {
		return Question{}, err
	}
	return s.repos.Questions.Question(ctx, q.ID)
}

// CreateTranslation validates and persists a translation, then merges its
// option vocabulary into the language dictionary.
func (s *Service) CreateTranslation(ctx context.Context, tr Translation) (Translation, error) {
	if err := s.validateTranslation(ctx, &tr); err != nil {
		return Translation{}, err
	}

	tr.ID = s.newID()
	if err := s.repos.Translations.CreateTranslation(ctx, tr); err != nil {
		return Translation{}, fmt.Errorf("template: create translation: %w", err)
	}

	if err := s.hooks.SyncTranslation(ctx, tr.ID); err != nil {
		return Translation{}, err
	}
	return tr, nil
}

// UpdateTranslation validates and persists changes to a translation, then
// re-merges its vocabulary.
func (s *Service) UpdateTranslation(ctx context.Context, tr Translation) (Translation, error) {
	current, err := s.repos.Translations.Translation(ctx, tr.ID)
	if err != nil {
		return Translation{}, err
	}
	tr.QuestionID = current.QuestionID
	if err := s.validateTranslation(ctx, &tr); err != nil {
		return Translation{}, err
	}

	if err := s.repos.Translations.UpdateTranslation(ctx, tr); err != nil {
		return Translation{}, fmt.Errorf("template: update translation: %w", err)
	}

	if err := s.hooks.SyncTranslation(ctx, tr.ID); err != nil {
		return Translation{}, err
	}
	return tr, nil
}

func (s *Service) validateQuestion(ctx context.Context, q *Question, selfID string) error {
	if q.Name == "" {
		return fmt.Errorf("template: question name is required")
	}
	if !q.Type.Known() {
		return fmt.Errorf("template: question %q has unknown type code %d", q.Name, int(q.Type))
	}
	if _, err := s.repos.Templates.Template(ctx, q.TemplateID); err != nil {
		return fmt.Errorf("template: question template: %w", err)
	}
	if q.SectionID != "" {
		sec, err := s.repos.Sections.Section(ctx, q.SectionID)
		if err != nil {
			return fmt.Errorf("template: question section: %w", err)
		}
		if sec.TemplateID != q.TemplateID {
			return fmt.Errorf("template: question section belongs to another template")
		}
	}
	if q.Type == TypeGrid && q.Grid == nil {
		return fmt.Errorf("template: grid question %q requires a grid layout", q.Name)
	}
	if q.Type != TypeGrid && q.Grid != nil {
		return fmt.Errorf("template: question %q is not a grid but carries a grid layout", q.Name)
	}

	siblings, err := s.repos.Questions.QuestionsByTemplate(ctx, q.TemplateID)
	if err != nil {
		return fmt.Errorf("template: list questions: %w", err)
	}
	codes := make(map[string]QuestionType, len(siblings))
	for _, sib := range siblings {
		if sib.ID == selfID {
			continue
		}
		if sib.Code != "" {
			codes[sib.Code] = sib.Type
		}
	}
	if q.Code != "" {
		if _, dup := codes[q.Code]; dup {
			return fmt.Errorf("template: code %q is already used within the template", q.Code)
		}
		codes[q.Code] = q.Type
	}
	for _, code := range q.TotalsOf {
		if _, ok := codes[code]; !ok {
			return fmt.Errorf("template: question %q totals unknown code %q", q.Name, code)
		}
	}
	if q.GridPos != nil {
		gridType, ok := codes[q.GridPos.Grid]
		if !ok {
			return fmt.Errorf("template: question %q is placed in unknown grid %q", q.Name, q.GridPos.Grid)
		}
		if gridType != TypeGrid {
			return fmt.Errorf("template: question %q is placed in %q which is not a grid", q.Name, q.GridPos.Grid)
		}
	}
	if q.Position == 0 {
		q.Position = len(siblings) + 1
	}
	return nil
}

func (s *Service) validateTranslation(ctx context.Context, tr *Translation) error {
	if tr.Language == "" {
		return fmt.Errorf("template: translation language is required")
	}
	q, err := s.repos.Questions.Question(ctx, tr.QuestionID)
	if err != nil {
		return fmt.Errorf("template: translation question: %w", err)
	}
	if q.Type == TypeOptions && len(tr.Options) > 0 && len(tr.Options) != len(q.Options) {
		return &OptionCountError{QuestionID: q.ID, Canonical: len(q.Options), Translated: len(tr.Options)}
	}
	return nil
}

// ApplyDefinition creates a template with its sections, questions, and
// translations from a declarative definition, driving every synthesis hook
// along the way. Questions keep their declaration order as positions.
func (s *Service) ApplyDefinition(ctx context.Context, def Definition) (Template, error) {
	if err := def.Validate(); err != nil {
		return Template{}, err
	}

	tmpl, err := s.CreateTemplate(ctx, def.Name, def.Comments)
	if err != nil {
		return Template{}, err
	}

	sectionIDs := make(map[string]string, len(def.Sections))
	pending := append([]SectionDefinition(nil), def.Sections...)
	for len(pending) > 0 {
		progressed := false
		remaining := pending[:0]
		for _, sd := range pending {
			if sd.Parent != "" {
				if _, ok := sectionIDs[sd.Parent]; !ok {
					remaining = append(remaining, sd)
					continue
				}
			}
			sec, err := s.CreateSection(ctx, Section{
				TemplateID: tmpl.ID,
				Parent:     sectionIDs[sd.Parent],
				Name:       sd.Name,
			})
			if err != nil {
				return Template{}, err
			}
			sectionIDs[sd.Name] = sec.ID
			progressed = true
		}
		if !progressed {
			return Template{}, fmt.Errorf("template: section parents form a cycle in %q", def.Name)
		}
		pending = remaining
	}

	// Totals may reference codes declared later in the file, so they are
	// attached in a second pass once every code exists.
	type deferredTotals struct {
		question Question
		totals   []string
	}
	var totals []deferredTotals

	for i, qd := range def.Questions {
		qt, err := ParseQuestionType(qd.Type)
		if err != nil {
			return Template{}, err
		}
		q, err := s.CreateQuestion(ctx, Question{
			TemplateID: tmpl.ID,
			SectionID:  sectionIDs[qd.Section],
			Position:   i + 1,
			Name:       qd.Name,
			Code:       qd.Code,
			Type:       qt,
			Options:    qd.Options,
			Grid:       qd.Grid,
			GridPos:    qd.GridPos,
			Required:   qd.Required,
			Tooltip:    qd.Tooltip,
		})
		if err != nil {
			return Template{}, err
		}
		if len(qd.TotalsOf) > 0 {
			totals = append(totals, deferredTotals{question: q, totals: qd.TotalsOf})
		}
		for _, td := range qd.Translations {
			if _, err := s.CreateTranslation(ctx, Translation{
				QuestionID: q.ID,
				Language:   td.Language,
				Name:       td.Name,
				Options:    td.Options,
				Tooltip:    td.Tooltip,
			}); err != nil {
				return Template{}, err
			}
		}
	}

	for _, dt := range totals {
		q := dt.question
		q.TotalsOf = dt.totals
		if _, err := s.UpdateQuestion(ctx, q); err != nil {
			return Template{}, err
		}
	}

	return s.repos.Templates.Template(ctx, tmpl.ID)
}
