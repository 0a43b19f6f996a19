package template

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Definition is the declarative, file-friendly form of a template used by the
// CLI and the OpenAPI importer. Question types use their stable lowercase
// names ("text", "options", "grid", ...) rather than numeric codes.
type Definition struct {
	Name     string `yaml:"name" json:"name"`
	Comments string `yaml:"comments,omitempty" json:"comments,omitempty"`

	Sections  []SectionDefinition  `yaml:"sections,omitempty" json:"sections,omitempty"`
	Questions []QuestionDefinition `yaml:"questions" json:"questions"`
}

// SectionDefinition declares one section. Parent names another section in the
// same definition; position defaults to declaration order.
type SectionDefinition struct {
	Name   string `yaml:"name" json:"name"`
	Parent string `yaml:"parent,omitempty" json:"parent,omitempty"`
}

// QuestionDefinition declares one question.
type QuestionDefinition struct {
	Name     string        `yaml:"name" json:"name"`
	Code     string        `yaml:"code,omitempty" json:"code,omitempty"`
	Section  string        `yaml:"section,omitempty" json:"section,omitempty"`
	Type     string        `yaml:"type" json:"type"`
	Options  []string      `yaml:"options,omitempty" json:"options,omitempty"`
	Grid     *GridLayout   `yaml:"grid,omitempty" json:"grid,omitempty"`
	GridPos  *GridPosition `yaml:"gridPos,omitempty" json:"gridPos,omitempty"`
	TotalsOf []string      `yaml:"totalsOf,omitempty" json:"totalsOf,omitempty"`
	Required bool          `yaml:"required,omitempty" json:"required,omitempty"`
	Tooltip  string        `yaml:"tooltip,omitempty" json:"tooltip,omitempty"`

	Translations []TranslationDefinition `yaml:"translations,omitempty" json:"translations,omitempty"`
}

// TranslationDefinition declares one language's wording for a question.
type TranslationDefinition struct {
	Language string   `yaml:"language" json:"language"`
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Options  []string `yaml:"options,omitempty" json:"options,omitempty"`
	Tooltip  string   `yaml:"tooltip,omitempty" json:"tooltip,omitempty"`
}

// ParseDefinition decodes a YAML (or JSON, YAML being a superset here)
// definition document and validates it.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("template: parse definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks the definition for internal consistency: a non-empty name,
// known question types, unique non-empty codes, resolvable section and grid
// references, and totals that point at declared codes.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("template: definition requires a name")
	}
	if len(d.Questions) == 0 {
		return fmt.Errorf("template: definition %q declares no questions", d.Name)
	}

	sections := make(map[string]struct{}, len(d.Sections))
	for _, s := range d.Sections {
		if s.Name == "" {
			return fmt.Errorf("template: definition %q has a section without a name", d.Name)
		}
		if _, dup := sections[s.Name]; dup {
			return fmt.Errorf("template: definition %q declares section %q twice", d.Name, s.Name)
		}
		sections[s.Name] = struct{}{}
	}
	for _, s := range d.Sections {
		if s.Parent == "" {
			continue
		}
		if _, ok := sections[s.Parent]; !ok {
			return fmt.Errorf("template: section %q names unknown parent %q", s.Name, s.Parent)
		}
	}

	codes := make(map[string]QuestionType, len(d.Questions))
	for _, q := range d.Questions {
		if q.Name == "" {
			return fmt.Errorf("template: definition %q has a question without a name", d.Name)
		}
		qt, err := ParseQuestionType(q.Type)
		if err != nil {
			return fmt.Errorf("template: question %q: %w", q.Name, err)
		}
		if q.Section != "" {
			if _, ok := sections[q.Section]; !ok {
				return fmt.Errorf("template: question %q names unknown section %q", q.Name, q.Section)
			}
		}
		if q.Code != "" {
			if _, dup := codes[q.Code]; dup {
				return fmt.Errorf("template: code %q is used by more than one question", q.Code)
			}
			codes[q.Code] = qt
		}
		if qt == TypeGrid && q.Grid == nil {
			return fmt.Errorf("template: grid question %q has no grid layout", q.Name)
		}
		if qt != TypeGrid && q.Grid != nil {
			return fmt.Errorf("template: question %q is not a grid but declares a grid layout", q.Name)
		}
	}

	for _, q := range d.Questions {
		for _, code := range q.TotalsOf {
			if _, ok := codes[code]; !ok {
				return fmt.Errorf("template: question %q totals unknown code %q", q.Name, code)
			}
		}
		if q.GridPos != nil {
			grid, ok := codes[q.GridPos.Grid]
			if !ok {
				return fmt.Errorf("template: question %q is placed in unknown grid %q", q.Name, q.GridPos.Grid)
			}
			if grid != TypeGrid {
				return fmt.Errorf("template: question %q is placed in %q which is not a grid", q.Name, q.GridPos.Grid)
			}
		}
		for _, tr := range q.Translations {
			if tr.Language == "" {
				return fmt.Errorf("template: question %q has a translation without a language", q.Name)
			}
		}
	}

	return nil
}
