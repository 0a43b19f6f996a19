// Package template carries the declarative data-collection model: templates,
// their section tree, typed questions, and per-language question translations.
// The model is edited by operators at runtime; the synthesis layer in
// pkg/synth mirrors it onto the dynamic schema catalog.
package template

import (
	"fmt"

	"github.com/goliatone/go-dcschema/pkg/dynschema"
)

// QuestionType is the logical, user-facing kind of a question. The numeric
// codes are part of the stored model and must stay stable.
type QuestionType int

const (
	TypeText          QuestionType = 1
	TypeNumber        QuestionType = 2
	TypeYesNo         QuestionType = 4
	TypeYesNoDontKnow QuestionType = 5
	TypeOptions       QuestionType = 6
	TypeDate          QuestionType = 7
	TypeDateTime      QuestionType = 8
	TypeGrid          QuestionType = 9
)

var questionTypeNames = map[QuestionType]string{
	TypeText:          "text",
	TypeNumber:        "number",
	TypeYesNo:         "yesno",
	TypeYesNoDontKnow: "yesno_dontknow",
	TypeOptions:       "options",
	TypeDate:          "date",
	TypeDateTime:      "datetime",
	TypeGrid:          "grid",
}

// String returns the stable lowercase name for the type, or the raw code for
// unknown values.
func (t QuestionType) String() string {
	if name, ok := questionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Known reports whether the code is one of the defined question types.
func (t QuestionType) Known() bool {
	_, ok := questionTypeNames[t]
	return ok
}

// ParseQuestionType resolves the stable lowercase name back into a code.
func ParseQuestionType(name string) (QuestionType, error) {
	for code, n := range questionTypeNames {
		if n == name {
			return code, nil
		}
	}
	return 0, fmt.Errorf("template: unknown question type %q", name)
}

// Template is a reusable definition of a data-collection instrument. Once
// provisioned, BackingTable references the dynamic table storing responses to
// the template's questions and never changes again.
type Template struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Comments     string             `json:"comments,omitempty"`
	BackingTable dynschema.TableRef `json:"backingTable,omitempty"`
}

// Section organises questions into a tree per template. Root sections have an
// empty Parent. Sections are purely presentational and never reach the
// dynamic schema.
type Section struct {
	ID         string `json:"id"`
	TemplateID string `json:"templateId"`
	Parent     string `json:"parent,omitempty"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
}

// GridLayout is the row/column frame a grid pseudo-question lays out. The
// labels are presentational; member questions locate themselves with
// GridPosition.
type GridLayout struct {
	Rows    []string `json:"rows" yaml:"rows"`
	Columns []string `json:"columns" yaml:"columns"`
}

// GridPosition places a question inside a grid pseudo-question, addressed by
// the grid question's code and 1-based row/column indexes.
type GridPosition struct {
	Grid string `json:"grid" yaml:"grid"`
	Row  int    `json:"row" yaml:"row"`
	Col  int    `json:"col" yaml:"col"`
}

// Question is one typed entry in a template. Field is empty for grid
// pseudo-questions and for questions that have not been synthesized yet; for
// every other case it is set exactly once and only updated in place.
type Question struct {
	ID         string             `json:"id"`
	TemplateID string             `json:"templateId"`
	SectionID  string             `json:"sectionId,omitempty"`
	Position   int                `json:"position"`
	Name       string             `json:"name"`
	Code       string             `json:"code,omitempty"`
	Type       QuestionType       `json:"type"`
	Options    []string           `json:"options,omitempty"`
	Grid       *GridLayout        `json:"grid,omitempty"`
	GridPos    *GridPosition      `json:"gridPos,omitempty"`
	TotalsOf   []string           `json:"totalsOf,omitempty"`
	Required   bool               `json:"required"`
	Tooltip    string             `json:"tooltip,omitempty"`
	Field      dynschema.FieldRef `json:"field,omitempty"`
}

// Translation carries a question's wording in one language. Options must
// match the canonical option list entry for entry when present.
type Translation struct {
	ID         string   `json:"id"`
	QuestionID string   `json:"questionId"`
	Language   string   `json:"language"`
	Name       string   `json:"name,omitempty"`
	Options    []string `json:"options,omitempty"`
	Tooltip    string   `json:"tooltip,omitempty"`
}
