package synth

import (
	"github.com/goliatone/go-dcschema/pkg/dynschema"
	"github.com/goliatone/go-dcschema/pkg/locale"
	"github.com/goliatone/go-dcschema/pkg/template"
)

// Canonical wording for the fixed yes/no/don't-know vocabulary. These are the
// dictionary keys translations merge against, so they must stay stable.
const (
	answerYes      = "Yes"
	answerNo       = "No"
	answerDontKnow = "Don't Know"
)

// FieldMapping is the physical shape a logical question type maps onto: the
// storage type plus the derived option payload, when the type carries one.
type FieldMapping struct {
	Type    dynschema.FieldType
	Options []string
}

// Mapper translates logical question types into physical field mappings. It
// is pure and stateless apart from the translator used to resolve the fixed
// yes/no/don't-know vocabulary for the requested language.
type Mapper struct {
	translator locale.Translator
}

// NewMapper builds a Mapper. A nil translator leaves fixed vocabularies in
// their canonical form.
func NewMapper(translator locale.Translator) *Mapper {
	if translator == nil {
		translator = locale.IdentityTranslator()
	}
	return &Mapper{translator: translator}
}

// Map resolves the physical mapping for a question. The language parameter is
// threaded explicitly so no ambient session state leaks in; it only matters
// for the yes/no/don't-know vocabulary. Grid pseudo-questions return
// ErrGridQuestion, unknown codes return *UnsupportedTypeError.
func (m *Mapper) Map(language string, q template.Question) (FieldMapping, error) {
	switch q.Type {
	case template.TypeText:
		return FieldMapping{Type: dynschema.FieldTypeString}, nil
	case template.TypeNumber:
		return FieldMapping{Type: dynschema.FieldTypeInteger}, nil
	case template.TypeYesNo:
		return FieldMapping{Type: dynschema.FieldTypeBoolean}, nil
	case template.TypeYesNoDontKnow:
		// The question's own option list is ignored for this type; the
		// vocabulary is fixed and locale-resolved at mapping time.
		return FieldMapping{
			Type: dynschema.FieldTypeString,
			Options: []string{
				m.translator.Translate(language, answerYes),
				m.translator.Translate(language, answerNo),
				m.translator.Translate(language, answerDontKnow),
			},
		}, nil
	case template.TypeOptions:
		return FieldMapping{Type: dynschema.FieldTypeString, Options: q.Options}, nil
	case template.TypeDate:
		return FieldMapping{Type: dynschema.FieldTypeDate}, nil
	case template.TypeDateTime:
		return FieldMapping{Type: dynschema.FieldTypeDateTime}, nil
	case template.TypeGrid:
		return FieldMapping{}, ErrGridQuestion
	default:
		return FieldMapping{}, &UnsupportedTypeError{Code: q.Type}
	}
}
