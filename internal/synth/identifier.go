package synth

import (
	"strings"

	"github.com/google/uuid"
)

// IdentifierGenerator produces physical field names. Names must be valid
// schema-store identifiers (letters, digits, underscore), unique within a
// table without central coordination, and stable once assigned — the
// synthesis layer never regenerates a name for an existing question.
type IdentifierGenerator interface {
	FieldName() string
}

type uuidGenerator struct{}

// NewIdentifierGenerator returns the default generator: an "f" prefix
// followed by a random UUID with its hyphens flattened to underscores. The
// leading letter keeps the name a valid identifier; the 122 bits of
// randomness make collisions negligible without a counter to contend on.
func NewIdentifierGenerator() IdentifierGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) FieldName() string {
	return "f" + strings.ReplaceAll(uuid.NewString(), "-", "_")
}
