package synth

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-dcschema/pkg/dynschema"
	"github.com/goliatone/go-dcschema/pkg/template"
)

// ErrNotProvisioned is returned when a question is synthesized against a
// template whose backing table does not exist yet. Provisioning runs at
// template creation, so hitting this indicates a broken call order.
var ErrNotProvisioned = errors.New("synth: template has no backing table")

// ErrGridQuestion is returned by the type mapper when asked to map a grid
// pseudo-question. Grids lay out other questions and never own a physical
// field; SyncField short-circuits before mapping.
var ErrGridQuestion = errors.New("synth: grid pseudo-questions have no physical field")

// UnsupportedTypeError reports a logical type code with no physical mapping.
// It is a configuration defect, not a runtime condition: the mapper never
// coerces an unknown code into a default type.
type UnsupportedTypeError struct {
	Code template.QuestionType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("synth: no physical mapping for question type code %d", int(e.Code))
}

// ProvisioningError reports a template left half-provisioned: the backing
// table exists in the schema store, but attaching the response link field or
// writing the table reference back failed. The store exposes no rollback for
// the created table, so the condition requires manual remediation and is
// surfaced loudly instead of being retried.
type ProvisioningError struct {
	TemplateID string
	Table      dynschema.TableRef
	Err        error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("synth: template %s: backing table %s created but provisioning did not complete: %v",
		e.TemplateID, e.Table, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }
