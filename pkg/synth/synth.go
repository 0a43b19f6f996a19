// Package synth is the public surface of the schema synthesis layer. It
// re-exports the internal implementation: the Manager with its three hooks
// (ProvisionSchema, SyncField, SyncTranslation), the deployment Config, and
// the error taxonomy callers branch on with errors.As / errors.Is.
package synth

import (
	internalsynth "github.com/goliatone/go-dcschema/internal/synth"
	"github.com/goliatone/go-dcschema/pkg/dynschema"
	"github.com/goliatone/go-dcschema/pkg/locale"
	"github.com/goliatone/go-dcschema/pkg/template"
)

// Manager owns the synthesis hooks; construct one with New.
type Manager = internalsynth.Manager

// Option customises the Manager.
type Option = internalsynth.Option

// Config carries deployment-level provisioning choices.
type Config = internalsynth.Config

// FieldMapping is the physical shape a logical type maps onto.
type FieldMapping = internalsynth.FieldMapping

// Mapper resolves logical question types into physical field mappings.
type Mapper = internalsynth.Mapper

// IdentifierGenerator produces stable, collision-resistant field names.
type IdentifierGenerator = internalsynth.IdentifierGenerator

// UnsupportedTypeError reports a logical type code with no mapping (fatal,
// never coerced).
type UnsupportedTypeError = internalsynth.UnsupportedTypeError

// ProvisioningError reports a template left half-provisioned (fatal, needs
// manual remediation).
type ProvisioningError = internalsynth.ProvisioningError

// OptionCountError reports a translation whose options do not match the
// question's canonical list (recoverable, nothing written).
type OptionCountError = template.OptionCountError

// ErrNotProvisioned marks a field synthesis attempted before the template's
// backing table exists.
var ErrNotProvisioned = internalsynth.ErrNotProvisioned

// ErrGridQuestion marks a mapping request for a grid pseudo-question.
var ErrGridQuestion = internalsynth.ErrGridQuestion

// New wires a Manager over the schema store, locale store, and entity
// repositories.
func New(store dynschema.Store, locales locale.Store, repos template.Repositories, options ...Option) *Manager {
	return internalsynth.New(store, locales, repos, options...)
}

// NewMapper builds a standalone type mapper; a nil translator leaves fixed
// vocabularies canonical.
func NewMapper(translator locale.Translator) *Mapper {
	return internalsynth.NewMapper(translator)
}

// NewIdentifierGenerator returns the default field-name generator.
func NewIdentifierGenerator() IdentifierGenerator {
	return internalsynth.NewIdentifierGenerator()
}

// DefaultConfig returns the deployment defaults.
func DefaultConfig() Config { return internalsynth.DefaultConfig() }

// ParseConfig decodes YAML configuration over the defaults.
func ParseConfig(data []byte) (Config, error) { return internalsynth.ParseConfig(data) }

// LoadConfig reads a YAML configuration file; a missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) { return internalsynth.LoadConfig(path) }

// Re-exported options.
var (
	WithConfig              = internalsynth.WithConfig
	WithIdentifierGenerator = internalsynth.WithIdentifierGenerator
	WithTranslator          = internalsynth.WithTranslator
	WithLanguage            = internalsynth.WithLanguage
	WithLogger              = internalsynth.WithLogger
)
