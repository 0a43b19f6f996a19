// Package synth keeps the declarative template/question model mirrored onto
// the dynamic schema catalog: it provisions one backing table per template,
// synthesizes one dynamic field per non-grid question, and merges translated
// option vocabularies into the shared per-language dictionaries. The public
// surface is re-exported by pkg/synth.
package synth

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-dcschema/pkg/dynschema"
	"github.com/goliatone/go-dcschema/pkg/locale"
	"github.com/goliatone/go-dcschema/pkg/template"
)

// Option customises the Manager.
type Option func(*Manager)

// WithConfig sets the deployment configuration used when provisioning
// backing tables.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.config = cfg
	}
}

// WithIdentifierGenerator overrides field-name generation, mainly for
// deterministic tests.
func WithIdentifierGenerator(gen IdentifierGenerator) Option {
	return func(m *Manager) {
		if gen != nil {
			m.idgen = gen
		}
	}
}

// WithTranslator supplies the translator used to resolve fixed vocabularies
// (yes/no/don't-know) for the configured language.
func WithTranslator(t locale.Translator) Option {
	return func(m *Manager) {
		if t != nil {
			m.mapper = NewMapper(t)
		}
	}
}

// WithLanguage sets the language fixed vocabularies resolve against.
func WithLanguage(language string) Option {
	return func(m *Manager) {
		m.language = language
	}
}

// WithLogger sets the logger for fatal-path reporting. Defaults to a
// disabled logger; ordinary failures are returned, not logged.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager owns the three synthesis hooks. Each hook is a short synchronous
// unit of work triggered after one upstream mutation; the keyed locks guard
// the only real concurrency hazards — duplicate provisioning per template,
// duplicate field creation per question, and lost updates on a language
// dictionary shared across sessions.
type Manager struct {
	store   dynschema.Store
	locales locale.Store
	repos   template.Repositories

	mapper   *Mapper
	idgen    IdentifierGenerator
	config   Config
	language string
	logger   *slog.Logger

	templateLocks *keyedMutex
	questionLocks *keyedMutex
	languageLocks *keyedMutex
}

// New wires a Manager over the schema store, the locale store, and the
// entity repositories.
func New(store dynschema.Store, locales locale.Store, repos template.Repositories, options ...Option) *Manager {
	m := &Manager{
		store:         store,
		locales:       locales,
		repos:         repos,
		mapper:        NewMapper(nil),
		idgen:         NewIdentifierGenerator(),
		config:        DefaultConfig(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		templateLocks: newKeyedMutex(),
		questionLocks: newKeyedMutex(),
		languageLocks: newKeyedMutex(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Ensure the Manager satisfies the hook contract the owning service drives.
var _ template.Hooks = (*Manager)(nil)
