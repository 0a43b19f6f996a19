// Package dcschema turns data-collection templates into physical database
// schema at runtime: templates provision backing tables, questions synthesize
// typed fields, and translations feed per-language dictionaries. This root
// package re-exports the pieces most callers need and offers a wired-up
// Runtime for the common case.
package dcschema

import (
	dynmemory "github.com/goliatone/go-dcschema/internal/dynschema/memory"
	tmplmemory "github.com/goliatone/go-dcschema/internal/template/memory"
	"github.com/goliatone/go-dcschema/pkg/dynschema"
	"github.com/goliatone/go-dcschema/pkg/locale"
	"github.com/goliatone/go-dcschema/pkg/synth"
	"github.com/goliatone/go-dcschema/pkg/template"
)

// Template is a collection template; its backing table is set once by
// provisioning.
type Template = template.Template

// Section groups questions inside a template.
type Section = template.Section

// Question is one prompt inside a template.
type Question = template.Question

// Translation is one language's wording for a question.
type Translation = template.Translation

// Definition is the declarative, file-friendly form of a template.
type Definition = template.Definition

// QuestionType enumerates the logical answer types.
type QuestionType = template.QuestionType

// Service mediates entity writes and drives the synthesis hooks.
type Service = template.Service

// Manager implements the synthesis hooks over a schema store.
type Manager = synth.Manager

// Config carries deployment-level provisioning choices.
type Config = synth.Config

// ParseDefinition decodes and validates a YAML definition document.
func ParseDefinition(data []byte) (Definition, error) {
	return template.ParseDefinition(data)
}

// Runtime bundles a schema store, locale store, entity repositories, and the
// service/manager pair wired over them.
type Runtime struct {
	Schema  dynschema.Store
	Locales locale.Store
	Repos   template.Repositories
	Manager *Manager
	Service *Service
}

// NewRuntime wires a synthesis manager and template service over the given
// stores.
func NewRuntime(schema dynschema.Store, locales locale.Store, repos template.Repositories, options ...synth.Option) *Runtime {
	manager := synth.New(schema, locales, repos, options...)
	return &Runtime{
		Schema:  schema,
		Locales: locales,
		Repos:   repos,
		Manager: manager,
		Service: template.NewService(repos, manager),
	}
}

// NewMemoryRuntime wires a fully in-process runtime. It suits tests, the CLI,
// and embedding scenarios that persist elsewhere.
func NewMemoryRuntime(options ...synth.Option) *Runtime {
	return NewRuntime(
		dynmemory.NewStore(),
		locale.NewMemoryStore(),
		tmplmemory.NewStore().Repositories(),
		options...,
	)
}
