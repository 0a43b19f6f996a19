// Package importer derives template definitions from OpenAPI documents: the
// request body of a chosen operation becomes a question list, so an existing
// API contract can seed a collection template instead of authoring one from
// scratch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-dcschema/pkg/template"
)

// ErrOperationNotFound marks a document that does not declare the requested
// operationId.
var ErrOperationNotFound = errors.New("importer: operation not found")

// Labeler turns a schema property name into a human-readable question name.
type Labeler func(property string) string

// Option customises the Importer.
type Option func(*Importer)

// WithLabeler replaces the default property-name labeler.
func WithLabeler(labeler Labeler) Option {
	return func(im *Importer) {
		if labeler != nil {
			im.labeler = labeler
		}
	}
}

// Importer converts one OpenAPI operation's request body into a
// template.Definition.
type Importer struct {
	labeler Labeler
}

// New constructs an Importer.
func New(options ...Option) *Importer {
	im := &Importer{labeler: DefaultLabeler}
	for _, option := range options {
		option(im)
	}
	return im
}

// Import loads an OpenAPI document (JSON or YAML) and converts the request
// body schema of the operation with the given operationId. Top-level
// properties become questions; a nested object property becomes a grid
// pseudo-question with its members placed inside the grid. Properties are
// visited in sorted order so the output is deterministic.
func (im *Importer) Import(ctx context.Context, data []byte, operationID string) (template.Definition, error) {
	if len(data) == 0 {
		return template.Definition{}, errors.New("importer: document payload is empty")
	}
	if operationID == "" {
		return template.Definition{}, errors.New("importer: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return template.Definition{}, fmt.Errorf("importer: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return template.Definition{}, fmt.Errorf("importer: %s: %w", operationID, ErrOperationNotFound)
	}

	body := requestBodySchema(operation)
	if body == nil {
		return template.Definition{}, fmt.Errorf("importer: operation %s has no request body schema", operationID)
	}
	if !hasType(body, openapi3.TypeObject) || len(body.Properties) == 0 {
		return template.Definition{}, fmt.Errorf("importer: operation %s request body is not an object with properties", operationID)
	}

	def := template.Definition{
		Name:     operationID,
		Comments: firstNonEmpty(operation.Summary, operation.Description),
	}
	if body.Title != "" {
		def.Name = body.Title
	}

	required := requiredSet(body.Required)
	for _, name := range sortedProperties(body.Properties) {
		prop := body.Properties[name].Value
		if prop == nil {
			continue
		}
		if hasType(prop, openapi3.TypeObject) {
			grid, members, err := im.convertGrid(name, prop)
			if err != nil {
				return template.Definition{}, err
			}
			def.Questions = append(def.Questions, grid)
			def.Questions = append(def.Questions, members...)
			continue
		}
		question, err := im.convertScalar(name, prop, required[name])
		if err != nil {
			return template.Definition{}, err
		}
		def.Questions = append(def.Questions, question)
	}

	if err := def.Validate(); err != nil {
		return template.Definition{}, err
	}
	return def, nil
}

// convertGrid turns a nested object property into a grid pseudo-question plus
// one question per member, placed top to bottom in a single value column.
func (im *Importer) convertGrid(name string, src *openapi3.Schema) (template.QuestionDefinition, []template.QuestionDefinition, error) {
	if len(src.Properties) == 0 {
		return template.QuestionDefinition{}, nil, fmt.Errorf("importer: property %q is an object with no members", name)
	}

	required := requiredSet(src.Required)
	var members []template.QuestionDefinition
	var rows []string
	for i, member := range sortedProperties(src.Properties) {
		value := src.Properties[member].Value
		if value == nil {
			continue
		}
		if hasType(value, openapi3.TypeObject) {
			return template.QuestionDefinition{}, nil, fmt.Errorf("importer: property %q nests object %q deeper than one level", name, member)
		}
		question, err := im.convertScalar(member, value, required[member])
		if err != nil {
			return template.QuestionDefinition{}, nil, err
		}
		question.GridPos = &template.GridPosition{Grid: name, Row: i + 1, Col: 1}
		members = append(members, question)
		rows = append(rows, question.Name)
	}

	grid := template.QuestionDefinition{
		Name: im.labelFor(name, src),
		Code: name,
		Type: template.TypeGrid.String(),
		Grid: &template.GridLayout{
			Rows:    rows,
			Columns: []string{"Value"},
		},
		Tooltip: src.Description,
	}
	return grid, members, nil
}

func (im *Importer) convertScalar(name string, src *openapi3.Schema, required bool) (template.QuestionDefinition, error) {
	qt, options, err := questionType(name, src)
	if err != nil {
		return template.QuestionDefinition{}, err
	}
	return template.QuestionDefinition{
		Name:     im.labelFor(name, src),
		Code:     name,
		Type:     qt.String(),
		Options:  options,
		Required: required,
		Tooltip:  src.Description,
	}, nil
}

func (im *Importer) labelFor(name string, src *openapi3.Schema) string {
	if src.Title != "" {
		return src.Title
	}
	return im.labeler(name)
}

// questionType maps a scalar schema to a logical question type. Enumerated
// strings become option questions; unmapped shapes are rejected rather than
// coerced.
func questionType(name string, src *openapi3.Schema) (template.QuestionType, []string, error) {
	switch {
	case hasType(src, openapi3.TypeBoolean):
		return template.TypeYesNo, nil, nil
	case hasType(src, openapi3.TypeInteger), hasType(src, openapi3.TypeNumber):
		return template.TypeNumber, nil, nil
	case hasType(src, openapi3.TypeString):
		if len(src.Enum) > 0 {
			return template.TypeOptions, enumStrings(src.Enum), nil
		}
		switch src.Format {
		case "date":
			return template.TypeDate, nil, nil
		case "date-time":
			return template.TypeDateTime, nil, nil
		default:
			return template.TypeText, nil, nil
		}
	default:
		return 0, nil, fmt.Errorf("importer: property %q has unsupported schema type %s", name, describeType(src))
	}
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete,
			item.Patch, item.Head, item.Options, item.Trace,
		} {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

// requestBodySchema prefers the application/json media type, then falls back
// to the first one declared.
func requestBodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	if media, ok := content["application/json"]; ok && media.Schema != nil {
		return media.Schema.Value
	}
	for _, media := range content {
		if media.Schema != nil && media.Schema.Value != nil {
			return media.Schema.Value
		}
	}
	return nil
}

func sortedProperties(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func requiredSet(required []string) map[string]bool {
	set := make(map[string]bool, len(required))
	for _, name := range required {
		set[name] = true
	}
	return set
}

func hasType(src *openapi3.Schema, want string) bool {
	if src.Type == nil {
		return false
	}
	for _, t := range src.Type.Slice() {
		if t == want {
			return true
		}
	}
	return false
}

func describeType(src *openapi3.Schema) string {
	if src.Type == nil {
		return "(untyped)"
	}
	return strings.Join(src.Type.Slice(), ",")
}

func enumStrings(enum []any) []string {
	out := make([]string, 0, len(enum))
	for _, value := range enum {
		if s, ok := value.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
