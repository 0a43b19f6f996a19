// Package report renders human-readable summaries of a template and the
// physical schema provisioned for it. The CLI uses it for its summary output
// format.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-dcschema/pkg/dynschema"
	"github.com/goliatone/go-dcschema/pkg/template"
)

// defaultTemplate lists the template, its questions with their logical types
// and linked physical fields, and the backing table's columns.
const defaultTemplate = `Template: {{ name }}
Backing table: {{ table }}{% if comments %}
Comments: {{ comments }}{% endif %}

Questions:
{% for q in questions %}  [{{ q.type }}] {{ q.name }}{% if q.code %} ({{ q.code }}){% endif %}{% if q.field %} -> {{ q.field }}{% endif %}{% if q.required %} *{% endif %}
{% endfor %}
Fields:
{% for f in fields %}  {{ f.name }} {{ f.type }}{% if f.label %} "{{ f.label }}"{% endif %}
{% endfor %}`

// Option customises the Reporter.
type Option func(*Reporter)

// WithTemplate replaces the built-in summary template with a custom pongo2
// source.
func WithTemplate(source string) Option {
	return func(r *Reporter) {
		if source != "" {
			r.source = source
		}
	}
}

// Reporter renders template summaries from the entity repositories and the
// schema catalog.
type Reporter struct {
	repos     template.Repositories
	inspector dynschema.Inspector
	source    string

	set *pongo2.TemplateSet
}

// New constructs a Reporter. The inspector may be nil when the schema catalog
// cannot be enumerated; field listings are simply omitted.
func New(repos template.Repositories, inspector dynschema.Inspector, options ...Option) *Reporter {
	r := &Reporter{
		repos:     repos,
		inspector: inspector,
		source:    defaultTemplate,
		set:       pongo2.NewSet("report", pongo2.MustNewLocalFileSystemLoader("")),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Summary renders the summary for one template.
func (r *Reporter) Summary(ctx context.Context, templateID string) (string, error) {
	if r.repos.Templates == nil || r.repos.Questions == nil {
		return "", errors.New("report: repositories are required")
	}

	tmpl, err := r.repos.Templates.Template(ctx, templateID)
	if err != nil {
		return "", fmt.Errorf("report: load template: %w", err)
	}
	questions, err := r.repos.Questions.QuestionsByTemplate(ctx, templateID)
	if err != nil {
		return "", fmt.Errorf("report: load questions: %w", err)
	}

	data := pongo2.Context{
		"name":      tmpl.Name,
		"comments":  tmpl.Comments,
		"table":     string(tmpl.BackingTable),
		"questions": questionRows(questions),
		"fields":    []map[string]any{},
	}

	if r.inspector != nil && tmpl.BackingTable != "" {
		table, err := r.inspector.Table(ctx, tmpl.BackingTable)
		if err != nil {
			return "", fmt.Errorf("report: inspect table %s: %w", tmpl.BackingTable, err)
		}
		data["fields"] = fieldRows(table.Fields)
	}

	parsed, err := r.set.FromString(r.source)
	if err != nil {
		return "", fmt.Errorf("report: parse summary template: %w", err)
	}

	var buf bytes.Buffer
	if err := parsed.ExecuteWriter(data, &buf); err != nil {
		return "", fmt.Errorf("report: render summary: %w", err)
	}
	return buf.String(), nil
}

func questionRows(questions []template.Question) []map[string]any {
	rows := make([]map[string]any, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, map[string]any{
			"name":     q.Name,
			"code":     q.Code,
			"type":     q.Type.String(),
			"field":    string(q.Field),
			"required": q.Required,
		})
	}
	return rows
}

func fieldRows(fields []dynschema.Field) []map[string]any {
	rows := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, map[string]any{
			"name":  f.Spec.Name,
			"type":  string(f.Spec.Type),
			"label": f.Spec.Label,
		})
	}
	return rows
}
