package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	dynmemory "github.com/goliatone/go-dcschema/internal/dynschema/memory"
	"github.com/goliatone/go-dcschema/internal/importer"
	"github.com/goliatone/go-dcschema/internal/locale/dirstore"
	"github.com/goliatone/go-dcschema/internal/report"
	tmplmemory "github.com/goliatone/go-dcschema/internal/template/memory"
	"github.com/goliatone/go-dcschema/pkg/dynschema"
	"github.com/goliatone/go-dcschema/pkg/locale"
	"github.com/goliatone/go-dcschema/pkg/synth"
	"github.com/goliatone/go-dcschema/pkg/template"
)

func main() {
	definitionPath := flag.String("definition", "", "template definition file (YAML or JSON)")
	sourcePath := flag.String("source", "", "OpenAPI document to import a definition from")
	operationID := flag.String("operation", "", "operationId to import when -source is set")
	configPath := flag.String("config", "", "deployment config file (YAML)")
	localesDir := flag.String("locales", "", "directory for per-language dictionaries (in-memory if empty)")
	output := flag.String("output", "", "output file (stdout if empty)")
	format := flag.String("format", "summary", "output format: json or summary")
	interactive := flag.Bool("interactive", false, "design the template interactively")
	flag.Parse()

	ctx := context.Background()

	cfg, err := synth.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var locales locale.Store = locale.NewMemoryStore()
	if *localesDir != "" {
		locales = dirstore.New(*localesDir)
	}

	schema := dynmemory.NewStore()
	repos := tmplmemory.NewStore().Repositories()
	manager := synth.New(schema, locales, repos, synth.WithConfig(cfg))
	service := template.NewService(repos, manager)

	def, err := loadDefinition(ctx, *definitionPath, *sourcePath, *operationID, *interactive)
	if err != nil {
		log.Fatalf("load definition: %v", err)
	}

	tmpl, err := service.ApplyDefinition(ctx, def)
	if err != nil {
		log.Fatalf("apply definition: %v", err)
	}

	rendered, err := renderResult(ctx, *format, tmpl, repos, schema)
	if err != nil {
		log.Fatalf("render result: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Result written to %s\n", *output)
		return
	}
	fmt.Println(rendered)
}

func loadDefinition(ctx context.Context, definitionPath, sourcePath, operationID string, interactive bool) (template.Definition, error) {
	switch {
	case interactive:
		return designDefinition()
	case definitionPath != "":
		data, err := os.ReadFile(definitionPath)
		if err != nil {
			return template.Definition{}, err
		}
		return template.ParseDefinition(data)
	case sourcePath != "":
		if operationID == "" {
			return template.Definition{}, fmt.Errorf("-operation is required with -source")
		}
		data, err := os.ReadFile(sourcePath)
		if err != nil {
			return template.Definition{}, err
		}
		return importer.New().Import(ctx, data, operationID)
	default:
		return template.Definition{}, fmt.Errorf("one of -definition, -source, or -interactive is required")
	}
}

// jsonResult is the machine-readable output: the template, its questions,
// and the provisioned tables.
type jsonResult struct {
	Template  template.Template   `json:"template"`
	Questions []template.Question `json:"questions"`
	Tables    []dynschema.Table   `json:"tables,omitempty"`
}

func renderResult(ctx context.Context, format string, tmpl template.Template, repos template.Repositories, schema *dynmemory.Store) (string, error) {
	switch format {
	case "json":
		questions, err := repos.Questions.QuestionsByTemplate(ctx, tmpl.ID)
		if err != nil {
			return "", err
		}
		tables, err := schema.Tables(ctx)
		if err != nil {
			return "", err
		}
		payload, err := json.MarshalIndent(jsonResult{
			Template:  tmpl,
			Questions: questions,
			Tables:    tables,
		}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(payload), nil
	case "summary":
		return report.New(repos, schema).Summary(ctx, tmpl.ID)
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}
