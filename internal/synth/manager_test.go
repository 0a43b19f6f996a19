package synth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	dynmemory "github.com/goliatone/go-dcschema/internal/dynschema/memory"
	tmplmemory "github.com/goliatone/go-dcschema/internal/template/memory"
	"github.com/goliatone/go-dcschema/pkg/locale"
	"github.com/goliatone/go-dcschema/pkg/template"
)

type managerFixture struct {
	manager *Manager
	schema  *dynmemory.Store
	locales *locale.MemoryStore
	repos   template.Repositories
}

func newManagerFixture(t *testing.T, options ...Option) *managerFixture {
	t.Helper()

	schema := dynmemory.NewStore()
	locales := locale.NewMemoryStore()
	repos := tmplmemory.NewStore().Repositories()
	return &managerFixture{
		manager: New(schema, locales, repos, options...),
		schema:  schema,
		locales: locales,
		repos:   repos,
	}
}

func (f *managerFixture) createTemplate(t *testing.T, id, name string) {
	t.Helper()
	if err := f.repos.Templates.CreateTemplate(context.Background(), template.Template{ID: id, Name: name}); err != nil {
		t.Fatalf("create template: %v", err)
	}
}

func (f *managerFixture) createQuestion(t *testing.T, q template.Question) {
	t.Helper()
	if err := f.repos.Questions.CreateQuestion(context.Background(), q); err != nil {
		t.Fatalf("create question: %v", err)
	}
}

func TestProvisionSchema_CreatesTableAndResponseLink(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Rapid Assessment")

	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	tmpl, err := f.repos.Templates.Template(ctx, "t1")
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if tmpl.BackingTable == "" {
		t.Fatal("expected backing table reference on the template")
	}

	table, err := f.schema.Table(ctx, tmpl.BackingTable)
	if err != nil {
		t.Fatalf("inspect table: %v", err)
	}
	if table.Spec.Title != "Rapid Assessment" {
		t.Fatalf("table title: got %q", table.Spec.Title)
	}
	if !table.Spec.Insertable {
		t.Fatal("expected mobile inserts enabled by default")
	}
	if table.Spec.MobileData {
		t.Fatal("expected mobile data disabled by default")
	}

	if len(table.Fields) != 1 {
		t.Fatalf("expected only the response link field, got %d fields", len(table.Fields))
	}
	link := table.Fields[0].Spec
	if link.Name != "response_id" || !link.Required || !link.ComponentKey {
		t.Fatalf("unexpected link field: %+v", link)
	}
	if link.RefTable != "response" || link.ComponentAlias != "answer" || link.ComponentMultiple {
		t.Fatalf("unexpected link join settings: %+v", link)
	}
}

func TestProvisionSchema_HonoursConfig(t *testing.T) {
	f := newManagerFixture(t, WithConfig(Config{MobileInserts: false, MobileData: true}))
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")

	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	tables, err := f.schema.Tables(ctx)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("expected one table, got %d", len(tables))
	}
	if tables[0].Spec.Insertable {
		t.Fatal("expected inserts disabled")
	}
	if !tables[0].Spec.MobileData {
		t.Fatal("expected mobile data enabled")
	}
}

func TestProvisionSchema_Idempotent(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")

	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("first provision: %v", err)
	}
	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("second provision: %v", err)
	}

	tables, err := f.schema.Tables(ctx)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("expected one table after duplicate trigger, got %d", len(tables))
	}
}

func TestProvisionSchema_ConcurrentDuplicateTrigger(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.manager.ProvisionSchema(ctx, "t1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}
	tables, err := f.schema.Tables(ctx)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("expected exactly one table, got %d", len(tables))
	}
}

func TestProvisionSchema_UnknownTemplate(t *testing.T) {
	f := newManagerFixture(t)

	err := f.manager.ProvisionSchema(context.Background(), "missing")
	if !errors.Is(err, template.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncField_CreatesAndLinksField(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Household size",
		Type: template.TypeNumber, Required: true,
	})

	if err := f.manager.SyncField(ctx, "q1"); err != nil {
		t.Fatalf("sync: %v", err)
	}

	q, err := f.repos.Questions.Question(ctx, "q1")
	if err != nil {
		t.Fatalf("load question: %v", err)
	}
	if q.Field == "" {
		t.Fatal("expected field reference on the question")
	}

	tmpl, _ := f.repos.Templates.Template(ctx, "t1")
	table, err := f.schema.Table(ctx, tmpl.BackingTable)
	if err != nil {
		t.Fatalf("inspect table: %v", err)
	}
	if len(table.Fields) != 2 {
		t.Fatalf("expected link + question fields, got %d", len(table.Fields))
	}
	field := table.Fields[1].Spec
	if field.Label != "Household size" || field.Type != "integer" || !field.Required {
		t.Fatalf("unexpected field spec: %+v", field)
	}
}

func TestSyncField_Idempotent(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Name", Type: template.TypeText,
	})

	if err := f.manager.SyncField(ctx, "q1"); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	first, _ := f.repos.Questions.Question(ctx, "q1")
	if err := f.manager.SyncField(ctx, "q1"); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	second, _ := f.repos.Questions.Question(ctx, "q1")

	if first.Field != second.Field {
		t.Fatalf("field reference changed between syncs: %s -> %s", first.Field, second.Field)
	}
	tmpl, _ := f.repos.Templates.Template(ctx, "t1")
	table, _ := f.schema.Table(ctx, tmpl.BackingTable)
	if len(table.Fields) != 2 {
		t.Fatalf("expected two fields, got %d", len(table.Fields))
	}
}

func TestSyncField_ConcurrentDuplicateTrigger(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Name", Type: template.TypeText,
	})

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.manager.SyncField(ctx, "q1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}
	tmpl, _ := f.repos.Templates.Template(ctx, "t1")
	table, _ := f.schema.Table(ctx, tmpl.BackingTable)
	if len(table.Fields) != 2 {
		t.Fatalf("expected exactly one question field, got %d total", len(table.Fields))
	}
}

func TestSyncField_UpdateOverwritesInPlace(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Status", Type: template.TypeOptions,
		Options: []string{"Open", "Closed"},
	})
	if err := f.manager.SyncField(ctx, "q1"); err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	q, _ := f.repos.Questions.Question(ctx, "q1")
	q.Name = "Case status"
	q.Options = []string{"Open", "Closed", "Reopened"}
	if err := f.repos.Questions.UpdateQuestion(ctx, q); err != nil {
		t.Fatalf("update question: %v", err)
	}
	if err := f.manager.SyncField(ctx, "q1"); err != nil {
		t.Fatalf("resync: %v", err)
	}

	tmpl, _ := f.repos.Templates.Template(ctx, "t1")
	table, _ := f.schema.Table(ctx, tmpl.BackingTable)
	if len(table.Fields) != 2 {
		t.Fatalf("expected the field to be updated, not recreated: %d fields", len(table.Fields))
	}
	field := table.Fields[1].Spec
	if field.Label != "Case status" {
		t.Fatalf("label not updated: %q", field.Label)
	}
	if diff := cmp.Diff([]string{"Open", "Closed", "Reopened"}, field.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncField_GridIsNoOp(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Vitals", Type: template.TypeGrid,
		Grid: &template.GridLayout{Rows: []string{"Pulse"}, Columns: []string{"Value"}},
	})

	if err := f.manager.SyncField(ctx, "q1"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	q, _ := f.repos.Questions.Question(ctx, "q1")
	if q.Field != "" {
		t.Fatalf("grid question acquired a field: %s", q.Field)
	}
	tmpl, _ := f.repos.Templates.Template(ctx, "t1")
	table, _ := f.schema.Table(ctx, tmpl.BackingTable)
	if len(table.Fields) != 1 {
		t.Fatalf("expected only the response link, got %d fields", len(table.Fields))
	}
}

func TestSyncField_UnprovisionedTemplate(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Name", Type: template.TypeText,
	})

	err := f.manager.SyncField(ctx, "q1")
	if !errors.Is(err, ErrNotProvisioned) {
		t.Fatalf("expected ErrNotProvisioned, got %v", err)
	}
}

func TestSyncField_SanitizesLabelAndTooltip(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	if err := f.manager.ProvisionSchema(ctx, "t1"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "<b>Household</b> size",
		Tooltip: "<script>x</script>Count everyone", Type: template.TypeNumber,
	})

	if err := f.manager.SyncField(ctx, "q1"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	tmpl, _ := f.repos.Templates.Template(ctx, "t1")
	table, _ := f.schema.Table(ctx, tmpl.BackingTable)
	field := table.Fields[1].Spec
	if field.Label != "Household size" {
		t.Fatalf("label not sanitized: %q", field.Label)
	}
	if field.HelpText != "Count everyone" {
		t.Fatalf("tooltip not sanitized: %q", field.HelpText)
	}
}

func TestSyncTranslation_MergesIntoLanguageDictionary(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Consent", Type: template.TypeOptions,
		Options: []string{"Yes", "No", "Maybe"},
	})
	if err := f.repos.Translations.CreateTranslation(ctx, template.Translation{
		ID: "tr1", QuestionID: "q1", Language: "fr",
		Options: []string{"Oui", "Non", "Peut-être"},
	}); err != nil {
		t.Fatalf("create translation: %v", err)
	}

	if err := f.manager.SyncTranslation(ctx, "tr1"); err != nil {
		t.Fatalf("sync: %v", err)
	}

	dict, err := f.locales.Dictionary(ctx, "fr")
	if err != nil {
		t.Fatalf("load dictionary: %v", err)
	}
	want := locale.Dictionary{"Yes": "Oui", "No": "Non", "Maybe": "Peut-être"}
	if diff := cmp.Diff(want, dict); diff != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncTranslation_OptionCountMismatch(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Consent", Type: template.TypeOptions,
		Options: []string{"Yes", "No", "Maybe"},
	})
	if err := f.repos.Translations.CreateTranslation(ctx, template.Translation{
		ID: "tr1", QuestionID: "q1", Language: "fr",
		Options: []string{"Oui", "Non"},
	}); err != nil {
		t.Fatalf("create translation: %v", err)
	}

	err := f.manager.SyncTranslation(ctx, "tr1")
	var mismatch *template.OptionCountError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected OptionCountError, got %v", err)
	}
	if mismatch.Canonical != 3 || mismatch.Translated != 2 {
		t.Fatalf("unexpected counts: %+v", mismatch)
	}

	dict, _ := f.locales.Dictionary(ctx, "fr")
	if len(dict) != 0 {
		t.Fatalf("dictionary written despite mismatch: %v", dict)
	}
}

func TestSyncTranslation_SkipsIdenticalEntries(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Consent", Type: template.TypeOptions,
		Options: []string{"Yes", "No", "Maybe"},
	})
	if err := f.repos.Translations.CreateTranslation(ctx, template.Translation{
		ID: "tr1", QuestionID: "q1", Language: "fr",
		Options: []string{"Oui", "No", "Peut-être"},
	}); err != nil {
		t.Fatalf("create translation: %v", err)
	}

	if err := f.manager.SyncTranslation(ctx, "tr1"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	dict, _ := f.locales.Dictionary(ctx, "fr")
	if _, polluted := dict["No"]; polluted {
		t.Fatal("identical entry was written to the dictionary")
	}
	want := locale.Dictionary{"Yes": "Oui", "Maybe": "Peut-être"}
	if diff := cmp.Diff(want, dict); diff != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncTranslation_PreservesExistingEntries(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	if err := f.locales.SaveDictionary(ctx, "fr", locale.Dictionary{"Open": "Ouvert"}); err != nil {
		t.Fatalf("seed dictionary: %v", err)
	}
	f.createTemplate(t, "t1", "Survey")
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Consent", Type: template.TypeOptions,
		Options: []string{"Yes", "No"},
	})
	if err := f.repos.Translations.CreateTranslation(ctx, template.Translation{
		ID: "tr1", QuestionID: "q1", Language: "fr",
		Options: []string{"Oui", "Non"},
	}); err != nil {
		t.Fatalf("create translation: %v", err)
	}

	if err := f.manager.SyncTranslation(ctx, "tr1"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	dict, _ := f.locales.Dictionary(ctx, "fr")
	want := locale.Dictionary{"Open": "Ouvert", "Yes": "Oui", "No": "Non"}
	if diff := cmp.Diff(want, dict); diff != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncTranslation_NonOptionsIsNoOp(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")
	f.createQuestion(t, template.Question{
		ID: "q1", TemplateID: "t1", Name: "Name", Type: template.TypeText,
	})
	if err := f.repos.Translations.CreateTranslation(ctx, template.Translation{
		ID: "tr1", QuestionID: "q1", Language: "fr", Name: "Nom",
	}); err != nil {
		t.Fatalf("create translation: %v", err)
	}

	if err := f.manager.SyncTranslation(ctx, "tr1"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if langs := f.locales.Languages(); len(langs) != 0 {
		t.Fatalf("dictionary written for non-options question: %v", langs)
	}
}

func TestSyncTranslation_ConcurrentMergesOnOneLanguage(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	f.createTemplate(t, "t1", "Survey")

	const questions = 6
	for i := 0; i < questions; i++ {
		id := string(rune('a' + i))
		f.createQuestion(t, template.Question{
			ID: "q" + id, TemplateID: "t1", Name: "Q" + id, Type: template.TypeOptions,
			Options: []string{"opt-" + id},
		})
		if err := f.repos.Translations.CreateTranslation(ctx, template.Translation{
			ID: "tr" + id, QuestionID: "q" + id, Language: "es",
			Options: []string{"es-" + id},
		}); err != nil {
			t.Fatalf("create translation: %v", err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < questions; i++ {
		id := string(rune('a' + i))
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := f.manager.SyncTranslation(ctx, "tr"+id); err != nil {
				t.Errorf("sync tr%s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	dict, _ := f.locales.Dictionary(ctx, "es")
	if len(dict) != questions {
		t.Fatalf("expected %d merged entries, got %d: %v", questions, len(dict), dict)
	}
}
