package dirstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dcschema/pkg/locale"
)

func TestStore_RoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	want := locale.Dictionary{"Yes": "Oui", "No": "Non"}
	if err := store.SaveDictionary(ctx, "fr", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Dictionary(ctx, "fr")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_MissingLanguageYieldsEmptyDictionary(t *testing.T) {
	store := New(t.TempDir())

	dict, err := store.Dictionary(context.Background(), "sw")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if dict == nil || len(dict) != 0 {
		t.Fatalf("expected empty non-nil dictionary, got %v", dict)
	}
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locales")
	store := New(dir)

	if err := store.SaveDictionary(context.Background(), "es", locale.Dictionary{"Yes": "Sí"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "es.json")); err != nil {
		t.Fatalf("expected es.json on disk: %v", err)
	}
}

func TestStore_OverwriteReplacesFile(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if err := store.SaveDictionary(ctx, "fr", locale.Dictionary{"Yes": "Oui"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveDictionary(ctx, "fr", locale.Dictionary{"Yes": "Oui", "No": "Non"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Dictionary(ctx, "fr")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := locale.Dictionary{"Yes": "Oui", "No": "Non"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dictionary mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_RejectsInvalidLanguageCodes(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, code := range []string{"", "../escape", "fr/ca", "fr.json"} {
		if _, err := store.Dictionary(ctx, code); err == nil {
			t.Fatalf("read accepted invalid code %q", code)
		}
		if err := store.SaveDictionary(ctx, code, locale.Dictionary{}); err == nil {
			t.Fatalf("write accepted invalid code %q", code)
		}
	}
	for _, code := range []string{"fr", "pt-BR", "zh_Hans"} {
		if _, err := store.Dictionary(ctx, code); err != nil {
			t.Fatalf("read rejected valid code %q: %v", code, err)
		}
	}
}

func TestStore_IgnoresUnrelatedLanguages(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if err := store.SaveDictionary(ctx, "fr", locale.Dictionary{"Yes": "Oui"}); err != nil {
		t.Fatalf("save fr: %v", err)
	}
	if err := store.SaveDictionary(ctx, "es", locale.Dictionary{"Yes": "Sí"}); err != nil {
		t.Fatalf("save es: %v", err)
	}

	fr, _ := store.Dictionary(ctx, "fr")
	if fr["Yes"] != "Oui" {
		t.Fatalf("fr dictionary affected by es write: %v", fr)
	}
}
