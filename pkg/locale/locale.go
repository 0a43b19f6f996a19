// Package locale defines the per-language dictionary store shared by every
// template and question. Dictionaries map canonical option strings to their
// translations; the synthesis layer only ever appends or updates entries,
// it never deletes them.
package locale

import "context"

// Dictionary maps canonical strings to translated strings for one language.
type Dictionary map[string]string

// Clone returns a shallow copy so callers can merge without mutating the
// store's view.
func (d Dictionary) Clone() Dictionary {
	if d == nil {
		return Dictionary{}
	}
	out := make(Dictionary, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Store persists one dictionary per language code.
type Store interface {
	// Dictionary loads the dictionary for the language. A language with no
	// stored dictionary yields an empty (non-nil) Dictionary, not an error.
	Dictionary(ctx context.Context, language string) (Dictionary, error)

	// SaveDictionary persists the full dictionary for the language,
	// replacing the previous snapshot. Callers are responsible for
	// read-merge-write discipline; see synth for the per-language locking.
	SaveDictionary(ctx context.Context, language string, dict Dictionary) error
}

// Translator resolves a canonical string into its translation for a language.
// Implementations return the input unchanged when no translation exists.
type Translator interface {
	Translate(language, text string) string
}

// TranslatorFunc adapts a plain function to the Translator interface.
type TranslatorFunc func(language, text string) string

// Translate implements Translator.
func (f TranslatorFunc) Translate(language, text string) string {
	return f(language, text)
}

// IdentityTranslator returns every string unchanged. It is the default used
// when no locale data is wired in.
func IdentityTranslator() Translator {
	return TranslatorFunc(func(_, text string) string { return text })
}

// NewDictionaryTranslator builds a Translator over preloaded dictionaries
// keyed by language code. Lookups that miss fall back to the canonical text.
func NewDictionaryTranslator(dictionaries map[string]Dictionary) Translator {
	return TranslatorFunc(func(language, text string) string {
		dict, ok := dictionaries[language]
		if !ok {
			return text
		}
		if translated, ok := dict[text]; ok && translated != "" {
			return translated
		}
		return text
	})
}
