package synth

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// sanitizeText strips any markup from operator-entered labels and tooltips
// before they reach the schema store, keeping only the plain text content.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	cleaned := labelPolicy.Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
