package synth

import (
	"strings"
	"testing"
)

func TestIdentifierGenerator_FieldName(t *testing.T) {
	gen := NewIdentifierGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		name := gen.FieldName()
		if !strings.HasPrefix(name, "f") {
			t.Fatalf("field name %q lacks the f prefix", name)
		}
		if strings.Contains(name, "-") {
			t.Fatalf("field name %q contains a hyphen", name)
		}
		for _, r := range name {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			default:
				t.Fatalf("field name %q contains invalid rune %q", name, r)
			}
		}
		if _, dup := seen[name]; dup {
			t.Fatalf("field name %q generated twice", name)
		}
		seen[name] = struct{}{}
	}
}
