package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/xapidoc/internal/layout"
)

var teal = layout.RGB{0, 122, 135}

func styledWord(text, font string, size float64, color layout.RGB) layout.Word {
	return layout.NewWord(1, []layout.Glyph{{Text: text, Font: font, Size: size, Color: color}})
}

func TestClassify_DefaultTable(t *testing.T) {
	tests := []struct {
		name string
		word layout.Word
		want Style
	}{
		{"family heading", styledWord("Audio", "CiscoSansTTBold", 16, layout.RGB{}), FamilyHeading},
		{"name heading", styledWord("xConfiguration", "CiscoSansTTBold", 10, layout.RGB{}), NameHeading},
		{"name heading float size", styledWord("Audio", "CiscoSansTTBold", 10.02, layout.RGB{}), NameHeading},
		{"product name", styledWord("Codec", "CiscoSansTTOblique", 8, teal), ProductName},
		{"product name subset font", styledWord("Pro", "ABCDEF+CiscoSansTTItalic", 8, teal), ProductName},
		{"usage heading", styledWord("USAGE:", "CiscoSansTTBold", 8, teal), UsageHeading},
		{"usage example", styledWord("xCommand", "CiscoSansMono", 8, layout.RGB{}), UsageExample},
		{"value space term", styledWord("Off:", "CiscoSansTTBoldOblique", 8, layout.RGB{}), ValueSpaceTerm},
		{"parameter name", styledWord("Volume:", "CiscoSansTTBold", 8, layout.RGB{}), ParameterName},
		{"value space", styledWord("Integer", "CiscoSansTTOblique", 8, layout.RGB{}), ValueSpace},
		{"body", styledWord("Define", "CiscoSansTT", 8, layout.RGB{}), Body},
		{"body other colour", styledWord("Define", "CiscoSansTT", 8, teal), Body},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.word); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestClassify_SkipsLeadingQuote(t *testing.T) {
	w := layout.NewWord(1, []layout.Glyph{
		{Text: "“", Font: "CiscoSansTT", Size: 16},
		{Text: "A", Font: "CiscoSansTT", Size: 8},
		{Text: "u", Font: "CiscoSansTT", Size: 8},
	})
	if got := Classify(w); got != Body {
		t.Errorf("expected oversized quote to be ignored (body), got %s", got)
	}
}

func TestClassify_EmptyWordIsBody(t *testing.T) {
	if got := Classify(layout.Word{}); got != Body {
		t.Errorf("expected body for a word without glyphs, got %s", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	w := styledWord("Codec", "CiscoSansTTOblique", 8, teal)
	first := Classify(w)
	for range 100 {
		if got := Classify(w); got != first {
			t.Fatalf("expected stable result %s, got %s", first, got)
		}
	}
}

func TestParse_RuleOrderWins(t *testing.T) {
	c, err := Parse([]byte(`
rules:
  - style: parameter-name
    font_suffix: [Bold]
  - style: method-name-heading
    size: 10
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Classify(styledWord("x", "SansBold", 10, layout.RGB{})); got != ParameterName {
		t.Errorf("expected first matching rule to win, got %s", got)
	}
	if got := c.Classify(styledWord("x", "Sans", 10, layout.RGB{})); got != NameHeading {
		t.Errorf("expected name heading, got %s", got)
	}
}

func TestParse_Errors(t *testing.T) {
	bad := map[string]string{
		"empty":         "rules: []",
		"unknown style": "rules:\n  - style: footnote\n",
		"short color":   "rules:\n  - style: body\n    color: [1, 2]\n",
		"color range":   "rules:\n  - style: body\n    color: [1, 2, 300]\n",
		"not yaml":      "rules: [",
	}
	for name, doc := range bad {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Errorf("expected error for %s", name)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault("")
	if err != nil || c != Default() {
		t.Fatalf("expected embedded classifier, got %v, %v", c, err)
	}

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  - style: method-family-heading\n    size: 20\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	c, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Classify(styledWord("Audio", "Sans", 20, layout.RGB{})); got != FamilyHeading {
		t.Errorf("expected family heading from custom table, got %s", got)
	}

	if _, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing rules file")
	}
}

func TestStyle_ParseRoundTrip(t *testing.T) {
	for _, s := range Styles {
		got, err := ParseStyle(s.String())
		if err != nil || got != s {
			t.Errorf("expected %s to round-trip, got %s (%v)", s, got, err)
		}
	}
}
