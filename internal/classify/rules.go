package classify

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/dgallion1/xapidoc/internal/layout"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// sizeTolerance absorbs float noise in point sizes reported by PDF tools.
const sizeTolerance = 0.05

// Rule is one predicate of the classification table. Zero fields match
// anything.
type Rule struct {
	Style      Style
	Size       float64
	FontSuffix []string
	Color      *layout.RGB
}

// Matches reports whether g satisfies every constraint of the rule.
func (r Rule) Matches(g layout.Glyph) bool {
	if r.Size != 0 && math.Abs(g.Size-r.Size) > sizeTolerance {
		return false
	}
	if len(r.FontSuffix) > 0 {
		font := baseFont(g.Font)
		matched := false
		for _, suffix := range r.FontSuffix {
			if strings.HasSuffix(font, suffix) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if r.Color != nil && *r.Color != g.Color {
		return false
	}
	return true
}

// baseFont strips a subset tag such as "ABCDEF+" from a font name.
func baseFont(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		return name[i+1:]
	}
	return name
}

// Classifier applies an ordered rule table to words.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules, tried in order.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Rules returns the classifier's table.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify returns the style of w. It looks only at the first glyph that is
// not a stray quotation mark and falls back to Body.
func (c *Classifier) Classify(w layout.Word) Style {
	g, ok := w.FirstRealGlyph()
	if !ok {
		return Body
	}
	for _, r := range c.rules {
		if r.Matches(g) {
			return r.Style
		}
	}
	return Body
}

var defaultClassifier = sync.OnceValue(func() *Classifier {
	c, err := Parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("classify: embedded rules: %v", err))
	}
	return c
})

// Default returns the classifier for the embedded rule table.
func Default() *Classifier {
	return defaultClassifier()
}

// Classify classifies w with the embedded rule table.
func Classify(w layout.Word) Style {
	return Default().Classify(w)
}

type ruleSpec struct {
	Style      string   `yaml:"style"`
	Size       float64  `yaml:"size"`
	FontSuffix []string `yaml:"font_suffix"`
	Color      []int    `yaml:"color"`
}

type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

// Parse builds a classifier from a YAML rule table.
func Parse(data []byte) (*Classifier, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rule table is empty")
	}

	rules := make([]Rule, 0, len(f.Rules))
	for i, spec := range f.Rules {
		style, err := ParseStyle(spec.Style)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		r := Rule{Style: style, Size: spec.Size, FontSuffix: spec.FontSuffix}
		if spec.Color != nil {
			if len(spec.Color) != 3 {
				return nil, fmt.Errorf("rule %d: color needs 3 channels, got %d", i+1, len(spec.Color))
			}
			var rgb layout.RGB
			for j, ch := range spec.Color {
				if ch < 0 || ch > 255 {
					return nil, fmt.Errorf("rule %d: color channel %d out of range", i+1, ch)
				}
				rgb[j] = uint8(ch)
			}
			r.Color = &rgb
		}
		rules = append(rules, r)
	}
	return New(rules), nil
}

// Load reads a YAML rule table from path.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault loads path, or returns the embedded table when path is empty.
func LoadOrDefault(path string) (*Classifier, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
