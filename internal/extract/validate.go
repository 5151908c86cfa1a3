package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/xapidoc/internal/apitree"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in an extracted model.
type Issue struct {
	Severity  Severity     `json:"severity"`
	Kind      apitree.Kind `json:"kind"`
	Entity    string       `json:"entity"`
	Parameter string       `json:"parameter,omitempty"`
	Message   string       `json:"message"`
}

func (i Issue) String() string {
	name := i.Entity
	if i.Parameter != "" {
		name += " " + i.Parameter
	}
	return fmt.Sprintf("%s: %s %s: %s", i.Severity, i.Kind, name, i.Message)
}

// Validate checks the invariants a code generator relies on. Errors mean the
// entity cannot be used as is; warnings flag text that was probably
// misread.
func Validate(api *apitree.API) []Issue {
	if api == nil {
		return nil
	}
	var issues []Issue
	for _, e := range api.Entities() {
		issues = append(issues, validateEntity(e)...)
	}
	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateEntity(e apitree.Entity) []Issue {
	b := e.Meta()
	var issues []Issue
	report := func(sev Severity, param, format string, args ...any) {
		issues = append(issues, Issue{
			Severity:  sev,
			Kind:      e.Kind(),
			Entity:    b.Name(),
			Parameter: param,
			Message:   fmt.Sprintf(format, args...),
		})
	}

	if len(b.Path) == 0 {
		report(SeverityError, "", "empty path")
	}
	for _, seg := range b.Path {
		if strings.TrimSpace(seg) == "" {
			report(SeverityError, "", "blank path segment")
		}
	}

	var params []apitree.Parameter
	switch v := e.(type) {
	case *apitree.Configuration:
		params = v.Parameters
		if len(params) == 0 {
			report(SeverityWarning, "", "configuration has no value parameter")
		}
	case *apitree.Command:
		params = v.Parameters
	case *apitree.Status:
		for _, p := range v.Parameters {
			params = append(params, p)
		}
		if v.ValueSpace == nil {
			report(SeverityError, "", "status has no value space")
		} else if ivs, ok := v.ValueSpace.(*apitree.IntegerValueSpace); ok {
			for _, r := range ivs.Ranges {
				if r.Min > r.Max {
					report(SeverityError, "", "value space range %s is inverted", r)
				}
			}
		} else if evs, ok := v.ValueSpace.(*apitree.EnumValueSpace); ok && evs.Values.Len() == 0 {
			report(SeverityError, "", "enum value space has no values")
		}
	}

	seen := make(map[string]bool)
	for _, p := range params {
		c := p.Common()
		if c.Name == "" {
			report(SeverityError, "", "parameter without a name")
			continue
		}
		if seen[c.Name] {
			report(SeverityWarning, c.Name, "duplicate parameter")
		}
		seen[c.Name] = true
		validateParameter(p, b, report)
	}
	return issues
}

func validateParameter(p apitree.Parameter, b *apitree.Base, report func(Severity, string, string, ...any)) {
	c := p.Common()
	switch v := p.(type) {
	case *apitree.IntegerParameter:
		for _, r := range v.Ranges {
			if r.Min > r.Max {
				report(SeverityError, c.Name, "range %s is inverted", r)
			}
		}
		if v.Positional && (v.PathIndex < 0 || v.PathIndex >= len(b.Path)) {
			report(SeverityError, c.Name, "path index %d outside path of %d segments", v.PathIndex, len(b.Path))
		}
		if n, err := strconv.Atoi(c.Default); err == nil && len(v.Ranges) > 0 && !inRanges(v.Ranges, n) {
			report(SeverityWarning, c.Name, "default %d outside every range", n)
		}
	case *apitree.StringParameter:
		if v.MaxLength > 0 && v.MinLength > v.MaxLength {
			report(SeverityError, c.Name, "length %d..%d is inverted", v.MinLength, v.MaxLength)
		}
		if v.MaxLength > 0 && len(c.Default) > v.MaxLength {
			report(SeverityWarning, c.Name, "default longer than %d characters", v.MaxLength)
		}
	case *apitree.EnumParameter:
		if v.Values.Len() == 0 {
			report(SeverityError, c.Name, "enum without values")
		}
		if c.Default != "" && v.Values.Find(c.Default) == nil {
			report(SeverityWarning, c.Name, "default %q is not a listed value", c.Default)
		}
	}
}

func inRanges(rs apitree.Ranges, n int) bool {
	for _, r := range rs {
		if n >= r.Min && n <= r.Max {
			return true
		}
	}
	return false
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a URL/path-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}

// EntityPath is the storage path of e under document doc, e.g.
// apis/room-kit/configuration/audio/input/hdmi/n/mode.
func EntityPath(doc string, e apitree.Entity) string {
	parts := []string{"apis", Slugify(doc), string(e.Kind())}
	for _, seg := range e.Meta().Path {
		if s := Slugify(seg); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
