// Package report renders an extracted model for people: Markdown and HTML
// reference pages, a Word document and a spreadsheet.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/extract"
)

// Format names an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
	FormatXLSX     Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatMarkdown, FormatHTML, FormatDOCX, FormatXLSX}

// ParseFormat accepts a format name or file extension, e.g. "md" or ".xlsx".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	if s == "markdown" {
		s = "md"
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Input is what every renderer consumes.
type Input struct {
	API    *apitree.API
	Issues []extract.Issue
}

// Render writes in to w in format f.
func Render(w io.Writer, f Format, in Input) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(in.API)
	case FormatMarkdown:
		_, err := w.Write(Markdown(in))
		return err
	case FormatHTML:
		return HTML(w, in)
	case FormatDOCX:
		return DOCX(w, in)
	case FormatXLSX:
		return XLSX(w, in)
	}
	return fmt.Errorf("unknown format %q", f)
}

func (in Input) title() string {
	if in.API.Title != "" {
		return in.API.Title
	}
	return "API reference"
}

var sectionTitles = map[apitree.Kind]string{
	apitree.KindConfiguration: "Configurations",
	apitree.KindCommand:       "Commands",
	apitree.KindStatus:        "Statuses",
}

// entitiesOf returns the entities of kind in model order.
func entitiesOf(api *apitree.API, kind apitree.Kind) []apitree.Entity {
	var out []apitree.Entity
	for _, e := range api.Entities() {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

func parametersOf(e apitree.Entity) []apitree.Parameter {
	switch v := e.(type) {
	case *apitree.Configuration:
		return v.Parameters
	case *apitree.Command:
		return v.Parameters
	case *apitree.Status:
		out := make([]apitree.Parameter, len(v.Parameters))
		for i, p := range v.Parameters {
			out[i] = p
		}
		return out
	}
	return nil
}

func productsText(ps []apitree.Product) string {
	if len(ps) == 0 {
		return "All products"
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func rolesText(rs []apitree.Role) string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// spaceText renders the accepted values of a parameter.
func spaceText(p apitree.Parameter) string {
	switch v := p.(type) {
	case *apitree.IntegerParameter:
		if len(v.Ranges) == 0 {
			return "Integer"
		}
		parts := make([]string, len(v.Ranges))
		for i, r := range v.Ranges {
			parts[i] = r.String()
		}
		return strings.Join(parts, ", ")
	case *apitree.StringParameter:
		if v.MaxLength > 0 {
			return fmt.Sprintf("String (%d..%d)", v.MinLength, v.MaxLength)
		}
		return "String"
	case *apitree.EnumParameter:
		return strings.Join(v.Values.Names(), "/")
	}
	return ""
}

// returnsText renders the value space a status reports.
func returnsText(vs apitree.ValueSpace) string {
	switch v := vs.(type) {
	case nil:
		return ""
	case *apitree.IntegerValueSpace:
		parts := make([]string, 0, len(v.Ranges)+1)
		if v.Sentinel != "" {
			parts = append(parts, v.Sentinel)
		}
		for _, r := range v.Ranges {
			parts = append(parts, r.String())
		}
		if len(parts) == 0 {
			return "Integer"
		}
		return strings.Join(parts, "/")
	case *apitree.StringValueSpace:
		return "String"
	case *apitree.EnumValueSpace:
		return strings.Join(v.Values.Names(), "/")
	}
	return string(vs.ValueType())
}
