package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/extract"
)

// Markdown renders the model as one Markdown page: a summary table, one
// section per kind with a heading per entity, and the validation issues.
func Markdown(in Input) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", in.title())

	b.WriteString("| Section | Entries |\n|---|---|\n")
	for _, k := range apitree.Kinds {
		fmt.Fprintf(&b, "| %s | %d |\n", sectionTitles[k], in.API.Count(k))
	}
	b.WriteString("\n")

	for _, k := range apitree.Kinds {
		entities := entitiesOf(in.API, k)
		if len(entities) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", sectionTitles[k])
		for _, e := range entities {
			writeEntity(&b, e)
		}
	}

	if len(in.Issues) > 0 {
		b.WriteString("## Issues\n\n")
		for _, i := range in.Issues {
			fmt.Fprintf(&b, "- **%s** %s\n", i.Severity, cell(issueText(i)))
		}
		b.WriteString("\n")
	}
	return b.Bytes()
}

func writeEntity(b *bytes.Buffer, e apitree.Entity) {
	m := e.Meta()
	fmt.Fprintf(b, "### %s\n\n", m.Name())
	fmt.Fprintf(b, "Applies to: %s\n\n", productsText(m.Products))
	if len(m.Roles) > 0 {
		fmt.Fprintf(b, "Requires user role: %s\n\n", rolesText(m.Roles))
	}
	if m.Description != "" {
		b.WriteString(strings.ReplaceAll(m.Description, "\n", "\n\n"))
		b.WriteString("\n\n")
	}

	params := parametersOf(e)
	if len(params) > 0 {
		b.WriteString("| Parameter | Value space | Default | Required |\n|---|---|---|---|\n")
		for _, p := range params {
			c := p.Common()
			name := c.Name
			if ip, ok := p.(*apitree.IntegerParameter); ok && ip.Positional {
				name += " (index)"
			}
			required := ""
			if c.Required {
				required = "yes"
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(name), cell(spaceText(p)), cell(c.Default), required)
		}
		b.WriteString("\n")
		for _, p := range params {
			writeValues(b, p)
		}
	}

	if s, ok := e.(*apitree.Status); ok && s.ValueSpace != nil {
		fmt.Fprintf(b, "Returns: `%s`", returnsText(s.ValueSpace))
		if d := s.ValueSpace.Space().Description; d != "" {
			fmt.Fprintf(b, " %s", d)
		}
		b.WriteString("\n\n")
	}
}

// writeValues lists enum values and ranges that carry their own text.
func writeValues(b *bytes.Buffer, p apitree.Parameter) {
	var lines []string
	switch v := p.(type) {
	case *apitree.EnumParameter:
		for _, ev := range v.Values.Values() {
			if ev.Description != "" {
				lines = append(lines, fmt.Sprintf("- `%s`: %s", ev.Name, ev.Description))
			}
		}
	case *apitree.IntegerParameter:
		for _, r := range v.Ranges {
			if r.Description == "" {
				continue
			}
			line := fmt.Sprintf("- `%s`: %s", r, r.Description)
			if len(r.Products) > 0 {
				line += " (" + productsText(r.Products) + ")"
			}
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n\n%s\n\n", p.Common().Name, strings.Join(lines, "\n"))
}

func issueText(i extract.Issue) string {
	name := i.Entity
	if i.Parameter != "" {
		name += " " + i.Parameter
	}
	return fmt.Sprintf("%s: %s", name, i.Message)
}

// cell escapes text for a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
