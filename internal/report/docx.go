package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/xapidoc/internal/apitree"
)

const (
	docxAccent   = "007A87"
	docxMonoFont = "Consolas"
)

// DOCX writes the model as a Word document with one heading per section
// and entity.
func DOCX(w io.Writer, in Input) error {
	d := docx.New().WithDefaultTheme()

	heading(d, 1, in.title())
	for _, k := range apitree.Kinds {
		d.AddParagraph().AddText(fmt.Sprintf("%s: %d", sectionTitles[k], in.API.Count(k)))
	}

	for _, k := range apitree.Kinds {
		entities := entitiesOf(in.API, k)
		if len(entities) == 0 {
			continue
		}
		heading(d, 2, sectionTitles[k])
		for _, e := range entities {
			docxEntity(d, e)
		}
	}

	if len(in.Issues) > 0 {
		heading(d, 2, "Issues")
		for _, i := range in.Issues {
			p := d.AddParagraph()
			p.AddText(string(i.Severity) + " ").Bold()
			p.AddText(issueText(i))
		}
	}

	if _, err := d.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

var headingSizes = map[int]string{1: "36", 2: "30", 3: "24"}

func heading(d *docx.Docx, level int, text string) {
	p := d.AddParagraph().Style(fmt.Sprintf("Heading%d", level))
	r := p.AddText(text).Bold().Size(headingSizes[level])
	if level == 3 {
		r.Color(docxAccent)
	}
}

func docxEntity(d *docx.Docx, e apitree.Entity) {
	m := e.Meta()
	heading(d, 3, m.Name())

	p := d.AddParagraph()
	p.AddText("Applies to: ").Bold()
	p.AddText(productsText(m.Products)).Italic()
	if len(m.Roles) > 0 {
		p := d.AddParagraph()
		p.AddText("Requires user role: ").Bold()
		p.AddText(rolesText(m.Roles))
	}
	for _, para := range strings.Split(m.Description, "\n") {
		if para != "" {
			d.AddParagraph().AddText(para)
		}
	}

	for _, prm := range parametersOf(e) {
		c := prm.Common()
		p := d.AddParagraph()
		p.AddText(c.Name + ": ").Bold()
		p.AddText(spaceText(prm)).Font(docxMonoFont, docxMonoFont, docxMonoFont, "default")
		if c.Default != "" {
			p.AddText(" default " + c.Default)
		}
		if c.Required {
			p.AddText(" (required)").Italic()
		}
		if c.Description != "" {
			d.AddParagraph().AddText(c.Description)
		}
	}

	if s, ok := e.(*apitree.Status); ok && s.ValueSpace != nil {
		p := d.AddParagraph()
		p.AddText("Returns: ").Bold()
		p.AddText(returnsText(s.ValueSpace)).Font(docxMonoFont, docxMonoFont, docxMonoFont, "default")
	}
}
