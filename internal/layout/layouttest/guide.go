// Package layouttest builds small synthetic reference guides for tests.
// Words carry the fonts and colours of the embedded style rules.
package layouttest

import (
	"bytes"

	"github.com/dgallion1/xapidoc/internal/layout"
)

var teal = layout.RGB{0, 122, 135}

// PageBuilder appends lines of single-glyph words to a page. Each line
// advances the baseline by a paragraph distance.
type PageBuilder struct {
	page layout.Page
	y    float64
}

// NewPage starts an A4 page.
func NewPage(number int) *PageBuilder {
	return &PageBuilder{page: layout.Page{Number: number, Width: 595, Height: 842}}
}

// Page returns the built page.
func (b *PageBuilder) Page() layout.Page { return b.page }

// Line adds one line of words in the given typography, in the left column.
func (b *PageBuilder) Line(font string, size float64, color layout.RGB, texts ...string) *PageBuilder {
	b.y += 14
	x := 50.0
	for _, text := range texts {
		g := layout.Glyph{Text: text, Font: font, Size: size, Color: color, Start: layout.Point{X: x, Y: b.y}}
		b.page.Words = append(b.page.Words, layout.NewWord(b.page.Number, []layout.Glyph{g}))
		x += 30
	}
	return b
}

func (b *PageBuilder) Name(texts ...string) *PageBuilder {
	return b.Line("CiscoSansTTBold", 10, layout.RGB{}, texts...)
}

func (b *PageBuilder) Body(texts ...string) *PageBuilder {
	return b.Line("CiscoSansTT", 8, layout.RGB{}, texts...)
}

func (b *PageBuilder) Products(texts ...string) *PageBuilder {
	return b.Line("CiscoSansTTOblique", 8, teal, texts...)
}

// Usage adds the USAGE heading and one example line.
func (b *PageBuilder) Usage(texts ...string) *PageBuilder {
	b.Line("CiscoSansTTBold", 8, teal, "USAGE:")
	return b.Line("CiscoSansMono", 8, layout.RGB{}, texts...)
}

// Param adds a parameter name line followed by its value space.
func (b *PageBuilder) Param(name string, space ...string) *PageBuilder {
	b.Line("CiscoSansTTBold", 8, layout.RGB{}, name)
	return b.ValueSpace(space...)
}

func (b *PageBuilder) ValueSpace(texts ...string) *PageBuilder {
	return b.Line("CiscoSansTTOblique", 8, layout.RGB{}, texts...)
}

// Guide returns a six page manual: a cover, one configuration, one command
// and one status page, an overview page without a bookmark, and the
// appendix. Parse it with one trailing status page trimmed.
func Guide() *layout.Document {
	cfg := NewPage(2).
		Name("xConfiguration", "Audio", "DefaultVolume").
		Body("Applies", "to:").
		Products("Desk", "Pro").
		Body("Set", "the", "default", "volume.").
		Usage("xConfiguration", "Audio", "DefaultVolume:", "DefaultVolume").
		Body("where").
		Param("DefaultVolume:", "Integer", "(0..100)").
		Body("Default", "value:", "50")
	cmd := NewPage(3).
		Name("xCommand", "Audio", "Volume", "Set").
		Body("Set", "the", "volume.").
		Usage("xCommand", "Audio", "Volume", "Set", "Level:", "Level").
		Body("where").
		Param("Level:", "Integer", "(0..100)")
	status := NewPage(4).
		Name("xStatus", "Audio", "DefaultVolume").
		Body("Shows", "the", "default", "volume.").
		Body("Value", "space", "of", "the", "result", "returned:").
		ValueSpace("Integer")
	overview := NewPage(5).
		Name("xStatus", "Overview", "Only")
	return &layout.Document{
		Title: "Room Kit API Reference",
		Pages: []layout.Page{NewPage(1).Page(), cfg.Page(), cmd.Page(), status.Page(), overview.Page(), NewPage(6).Page()},
		Bookmarks: layout.Bookmarks{
			{Title: "xConfiguration commands", Page: 2},
			{Title: "xCommand commands", Page: 3},
			{Title: "xStatus commands", Page: 4},
			{Title: "Appendices", Page: 6},
		},
	}
}

// Dump serialises doc as a word dump for the .json loader.
func Dump(doc *layout.Document) []byte {
	var buf bytes.Buffer
	if err := layout.WriteDump(&buf, doc); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
