package layout

import "strings"

// RGB is a fill colour with 8-bit channels.
type RGB [3]uint8

// Point is a position in page space. Y grows downward from the top edge.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Glyph is a single rendered character and its typography.
type Glyph struct {
	Text  string  `json:"text"`
	Font  string  `json:"font"`
	Size  float64 `json:"size"`
	Color RGB     `json:"color"`
	Start Point   `json:"start"` // baseline start
	End   Point   `json:"end"`   // baseline end
}

// Word is a run of glyphs without intervening whitespace. Words are values
// and are never mutated after loading.
type Word struct {
	Text   string  `json:"text"`
	Page   int     `json:"page"`
	Glyphs []Glyph `json:"glyphs"`
}

// PageWord is one element of a section's word stream.
type PageWord struct {
	Word Word
	Page int
}

// NewWord builds a word from glyphs, deriving the text from them.
func NewWord(page int, glyphs []Glyph) Word {
	var sb strings.Builder
	for _, g := range glyphs {
		sb.WriteString(g.Text)
	}
	return Word{Text: sb.String(), Page: page, Glyphs: glyphs}
}

// Baseline returns the vertical baseline position of the first glyph.
func (w Word) Baseline() float64 {
	if len(w.Glyphs) == 0 {
		return 0
	}
	return w.Glyphs[0].Start.Y
}

// X returns the horizontal start of the word.
func (w Word) X() float64 {
	if len(w.Glyphs) == 0 {
		return 0
	}
	return w.Glyphs[0].Start.X
}

// IsQuote reports whether s is a quotation-mark glyph. Some PDF producers
// emit these with an oversized point size, so callers skip or merge them
// rather than trusting their metrics.
func IsQuote(s string) bool {
	switch s {
	case `"`, "“", "”", "„", "″":
		return true
	}
	return false
}

// FirstRealGlyph returns the first glyph that is not a quotation mark, or the
// first glyph when the word has no other glyphs.
func (w Word) FirstRealGlyph() (Glyph, bool) {
	for _, g := range w.Glyphs {
		if !IsQuote(g.Text) {
			return g, true
		}
	}
	if len(w.Glyphs) > 0 {
		return w.Glyphs[0], true
	}
	return Glyph{}, false
}

// Page is one page of a loaded document.
type Page struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Words  []Word  `json:"words"`
}

// Document is the full set of pages and outline entries of a source manual.
type Document struct {
	Title     string    `json:"title"`
	Pages     []Page    `json:"pages"`
	Bookmarks Bookmarks `json:"bookmarks"`
}

// Page returns the page with the given 1-based number.
func (d *Document) Page(number int) (*Page, bool) {
	for i := range d.Pages {
		if d.Pages[i].Number == number {
			return &d.Pages[i], true
		}
	}
	return nil, false
}

// MissingColour reports whether the document has words but none of their
// glyphs is printed in a colour other than black. PDFLoader documents are
// always in this state, since the text layer it reads carries no fill
// colour.
func (d *Document) MissingColour() bool {
	if d.WordCount() == 0 {
		return false
	}
	for _, p := range d.Pages {
		for _, w := range p.Words {
			for _, g := range w.Glyphs {
				if g.Color != (RGB{}) {
					return false
				}
			}
		}
	}
	return true
}

// WordCount returns the number of words across all pages.
func (d *Document) WordCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Words)
	}
	return n
}
