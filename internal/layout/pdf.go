package layout

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// A4 in points, used when a page has no readable MediaBox.
const (
	a4Width  = 595.28
	a4Height = 841.89
)

// maxOutlineItems bounds the outline walk against cyclic Next/First links.
const maxOutlineItems = 100000

// PDFLoader reads glyphs from a PDF's text layer with ledongthuc/pdf.
//
// The library does not expose fill colours, so every glyph is reported as
// black. Documents whose classification depends on colour should be loaded
// from a word dump instead.
type PDFLoader struct{}

func (l *PDFLoader) Load(r io.Reader, filename string) (*Document, error) {
	// ledongthuc/pdf requires a ReaderAt+size, so buffer the whole file.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty pdf content")
	}

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc := &Document{
		Title: strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
	}

	pageKeys := make(map[string]int)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageKeys[page.V.String()] = i

		width, height := pageSize(page.V)
		words, err := pageWords(i, page, height)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		doc.Pages = append(doc.Pages, Page{
			Number: i,
			Width:  width,
			Height: height,
			Words:  words,
		})
	}

	doc.Bookmarks = outlineBookmarks(reader, pageKeys)
	return doc, nil
}

// pageWords groups the page's content-stream glyphs into words.
// ledongthuc/pdf panics on some malformed content streams.
func pageWords(number int, page pdflib.Page, height float64) (words []Word, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read content: %v", r)
		}
	}()

	g := wordGrouper{page: number}
	for _, t := range page.Content().Text {
		g.add(Glyph{
			Text:  t.S,
			Font:  t.Font,
			Size:  t.FontSize,
			Start: Point{X: t.X, Y: height - t.Y},
			End:   Point{X: t.X + t.W, Y: height - t.Y},
		})
	}
	return g.finish(), nil
}

// wordGrouper splits a glyph stream into words on whitespace, line changes
// and horizontal gaps. Quote glyphs are merged into the word they touch and
// never used as the reference for gap or line tolerances.
type wordGrouper struct {
	page   int
	words  []Word
	cur    []Glyph
	ref    Glyph
	hasRef bool
}

func (g *wordGrouper) add(gl Glyph) {
	if strings.TrimSpace(gl.Text) == "" {
		g.flush()
		return
	}
	if len(g.cur) > 0 && g.breaksBefore(gl) {
		g.flush()
	}
	g.cur = append(g.cur, gl)
	if !IsQuote(gl.Text) {
		g.ref = gl
		g.hasRef = true
	}
}

func (g *wordGrouper) breaksBefore(gl Glyph) bool {
	prev := g.cur[len(g.cur)-1]
	if IsQuote(prev.Text) && g.hasRef {
		// Metrics of an oversized quote are unreliable; measure from the
		// last regular glyph instead.
		prev = g.ref
	}
	size := prev.Size
	if g.hasRef {
		size = g.ref.Size
	}
	if !IsQuote(gl.Text) && math.Abs(gl.Start.Y-prev.Start.Y) > size*0.5 {
		return true
	}
	return gl.Start.X-prev.End.X > size*0.25
}

func (g *wordGrouper) flush() {
	if len(g.cur) == 0 {
		return
	}
	g.words = append(g.words, NewWord(g.page, g.cur))
	g.cur = nil
	g.hasRef = false
}

func (g *wordGrouper) finish() []Word {
	g.flush()
	return g.words
}

// pageSize reads the MediaBox, walking up the page tree for inherited boxes.
func pageSize(v pdflib.Value) (float64, float64) {
	for depth := 0; v.Kind() == pdflib.Dict && depth < 64; depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdflib.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return a4Width, a4Height
}

// outlineBookmarks flattens the outline tree in document order and resolves
// each destination to a page number. Entries whose destination cannot be
// resolved are skipped.
func outlineBookmarks(r *pdflib.Reader, pageKeys map[string]int) Bookmarks {
	root := r.Trailer().Key("Root")
	var out Bookmarks
	visited := 0

	var walk func(item pdflib.Value)
	walk = func(item pdflib.Value) {
		for ; item.Kind() == pdflib.Dict && visited < maxOutlineItems; item = item.Key("Next") {
			visited++
			if page, ok := destPage(root, item, pageKeys); ok {
				out = append(out, Bookmark{
					Title: strings.TrimSpace(item.Key("Title").Text()),
					Page:  page,
				})
			}
			walk(item.Key("First"))
		}
	}
	walk(root.Key("Outlines").Key("First"))
	return out
}

// destPage resolves an outline item's /Dest or /A /D entry. Page dictionaries
// are matched by their serialised form, which includes their content
// stream references.
func destPage(root, item pdflib.Value, pageKeys map[string]int) (int, bool) {
	dest := item.Key("Dest")
	if dest.IsNull() {
		dest = item.Key("A").Key("D")
	}
	switch dest.Kind() {
	case pdflib.Name:
		dest = root.Key("Dests").Key(dest.Name())
	case pdflib.String:
		dest = root.Key("Dests").Key(dest.RawString())
	}
	if dest.Kind() == pdflib.Dict {
		dest = dest.Key("D")
	}
	if dest.Kind() != pdflib.Array || dest.Len() == 0 {
		return 0, false
	}
	page, ok := pageKeys[dest.Index(0).String()]
	return page, ok
}
