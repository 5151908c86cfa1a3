package layout

import (
	"bytes"
	"strings"
	"testing"
)

func word(text string, x, y float64) Word {
	return Word{Text: text, Glyphs: []Glyph{{Text: text, Font: "Body", Size: 8, Start: Point{X: x, Y: y}, End: Point{X: x + 10, Y: y}}}}
}

func TestColumnLayout_WordsColumnMajor(t *testing.T) {
	pages := []Page{
		{Number: 3, Width: 600, Words: []Word{
			word("L1", 50, 100),
			word("R1", 400, 100),
			word("L2", 50, 120),
			word("R2", 400, 120),
		}},
		{Number: 4, Width: 600, Words: []Word{
			word("R3", 400, 100),
			word("L3", 50, 100),
		}},
	}

	var got []string
	var gotPages []int
	for pw := range DefaultColumnLayout().Words(pages) {
		got = append(got, pw.Word.Text)
		gotPages = append(gotPages, pw.Page)
	}

	want := []string{"L1", "L2", "R1", "R2", "L3", "R3"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	wantPages := []int{3, 3, 3, 3, 4, 4}
	for i, p := range wantPages {
		if gotPages[i] != p {
			t.Errorf("word %d: expected page %d, got %d", i, p, gotPages[i])
		}
	}
}

func TestColumnLayout_WordsTopToBottom(t *testing.T) {
	tests := []struct {
		name  string
		words []Word
		want  []string
	}{
		{
			name:  "lines emitted bottom up",
			words: []Word{word("c", 50, 140), word("a", 50, 100), word("b", 50, 120)},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "same line keeps emission order",
			words: []Word{word("Default", 50, 100), word("value:", 80, 100.5), word("50", 110, 99.5)},
			want:  []string{"Default", "value:", "50"},
		},
		{
			name:  "late word joins its line",
			words: []Word{word("first", 50, 100), word("second", 50, 120), word("again", 90, 101)},
			want:  []string{"first", "again", "second"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pages := []Page{{Number: 1, Width: 600, Words: tc.words}}
			var got []string
			for pw := range DefaultColumnLayout().Words(pages) {
				got = append(got, pw.Word.Text)
			}
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("expected order %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDocument_MissingColour(t *testing.T) {
	teal := word("USAGE:", 50, 100)
	teal.Glyphs[0].Color = RGB{0, 122, 135}
	tests := []struct {
		name string
		doc  Document
		want bool
	}{
		{"empty", Document{}, false},
		{"all black", Document{Pages: []Page{{Number: 1, Words: []Word{word("a", 50, 100), word("b", 80, 100)}}}}, true},
		{"one coloured glyph", Document{Pages: []Page{{Number: 1, Words: []Word{word("a", 50, 90)}}, {Number: 2, Words: []Word{teal}}}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.doc.MissingColour(); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestColumnLayout_WordsStopsEarly(t *testing.T) {
	pages := []Page{{Number: 1, Width: 600, Words: []Word{word("a", 10, 10), word("b", 20, 10), word("c", 400, 10)}}}
	n := 0
	for range DefaultColumnLayout().Words(pages) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("expected iteration to stop after 2 words, got %d", n)
	}
}

func TestColumnLayout_Threshold(t *testing.T) {
	c := ColumnLayout{LeftMarginMM: 10, RightMarginMM: 30}
	left := 10 * PointsPerMM
	right := 30 * PointsPerMM
	want := left + (600-left-right)/2
	if got := c.Threshold(600); got != want {
		t.Errorf("expected threshold %f, got %f", want, got)
	}
}

func TestBookmarks_PageRange(t *testing.T) {
	b := Bookmarks{
		{Title: "xConfiguration commands", Page: 10},
		{Title: "xCommand commands", Page: 40},
		{Title: "xStatus commands", Page: 90},
	}

	first, last, err := b.PageRange("xConfiguration commands", "xCommand commands")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 10 || last != 39 {
		t.Errorf("expected 10..39, got %d..%d", first, last)
	}

	if _, _, err := b.PageRange("xconfiguration commands", "xCommand commands"); err == nil {
		t.Error("expected an error for a title that only matches case-insensitively")
	}
}

func TestSection_PagesTrimsTrailing(t *testing.T) {
	doc := &Document{Bookmarks: Bookmarks{{Title: "xStatus commands", Page: 2}, {Title: "Appendices", Page: 7}}}
	for i := 1; i <= 8; i++ {
		doc.Pages = append(doc.Pages, Page{Number: i})
	}

	s := Section{Name: "status", StartTitle: "xStatus commands", EndTitle: "Appendices", TrimTrailing: 2}
	pages, err := s.Pages(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 3 || pages[0].Number != 2 || pages[2].Number != 4 {
		t.Fatalf("expected pages 2..4, got %+v", pages)
	}

	s.TrimTrailing = 10
	if _, err := s.Pages(doc); err == nil {
		t.Error("expected an error when trimming empties the range")
	}
}

func TestDumpLoader_RoundTrip(t *testing.T) {
	doc := &Document{
		Title: "guide",
		Pages: []Page{{Number: 1, Width: 595, Height: 842, Words: []Word{
			{Glyphs: []Glyph{{Text: "x", Font: "Sans", Size: 8}, {Text: "Status", Font: "Sans", Size: 8}}},
		}}},
		Bookmarks: Bookmarks{{Title: "xStatus commands", Page: 1}},
	}

	var buf bytes.Buffer
	if err := WriteDump(&buf, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loader, err := ForFile("guide.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := loader.Load(&buf, "guide.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := got.Pages[0].Words[0]
	if w.Text != "xStatus" {
		t.Errorf("expected text derived from glyphs %q, got %q", "xStatus", w.Text)
	}
	if w.Page != 1 {
		t.Errorf("expected word page 1, got %d", w.Page)
	}
	if p, ok := got.Bookmarks.Find("xStatus commands"); !ok || p != 1 {
		t.Errorf("expected bookmark on page 1, got %d (found=%v)", p, ok)
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("guide.docx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if !IsSupportedExtension("Guide.PDF") {
		t.Error("expected .PDF to be supported")
	}
}

func TestPDFLoader_NotAPDF(t *testing.T) {
	l := &PDFLoader{}
	if _, err := l.Load(strings.NewReader("this is not a PDF"), "fake.pdf"); err == nil {
		t.Error("expected an error for non-PDF input")
	}
}

func TestWordGrouper_MergesOversizedQuotes(t *testing.T) {
	g := wordGrouper{page: 1}
	glyph := func(s string, x, size float64) Glyph {
		return Glyph{Text: s, Size: size, Start: Point{X: x, Y: 100}, End: Point{X: x + 4, Y: 100}}
	}
	// The opening quote is reported at 20pt and overlaps the word.
	g.add(Glyph{Text: `"`, Size: 20, Start: Point{X: 10, Y: 96}, End: Point{X: 22, Y: 96}})
	g.add(glyph("A", 14, 8))
	g.add(glyph("u", 18, 8))
	g.add(glyph("t", 22, 8))
	g.add(glyph("o", 26, 8))
	g.add(Glyph{Text: `"`, Size: 20, Start: Point{X: 30, Y: 96}, End: Point{X: 42, Y: 96}})
	g.add(glyph(" ", 42, 8))
	g.add(glyph("O", 48, 8))
	g.add(glyph("n", 52, 8))

	words := g.finish()
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d: %+v", len(words), words)
	}
	if words[0].Text != `"Auto"` {
		t.Errorf("expected %q, got %q", `"Auto"`, words[0].Text)
	}
	if words[1].Text != "On" {
		t.Errorf("expected %q, got %q", "On", words[1].Text)
	}
}

func TestWord_FirstRealGlyph(t *testing.T) {
	w := NewWord(1, []Glyph{{Text: "“", Size: 20}, {Text: "O", Size: 8}})
	g, ok := w.FirstRealGlyph()
	if !ok || g.Text != "O" {
		t.Errorf("expected first real glyph %q, got %q", "O", g.Text)
	}

	quotes := NewWord(1, []Glyph{{Text: `"`, Size: 20}})
	g, ok = quotes.FirstRealGlyph()
	if !ok || g.Size != 20 {
		t.Errorf("expected the lone quote glyph as fallback, got %+v", g)
	}
}
