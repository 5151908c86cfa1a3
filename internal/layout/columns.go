package layout

import (
	"cmp"
	"iter"
	"math"
	"slices"
)

// PointsPerMM converts millimetres to PDF points.
const PointsPerMM = 72 / 25.4

// lineTolerance is the baseline distance, in points, within which two words
// are on the same line.
const lineTolerance = 2.0

// ColumnLayout describes the two-column page template of the manual.
// Margins are in millimetres.
type ColumnLayout struct {
	LeftMarginMM  float64
	RightMarginMM float64
}

// DefaultColumnLayout matches the reference guide template.
func DefaultColumnLayout() ColumnLayout {
	return ColumnLayout{
		LeftMarginMM:  15,
		RightMarginMM: 15,
	}
}

// Threshold returns the X coordinate separating the left column from the
// right column on a page of the given width.
func (c ColumnLayout) Threshold(width float64) float64 {
	left := c.LeftMarginMM * PointsPerMM
	right := c.RightMarginMM * PointsPerMM
	return left + (width-left-right)/2
}

// IsLeft reports whether w starts in the left column of page p.
func (c ColumnLayout) IsLeft(p *Page, w Word) bool {
	return w.X() < c.Threshold(p.Width)
}

// Words yields every word of pages column-major: the whole left column of a
// page, then its right column, then the next page. Each column is read top
// to bottom; words on one line keep the loader's order. The sequence is
// single-pass.
func (c ColumnLayout) Words(pages []Page) iter.Seq[PageWord] {
	return func(yield func(PageWord) bool) {
		for i := range pages {
			p := &pages[i]
			for _, left := range []bool{true, false} {
				var column []Word
				for _, w := range p.Words {
					if c.IsLeft(p, w) == left {
						column = append(column, w)
					}
				}
				for _, w := range readingOrder(column) {
					if !yield(PageWord{Word: w, Page: p.Number}) {
						return
					}
				}
			}
		}
	}
}

type textLine struct {
	baseline float64
	words    []Word
}

// readingOrder sorts one column's words top to bottom. A line is keyed by
// the baseline of its first word.
func readingOrder(words []Word) []Word {
	var lines []textLine
	for _, w := range words {
		i := slices.IndexFunc(lines, func(l textLine) bool {
			return math.Abs(l.baseline-w.Baseline()) <= lineTolerance
		})
		if i < 0 {
			lines = append(lines, textLine{baseline: w.Baseline()})
			i = len(lines) - 1
		}
		lines[i].words = append(lines[i].words, w)
	}
	slices.SortStableFunc(lines, func(a, b textLine) int {
		return cmp.Compare(a.baseline, b.baseline)
	})
	out := make([]Word, 0, len(words))
	for _, l := range lines {
		out = append(out, l.words...)
	}
	return out
}
