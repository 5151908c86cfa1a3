package layout

import "fmt"

// Bookmark is an outline entry and the page its destination points at.
type Bookmark struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// Bookmarks is a document outline flattened in document order.
type Bookmarks []Bookmark

// Find returns the page of the first bookmark whose title equals title.
func (b Bookmarks) Find(title string) (int, bool) {
	for _, bm := range b {
		if bm.Title == title {
			return bm.Page, true
		}
	}
	return 0, false
}

// PageRange returns the inclusive page range starting at the bookmark
// titled start and ending on the page before the bookmark titled end.
func (b Bookmarks) PageRange(start, end string) (int, int, error) {
	first, ok := b.Find(start)
	if !ok {
		return 0, 0, fmt.Errorf("bookmark %q not found", start)
	}
	next, ok := b.Find(end)
	if !ok {
		return 0, 0, fmt.Errorf("bookmark %q not found", end)
	}
	last := next - 1
	if last < first {
		last = first
	}
	return first, last, nil
}

// Section locates one chapter of the manual by its delimiting bookmarks.
type Section struct {
	Name       string
	StartTitle string
	EndTitle   string
	// TrimTrailing drops pages at the end of the range that belong to a
	// chapter without a bookmark of its own.
	TrimTrailing int
}

// Pages returns the pages of doc that belong to the section, in order.
func (s Section) Pages(doc *Document) ([]Page, error) {
	first, last, err := doc.Bookmarks.PageRange(s.StartTitle, s.EndTitle)
	if err != nil {
		return nil, fmt.Errorf("section %s: %w", s.Name, err)
	}
	last -= s.TrimTrailing
	if last < first {
		return nil, fmt.Errorf("section %s: trimming %d pages leaves an empty range", s.Name, s.TrimTrailing)
	}

	var pages []Page
	for n := first; n <= last; n++ {
		if p, ok := doc.Page(n); ok {
			pages = append(pages, *p)
		}
	}
	return pages, nil
}
