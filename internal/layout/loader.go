package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Loader turns raw document bytes into pages of styled words.
type Loader interface {
	Load(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists the source formats that can be loaded.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".json": true,
}

// ForFile returns the loader for a filename.
func ForFile(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFLoader{}, nil
	case ".json":
		return &DumpLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension can be loaded.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// DumpLoader reads a JSON word dump: the Document structure serialised by
// WriteDump or by an external glyph extraction tool. It is the only input
// path that carries glyph colours.
type DumpLoader struct{}

func (l *DumpLoader) Load(r io.Reader, filename string) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode word dump: %w", err)
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	for i := range doc.Pages {
		p := &doc.Pages[i]
		if p.Number == 0 {
			p.Number = i + 1
		}
		for j := range p.Words {
			w := &p.Words[j]
			if w.Text == "" {
				*w = NewWord(p.Number, w.Glyphs)
			}
			w.Page = p.Number
		}
	}
	return &doc, nil
}

// WriteDump serialises doc in the format DumpLoader reads.
func WriteDump(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
