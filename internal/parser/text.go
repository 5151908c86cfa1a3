package parser

import "strings"

// Baseline distances, in points, that separate a wrapped line from a new
// paragraph.
const (
	lineBreakDelta      = 3
	paragraphBreakDelta = 10
)

// joinText appends word to text given the baseline distance from the
// previous word. A wrapped line ending in '-' or '/' is a broken word and is
// rejoined without a separator.
func joinText(text, word string, delta float64) string {
	if text == "" {
		return word
	}
	if delta > lineBreakDelta && (strings.HasSuffix(text, "-") || strings.HasSuffix(text, "/")) {
		return text[:len(text)-1] + word
	}
	if delta > paragraphBreakDelta {
		return text + "\n" + word
	}
	return text + " " + word
}

// joinRaw appends word to raw value space text. Delimited lists wrap at a
// delimiter, so no space is inserted next to one.
func joinRaw(raw, word string) string {
	if raw == "" {
		return word
	}
	if endsWithDelimiter(raw) || startsWithDelimiter(word) {
		return raw + word
	}
	return raw + " " + word
}

func endsWithDelimiter(s string) bool {
	return strings.HasSuffix(s, "/") || strings.HasSuffix(s, ",")
}

func startsWithDelimiter(s string) bool {
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, ",")
}
