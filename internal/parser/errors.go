package parser

import (
	"fmt"

	"github.com/dgallion1/xapidoc/internal/classify"
)

// UnexpectedTokenError reports a word that no transition accepts, or a
// value that could not be parsed where it was found. It carries enough to
// locate the spot in the source document.
type UnexpectedTokenError struct {
	Word   string
	Page   int
	State  State
	Style  classify.Style
	Font   string
	Size   float64
	Reason string
}

func (e *UnexpectedTokenError) Error() string {
	msg := fmt.Sprintf("unexpected token %q on page %d (state %s, style %s", e.Word, e.Page, e.State, e.Style)
	if e.Font != "" {
		msg += fmt.Sprintf(", font %s %.1fpt", e.Font, e.Size)
	}
	msg += ")"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
