// Package parser turns the classified word stream of one manual section into
// entities. The automaton is a dispatch table over (state, style) driving a
// single mutable Context; it is strictly sequential.
package parser

import (
	"iter"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/classify"
	"github.com/dgallion1/xapidoc/internal/layout"
)

// Parser classifies words and feeds them through the section automaton.
type Parser struct {
	classifier *classify.Classifier
}

// New returns a parser using classifier, or the embedded rule table when
// classifier is nil.
func New(classifier *classify.Classifier) *Parser {
	if classifier == nil {
		classifier = classify.Default()
	}
	return &Parser{classifier: classifier}
}

// Result summarises one section run.
type Result struct {
	Words    int
	Entities int
}

// ParseSection consumes words once, in order, appending every completed
// entity of kind to dst. The first unexpected token stops the run; entities
// finished before it stay in dst.
func (p *Parser) ParseSection(kind apitree.Kind, words iter.Seq[layout.PageWord], dst *apitree.API) (Result, error) {
	before := dst.Count(kind)
	ctx := NewContext(kind, dst)
	for pw := range words {
		if err := ctx.Feed(pw.Word, pw.Page, p.classifier.Classify(pw.Word)); err != nil {
			return Result{Words: ctx.Words(), Entities: dst.Count(kind) - before}, err
		}
	}
	err := ctx.Finish()
	return Result{Words: ctx.Words(), Entities: dst.Count(kind) - before}, err
}

// ParseSection parses with the embedded rule table.
func ParseSection(kind apitree.Kind, words iter.Seq[layout.PageWord], dst *apitree.API) error {
	_, err := New(nil).ParseSection(kind, words, dst)
	return err
}
