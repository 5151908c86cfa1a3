package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/classify"
	"github.com/dgallion1/xapidoc/internal/layout"
)

// heldWord is a word consumed by a heading phrase that may still turn out
// to be ordinary text.
type heldWord struct {
	word  layout.Word
	page  int
	delta float64
}

// Context is the complete mutable state of one section parse. Feed it the
// section's words in reading order, then call Finish. A Context is not safe
// for concurrent use.
type Context struct {
	kind apitree.Kind
	dst  *apitree.API

	state     State
	lastStyle classify.Style
	fed       int
	baseline  float64

	// the word being handled
	word  layout.Word
	page  int
	style classify.Style
	delta float64

	entity apitree.Entity
	err    error

	phrase    heading
	held      []heldWord
	fallback  State
	replaying bool

	product     string // product name fragment awaiting its next word
	productSink func(apitree.Product)

	required   map[string]bool
	usageIndex int
	usagePrev  string

	param        apitree.Parameter
	pendingName  string
	pendingSpace string
	delim        string
	enumFragment string
	enumOpen     bool
	enumDone     bool
	defaultSeen  bool
	defaultDone  bool

	termWords []string
	termText  *string
	termRange *apitree.Range

	rawSpace     string
	spaceNote    string
	spacePending bool
}

// NewContext returns a context that parses one section of kind into dst.
func NewContext(kind apitree.Kind, dst *apitree.API) *Context {
	return &Context{kind: kind, dst: dst, state: Start}
}

// State returns the current automaton state.
func (c *Context) State() State { return c.state }

// Entity returns the entity being built, or nil between entities.
func (c *Context) Entity() apitree.Entity { return c.entity }

// Words returns the number of words fed so far.
func (c *Context) Words() int { return c.fed }

// Feed consumes one classified word. After an error the context is dead
// and every later call returns the same error.
func (c *Context) Feed(w layout.Word, page int, style classify.Style) error {
	if c.err != nil {
		return c.err
	}
	b := w.Baseline()
	c.word, c.page, c.style = w, page, style
	c.delta = 0
	if c.fed > 0 {
		c.delta = math.Abs(b - c.baseline)
	}

	err := c.flushProductsBefore()
	if err == nil {
		err = c.dispatch()
	}
	c.baseline = b
	c.lastStyle = style
	c.fed++
	if err != nil {
		c.err = err
	}
	return err
}

// Finish completes the entity in progress and appends it to the
// destination.
func (c *Context) Finish() error {
	if c.err != nil {
		return c.err
	}
	err := c.releaseHeading()
	if err == nil {
		err = c.flushProducts()
	}
	if err == nil {
		err = c.finalize()
	}
	if err != nil {
		c.err = err
		return err
	}
	c.state = Start
	return nil
}

func (c *Context) dispatch() error {
	t, ok := transitions[c.state][c.style]
	if !ok {
		return c.unexpected("no transition")
	}
	return t(c)
}

func (c *Context) unexpected(reason string) error {
	e := &UnexpectedTokenError{
		Word:   c.word.Text,
		Page:   c.page,
		State:  c.state,
		Style:  c.style,
		Reason: reason,
	}
	if g, ok := c.word.FirstRealGlyph(); ok {
		e.Font, e.Size = g.Font, g.Size
	}
	return e
}

func (c *Context) unexpectedf(format string, args ...any) error {
	return c.unexpected(fmt.Sprintf(format, args...))
}

func (c *Context) text() string { return c.word.Text }

// begin starts a new entity and clears all per-entity scratch.
func (c *Context) begin() {
	c.entity = apitree.New(c.kind)
	c.required = make(map[string]bool)
	c.usageIndex, c.usagePrev = 0, ""
	c.resetParameter()
	c.resetStatusSpace()
}

// finalize closes the current entity and hands it to the destination.
func (c *Context) finalize() error {
	if c.entity == nil {
		return nil
	}
	if err := c.flushProducts(); err != nil {
		return err
	}
	if err := c.finishParameter(); err != nil {
		return err
	}
	if s, ok := c.entity.(*apitree.Status); ok {
		if err := c.convertStatusSpace(); err != nil {
			return err
		}
		if s.ValueSpace == nil {
			return c.unexpectedf("status %q has no value space", s.Name())
		}
	}
	c.dst.Add(c.entity)
	c.entity = nil
	return nil
}

// startHeading enters the first of hs whose opening word is the current
// word. It reports whether the word was consumed.
func (c *Context) startHeading(hs ...heading) bool {
	if c.replaying {
		return false
	}
	for _, h := range hs {
		if c.text() != h.words[0] {
			continue
		}
		c.phrase = h
		c.fallback = c.state
		c.held = append(c.held[:0], heldWord{c.word, c.page, c.delta})
		c.state = h.state
		return true
	}
	return false
}

func (c *Context) continueHeading() error {
	h := c.phrase
	if c.text() != h.words[len(c.held)] {
		return c.abandonHeading()
	}
	c.held = append(c.held, heldWord{c.word, c.page, c.delta})
	if len(c.held) < len(h.words) {
		return nil
	}
	c.held = c.held[:0]
	return c.enterBlock(h.next)
}

// abandonHeading replays the held words as text of the state the phrase
// interrupted, then handles the current word there.
func (c *Context) abandonHeading() error {
	if err := c.releaseHeading(); err != nil {
		return err
	}
	return c.dispatch()
}

func (c *Context) releaseHeading() error {
	if !isHeadingState(c.state) {
		return nil
	}
	held := c.held
	c.held = nil
	c.state = c.fallback

	word, page, style, delta := c.word, c.page, c.style, c.delta
	c.replaying = true
	defer func() {
		c.replaying = false
		c.word, c.page, c.style, c.delta = word, page, style, delta
	}()
	for _, h := range held {
		c.word, c.page, c.style, c.delta = h.word, h.page, classify.Body, h.delta
		if err := c.dispatch(); err != nil {
			return err
		}
	}
	return nil
}

// enterBlock moves into the block a completed heading introduces.
func (c *Context) enterBlock(next State) error {
	switch next {
	case DefaultValue:
		if c.param == nil {
			return c.unexpected("default value outside a parameter")
		}
		if err := c.resolvePendingTerm(); err != nil {
			return err
		}
		c.defaultSeen, c.defaultDone = false, false
	case StatusValueSpace:
		s, ok := c.entity.(*apitree.Status)
		if !ok {
			return c.unexpected("result value space outside a status entry")
		}
		if s.ValueSpace != nil || c.spacePending {
			return c.unexpectedf("status %q has a second value space", s.Name())
		}
		c.resetStatusSpace()
	}
	c.state = next
	return nil
}

// resetParameter clears per-parameter scratch.
func (c *Context) resetParameter() {
	c.param = nil
	c.pendingName, c.pendingSpace = "", ""
	c.delim, c.enumFragment = "", ""
	c.enumOpen, c.enumDone = false, false
	c.defaultSeen, c.defaultDone = false, false
	c.termWords, c.termText, c.termRange = nil, nil, nil
}

func (c *Context) resetStatusSpace() {
	c.rawSpace, c.spaceNote, c.spacePending = "", "", false
}

// finishParameter completes the current parameter. An untyped pending
// parameter is typed from its accumulated text.
func (c *Context) finishParameter() error {
	if c.param == nil && c.pendingName != "" {
		if err := c.typePending(); err != nil {
			return err
		}
	}
	c.resetParameter()
	return nil
}

func (c *Context) findParameter(name string) apitree.Parameter {
	switch e := c.entity.(type) {
	case *apitree.Configuration:
		return e.Parameter(name)
	case *apitree.Command:
		return e.Parameter(name)
	}
	return nil
}

func (c *Context) attach(p apitree.Parameter) {
	switch e := c.entity.(type) {
	case *apitree.Configuration:
		e.Parameters = append(e.Parameters, p)
	case *apitree.Command:
		e.Parameters = append(e.Parameters, p)
	}
}

func (c *Context) isRequired(name string) bool {
	return c.kind == apitree.KindConfiguration || c.required[name]
}

// createParameter makes the pending parameter current with type t.
func (c *Context) createParameter(t apitree.ParamType) (apitree.Parameter, error) {
	p, err := apitree.NewParameter(t, c.pendingName)
	if err != nil {
		return nil, c.unexpected(err.Error())
	}
	b := p.Common()
	b.ValueSpace = c.pendingSpace
	b.Required = c.isRequired(c.pendingName)
	c.attach(p)
	c.param = p
	c.pendingName, c.pendingSpace = "", ""
	return p, nil
}

// typePending types the pending parameter from its value space text using
// the same rules as a status result.
func (c *Context) typePending() error {
	name, raw := c.pendingName, c.pendingSpace
	if strings.TrimSpace(raw) == "" {
		return c.unexpectedf("parameter %q has no value space", name)
	}
	vs, err := ParseValueSpace(raw)
	if err != nil {
		return c.unexpected(err.Error())
	}
	p, err := c.createParameter(vs.ValueType())
	if err != nil {
		return err
	}
	switch v := vs.(type) {
	case *apitree.IntegerValueSpace:
		p.(*apitree.IntegerParameter).Ranges = v.Ranges
	case *apitree.EnumValueSpace:
		p.(*apitree.EnumParameter).Values = v.Values
	}
	return nil
}

// convertStatusSpace types the accumulated status result text.
func (c *Context) convertStatusSpace() error {
	if !c.spacePending {
		return nil
	}
	s := c.entity.(*apitree.Status)
	if strings.TrimSpace(c.rawSpace) == "" {
		return c.unexpectedf("status %q has an empty value space", s.Name())
	}
	vs, err := ParseValueSpace(c.rawSpace)
	if err != nil {
		return c.unexpected(err.Error())
	}
	vs.Space().Description = c.spaceNote
	s.ValueSpace = vs
	c.resetStatusSpace()
	return nil
}

// productWord adds one word of a product list. Names split across words are
// held until they match a product that no longer name begins with, or end
// in a list delimiter.
func (c *Context) productWord(sink func(apitree.Product)) error {
	text := c.text()
	word := strings.TrimRight(text, ",;.")
	closed := len(word) < len(text)
	if word == "" {
		return nil
	}
	if c.product == "" && (word == "All" || word == "products") {
		return nil
	}

	candidate := word
	if c.product != "" {
		candidate = c.product + " " + word
	}
	p, exact := apitree.LookupProduct(candidate)
	switch {
	case exact && (closed || !apitree.IsProductPrefix(candidate)):
		sink(p)
		c.product, c.productSink = "", nil
	case exact || apitree.IsProductPrefix(candidate):
		c.product, c.productSink = candidate, sink
	case c.product != "" && isProduct(c.product):
		c.productSink(apitree.Product(c.product))
		c.product, c.productSink = "", nil
		return c.productWord(sink)
	case closed:
		return c.unexpectedf("unknown product %q", candidate)
	default:
		c.product, c.productSink = candidate, sink
	}
	return nil
}

func isProduct(s string) bool {
	_, ok := apitree.LookupProduct(s)
	return ok
}

// flushProducts commits a held product fragment.
func (c *Context) flushProducts() error {
	if c.product == "" {
		return nil
	}
	name := c.product
	p, ok := apitree.LookupProduct(name)
	if !ok {
		return c.unexpectedf("unknown product %q", name)
	}
	c.productSink(p)
	c.product, c.productSink = "", nil
	return nil
}

func (c *Context) flushProductsBefore() error {
	if c.style == classify.ProductName {
		return nil
	}
	return c.flushProducts()
}

// appendDescription joins the current word onto the entity description.
func (c *Context) appendDescription() error {
	b := c.entity.Meta()
	b.Description = joinText(b.Description, c.text(), c.delta)
	return nil
}

func (c *Context) appendParameterDescription() error {
	b := c.param.Common()
	b.Description = joinText(b.Description, c.text(), c.delta)
	return nil
}

func trimLeadingQuote(s string) string {
	for _, q := range []string{`"`, "“", "”", "„", "″"} {
		if strings.HasPrefix(s, q) {
			return s[len(q):]
		}
	}
	return s
}

func trimTrailingQuote(s string) string {
	for _, q := range []string{`"`, "“", "”", "„", "″"} {
		if strings.HasSuffix(s, q) {
			return s[:len(s)-len(q)]
		}
	}
	return s
}
