package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/classify"
)

type transition func(c *Context) error

// transitions is the dispatch table over (state, style). A missing entry is
// an unexpected token.
var transitions map[State]map[classify.Style]transition

func init() {
	transitions = buildTransitions()
}

var (
	placeholderRe = regexp.MustCompile(`^\[([a-z])\]$`)
	positionalRe  = regexp.MustCompile(`^([A-Za-z]*)\[([a-z])\]:?$`)
	usageRangeRe  = regexp.MustCompile(`^\[(-?\d+)\.\.(-?\d+)\]:?$`)
	rangeRe       = regexp.MustCompile(`^\(?(-?\d+)\.\.(-?\d+)\)?[,.;]?$`)
	termRangeRe   = regexp.MustCompile(`^\(?(-?\d+)\.\.(-?\d+)\)?$`)
	roleRe        = regexp.MustCompile(`^[A-Z][A-Z_]*,?$`)
	lengthBothRe  = regexp.MustCompile(`^\((\d+),\s*(\d+)\)$`)
	lengthMinRe   = regexp.MustCompile(`^\((\d+),$`)
	lengthMaxRe   = regexp.MustCompile(`^(\d+)\)$`)
)

func buildTransitions() map[State]map[classify.Style]transition {
	t := map[State]map[classify.Style]transition{
		Start: {
			classify.Body:          ignore,
			classify.ValueSpace:    ignore,
			classify.ParameterName: ignore,
			classify.ProductName:   ignore,
		},
		MethodNameHeading: {
			classify.Body:         (*Context).narrativeBody,
			classify.ValueSpace:   (*Context).descriptionText,
			classify.UsageHeading: (*Context).usageHeading,
		},
		AppliesTo: {
			classify.ProductName:  (*Context).appliesToProduct,
			classify.Body:         (*Context).appliesToBody,
			classify.UsageHeading: (*Context).usageHeading,
		},
		Roles: {
			classify.Body:         (*Context).roleWord,
			classify.UsageHeading: (*Context).usageHeading,
		},
		Description: {
			classify.Body:           (*Context).narrativeBody,
			classify.ValueSpace:     (*Context).descriptionText,
			classify.ProductName:    (*Context).descriptionText,
			classify.ParameterName:  (*Context).descriptionText,
			classify.UsageExample:   (*Context).descriptionText,
			classify.ValueSpaceTerm: (*Context).descriptionText,
			classify.UsageHeading:   (*Context).usageHeading,
		},
		Usage: {
			classify.UsageExample:  (*Context).usageWord,
			classify.ParameterName: (*Context).usageWord,
			classify.Body:          (*Context).usageBody,
			classify.UsageHeading:  (*Context).usageHeading,
		},
		UsageWhere: {
			classify.ParameterName: (*Context).parameterHeader,
		},
		ParameterValueSpace: {
			classify.ValueSpace:     (*Context).parameterValueSpace,
			classify.ProductName:    (*Context).parameterValueSpace,
			classify.Body:           (*Context).parameterBody,
			classify.ValueSpaceTerm: (*Context).term,
			classify.ParameterName:  (*Context).parameterHeader,
			classify.UsageHeading:   (*Context).usageHeading,
		},
		ParameterDescription: {
			classify.Body:           (*Context).parameterDescriptionBody,
			classify.ValueSpace:     (*Context).appendParameterDescription,
			classify.UsageExample:   (*Context).appendParameterDescription,
			classify.ProductName:    (*Context).parameterProduct,
			classify.ValueSpaceTerm: (*Context).term,
			classify.ParameterName:  (*Context).parameterHeader,
			classify.UsageHeading:   (*Context).usageHeading,
		},
		TermDefinition: {
			classify.Body:           (*Context).termBody,
			classify.ValueSpace:     (*Context).termDescription,
			classify.UsageExample:   (*Context).termDescription,
			classify.ProductName:    (*Context).termProduct,
			classify.ValueSpaceTerm: (*Context).term,
			classify.ParameterName:  (*Context).parameterHeader,
			classify.UsageHeading:   (*Context).usageHeading,
		},
		DefaultValue: {
			classify.Body:          (*Context).defaultWord,
			classify.ValueSpace:    (*Context).appendParameterDescription,
			classify.ParameterName: (*Context).parameterHeader,
			classify.UsageHeading:  (*Context).usageHeading,
		},
		StatusValueSpace: {
			classify.ValueSpace:     (*Context).statusSpaceWord,
			classify.ProductName:    (*Context).statusSpaceProduct,
			classify.Body:           (*Context).statusSpaceBody,
			classify.ValueSpaceTerm: (*Context).term,
			classify.UsageHeading:   (*Context).usageHeading,
		},
		StatusDescription: {
			classify.Body:           (*Context).statusDescriptionText,
			classify.ValueSpace:     (*Context).statusDescriptionText,
			classify.ProductName:    (*Context).statusDescriptionText,
			classify.ValueSpaceTerm: (*Context).term,
			classify.UsageHeading:   (*Context).usageHeading,
		},
		Example: {
			classify.Body:           (*Context).exampleBody,
			classify.UsageExample:   ignore,
			classify.ValueSpace:     ignore,
			classify.ParameterName:  ignore,
			classify.ProductName:    ignore,
			classify.ValueSpaceTerm: ignore,
			classify.UsageHeading:   ignore,
		},
	}

	for _, s := range States {
		if isHeadingState(s) {
			row := make(map[classify.Style]transition, len(classify.Styles))
			for _, style := range classify.Styles {
				row[style] = (*Context).abandonHeading
			}
			row[classify.Body] = (*Context).continueHeading
			t[s] = row
			continue
		}
		row := t[s]
		row[classify.FamilyHeading] = (*Context).familyHeading
		row[classify.NameHeading] = (*Context).nameHeading
	}
	return t
}

func ignore(*Context) error { return nil }

func (c *Context) familyHeading() error {
	if err := c.finalize(); err != nil {
		return err
	}
	c.state = Start
	return nil
}

// nameHeading appends one path segment, starting a new entity when the
// heading begins.
func (c *Context) nameHeading() error {
	if c.entity == nil || c.lastStyle != classify.NameHeading {
		if err := c.finalize(); err != nil {
			return err
		}
		c.begin()
	}
	text := c.text()
	base := c.entity.Meta()
	base.Path = append(base.Path, text)
	if s, ok := c.entity.(*apitree.Status); ok {
		if m := placeholderRe.FindStringSubmatch(text); m != nil {
			p := apitree.NewIntegerParameter(m[1])
			p.Required, p.Positional, p.PathIndex = true, true, len(base.Path)-1
			s.Parameters = append(s.Parameters, p)
		}
	}
	c.state = MethodNameHeading
	return nil
}

// narrativeBody handles body text between the name heading and the usage
// block.
func (c *Context) narrativeBody() error {
	hs := []heading{appliesToHeading, roleHeading}
	if c.kind == apitree.KindStatus {
		hs = append(hs, statusValueSpaceHeading)
	}
	if c.startHeading(hs...) {
		return nil
	}
	c.state = Description
	return c.appendDescription()
}

func (c *Context) descriptionText() error {
	c.state = Description
	return c.appendDescription()
}

func (c *Context) appliesToProduct() error {
	return c.productWord(c.entity.Meta().AddProduct)
}

func (c *Context) appliesToBody() error {
	if word := strings.TrimRight(c.text(), ",;."); word == "All" || word == "products" {
		return nil
	}
	return c.narrativeBody()
}

func (c *Context) roleWord() error {
	if roleRe.MatchString(c.text()) {
		c.entity.Meta().AddRole(apitree.Role(strings.TrimSuffix(c.text(), ",")))
		return nil
	}
	return c.narrativeBody()
}

func (c *Context) usageHeading() error {
	switch c.state {
	case StatusValueSpace:
		if err := c.convertStatusSpace(); err != nil {
			return err
		}
	case ParameterValueSpace, ParameterDescription, TermDefinition, DefaultValue:
		if err := c.finishParameter(); err != nil {
			return err
		}
	}
	if c.kind == apitree.KindStatus {
		c.state = Example
		return nil
	}
	switch c.text() {
	case "USAGE:":
		c.state = Usage
		c.usageIndex, c.usagePrev = 0, ""
		c.addBodyParameter()
	case "Example:":
		c.state = Example
	default:
		return c.unexpected(`expected "USAGE:" or "Example:"`)
	}
	return nil
}

// addBodyParameter declares the implicit multiline payload of commands
// whose description says they take one.
func (c *Context) addBodyParameter() {
	cmd, ok := c.entity.(*apitree.Command)
	if !ok || cmd.Parameter("body") != nil {
		return
	}
	if !strings.Contains(strings.ToLower(cmd.Description), "multiline") {
		return
	}
	p := apitree.NewStringParameter("body")
	p.Required = true
	cmd.Parameters = append(cmd.Parameters, p)
}

// usageWord inspects one word of the usage example for positional
// parameters and, for commands, required argument names.
func (c *Context) usageWord() error {
	text := c.text()
	idx := c.usageIndex
	prev := c.usagePrev
	c.usageIndex++
	c.usagePrev = text

	if m := positionalRe.FindStringSubmatch(text); m != nil {
		_, err := c.positional(m[2], idx)
		return err
	}
	if m := usageRangeRe.FindStringSubmatch(text); m != nil && isBareWord(prev) {
		p, err := c.positional(prev, idx)
		if err != nil {
			return err
		}
		if _, err := parseRange(p.AddRange, m[1], m[2]); err != nil {
			return c.unexpected(err.Error())
		}
		return nil
	}
	if c.kind == apitree.KindCommand && strings.HasSuffix(text, ":") && !strings.HasPrefix(text, "[") {
		c.required[strings.TrimSuffix(text, ":")] = true
	}
	return nil
}

func isBareWord(s string) bool {
	return s != "" && !strings.ContainsAny(s, "[]:")
}

// positional returns the positional integer parameter called name,
// declaring it at path index idx when new.
func (c *Context) positional(name string, idx int) (*apitree.IntegerParameter, error) {
	if existing := c.findParameter(name); existing != nil {
		p, ok := existing.(*apitree.IntegerParameter)
		if !ok {
			return nil, c.unexpectedf("positional parameter %q is not an integer", name)
		}
		return p, nil
	}
	p := apitree.NewIntegerParameter(name)
	p.Required, p.Positional, p.PathIndex = true, true, idx
	c.attach(p)
	return p, nil
}

func (c *Context) usageBody() error {
	if c.text() != "where" {
		return c.unexpected(`expected "where" after the usage example`)
	}
	c.state = UsageWhere
	return nil
}

// parameterHeader starts a parameter block. A name already declared by the
// usage example makes that parameter current again.
func (c *Context) parameterHeader() error {
	if c.kind == apitree.KindStatus {
		return c.unexpected("parameter header in a status entry")
	}
	if err := c.finishParameter(); err != nil {
		return err
	}
	name := strings.TrimSuffix(strings.TrimSpace(c.text()), ":")
	if name == "" {
		return c.unexpected("empty parameter name")
	}
	if existing := c.findParameter(name); existing != nil {
		c.param = existing
	} else {
		c.pendingName = name
	}
	c.state = ParameterValueSpace
	return nil
}

// parameterValueSpace types the pending parameter from its first
// recognisable value space word, then refines it with later ones.
func (c *Context) parameterValueSpace() error {
	text := c.text()
	if c.param == nil {
		if c.pendingName == "" {
			return c.unexpected("value space without a parameter")
		}
		c.pendingSpace = joinRaw(c.pendingSpace, text)
		if c.style == classify.ProductName {
			return nil
		}
		switch {
		case text == "Integer":
			_, err := c.createParameter(apitree.TypeInteger)
			return err
		case text == "String":
			_, err := c.createParameter(apitree.TypeString)
			return err
		case rangeRe.MatchString(text):
			m := rangeRe.FindStringSubmatch(text)
			p, err := c.createParameter(apitree.TypeInteger)
			if err != nil {
				return err
			}
			if _, err := parseRange(p.(*apitree.IntegerParameter).AddRange, m[1], m[2]); err != nil {
				return c.unexpected(err.Error())
			}
			return nil
		case strings.ContainsAny(text, "/,"):
			raw := c.pendingSpace
			p, err := c.createParameter(apitree.TypeEnum)
			if err != nil {
				return err
			}
			c.addEnumText(&p.(*apitree.EnumParameter).Values, raw)
			return nil
		}
		return nil
	}

	b := c.param.Common()
	if c.style == classify.ProductName {
		b.ValueSpace = joinText(b.ValueSpace, text, c.delta)
		return nil
	}
	glued := false
	switch p := c.param.(type) {
	case *apitree.IntegerParameter:
		if m := rangeRe.FindStringSubmatch(text); m != nil {
			if _, err := parseRange(p.AddRange, m[1], m[2]); err != nil {
				return c.unexpected(err.Error())
			}
		}
	case *apitree.EnumParameter:
		if c.continuesEnum(text) {
			glued = c.addEnumText(&p.Values, text)
		} else {
			c.enumDone, c.enumFragment = true, ""
		}
	case *apitree.StringParameter:
		if err := c.stringLength(p, text); err != nil {
			return err
		}
	}
	if glued {
		b.ValueSpace += text
	} else {
		b.ValueSpace = joinRaw(b.ValueSpace, text)
	}
	return nil
}

// addEnumText adds the delimited values of text. A final value without a
// closing delimiter may be the first half of a word broken across lines;
// it is merged with the first value of the next line. It reports whether
// such a merge happened.
func (c *Context) addEnumText(values *apitree.EnumSet, text string) bool {
	if c.delim == "" {
		c.delim = "/"
		if strings.Contains(text, ",") && !strings.Contains(text, "/") {
			c.delim = ","
		}
	}
	glued := false
	last := ""
	for i, seg := range strings.Split(text, c.delim) {
		seg = strings.TrimSpace(seg)
		if i == 0 && c.enumFragment != "" && seg != "" && c.delta > lineBreakDelta {
			values.Remove(c.enumFragment)
			seg = c.enumFragment + seg
			glued = true
		}
		if seg != "" {
			values.Add(seg)
		}
		last = seg
	}
	c.enumFragment = ""
	c.enumOpen = strings.HasSuffix(strings.TrimSpace(text), c.delim)
	if !c.enumOpen {
		c.enumFragment = last
	}
	return glued
}

// continuesEnum reports whether text still belongs to the delimited value
// list. The list ends at the first word that has no delimiter and does not
// follow a trailing one; later words are notes such as disclaimers.
func (c *Context) continuesEnum(text string) bool {
	if c.enumDone {
		return false
	}
	return c.delim == "" || c.enumOpen || strings.Contains(text, c.delim)
}

func (c *Context) stringLength(p *apitree.StringParameter, text string) error {
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	switch {
	case lengthBothRe.MatchString(text):
		m := lengthBothRe.FindStringSubmatch(text)
		if err := p.SetLength(atoi(m[1]), atoi(m[2])); err != nil {
			return c.unexpected(err.Error())
		}
	case lengthMinRe.MatchString(text):
		p.MinLength = atoi(lengthMinRe.FindStringSubmatch(text)[1])
	case lengthMaxRe.MatchString(text):
		if err := p.SetLength(p.MinLength, atoi(lengthMaxRe.FindStringSubmatch(text)[1])); err != nil {
			return c.unexpected(err.Error())
		}
	}
	return nil
}

// parameterBody ends the value space block. A parameter still untyped is
// typed from its text.
func (c *Context) parameterBody() error {
	if c.param == nil {
		if c.pendingName == "" {
			return c.unexpected("description without a parameter")
		}
		if err := c.typePending(); err != nil {
			return err
		}
	}
	c.state = ParameterDescription
	return c.parameterDescriptionBody()
}

func (c *Context) parameterDescriptionBody() error {
	if c.startHeading(defaultValueHeading) {
		return nil
	}
	return c.appendParameterDescription()
}

func (c *Context) parameterProduct() error {
	if err := c.productWord(c.param.Common().AddProduct); err != nil {
		return err
	}
	return c.appendParameterDescription()
}

// term handles one word of a bold italic term naming an enum value or a
// numeric range. Its definition follows in body text.
func (c *Context) term() error {
	switch c.state {
	case ParameterValueSpace:
		if c.param == nil {
			if err := c.typePending(); err != nil {
				return err
			}
		}
	case StatusValueSpace:
		if err := c.convertStatusSpace(); err != nil {
			return err
		}
	}
	if c.kind != apitree.KindStatus && c.param == nil {
		return c.unexpected("term outside a parameter")
	}
	c.state = TermDefinition
	c.termText, c.termRange = nil, nil
	c.termWords = append(c.termWords, c.text())
	if !strings.HasSuffix(c.text(), ":") {
		return nil
	}
	return c.resolveTerm()
}

// resolvePendingTerm closes a term whose last word lacked a colon.
func (c *Context) resolvePendingTerm() error {
	if len(c.termWords) == 0 {
		return nil
	}
	return c.resolveTerm()
}

// resolveTerm points the definition target at what the finished term names.
func (c *Context) resolveTerm() error {
	name := strings.TrimSuffix(strings.Join(c.termWords, " "), ":")
	c.termWords = nil

	var values *apitree.EnumSet
	var ranges *apitree.Ranges
	var fallback *string
	if s, ok := c.entity.(*apitree.Status); ok {
		if s.ValueSpace == nil {
			return c.unexpected("term before the status value space")
		}
		fallback = &s.ValueSpace.Space().Description
		switch v := s.ValueSpace.(type) {
		case *apitree.EnumValueSpace:
			values = &v.Values
		case *apitree.IntegerValueSpace:
			ranges = &v.Ranges
		}
	} else {
		fallback = &c.param.Common().Description
		switch p := c.param.(type) {
		case *apitree.EnumParameter:
			values = &p.Values
		case *apitree.IntegerParameter:
			ranges = &p.Ranges
		}
	}

	switch {
	case values != nil:
		v := values.Find(name)
		if v == nil {
			return c.unexpectedf("term %q names no declared value", name)
		}
		c.termText = &v.Description
	case ranges != nil && termRangeRe.MatchString(name):
		m := termRangeRe.FindStringSubmatch(name)
		r, err := parseRange(ranges.Add, m[1], m[2])
		if err != nil {
			return c.unexpected(err.Error())
		}
		c.termRange = r
		c.termText = &r.Description
	default:
		*fallback = joinText(*fallback, name+":", c.delta)
		c.termText = fallback
	}
	return nil
}

func (c *Context) termBody() error {
	if err := c.resolvePendingTerm(); err != nil {
		return err
	}
	if c.kind != apitree.KindStatus && c.startHeading(defaultValueHeading) {
		return nil
	}
	return c.termDescription()
}

func (c *Context) termDescription() error {
	if err := c.resolvePendingTerm(); err != nil {
		return err
	}
	if c.termText == nil {
		return c.unexpected("definition without a term")
	}
	*c.termText = joinText(*c.termText, c.text(), c.delta)
	return nil
}

func (c *Context) termProduct() error {
	if err := c.resolvePendingTerm(); err != nil {
		return err
	}
	if c.termRange != nil {
		if err := c.productWord(c.termRange.AddProduct); err != nil {
			return err
		}
	}
	return c.termDescription()
}

// defaultWord captures the default value. String defaults are printed as
// quoted literals, possibly across several words; capture stops at the word
// carrying the closing quote. Words after the default describe the parameter.
func (c *Context) defaultWord() error {
	b := c.param.Common()
	text := c.text()
	switch {
	case c.defaultDone:
		b.Description = joinText(b.Description, text, c.delta)
		return nil
	case !c.defaultSeen:
		c.defaultSeen = true
		if _, ok := c.param.(*apitree.StringParameter); !ok {
			b.Default, c.defaultDone = text, true
			return nil
		}
		unquoted := trimLeadingQuote(text)
		if unquoted == text {
			b.Default, c.defaultDone = text, true
			return nil
		}
		text = unquoted
		b.Default = ""
	default:
		b.Default += " "
	}
	if closed := trimTrailingQuote(text); closed != text {
		text, c.defaultDone = closed, true
	}
	b.Default += text
	return nil
}

func (c *Context) statusSpaceWord() error {
	c.rawSpace = joinRaw(c.rawSpace, c.text())
	c.spacePending = true
	return nil
}

func (c *Context) statusSpaceProduct() error {
	c.spaceNote = joinText(c.spaceNote, c.text(), c.delta)
	return nil
}

func (c *Context) statusSpaceBody() error {
	if err := c.convertStatusSpace(); err != nil {
		return err
	}
	c.state = StatusDescription
	return c.statusDescriptionText()
}

func (c *Context) statusDescriptionText() error {
	s := c.entity.(*apitree.Status)
	if s.ValueSpace == nil {
		return c.unexpected("description before the status value space")
	}
	vs := s.ValueSpace.Space()
	vs.Description = joinText(vs.Description, c.text(), c.delta)
	return nil
}

func (c *Context) exampleBody() error {
	if c.kind == apitree.KindStatus && !c.spacePending {
		if s := c.entity.(*apitree.Status); s.ValueSpace == nil {
			c.startHeading(statusValueSpaceHeading)
		}
	}
	return nil
}
