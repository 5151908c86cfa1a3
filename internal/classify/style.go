// Package classify assigns each styled word a semantic character style from
// its typography alone.
package classify

import "fmt"

// Style is the semantic role of a word inferred from font, size and colour.
type Style int

const (
	Body Style = iota
	FamilyHeading
	NameHeading
	ProductName
	UsageHeading
	UsageExample
	ParameterName
	ValueSpace // value space text or an italic disclaimer
	ValueSpaceTerm
)

var styleNames = map[Style]string{
	Body:           "body",
	FamilyHeading:  "method-family-heading",
	NameHeading:    "method-name-heading",
	ProductName:    "product-name",
	UsageHeading:   "usage-heading",
	UsageExample:   "usage-example",
	ParameterName:  "parameter-name",
	ValueSpace:     "value-space-or-disclaimer",
	ValueSpaceTerm: "value-space-term",
}

// Styles lists every style in declaration order.
var Styles = []Style{Body, FamilyHeading, NameHeading, ProductName, UsageHeading, UsageExample, ParameterName, ValueSpace, ValueSpaceTerm}

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// ParseStyle returns the style with the given name.
func ParseStyle(name string) (Style, error) {
	for s, n := range styleNames {
		if n == name {
			return s, nil
		}
	}
	return Body, fmt.Errorf("unknown character style %q", name)
}

func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(b []byte) error {
	v, err := ParseStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
