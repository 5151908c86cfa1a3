package apitree

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// ParamType is the variant of a parameter or value space.
type ParamType string

const (
	TypeInteger ParamType = "integer"
	TypeString  ParamType = "string"
	TypeEnum    ParamType = "enum"
)

// ParameterBase holds the fields every parameter variant carries.
type ParameterBase struct {
	Type        ParamType `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ValueSpace  string    `json:"value_space,omitempty"` // the value space as printed
	Required    bool      `json:"required"`
	Default     string    `json:"default,omitempty"`
	Products    []Product `json:"products,omitempty"`
}

// Parameter is implemented by *IntegerParameter, *StringParameter and
// *EnumParameter.
type Parameter interface {
	Common() *ParameterBase
}

func (p *ParameterBase) Common() *ParameterBase { return p }

// AddProduct records pr once.
func (p *ParameterBase) AddProduct(pr Product) {
	if !slices.Contains(p.Products, pr) {
		p.Products = append(p.Products, pr)
	}
}

// Range is an inclusive numeric interval of an integer value space.
type Range struct {
	Min         int       `json:"min"`
	Max         int       `json:"max"`
	Description string    `json:"description,omitempty"`
	Products    []Product `json:"products,omitempty"`
}

func (r *Range) String() string {
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

// AddProduct records p once.
func (r *Range) AddProduct(p Product) {
	if !slices.Contains(r.Products, p) {
		r.Products = append(r.Products, p)
	}
}

// NewRange returns the range min..max, or an error when min > max.
func NewRange(min, max int) (*Range, error) {
	if min > max {
		return nil, fmt.Errorf("range %d..%d: minimum exceeds maximum", min, max)
	}
	return &Range{Min: min, Max: max}, nil
}

// Ranges is an ordered list of ranges without duplicate bounds.
type Ranges []*Range

// Find returns the range with exactly these bounds, or nil.
func (rs Ranges) Find(min, max int) *Range {
	for _, r := range rs {
		if r.Min == min && r.Max == max {
			return r
		}
	}
	return nil
}

// Add appends min..max unless an equal range exists, returning the range
// either way.
func (rs *Ranges) Add(min, max int) (*Range, error) {
	if r := rs.Find(min, max); r != nil {
		return r, nil
	}
	r, err := NewRange(min, max)
	if err != nil {
		return nil, err
	}
	*rs = append(*rs, r)
	return r, nil
}

// IntegerParameter is a numeric parameter. Positional parameters are array
// indexes embedded in the path at PathIndex.
type IntegerParameter struct {
	ParameterBase
	Ranges     Ranges `json:"ranges,omitempty"`
	Positional bool   `json:"positional,omitempty"`
	PathIndex  int    `json:"path_index,omitempty"`
}

func NewIntegerParameter(name string) *IntegerParameter {
	return &IntegerParameter{ParameterBase: ParameterBase{Type: TypeInteger, Name: name}}
}

// AddRange appends min..max unless an equal range exists, returning the
// range either way.
func (p *IntegerParameter) AddRange(min, max int) (*Range, error) {
	return p.Ranges.Add(min, max)
}

// StringParameter is free text with optional length bounds.
type StringParameter struct {
	ParameterBase
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length,omitempty"`
}

func NewStringParameter(name string) *StringParameter {
	return &StringParameter{ParameterBase: ParameterBase{Type: TypeString, Name: name}}
}

// SetLength sets both bounds.
func (p *StringParameter) SetLength(min, max int) error {
	if min > max {
		return fmt.Errorf("length %d..%d: minimum exceeds maximum", min, max)
	}
	p.MinLength, p.MaxLength = min, max
	return nil
}

// EnumParameter accepts one of a closed set of literals.
type EnumParameter struct {
	ParameterBase
	Values EnumSet `json:"values"`
}

func NewEnumParameter(name string) *EnumParameter {
	return &EnumParameter{ParameterBase: ParameterBase{Type: TypeEnum, Name: name}}
}

// NewParameter returns an empty parameter of type t.
func NewParameter(t ParamType, name string) (Parameter, error) {
	switch t {
	case TypeInteger:
		return NewIntegerParameter(name), nil
	case TypeString:
		return NewStringParameter(name), nil
	case TypeEnum:
		return NewEnumParameter(name), nil
	}
	return nil, fmt.Errorf("unknown parameter type %q", t)
}

// Signature renders a compact description such as "Volume: 0..100".
func Signature(p Parameter) string {
	b := p.Common()
	var sb strings.Builder
	sb.WriteString(b.Name)
	sb.WriteString(": ")
	switch v := p.(type) {
	case *IntegerParameter:
		if len(v.Ranges) == 0 {
			sb.WriteString("Integer")
		}
		for i, r := range v.Ranges {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(r.String())
		}
	case *StringParameter:
		fmt.Fprintf(&sb, "String (%d, %d)", v.MinLength, v.MaxLength)
	case *EnumParameter:
		sb.WriteString(strings.Join(v.Values.Names(), "/"))
	}
	return sb.String()
}

// UnmarshalParameter decodes a parameter written by encoding/json, choosing
// the variant from its "type" field.
func UnmarshalParameter(data []byte) (Parameter, error) {
	var head struct {
		Type ParamType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	p, err := NewParameter(head.Type, "")
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

func unmarshalParameters(raw []json.RawMessage) ([]Parameter, error) {
	out := make([]Parameter, 0, len(raw))
	for i, r := range raw {
		p, err := UnmarshalParameter(r)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Configuration) UnmarshalJSON(data []byte) error {
	var v struct {
		Base
		Parameters []json.RawMessage `json:"parameters"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	params, err := unmarshalParameters(v.Parameters)
	if err != nil {
		return err
	}
	c.Base, c.Parameters = v.Base, params
	return nil
}

func (c *Command) UnmarshalJSON(data []byte) error {
	var v struct {
		Base
		Parameters []json.RawMessage `json:"parameters"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	params, err := unmarshalParameters(v.Parameters)
	if err != nil {
		return err
	}
	c.Base, c.Parameters = v.Base, params
	return nil
}
