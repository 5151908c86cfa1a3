package apitree

import (
	"encoding/json"
	"fmt"
)

// ValueSpace is the return type of a status path.
type ValueSpace interface {
	ValueType() ParamType
	Space() *ValueSpaceBase
}

// ValueSpaceBase holds the fields shared by all value spaces.
type ValueSpaceBase struct {
	Type        ParamType `json:"type"`
	Raw         string    `json:"raw,omitempty"` // text as printed in the guide
	Description string    `json:"description,omitempty"`
}

func (b *ValueSpaceBase) ValueType() ParamType   { return b.Type }
func (b *ValueSpaceBase) Space() *ValueSpaceBase { return b }

// IntegerValueSpace is numeric. When Sentinel is set, that literal stands
// for an absent value instead of a number, e.g. "Off" in Off/1..4094.
type IntegerValueSpace struct {
	ValueSpaceBase
	Ranges   Ranges `json:"ranges,omitempty"`
	Sentinel string `json:"sentinel,omitempty"`
}

func NewIntegerValueSpace(raw string) *IntegerValueSpace {
	return &IntegerValueSpace{ValueSpaceBase: ValueSpaceBase{Type: TypeInteger, Raw: raw}}
}

// AddRange appends min..max unless an equal range exists.
func (v *IntegerValueSpace) AddRange(min, max int) (*Range, error) {
	return v.Ranges.Add(min, max)
}

type StringValueSpace struct {
	ValueSpaceBase
}

func NewStringValueSpace(raw string) *StringValueSpace {
	return &StringValueSpace{ValueSpaceBase: ValueSpaceBase{Type: TypeString, Raw: raw}}
}

type EnumValueSpace struct {
	ValueSpaceBase
	Values EnumSet `json:"values"`
}

func NewEnumValueSpace(raw string, names ...string) *EnumValueSpace {
	return &EnumValueSpace{
		ValueSpaceBase: ValueSpaceBase{Type: TypeEnum, Raw: raw},
		Values:         NewEnumSet(names...),
	}
}

// UnmarshalValueSpace decodes a value space by its "type" field.
func UnmarshalValueSpace(data []byte) (ValueSpace, error) {
	var head struct {
		Type ParamType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	var vs ValueSpace
	switch head.Type {
	case TypeInteger:
		vs = &IntegerValueSpace{}
	case TypeString:
		vs = &StringValueSpace{}
	case TypeEnum:
		vs = &EnumValueSpace{}
	default:
		return nil, fmt.Errorf("unknown value space type %q", head.Type)
	}
	if err := json.Unmarshal(data, vs); err != nil {
		return nil, err
	}
	return vs, nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var v struct {
		Base
		Parameters []*IntegerParameter `json:"parameters"`
		ValueSpace json.RawMessage     `json:"value_space"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Base, s.Parameters, s.ValueSpace = v.Base, v.Parameters, nil
	if len(v.ValueSpace) == 0 || string(v.ValueSpace) == "null" {
		return nil
	}
	vs, err := UnmarshalValueSpace(v.ValueSpace)
	if err != nil {
		return fmt.Errorf("value space: %w", err)
	}
	s.ValueSpace = vs
	return nil
}
