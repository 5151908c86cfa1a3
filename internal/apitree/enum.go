package apitree

import (
	"encoding/json"
	"strings"
)

// EnumValue is one literal of an enum value space.
type EnumValue struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// EnumKey normalises a value name for uniqueness checks. Enum literals are
// case-insensitive on the device.
func EnumKey(name string) string {
	return strings.ToLower(name)
}

// EnumSet is an insertion-ordered set of enum values, unique by EnumKey.
// The zero value is an empty set ready to use.
type EnumSet struct {
	values []*EnumValue
	index  map[string]*EnumValue
}

// NewEnumSet returns a set holding names in order.
func NewEnumSet(names ...string) EnumSet {
	var s EnumSet
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name unless a value with the same key exists. It returns the
// stored value and whether it was newly added.
func (s *EnumSet) Add(name string) (*EnumValue, bool) {
	key := EnumKey(name)
	if v, ok := s.index[key]; ok {
		return v, false
	}
	if s.index == nil {
		s.index = make(map[string]*EnumValue)
	}
	v := &EnumValue{Name: name}
	s.values = append(s.values, v)
	s.index[key] = v
	return v, true
}

// Find returns the value matching name case-insensitively, or nil.
func (s *EnumSet) Find(name string) *EnumValue {
	return s.index[EnumKey(name)]
}

// Remove deletes name and reports whether it was present.
func (s *EnumSet) Remove(name string) bool {
	key := EnumKey(name)
	if _, ok := s.index[key]; !ok {
		return false
	}
	delete(s.index, key)
	for i, v := range s.values {
		if EnumKey(v.Name) == key {
			s.values = append(s.values[:i], s.values[i+1:]...)
			break
		}
	}
	return true
}

// Values returns the values in insertion order.
func (s *EnumSet) Values() []*EnumValue {
	return s.values
}

// Names returns the value names in insertion order.
func (s *EnumSet) Names() []string {
	out := make([]string, len(s.values))
	for i, v := range s.values {
		out[i] = v.Name
	}
	return out
}

// Len returns the number of values.
func (s *EnumSet) Len() int {
	return len(s.values)
}

func (s EnumSet) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.values)
}

func (s *EnumSet) UnmarshalJSON(data []byte) error {
	var values []EnumValue
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = EnumSet{}
	for _, v := range values {
		stored, _ := s.Add(v.Name)
		stored.Description = v.Description
	}
	return nil
}
