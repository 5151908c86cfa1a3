// Package apitree holds the model extracted from an API reference guide:
// configurations, commands and statuses with their parameters and value
// spaces. The tree is built by the parser and read-only afterwards.
package apitree

import (
	"slices"
	"strings"
)

// Kind identifies an entity variant and the manual section it comes from.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindCommand       Kind = "command"
	KindStatus        Kind = "status"
)

// Kinds lists the sections in document order.
var Kinds = []Kind{KindConfiguration, KindCommand, KindStatus}

// Role is a user role required to invoke an entity, e.g. ADMIN.
type Role string

// Base is the shape shared by every entity.
type Base struct {
	Type        Kind      `json:"kind"`
	Path        []string  `json:"path"`
	Products    []Product `json:"products,omitempty"` // empty means all products
	Roles       []Role    `json:"roles,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Entity is implemented by *Configuration, *Command and *Status.
type Entity interface {
	Kind() Kind
	Meta() *Base
}

func (b *Base) Kind() Kind  { return b.Type }
func (b *Base) Meta() *Base { return b }

// Name returns the path joined with spaces.
func (b *Base) Name() string {
	return strings.Join(b.Path, " ")
}

// DedupKey is the path without its first segment. Two entities of the same
// list with equal keys are treated as repeats of one entry.
func (b *Base) DedupKey() string {
	if len(b.Path) < 2 {
		return ""
	}
	return strings.Join(b.Path[1:], " ")
}

// AddProduct records p once.
func (b *Base) AddProduct(p Product) {
	if !slices.Contains(b.Products, p) {
		b.Products = append(b.Products, p)
	}
}

// AddRole records r once.
func (b *Base) AddRole(r Role) {
	if !slices.Contains(b.Roles, r) {
		b.Roles = append(b.Roles, r)
	}
}

// Configuration is a settable path. The last parameter is the value; any
// earlier ones are array indexes embedded in the path.
type Configuration struct {
	Base
	Parameters []Parameter `json:"parameters"`
}

// Command is an invocable path whose parameters are all call arguments.
type Command struct {
	Base
	Parameters []Parameter `json:"parameters"`
}

// Status is a read-only path with positional index parameters and one
// return value space.
type Status struct {
	Base
	Parameters []*IntegerParameter `json:"parameters"`
	ValueSpace ValueSpace          `json:"value_space"`
}

func NewConfiguration() *Configuration {
	return &Configuration{Base: Base{Type: KindConfiguration}}
}

func NewCommand() *Command {
	return &Command{Base: Base{Type: KindCommand}}
}

func NewStatus() *Status {
	return &Status{Base: Base{Type: KindStatus}}
}

// New returns an empty entity of the given kind.
func New(kind Kind) Entity {
	switch kind {
	case KindConfiguration:
		return NewConfiguration()
	case KindCommand:
		return NewCommand()
	default:
		return NewStatus()
	}
}

// Parameter returns the parameter called name, or nil.
func (c *Configuration) Parameter(name string) Parameter {
	return findParameter(c.Parameters, name)
}

// Parameter returns the parameter called name, or nil.
func (c *Command) Parameter(name string) Parameter {
	return findParameter(c.Parameters, name)
}

// Parameter returns the positional parameter called name, or nil.
func (s *Status) Parameter(name string) *IntegerParameter {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func findParameter(params []Parameter, name string) Parameter {
	for _, p := range params {
		if p.Common().Name == name {
			return p
		}
	}
	return nil
}

// API is the full extraction result handed to code generators.
type API struct {
	Title          string           `json:"title,omitempty"`
	Configurations []*Configuration `json:"configurations"`
	Commands       []*Command       `json:"commands"`
	Statuses       []*Status        `json:"statuses"`
}

// Add appends e to the list for its kind. An earlier entry of the same list
// with the same DedupKey is evicted first: the guide sometimes repeats an
// entry verbatim. The match ignores the family the entries appear under, so
// two distinct entries sharing a path suffix also collapse into the later.
func (a *API) Add(e Entity) {
	key := e.Meta().DedupKey()
	switch v := e.(type) {
	case *Configuration:
		a.Configurations = append(evict(a.Configurations, key), v)
	case *Command:
		a.Commands = append(evict(a.Commands, key), v)
	case *Status:
		a.Statuses = append(evict(a.Statuses, key), v)
	}
}

func evict[T Entity](list []T, key string) []T {
	if key == "" {
		return list
	}
	return slices.DeleteFunc(list, func(e T) bool {
		return e.Meta().DedupKey() == key
	})
}

// Merge appends every entity of other, in order.
func (a *API) Merge(other *API) {
	for _, e := range other.Entities() {
		a.Add(e)
	}
}

// Entities returns all entities in section order.
func (a *API) Entities() []Entity {
	out := make([]Entity, 0, a.Len())
	for _, c := range a.Configurations {
		out = append(out, c)
	}
	for _, c := range a.Commands {
		out = append(out, c)
	}
	for _, s := range a.Statuses {
		out = append(out, s)
	}
	return out
}

// Len returns the total number of entities.
func (a *API) Len() int {
	return len(a.Configurations) + len(a.Commands) + len(a.Statuses)
}

// Count returns the number of entities of kind.
func (a *API) Count(kind Kind) int {
	switch kind {
	case KindConfiguration:
		return len(a.Configurations)
	case KindCommand:
		return len(a.Commands)
	case KindStatus:
		return len(a.Statuses)
	}
	return 0
}
