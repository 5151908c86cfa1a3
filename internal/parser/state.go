package parser

import "fmt"

// State is what the automaton expects next.
type State int

const (
	Start State = iota
	MethodNameHeading
	AppliesToHeading
	AppliesTo
	RoleHeading
	Roles
	Description
	Usage
	UsageWhere
	ParameterValueSpace
	ParameterDescription
	TermDefinition
	DefaultValueHeading
	DefaultValue
	StatusValueSpaceHeading
	StatusValueSpace
	StatusDescription
	Example
)

var stateNames = [...]string{
	Start:                   "START",
	MethodNameHeading:       "METHOD_NAME_HEADING",
	AppliesToHeading:        "APPLIES_TO_HEADING",
	AppliesTo:               "APPLIES_TO",
	RoleHeading:             "ROLE_HEADING",
	Roles:                   "ROLES",
	Description:             "DESCRIPTION",
	Usage:                   "USAGE",
	UsageWhere:              "USAGE_WHERE",
	ParameterValueSpace:     "PARAMETER_VALUE_SPACE",
	ParameterDescription:    "PARAMETER_DESCRIPTION",
	TermDefinition:          "TERM_DEFINITION",
	DefaultValueHeading:     "DEFAULT_VALUE_HEADING",
	DefaultValue:            "DEFAULT_VALUE",
	StatusValueSpaceHeading: "STATUS_VALUE_SPACE_HEADING",
	StatusValueSpace:        "STATUS_VALUE_SPACE",
	StatusDescription:       "STATUS_DESCRIPTION",
	Example:                 "EXAMPLE",
}

// States lists every state in declaration order.
var States = func() []State {
	out := make([]State, len(stateNames))
	for i := range stateNames {
		out[i] = State(i)
	}
	return out
}()

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// heading is a fixed body-text phrase that introduces a block, e.g.
// "Default value:". While its words arrive the automaton sits in state; on
// the last word it moves to next.
type heading struct {
	words []string
	state State
	next  State
}

var (
	appliesToHeading        = heading{[]string{"Applies", "to:"}, AppliesToHeading, AppliesTo}
	roleHeading             = heading{[]string{"Requires", "user", "role:"}, RoleHeading, Roles}
	defaultValueHeading     = heading{[]string{"Default", "value:"}, DefaultValueHeading, DefaultValue}
	statusValueSpaceHeading = heading{[]string{"Value", "space", "of", "the", "result", "returned:"}, StatusValueSpaceHeading, StatusValueSpace}
)

// isHeadingState reports whether s is only entered part way through a
// heading phrase.
func isHeadingState(s State) bool {
	switch s {
	case AppliesToHeading, RoleHeading, DefaultValueHeading, StatusValueSpaceHeading:
		return true
	}
	return false
}
