package parser

import (
	"slices"
	"testing"

	"github.com/dgallion1/xapidoc/internal/apitree"
)

func TestParseValueSpace(t *testing.T) {
	tests := []struct {
		raw      string
		typ      apitree.ParamType
		values   []string
		ranges   [][2]int
		sentinel string
	}{
		{raw: "Integer", typ: apitree.TypeInteger},
		{raw: "String", typ: apitree.TypeString},
		{raw: "Integer (0..100)", typ: apitree.TypeInteger, ranges: [][2]int{{0, 100}}},
		{raw: "-24..0", typ: apitree.TypeInteger, ranges: [][2]int{{-24, 0}}},
		{raw: "Auto, On, Off", typ: apitree.TypeEnum, values: []string{"Auto", "On", "Off"}},
		{raw: "False/True", typ: apitree.TypeEnum, values: []string{"False", "True"}},
		{raw: "Microphone.1/../Microphone.4", typ: apitree.TypeEnum,
			values: []string{"Microphone.1", "Microphone.2", "Microphone.3", "Microphone.4"}},
		{raw: "HDMI1/../HDMI3/USB", typ: apitree.TypeEnum, values: []string{"HDMI1", "HDMI2", "HDMI3", "USB"}},
		{raw: "Off/1..4094", typ: apitree.TypeInteger, ranges: [][2]int{{1, 4094}}, sentinel: "Off"},
		{raw: "Auto/(0..10)", typ: apitree.TypeInteger, ranges: [][2]int{{0, 10}}, sentinel: "Auto"},
		{raw: "Not available", typ: apitree.TypeEnum, values: []string{"Not available"}},
		{raw: "Line.1/../Mic.3", typ: apitree.TypeEnum, values: []string{"Line.1/../Mic.3"}},
		{raw: "Input.4/../Input.2", typ: apitree.TypeEnum, values: []string{"Input.4/../Input.2"}},
		{raw: "../Input.2", typ: apitree.TypeEnum, values: []string{"../Input.2"}},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			vs, err := ParseValueSpace(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if vs.ValueType() != tc.typ {
				t.Fatalf("expected %s, got %s", tc.typ, vs.ValueType())
			}
			if vs.Space().Raw != tc.raw {
				t.Errorf("expected raw %q, got %q", tc.raw, vs.Space().Raw)
			}
			switch v := vs.(type) {
			case *apitree.EnumValueSpace:
				if !slices.Equal(v.Values.Names(), tc.values) {
					t.Errorf("expected %v, got %v", tc.values, v.Values.Names())
				}
			case *apitree.IntegerValueSpace:
				if v.Sentinel != tc.sentinel {
					t.Errorf("expected sentinel %q, got %q", tc.sentinel, v.Sentinel)
				}
				if len(v.Ranges) != len(tc.ranges) {
					t.Fatalf("expected %d ranges, got %d", len(tc.ranges), len(v.Ranges))
				}
				for i, r := range tc.ranges {
					if v.Ranges[i].Min != r[0] || v.Ranges[i].Max != r[1] {
						t.Errorf("range %d: expected %d..%d, got %s", i, r[0], r[1], v.Ranges[i])
					}
				}
			}
		})
	}
}

func TestParseValueSpace_Errors(t *testing.T) {
	for _, raw := range []string{
		"10..1",
		"Off/100..1",
	} {
		if _, err := ParseValueSpace(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestJoinText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		word  string
		delta float64
		want  string
	}{
		{"first word", "", "Define", 20, "Define"},
		{"same line", "Define", "the", 0, "Define the"},
		{"wrapped line", "Define the", "volume", 9, "Define the volume"},
		{"hyphen on wrap", "multi-", "line", 9, "multiline"},
		{"slash on wrap", "Auto/", "Manual", 9, "AutoManual"},
		{"hyphen same line", "multi-", "line", 2, "multi- line"},
		{"paragraph", "First.", "Second", 14, "First.\nSecond"},
		{"hyphen across paragraph", "multi-", "line", 14, "multiline"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := joinText(tc.text, tc.word, tc.delta); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestJoinRaw(t *testing.T) {
	if got := joinRaw("Microphone.1/", "../Microphone.4"); got != "Microphone.1/../Microphone.4" {
		t.Errorf("unexpected join %q", got)
	}
	if got := joinRaw("Integer", "(0..100)"); got != "Integer (0..100)" {
		t.Errorf("unexpected join %q", got)
	}
}

func TestStateStrings(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range States {
		name := s.String()
		if name == "" || seen[name] {
			t.Errorf("state %d has empty or duplicate name %q", int(s), name)
		}
		seen[name] = true
		if _, ok := transitions[s]; !ok {
			t.Errorf("state %s has no transition row", s)
		}
	}
}
