package parser

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dgallion1/xapidoc/internal/apitree"
)

var (
	statusRangeRe    = regexp.MustCompile(`^(?:Integer\s*)?\(?(-?\d+)\.\.(-?\d+)\)?$`)
	statusSentinelRe = regexp.MustCompile(`^([A-Za-z]+)/\(?(-?\d+)\.\.(-?\d+)\)?$`)
	trailingNumberRe = regexp.MustCompile(`^(.*?)(\d+)(\D*)$`)
)

// ParseValueSpace converts the value space text printed for a status path
// into a typed value space. Text matching no specific form, including an
// ellipsis list that cannot be expanded, becomes an enum with a single
// member; an error is returned only for malformed numeric ranges.
func ParseValueSpace(raw string) (apitree.ValueSpace, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "Integer":
		return apitree.NewIntegerValueSpace(raw), nil
	case "String":
		return apitree.NewStringValueSpace(raw), nil
	}

	if m := statusRangeRe.FindStringSubmatch(raw); m != nil {
		vs := apitree.NewIntegerValueSpace(raw)
		if _, err := parseRange(vs.AddRange, m[1], m[2]); err != nil {
			return nil, err
		}
		return vs, nil
	}

	if items := splitList(raw, ","); len(items) > 1 {
		return apitree.NewEnumValueSpace(raw, items...), nil
	}

	items := splitList(raw, "/")
	if len(items) > 1 && !strings.Contains(raw, "..") {
		return apitree.NewEnumValueSpace(raw, items...), nil
	}
	if len(items) > 1 && slices.Contains(items, "..") {
		if names, ok := expandEllipsis(items); ok {
			return apitree.NewEnumValueSpace(raw, names...), nil
		}
		return apitree.NewEnumValueSpace(raw, raw), nil
	}

	if m := statusSentinelRe.FindStringSubmatch(raw); m != nil {
		vs := apitree.NewIntegerValueSpace(raw)
		vs.Sentinel = m[1]
		if _, err := parseRange(vs.AddRange, m[2], m[3]); err != nil {
			return nil, err
		}
		return vs, nil
	}

	return apitree.NewEnumValueSpace(raw, raw), nil
}

// splitList splits s on sep, trimming blanks and dropping empty items.
func splitList(s, sep string) []string {
	var out []string
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// expandEllipsis replaces each ".." item with the members between its
// neighbours, e.g. Microphone.1/../Microphone.4. It fails when a bound is
// missing, when the neighbours differ in more than their last run of digits,
// or when the lower bound exceeds the upper.
func expandEllipsis(items []string) ([]string, bool) {
	var out []string
	for i, item := range items {
		if item != ".." {
			out = append(out, item)
			continue
		}
		if i == 0 || i == len(items)-1 {
			return nil, false
		}
		lm := trailingNumberRe.FindStringSubmatch(items[i-1])
		hm := trailingNumberRe.FindStringSubmatch(items[i+1])
		if lm == nil || hm == nil || lm[1] != hm[1] || lm[3] != hm[3] {
			return nil, false
		}
		from, _ := strconv.Atoi(lm[2])
		to, _ := strconv.Atoi(hm[2])
		if from > to {
			return nil, false
		}
		for n := from + 1; n < to; n++ {
			out = append(out, lm[1]+strconv.Itoa(n)+lm[3])
		}
	}
	return out, true
}

// parseRange parses the bounds and hands them to add.
func parseRange(add func(min, max int) (*apitree.Range, error), lo, hi string) (*apitree.Range, error) {
	min, err := strconv.Atoi(lo)
	if err != nil {
		return nil, fmt.Errorf("range bound %q: %w", lo, err)
	}
	max, err := strconv.Atoi(hi)
	if err != nil {
		return nil, fmt.Errorf("range bound %q: %w", hi, err)
	}
	return add(min, max)
}
