package domain

import (
	"fmt"
	"strings"
)

// Comparator is the comparison applied by a FieldMatch rule.
// Its value is the name stored in the block configuration, so values outside the
// known set survive round trips and can be detected at evaluation time.
type Comparator string

const (
	Equals      Comparator = "equals"
	NotEquals   Comparator = "not_equals"
	Contains    Comparator = "contains"
	NotContains Comparator = "not_contains"
)

// Known reports whether c is one of the four supported comparators.
func (c Comparator) Known() bool {
	switch c {
	case Equals, NotEquals, Contains, NotContains:
		return true
	default:
		return false
	}
}

// ParseComparator converts a configuration value into a Comparator.
// Matching is case-insensitive and accepts "-" in place of "_".
func ParseComparator(s string) (Comparator, error) {
	c := Comparator(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !c.Known() {
		return "", fmt.Errorf("unsupported Comparator: %q", s)
	}
	return c, nil
}

// Comparators lists the supported comparators in display order.
func Comparators() []Comparator {
	return []Comparator{Equals, NotEquals, Contains, NotContains}
}
