package domain

import (
	"fmt"
	"strings"
)

// RuleKind selects the evaluation algorithm for a Rule.
//
// domain - compare the current domain term against an expected slug
// field  - compare a named request variable against an expected value
type RuleKind uint8

const (
	// DomainMatch compares the current domain slug against Rule.ExpectedSlug.
	DomainMatch RuleKind = iota
	// FieldMatch compares a request variable using Rule.Comparator.
	FieldMatch
)

// String returns a stable string representation of the rule kind.
func (k RuleKind) String() string {
	switch k {
	case DomainMatch:
		return "domain"
	case FieldMatch:
		return "field"
	default:
		return fmt.Sprintf("RuleKind(%d)", k)
	}
}

// ParseRuleKind converts a string into a RuleKind.
// Accepts: "domain", "field" (case-insensitive).
func ParseRuleKind(s string) (RuleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "domain":
		return DomainMatch, nil
	case "field":
		return FieldMatch, nil
	default:
		return 0, fmt.Errorf("unsupported RuleKind: %q", s)
	}
}
