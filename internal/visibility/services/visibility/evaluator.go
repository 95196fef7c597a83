// Package visibility decides whether a content block is shown, and applies that
// decision to host elements at render time.
package visibility

import (
	"strings"

	"github.com/haukened/condvis/internal/visibility/domain"
)

// Evaluate maps a rule and a context to a Decision.
// It is pure and total: unknown rule kinds and comparators resolve to visible.
func Evaluate(rule domain.Rule, ctx domain.Context) domain.Decision {
	switch rule.Kind {
	case domain.DomainMatch:
		return evaluateDomain(rule.ExpectedSlug, ctx.CurrentDomainSlug)
	case domain.FieldMatch:
		return evaluateField(rule, ctx)
	default:
		return domain.Show(domain.ReasonUnknownKind)
	}
}

// EvaluateMarker resolves a deferred marker with the DomainMatch algorithm.
func EvaluateMarker(m domain.Marker) domain.Decision {
	return evaluateDomain(m.ExpectedSlug, m.CurrentSlug)
}

// evaluateDomain compares slugs exactly: case-sensitive, no trimming.
func evaluateDomain(expected, current string) domain.Decision {
	if expected == "" {
		return domain.Show(domain.ReasonDisabled)
	}
	if expected == domain.GeneralSlug {
		if current != "" {
			return domain.Hide(domain.ReasonGeneral)
		}
		return domain.Show(domain.ReasonGeneral)
	}
	if current != expected {
		return domain.Hide(domain.ReasonMismatch)
	}
	return domain.Show(domain.ReasonMatch)
}

func evaluateField(rule domain.Rule, ctx domain.Context) domain.Decision {
	actual := Sanitize(ctx.Variable(Sanitize(rule.VariableName)))
	expected := Sanitize(rule.ExpectedValue)

	var visible bool
	switch rule.Comparator {
	case domain.Equals:
		visible = actual == expected
	case domain.NotEquals:
		visible = actual != expected
	case domain.Contains:
		visible = strings.Contains(actual, expected)
	case domain.NotContains:
		visible = !strings.Contains(actual, expected)
	default:
		return domain.Show(domain.ReasonUnknownComparator)
	}

	if visible {
		return domain.Show(domain.ReasonComparator)
	}
	return domain.Hide(domain.ReasonComparator)
}
