package domain

// Rule is the declarative condition attached to a content block.
//
// Notes:
// - DomainMatch uses ExpectedSlug only; an empty slug disables the rule.
// - FieldMatch uses VariableName, ExpectedValue and Comparator.
// - Comparator may hold an unrecognised value; evaluation fails open on it.
type Rule struct {
	Kind          RuleKind
	ExpectedSlug  string     // DomainMatch: slug that must be current, or GeneralSlug
	VariableName  string     // FieldMatch: request variable to read
	ExpectedValue string     // FieldMatch: value to compare against
	Comparator    Comparator // FieldMatch: comparison to apply
}

// NewDomainRule constructs a DomainMatch rule for the given slug.
func NewDomainRule(expectedSlug string) Rule {
	return Rule{Kind: DomainMatch, ExpectedSlug: expectedSlug}
}

// NewFieldRule constructs a FieldMatch rule.
func NewFieldRule(variable, expected string, comparator Comparator) Rule {
	return Rule{
		Kind:          FieldMatch,
		VariableName:  variable,
		ExpectedValue: expected,
		Comparator:    comparator,
	}
}

// Inert reports whether the rule can never hide content.
func (r Rule) Inert() bool {
	return r.Kind == DomainMatch && r.ExpectedSlug == ""
}

// IsGeneral reports whether the rule uses the "algemeen" sentinel.
func (r Rule) IsGeneral() bool {
	return r.Kind == DomainMatch && r.ExpectedSlug == GeneralSlug
}
