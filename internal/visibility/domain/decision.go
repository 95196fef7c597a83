package domain

// Reason explains how a Decision was reached. Used for logs and tests only.
type Reason string

const (
	ReasonDisabled          Reason = "disabled"
	ReasonGeneral           Reason = "general"
	ReasonMatch             Reason = "match"
	ReasonMismatch          Reason = "mismatch"
	ReasonComparator        Reason = "comparator"
	ReasonUnknownComparator Reason = "unknown-comparator"
	ReasonUnknownKind       Reason = "unknown-kind"
)

// Decision represents the outcome of evaluating a Rule against a Context.
// Pure value type, no external dependencies.
type Decision struct {
	Hidden bool
	Reason Reason
}

// Visible is a convenience accessor.
func (d Decision) Visible() bool { return !d.Hidden }

// Show returns a visible decision with the given reason.
func Show(reason Reason) Decision { return Decision{Hidden: false, Reason: reason} }

// Hide returns a hidden decision with the given reason.
func Hide(reason Reason) Decision { return Decision{Hidden: true, Reason: reason} }
