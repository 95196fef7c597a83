package domain

const (
	// MarkerExpectedAttr carries Rule.ExpectedSlug on a rendered wrapper.
	MarkerExpectedAttr = "data-domain-condition"
	// MarkerCurrentAttr carries Context.CurrentDomainSlug on a rendered wrapper.
	MarkerCurrentAttr = "data-domain-current"
)

// Marker is the pair of values embedded in a rendered tag for deferred resolution.
type Marker struct {
	ExpectedSlug string
	CurrentSlug  string
}

// Rule returns the DomainMatch rule encoded by the marker.
func (m Marker) Rule() Rule { return NewDomainRule(m.ExpectedSlug) }

// Context returns the evaluation context encoded by the marker.
func (m Marker) Context() Context { return Context{CurrentDomainSlug: m.CurrentSlug} }
