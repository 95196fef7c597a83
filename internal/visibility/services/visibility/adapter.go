package visibility

import (
	"github.com/haukened/condvis/internal/visibility/common/log"
	"github.com/haukened/condvis/internal/visibility/domain"
)

// DefaultElementName is the element type DomainMatch rules apply to.
const DefaultElementName = "container"

// Adapter applies DomainMatch rules to host elements as they are rendered.
// It is built once at startup and holds no per-request state.
type Adapter struct {
	elementName string
	terms       TermLookup
	logger      log.Logger
}

// AdapterOptions configures an Adapter. Terms may be nil, in which case only
// the request variable is consulted.
type AdapterOptions struct {
	ElementName string
	Terms       TermLookup
	Logger      log.Logger
}

// NewAdapter constructs an Adapter.
func NewAdapter(opts AdapterOptions) *Adapter {
	name := opts.ElementName
	if name == "" {
		name = DefaultElementName
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Adapter{elementName: name, terms: opts.Terms, logger: logger}
}

// ElementName returns the element type this adapter acts on.
func (a *Adapter) ElementName() string { return a.elementName }

// ResolveDomain returns the current domain slug: the content item's term,
// else the "domein" request variable, else "".
func (a *Adapter) ResolveDomain(contentID string, vars Variables) string {
	if a.terms != nil && contentID != "" {
		slug, ok, err := a.terms.DomainTerm(contentID)
		if err != nil {
			a.logger.Warn(map[string]any{
				"content_id": contentID,
				"error":      err,
			}, "Domain term lookup failed, falling back to request variable")
		} else if ok && slug != "" {
			return slug
		}
	}
	if vars == nil {
		return ""
	}
	v, _ := vars.Get(domain.DomainVariable)
	return v
}

// BeforeRender evaluates the element's rule and marks it. Elements of other
// types and elements with the switch off are left untouched. Enabled elements
// always receive both marker attributes; hidden ones also get the hide style.
// The element is never removed.
func (a *Adapter) BeforeRender(el Element, contentID string, vars Variables) domain.Decision {
	if el == nil || el.Name() != a.elementName {
		return domain.Show(domain.ReasonDisabled)
	}
	settings := el.Settings()
	if !settings.EnableDomainCondition {
		return domain.Show(domain.ReasonDisabled)
	}

	current := a.ResolveDomain(contentID, vars)
	el.SetRenderAttribute(domain.MarkerExpectedAttr, settings.MatchValue)
	el.SetRenderAttribute(domain.MarkerCurrentAttr, current)

	dec := Evaluate(settings.Rule(), domain.Context{CurrentDomainSlug: current})
	if dec.Hidden {
		el.SetRenderAttribute("style", domain.HiddenStyle)
	}

	a.logger.Debug(map[string]any{
		"element":  el.Name(),
		"expected": settings.MatchValue,
		"current":  current,
		"hidden":   dec.Hidden,
		"reason":   string(dec.Reason),
	}, "Domain condition evaluated")

	return dec
}
