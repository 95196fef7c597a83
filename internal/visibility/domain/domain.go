// Package domain holds the value types shared by the visibility evaluator, the render
// adapter and the markup pass. Nothing in here performs I/O.
package domain

const (
	// GeneralSlug is the sentinel match value meaning "no domain established".
	GeneralSlug = "algemeen"

	// DomainTaxonomy is the taxonomy whose term drives DomainMatch rules.
	DomainTaxonomy = "domein"

	// DomainVariable is the request variable consulted when no term is attached.
	DomainVariable = "domein"

	// HiddenStyle is the inline style used to hide an element without removing it.
	HiddenStyle = "display: none;"
)
