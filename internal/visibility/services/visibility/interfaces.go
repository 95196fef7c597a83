package visibility

// Element is the live host element handle seen by the render adapter.
type Element interface {
	Name() string
	Settings() Settings
	SetRenderAttribute(name, value string)
}

// TermLookup finds the "domein" term attached to a content item.
// ok is false when the item carries no term.
type TermLookup interface {
	DomainTerm(contentID string) (slug string, ok bool, err error)
}

// Variables is the merged query/form view of the current request.
type Variables interface {
	Get(name string) (string, bool)
}
