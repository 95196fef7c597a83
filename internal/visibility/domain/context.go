package domain

// Variables is a read-only view of request variables.
type Variables map[string]string

// Get returns the value for name and whether it was present.
func (v Variables) Get(name string) (string, bool) {
	val, ok := v[name]
	return val, ok
}

// Context is the snapshot of runtime values an evaluation reads.
type Context struct {
	CurrentDomainSlug string
	RequestVariables  Variables
}

// Variable returns the named request variable, or "" when absent.
func (c Context) Variable(name string) string {
	if c.RequestVariables == nil {
		return ""
	}
	return c.RequestVariables[name]
}
