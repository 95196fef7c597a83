// Package terms provides the taxonomy lookup used to resolve the current domain
// of a content item. Assignments are loaded once from a YAML, JSON or TOML file
// and are read-only afterwards.
package terms

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/condvis/internal/visibility/services/visibility"
)

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported term file format")

// SelectPrompt labels the empty option of the domain select control.
const SelectPrompt = "-- Select Domain --"

// Term is one "domein" taxonomy value.
type Term struct {
	Slug string
	Name string
}

// Repository maps content items to their domain term.
type Repository struct {
	names   map[string]string // slug -> display name
	content map[string]string // content id -> slug
}

// New builds a Repository. When names is non-empty every assignment must
// reference a known slug.
func New(names, content map[string]string) (*Repository, error) {
	r := &Repository{
		names:   make(map[string]string, len(names)),
		content: make(map[string]string, len(content)),
	}
	for slug, name := range names {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			return nil, fmt.Errorf("term with empty slug")
		}
		if name = strings.TrimSpace(name); name == "" {
			name = slug
		}
		r.names[slug] = name
	}
	for id, slug := range content {
		id = strings.TrimSpace(id)
		slug = strings.TrimSpace(slug)
		if id == "" || slug == "" {
			continue
		}
		if len(r.names) > 0 {
			if _, ok := r.names[slug]; !ok {
				return nil, fmt.Errorf("content %q references unknown term %q", id, slug)
			}
		}
		r.content[id] = slug
	}
	return r, nil
}

// LoadFile reads term names and assignments from path. The file holds two maps:
//
//	terms:   { <slug>: <display name> }
//	content: { <content id>: <slug> }
func LoadFile(path string) (*Repository, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load term file %s: %w", path, err)
	}

	r, err := New(k.StringMap("terms"), k.StringMap("content"))
	if err != nil {
		return nil, fmt.Errorf("invalid term file %s: %w", path, err)
	}
	return r, nil
}

// DomainTerm implements visibility.TermLookup.
func (r *Repository) DomainTerm(contentID string) (string, bool, error) {
	slug, ok := r.content[contentID]
	return slug, ok, nil
}

// Terms returns the select options for the domain control: an empty prompt
// option followed by every term ordered by slug.
func (r *Repository) Terms() []Term {
	out := make([]Term, 0, len(r.names)+1)
	out = append(out, Term{Slug: "", Name: SelectPrompt})
	slugs := make([]string, 0, len(r.names))
	for slug := range r.names {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	for _, slug := range slugs {
		out = append(out, Term{Slug: slug, Name: r.names[slug]})
	}
	return out
}

// Assignments returns the number of content items carrying a term.
func (r *Repository) Assignments() int { return len(r.content) }

var _ visibility.TermLookup = (*Repository)(nil)
