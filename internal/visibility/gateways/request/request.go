// Package request builds the request-variable view the evaluator reads from an
// inbound HTTP request.
package request

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"

	"github.com/haukened/condvis/internal/visibility/domain"
)

const (
	// ContentIDHeader lets the host tell the proxy which content item a page renders.
	ContentIDHeader = "X-Content-Id"

	// maxFormMemory bounds multipart parsing kept in memory.
	maxFormMemory = 1 << 20
)

// contentIDVars are the query variables that identify a content item, in priority order.
var contentIDVars = []string{"p", "page_id"}

// FromRequest merges the query string and submitted form data of r.
// Submitted values win on a name collision; for repeated names the first value is used.
// The request body is consumed for form content types only.
func FromRequest(r *http.Request) (domain.Variables, error) {
	vars := FromQuery(r.URL.RawQuery)

	form, err := submitted(r)
	if err != nil {
		return vars, err
	}
	merge(vars, form)
	return vars, nil
}

// FromQuery builds variables from a raw query string, ignoring malformed pairs.
func FromQuery(rawQuery string) domain.Variables {
	vars := domain.Variables{}
	values, _ := url.ParseQuery(rawQuery)
	merge(vars, values)
	return vars
}

// ContentID returns the content item id for r, or "" when none is known.
func ContentID(r *http.Request) string {
	if id := r.Header.Get(ContentIDHeader); id != "" {
		return id
	}
	q := r.URL.Query()
	for _, name := range contentIDVars {
		if id := q.Get(name); id != "" {
			return id
		}
	}
	return ""
}

func merge(dst domain.Variables, src url.Values) {
	for name, values := range src {
		if len(values) == 0 {
			continue
		}
		dst[name] = values[0]
	}
}

// submitted returns the body-supplied form values only, without the query.
func submitted(r *http.Request) (url.Values, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil, nil
	}

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return nil, nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, fmt.Errorf("parse content type: %w", err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		return r.PostForm, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		if r.MultipartForm == nil {
			return nil, nil
		}
		return url.Values(r.MultipartForm.Value), nil
	default:
		return nil, nil
	}
}
