// Package markup resolves pending visibility markers in already rendered HTML.
//
// Tags carrying both marker attributes (in any order, on any element) are
// re-evaluated and, when hidden, receive an inline hide style. All other bytes
// of the document are copied through unchanged.
package markup

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/haukened/condvis/internal/visibility/common/log"
	"github.com/haukened/condvis/internal/visibility/domain"
	"github.com/haukened/condvis/internal/visibility/services/visibility"
)

// Stats reports what a single pass found.
type Stats struct {
	Markers int // tags carrying both marker attributes
	Hidden  int // markers resolved as hidden, whether or not a rewrite was needed
	Changed int // tags actually rewritten
}

// DecideFunc resolves a marker into a decision.
type DecideFunc func(domain.Marker) domain.Decision

// Rewriter runs the deferred marker pass. It is stateless and safe for concurrent use.
type Rewriter struct {
	decide DecideFunc
	logger log.Logger
}

// NewRewriter returns a Rewriter using the DomainMatch evaluator.
func NewRewriter(logger log.Logger) *Rewriter {
	return NewRewriterWith(visibility.EvaluateMarker, logger)
}

// NewRewriterWith returns a Rewriter with a custom decision function.
func NewRewriterWith(decide DecideFunc, logger log.Logger) *Rewriter {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Rewriter{decide: decide, logger: logger}
}

// Resolve runs the pass over an HTML string with the default evaluator.
func Resolve(doc string) string {
	out, _, _ := NewRewriter(nil).Rewrite([]byte(doc))
	return string(out)
}

// Rewrite scans src once and returns the resolved document. The error is non-nil only if the tokenizer fails
// for a reason other than end of input; the returned bytes are still complete.
func (r *Rewriter) Rewrite(src []byte) ([]byte, Stats, error) {
	var st Stats
	if len(src) == 0 {
		return src, st, nil
	}

	var out bytes.Buffer
	out.Grow(len(src) + 64)
	consumed := 0

	z := html.NewTokenizer(bytes.NewReader(src))
	var tokErr error
	for {
		tt := z.Next()
		raw := z.Raw()
		consumed += len(raw)

		if tt == html.ErrorToken {
			out.Write(raw)
			if err := z.Err(); err != nil && err != io.EOF {
				tokErr = fmt.Errorf("tokenize markup: %w", err)
			}
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}

		// TagName and TagAttr rewrite the tokenizer buffer in place, so keep a copy.
		tag := append([]byte(nil), raw...)
		marker, ok := readMarker(z)
		if !ok {
			out.Write(tag)
			continue
		}

		st.Markers++
		dec := r.decide(marker)
		if !dec.Hidden {
			out.Write(tag)
			continue
		}
		st.Hidden++
		rewritten, changed := hideTag(tag, tt == html.SelfClosingTagToken)
		if changed {
			st.Changed++
		}
		out.Write(rewritten)
	}
	if consumed < len(src) {
		out.Write(src[consumed:])
	}

	r.logger.Debug(map[string]any{
		"markers": st.Markers,
		"hidden":  st.Hidden,
		"changed": st.Changed,
	}, "Deferred markers resolved")

	return out.Bytes(), st, tokErr
}

// RewriteString is Rewrite for strings.
func (r *Rewriter) RewriteString(doc string) (string, Stats, error) {
	out, st, err := r.Rewrite([]byte(doc))
	return string(out), st, err
}

// readMarker collects both marker attributes of the current tag.
// The first occurrence of an attribute wins.
func readMarker(z *html.Tokenizer) (domain.Marker, bool) {
	var m domain.Marker
	_, more := z.TagName()
	var haveExpected, haveCurrent bool
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		switch string(key) {
		case domain.MarkerExpectedAttr:
			if !haveExpected {
				m.ExpectedSlug = string(val)
				haveExpected = true
			}
		case domain.MarkerCurrentAttr:
			if !haveCurrent {
				m.CurrentSlug = string(val)
				haveCurrent = true
			}
		}
	}
	return m, haveExpected && haveCurrent
}
