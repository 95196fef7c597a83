package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/condvis/internal/visibility/common/log"
	"github.com/haukened/condvis/internal/visibility/domain"
	"github.com/haukened/condvis/internal/visibility/gateways/request"
	"github.com/haukened/condvis/internal/visibility/repos/terms"
	"github.com/haukened/condvis/internal/visibility/services/visibility"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	repo, err := terms.New(
		map[string]string{"nl": "Nederland", "be": "België"},
		map[string]string{"42": "be"},
	)
	require.NoError(t, err)
	return NewHandler(HandlerOptions{
		Adapter: visibility.NewAdapter(visibility.AdapterOptions{Terms: repo}),
		Terms:   repo,
		Logger:  log.NewNoopLogger(),
	})
}

func post(t *testing.T, h http.Handler, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestAPI_Render(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		target string
		body   string
		hidden bool
		attrs  map[string]string
	}{
		{
			name:   "request variable fallback",
			target: RouteRender,
			body:   `{"settings":{"enable_domain_condition":"yes","match_value":"nl"},"variables":{"domein":"nl"}}`,
			hidden: false,
			attrs:  map[string]string{domain.MarkerExpectedAttr: "nl", domain.MarkerCurrentAttr: "nl"},
		},
		{
			name:   "term wins over request variable",
			target: RouteRender,
			body:   `{"settings":{"enable_domain_condition":"yes","match_value":"nl"},"content_id":"42","variables":{"domein":"nl"}}`,
			hidden: true,
			attrs: map[string]string{
				domain.MarkerExpectedAttr: "nl",
				domain.MarkerCurrentAttr:  "be",
				"style":                   domain.HiddenStyle,
			},
		},
		{
			name:   "query string of the call",
			target: RouteRender + "?domein=be",
			body:   `{"settings":{"enable_domain_condition":"yes","match_value":"nl"}}`,
			hidden: true,
			attrs: map[string]string{
				domain.MarkerExpectedAttr: "nl",
				domain.MarkerCurrentAttr:  "be",
				"style":                   domain.HiddenStyle,
			},
		},
		{
			name:   "content id from query",
			target: RouteRender + "?domein=nl&p=42",
			body:   `{"settings":{"enable_domain_condition":"yes","match_value":"nl"}}`,
			hidden: true,
			attrs: map[string]string{
				domain.MarkerExpectedAttr: "nl",
				domain.MarkerCurrentAttr:  "be",
				"style":                   domain.HiddenStyle,
			},
		},
		{
			name:   "other element",
			target: RouteRender,
			body:   `{"element":"heading","settings":{"enable_domain_condition":"yes","match_value":"nl"}}`,
			hidden: false,
			attrs:  map[string]string{},
		},
		{
			name:   "switch off",
			target: RouteRender,
			body:   `{"settings":{"match_value":"nl"},"variables":{"domein":"be"}}`,
			hidden: false,
			attrs:  map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, h, tt.target, tt.body)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			got := decodeJSON[RenderResponse](t, resp)
			assert.Equal(t, tt.hidden, got.Hidden)
			assert.Equal(t, tt.attrs, got.Attributes)
		})
	}
}

func TestAPI_RenderContentIDHeader(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, RouteRender+"?domein=nl",
		strings.NewReader(`{"settings":{"enable_domain_condition":"yes","match_value":"nl"}}`))
	req.Header.Set(request.ContentIDHeader, "42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := decodeJSON[RenderResponse](t, rec.Result())
	assert.True(t, got.Hidden, "the content's term wins over the request variable")
	assert.Equal(t, "be", got.Attributes[domain.MarkerCurrentAttr])

	// An explicit content id in the body takes precedence over the header.
	req = httptest.NewRequest(http.MethodPost, RouteRender+"?domein=nl",
		strings.NewReader(`{"settings":{"enable_domain_condition":"yes","match_value":"nl"},"content_id":"7"}`))
	req.Header.Set(request.ContentIDHeader, "42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got = decodeJSON[RenderResponse](t, rec.Result())
	assert.False(t, got.Hidden)
	assert.Equal(t, "nl", got.Attributes[domain.MarkerCurrentAttr])
}

func TestAPI_Widget(t *testing.T) {
	h := newTestHandler(t)

	resp := post(t, h, RouteWidget, `{"content":"<p>promo</p>","request_var":"v","request_value":"x","condition_type":"equals","variables":{"v":"x"}}`)
	got := decodeJSON[WidgetResponse](t, resp)
	assert.True(t, got.Visible)
	assert.Equal(t, "<p>promo</p>", got.Content)

	resp = post(t, h, RouteWidget+"?v=y", `{"content":"<p>promo</p>","request_var":"v","request_value":"x"}`)
	got = decodeJSON[WidgetResponse](t, resp)
	assert.False(t, got.Visible)
	assert.Empty(t, got.Content)

	resp = post(t, h, RouteWidget, `{"content":"c","request_var":"v","request_value":"x","condition_type":"bogus"}`)
	got = decodeJSON[WidgetResponse](t, resp)
	assert.True(t, got.Visible, "unknown comparator fails open")
}

func TestAPI_Resolve(t *testing.T) {
	h := newTestHandler(t)

	resp := post(t, h, RouteResolve, `<div data-domain-condition="nl" data-domain-current="be">x</div>`)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, `<div data-domain-condition="nl" data-domain-current="be" style="display: none;">x</div>`, string(body))
	assert.Equal(t, "1", resp.Header.Get("X-Condvis-Markers"))
	assert.Equal(t, "1", resp.Header.Get("X-Condvis-Hidden"))
}

func TestAPI_ResolveTooLarge(t *testing.T) {
	h := NewHandler(HandlerOptions{MaxBody: 8})
	resp := post(t, h, RouteResolve, strings.Repeat("x", 64))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestAPI_Terms(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, RouteTerms, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := decodeJSON[[]TermOption](t, rec.Result())
	assert.Equal(t, []TermOption{
		{Slug: "", Name: terms.SelectPrompt},
		{Slug: "be", Name: "België"},
		{Slug: "nl", Name: "Nederland"},
	}, got)

	rec = httptest.NewRecorder()
	NewHandler(HandlerOptions{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, RouteTerms, nil))
	assert.Equal(t, []TermOption{}, decodeJSON[[]TermOption](t, rec.Result()))
}

func TestAPI_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, RouteHealth, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAPI_Malformed(t *testing.T) {
	h := newTestHandler(t)
	assert.Equal(t, http.StatusBadRequest, post(t, h, RouteRender, `{"settings":`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, post(t, h, RouteWidget, `nope`).StatusCode)
}

func TestHandler_ProxiesOtherPaths(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, markedPage)
	})
	h := NewHandler(HandlerOptions{Upstream: up})

	body := readBody(t, get(t, h, "/some/page", nil))
	assert.Contains(t, body, `style="display: none;">NL only`)

	rec := httptest.NewRecorder()
	NewHandler(HandlerOptions{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/some/page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
