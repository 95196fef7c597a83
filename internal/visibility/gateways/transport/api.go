package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/haukened/condvis/internal/visibility/common/log"
	"github.com/haukened/condvis/internal/visibility/domain"
	"github.com/haukened/condvis/internal/visibility/gateways/markup"
	"github.com/haukened/condvis/internal/visibility/gateways/request"
	"github.com/haukened/condvis/internal/visibility/services/visibility"
)

const maxRequestBody = 1 << 20

type api struct {
	adapter  *visibility.Adapter
	rewriter *markup.Rewriter
	terms    TermLister
	logger   log.Logger
	maxBody  int64
}

// RenderRequest asks for the immediate-path decision for one element.
// Variables default to the query string of the call itself.
type RenderRequest struct {
	Element   string            `json:"element"`
	Settings  map[string]any    `json:"settings"`
	ContentID string            `json:"content_id"`
	Variables map[string]string `json:"variables"`
}

// RenderResponse lists the attributes the host must set on the element wrapper.
type RenderResponse struct {
	Hidden     bool              `json:"hidden"`
	Reason     string            `json:"reason"`
	Attributes map[string]string `json:"attributes"`
}

// WidgetRequest asks whether a conditional widget renders its content.
type WidgetRequest struct {
	Content       string            `json:"content"`
	RequestVar    string            `json:"request_var"`
	RequestValue  string            `json:"request_value"`
	ConditionType string            `json:"condition_type"`
	Variables     map[string]string `json:"variables"`
}

// WidgetResponse carries the content to output, empty when hidden.
type WidgetResponse struct {
	Visible bool   `json:"visible"`
	Content string `json:"content"`
}

// TermOption is one entry of the domain select control.
type TermOption struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// element adapts a RenderRequest to visibility.Element.
type element struct {
	name     string
	settings visibility.Settings
	attrs    map[string]string
}

func (e *element) Name() string                          { return e.name }
func (e *element) Settings() visibility.Settings         { return e.settings }
func (e *element) SetRenderAttribute(name, value string) { e.attrs[name] = value }

func (a *api) render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !a.decode(w, r, &req) {
		return
	}
	name := req.Element
	if name == "" {
		name = a.adapter.ElementName()
	}
	el := &element{
		name:     name,
		settings: visibility.SettingsFromMap(req.Settings),
		attrs:    map[string]string{},
	}

	if req.ContentID == "" {
		req.ContentID = request.ContentID(r)
	}
	dec := a.adapter.BeforeRender(el, req.ContentID, a.variables(r, req.Variables))
	writeJSON(w, http.StatusOK, RenderResponse{
		Hidden:     dec.Hidden,
		Reason:     string(dec.Reason),
		Attributes: el.attrs,
	})
}

func (a *api) widget(w http.ResponseWriter, r *http.Request) {
	var req WidgetRequest
	if !a.decode(w, r, &req) {
		return
	}
	settings := visibility.WidgetSettings{
		Content:       req.Content,
		RequestVar:    req.RequestVar,
		RequestValue:  req.RequestValue,
		ConditionType: domain.Comparator(req.ConditionType),
	}
	dec := visibility.EvaluateWidget(settings, a.variables(r, req.Variables))
	resp := WidgetResponse{Visible: dec.Visible()}
	if resp.Visible {
		resp.Content = settings.Content
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolve runs the deferred pass over a posted HTML document.
func (a *api) resolve(w http.ResponseWriter, r *http.Request) {
	limit := a.maxBody
	if limit <= 0 {
		limit = 1 << 30
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	out, st, err := a.rewriter.Rewrite(body)
	if err != nil {
		a.logger.Warn(map[string]any{"error": err}, "Marker pass failed, returning original document")
		out = body
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Condvis-Markers", strconv.Itoa(st.Markers))
	w.Header().Set("X-Condvis-Hidden", strconv.Itoa(st.Hidden))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (a *api) listTerms(w http.ResponseWriter, _ *http.Request) {
	opts := []TermOption{}
	if a.terms != nil {
		for _, t := range a.terms.Terms() {
			opts = append(opts, TermOption{Slug: t.Slug, Name: t.Name})
		}
	}
	writeJSON(w, http.StatusOK, opts)
}

func (a *api) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// variables prefers explicit variables and falls back to the call's own
// query string and submitted form data.
func (a *api) variables(r *http.Request, explicit map[string]string) domain.Variables {
	if explicit != nil {
		return domain.Variables(explicit)
	}
	vars, err := request.FromRequest(r)
	if err != nil {
		a.logger.Debug(map[string]any{"path": r.URL.Path, "error": err}, "Ignoring unreadable form data")
	}
	return vars
}

func (a *api) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		a.logger.Debug(map[string]any{"path": r.URL.Path, "error": err}, "Rejected malformed request")
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
