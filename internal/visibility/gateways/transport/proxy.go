package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"github.com/haukened/condvis/internal/visibility/common/log"
	"github.com/haukened/condvis/internal/visibility/gateways/markup"
)

// ProxyOptions configures the rewriting reverse proxy.
type ProxyOptions struct {
	Upstream *url.URL
	Rewriter *markup.Rewriter
	Logger   log.Logger
	MaxBody  int64 // 0 means unlimited
}

type proxy struct {
	rewriter *markup.Rewriter
	logger   log.Logger
	maxBody  int64
}

// NewProxy returns a reverse proxy to opts.Upstream that resolves deferred
// markers in text/html responses before they reach the client.
func NewProxy(opts ProxyOptions) *httputil.ReverseProxy {
	p := &proxy{rewriter: opts.Rewriter, logger: opts.Logger, maxBody: opts.MaxBody}
	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	if p.rewriter == nil {
		p.rewriter = markup.NewRewriter(p.logger)
	}
	upstream := opts.Upstream

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
			// The body must arrive uncompressed to be rewritten.
			pr.Out.Header.Del("Accept-Encoding")
		},
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.errorHandler,
	}
}

func (p *proxy) modifyResponse(resp *http.Response) error {
	if !isHTML(resp.Header.Get("Content-Type")) {
		return nil
	}
	if enc := resp.Header.Get("Content-Encoding"); enc != "" && enc != "identity" {
		p.logger.Debug(map[string]any{"encoding": enc}, "Encoded HTML response passed through")
		return nil
	}
	if p.maxBody > 0 && resp.ContentLength > p.maxBody {
		p.logger.Warn(map[string]any{"length": resp.ContentLength, "limit": p.maxBody}, "HTML response too large to resolve")
		return nil
	}

	var src io.Reader = resp.Body
	if p.maxBody > 0 {
		src = io.LimitReader(resp.Body, p.maxBody+1)
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("read upstream body: %w", err)
	}
	if p.maxBody > 0 && int64(len(body)) > p.maxBody {
		p.logger.Warn(map[string]any{"limit": p.maxBody}, "HTML response too large to resolve")
		resp.Body = readCloser{io.MultiReader(bytes.NewReader(body), resp.Body), resp.Body}
		return nil
	}
	_ = resp.Body.Close()

	out, st, err := p.rewriter.Rewrite(body)
	if err != nil {
		p.logger.Warn(map[string]any{"error": err}, "Marker pass failed, serving original body")
		out = body
	}
	if st.Markers > 0 {
		p.logger.Debug(map[string]any{
			"path":    resp.Request.URL.Path,
			"markers": st.Markers,
			"hidden":  st.Hidden,
		}, "Resolved deferred markers")
	}

	resp.Body = io.NopCloser(bytes.NewReader(out))
	resp.ContentLength = int64(len(out))
	resp.Header.Set("Content-Length", strconv.Itoa(len(out)))
	return nil
}

func (p *proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error(map[string]any{
		"path":  r.URL.Path,
		"error": err,
	}, "Upstream request failed")
	w.WriteHeader(http.StatusBadGateway)
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mediaType == "text/html" || mediaType == "application/xhtml+xml")
}

type readCloser struct {
	io.Reader
	io.Closer
}
