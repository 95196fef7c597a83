package transport

import (
	"net/http"
	"net/url"

	"github.com/haukened/condvis/internal/visibility/common/log"
	"github.com/haukened/condvis/internal/visibility/gateways/markup"
	"github.com/haukened/condvis/internal/visibility/repos/terms"
	"github.com/haukened/condvis/internal/visibility/services/visibility"
)

// TermLister lists the domain select options.
type TermLister interface {
	Terms() []terms.Term
}

// HandlerOptions wires the HTTP surface. A nil Upstream disables the proxy.
// MaxBody 0 means unlimited.
type HandlerOptions struct {
	Upstream *url.URL
	Adapter  *visibility.Adapter
	Rewriter *markup.Rewriter
	Terms    TermLister
	Logger   log.Logger
	MaxBody  int64
}

// NewHandler builds the daemon's HTTP handler: decision endpoints under
// RoutePrefix and, when an upstream is configured, the rewriting proxy for
// everything else.
func NewHandler(opts HandlerOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	if opts.Adapter == nil {
		opts.Adapter = visibility.NewAdapter(visibility.AdapterOptions{Logger: opts.Logger})
	}
	if opts.Rewriter == nil {
		opts.Rewriter = markup.NewRewriter(opts.Logger)
	}

	a := &api{
		adapter:  opts.Adapter,
		rewriter: opts.Rewriter,
		terms:    opts.Terms,
		logger:   opts.Logger,
		maxBody:  opts.MaxBody,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+RouteRender, a.render)
	mux.HandleFunc("POST "+RouteWidget, a.widget)
	mux.HandleFunc("POST "+RouteResolve, a.resolve)
	mux.HandleFunc("GET "+RouteTerms, a.listTerms)
	mux.HandleFunc("GET "+RouteHealth, a.health)

	if opts.Upstream != nil {
		mux.Handle("/", NewProxy(ProxyOptions{
			Upstream: opts.Upstream,
			Rewriter: opts.Rewriter,
			Logger:   opts.Logger,
			MaxBody:  opts.MaxBody,
		}))
	}
	return mux
}
