// Package transport serves condvis over HTTP. It proxies page requests to the
// host site and resolves deferred visibility markers in HTML responses, and it
// exposes the decision endpoints hosts call at render time.
package transport

import (
	"context"
	"net/http"
)

// ServerTransport defines the lifecycle of a network transport.
type ServerTransport interface {
	// Start binds the listener and serves requests with handler until Stop or ctx is done.
	Start(ctx context.Context, handler http.Handler) error

	// Stop gracefully shuts down the transport.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}

// Route paths served next to the proxied site.
const (
	RoutePrefix  = "/_condvis/"
	RouteRender  = RoutePrefix + "render"
	RouteWidget  = RoutePrefix + "widget"
	RouteResolve = RoutePrefix + "resolve"
	RouteTerms   = RoutePrefix + "terms"
	RouteHealth  = RoutePrefix + "healthz"
)
