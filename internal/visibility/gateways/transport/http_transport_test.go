package transport

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/condvis/internal/visibility/common/log"
)

var noKeepAlive = &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
}

func TestHTTPTransport_StartStop(t *testing.T) {
	tr := NewHTTPTransport("127.0.0.1:0", log.NewNoopLogger())
	assert.Equal(t, "127.0.0.1:0", tr.Address())

	require.NoError(t, tr.Start(context.Background(), okHandler()))
	addr := tr.Address()
	assert.NotEqual(t, "127.0.0.1:0", addr)

	resp, err := noKeepAlive.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	require.NoError(t, tr.Stop())
	require.NoError(t, tr.Stop(), "second stop is a no-op")

	_, err = noKeepAlive.Get("http://" + addr + "/")
	assert.Error(t, err)
}

func TestHTTPTransport_DoubleStart(t *testing.T) {
	tr := NewHTTPTransport("127.0.0.1:0", nil)
	require.NoError(t, tr.Start(context.Background(), okHandler()))
	defer func() { _ = tr.Stop() }()

	err := tr.Start(context.Background(), okHandler())
	assert.ErrorContains(t, err, "already running")
}

func TestHTTPTransport_BindError(t *testing.T) {
	tr := NewHTTPTransport("256.0.0.1:99999", nil)
	err := tr.Start(context.Background(), okHandler())
	assert.ErrorContains(t, err, "failed to listen")
}

func TestHTTPTransport_ContextCancelStops(t *testing.T) {
	tr := NewHTTPTransport("127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, tr.Start(ctx, okHandler()))
	addr := tr.Address()

	cancel()
	assert.Eventually(t, func() bool {
		_, err := noKeepAlive.Get("http://" + addr + "/")
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
}
