package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
)

func testConfig(port string) *config.ServiceConfig {
	return &config.ServiceConfig{
		Name:         "library-bot",
		Port:         port,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}
}

// url addresses a started server over loopback
func url(t *testing.T, srv *Server, path string) string {
	t.Helper()
	_, port, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)
	return "http://" + net.JoinHostPort("127.0.0.1", port) + path
}

func TestServer_ServesRoutes(t *testing.T) {
	srv := NewServer(testConfig("0"), zerolog.Nop())
	srv.Router.GET("/ping", func(ctx *fasthttp.RequestCtx) { ctx.SetBodyString("pong") })
	srv.RegisterMetrics()

	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	status, body, err := fasthttp.Get(nil, url(t, srv, "/ping"))
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Equal(t, "pong", string(body))

	var resp fasthttp.Response
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url(t, srv, "/metrics"))
	require.NoError(t, fasthttp.Do(req, &resp))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Equal(t, "library-bot", string(resp.Header.Server()))

	status, _, err = fasthttp.Get(nil, url(t, srv, "/missing"))
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	first := NewServer(testConfig("0"), zerolog.Nop())
	require.NoError(t, first.Start())
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)

	second := NewServer(testConfig(port), zerolog.Nop())
	assert.Error(t, second.Start())
}
