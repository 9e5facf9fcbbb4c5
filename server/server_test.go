package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sayddii/TwitchNotify/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_AnyPath(t *testing.T) {
	h := HealthHandler()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodGet, "/healthz"},
		{http.MethodHead, "/"},
		{http.MethodPost, "/some/deep/path"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", tc.method, tc.path)
		if tc.method != http.MethodHead {
			assert.Equal(t, "Bot is running", rec.Body.String())
		}
	}
}

func TestMetricsHandler(t *testing.T) {
	m := metrics.New()
	m.Polls.Inc()

	rec := httptest.NewRecorder()
	MetricsHandler(m.Registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "twitchnotify_polls_total 1")
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s := New("health", ln.Addr().String(), HealthHandler())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/anything")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bot is running", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_ListenPortInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	s := New("health", taken.Addr().String(), HealthHandler())
	ln, err := s.Listen()
	assert.Nil(t, ln)
	assert.ErrorContains(t, err, "[health] unable to listen")
}

func TestServer_RunBadAddress(t *testing.T) {
	s := New("health", "256.0.0.1:bad", HealthHandler())
	assert.Error(t, s.Run(context.Background()))
}
