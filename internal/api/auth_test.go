package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/config"
)

func authConfig() config.APIConfig {
	return config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled: true,
			APIKeys: []config.APIClientKey{
				{Key: "gateway-key", Extra: "gateway-extra", Name: "gateway"},
				{Key: "reader-key", Extra: "reader-extra", Name: "reader", Permissions: []string{"read"}},
			},
		},
	}
}

func authedRequest(t *testing.T, method, url, key, extra string) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	if extra != "" {
		req.Header.Set("x-api-extra", extra)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestHTTPAuth(t *testing.T) {
	ts := newTestHTTPServer(t, authConfig())

	tests := []struct {
		name   string
		method string
		path   string
		key    string
		extra  string
		want   int
	}{
		{"health is open", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"missing headers", http.MethodGet, "/users", "", "", http.StatusUnauthorized},
		{"unknown key", http.MethodGet, "/users", "nope", "nope", http.StatusUnauthorized},
		{"wrong extra", http.MethodGet, "/users", "gateway-key", "nope", http.StatusUnauthorized},
		{"full access read", http.MethodGet, "/users", "gateway-key", "gateway-extra", http.StatusOK},
		{"reader read", http.MethodGet, "/users", "reader-key", "reader-extra", http.StatusOK},
		{"reader write", http.MethodDelete, "/users/1", "reader-key", "reader-extra", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authedRequest(t, tt.method, ts.URL+tt.path, tt.key, tt.extra))
		})
	}
}

func TestHTTPRateLimit(t *testing.T) {
	cfg := authConfig()
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 0.001, Burst: 1}
	ts := newTestHTTPServer(t, cfg)

	assert.Equal(t, http.StatusOK, authedRequest(t, http.MethodGet, ts.URL+"/users", "gateway-key", "gateway-extra"))
	assert.Equal(t, http.StatusTooManyRequests, authedRequest(t, http.MethodGet, ts.URL+"/users", "gateway-key", "gateway-extra"))
	// Buckets are per key.
	assert.Equal(t, http.StatusOK, authedRequest(t, http.MethodGet, ts.URL+"/users", "reader-key", "reader-extra"))
}

func TestKeyedLimiterDisabled(t *testing.T) {
	l := newKeyedLimiter(config.APIRateLimitConfig{})
	for i := 0; i < 100; i++ {
		require.True(t, l.allow("k"))
	}
	assert.Equal(t, defaultBurst, l.burst)
}
