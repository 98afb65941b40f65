package httpx

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"shareit/internal/metrics"
)

func TestAccessLog(t *testing.T) {
	metrics.Register()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(AccessLog("test", &logger))
	r.Get("/items/{itemId}", func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusTeapot, "short and stout")
	})

	req := httptest.NewRequest(http.MethodGet, "/items/5", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"route":"/items/{itemId}"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}
