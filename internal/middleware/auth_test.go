package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetTenantFromContext(r.Context())))
	})
}

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]string{"acme": "secret-key"}
	h := APIKeyAuth(keys)(okHandler())

	t.Run("valid bearer key passes and sets tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		req.Header.Set("Authorization", "Bearer secret-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acme", rec.Body.String())
	})

	t.Run("bare key also accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		req.Header.Set("Authorization", "secret-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-v1 paths stay open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty key map disables auth", func(t *testing.T) {
		open := APIKeyAuth(nil)(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/v1/datasets", nil)
		rec := httptest.NewRecorder()
		open.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(2, 1)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(1, 1)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/ask", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// a new connection from the same host (fresh ephemeral port) shares the bucket
	req2 := httptest.NewRequest(http.MethodGet, "/v1/ask", nil)
	req2.RemoteAddr = "10.0.0.1:5678"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// a different client has its own bucket
	other := httptest.NewRequest(http.MethodGet, "/v1/ask", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
