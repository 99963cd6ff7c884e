package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireOwner(t *testing.T) {
	var seen string
	h := SetContentTypeMiddleware(RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = OwnerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, seen)

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.Header.Set(OwnerHeader, " user-1 ")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-1", seen)
}

func TestRequestLogger_PassesStatusThrough(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
