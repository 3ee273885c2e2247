package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBrokenEntropy(t *testing.T) {
	t.Helper()
	orig := randRead
	randRead = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
	t.Cleanup(func() { randRead = orig })
}

func TestMiddlewareRejectsRequestWhenIDGenerationFails(t *testing.T) {
	withBrokenEntropy(t)

	reached := false
	handler := Middleware(DefaultOptions())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		reached = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// Without an ID every anonymous visitor would share one session.
	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestMiddlewareStillServesRequestsWithExistingCookie(t *testing.T) {
	withBrokenEntropy(t)

	var gotID string
	handler := Middleware(DefaultOptions())(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotID = FromCtx(r).ID()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultOptions().CookieName, Value: "existing-id"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "existing-id", gotID)
}

func TestFromCtxPanicsWhenIDGenerationFails(t *testing.T) {
	withBrokenEntropy(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Panics(t, func() { FromCtx(req) })
}
