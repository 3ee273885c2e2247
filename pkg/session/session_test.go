package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/charvi/pkg/session"
)

func TestSessionPersistsAcrossRequests(t *testing.T) {
	opts := session.DefaultOptions()

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if r.URL.Path == "/set" {
			sess.Set("admin_id", "a-1")
			require.NoError(t, sess.Save(w))
			return
		}
		id, _ := sess.GetString("admin_id")
		w.Write([]byte(id))
	})
	handler = session.Middleware(opts)(handler)

	// First request stores a value and sets the cookie.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	cookie := cookies[0]
	assert.Equal(t, opts.CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	// Second request with the cookie sees the value.
	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "a-1", rec.Body.String())
}

func TestDestroyRemovesSessionAndExpiresCookie(t *testing.T) {
	opts := session.DefaultOptions()

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		switch r.URL.Path {
		case "/login":
			sess.Set("admin_id", "a-1")
			require.NoError(t, sess.Save(w))
		case "/logout":
			sess.Destroy()
			require.NoError(t, sess.Save(w))
		default:
			id, _ := sess.GetString("admin_id")
			w.Write([]byte(id))
		}
	})
	handler = session.Middleware(opts)(handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	expired := rec.Result().Cookies()
	require.NotEmpty(t, expired)
	assert.Empty(t, expired[0].Value)
	assert.Negative(t, expired[0].MaxAge)

	// The old cookie no longer resolves to any data.
	req = httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Body.String())
}

func TestUnsavedSessionSetsNoCookie(t *testing.T) {
	opts := session.DefaultOptions()

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler = session.Middleware(opts)(handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Result().Cookies())
}
