// Package session provides cookie-based HTTP sessions backed by Redis, with
// an in-process memory store fallback for single-node and test deployments.
//
// Usage (middleware):
//
//	r.Use(session.Middleware(session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("admin_id", admin.ID)
//	sess.Save(w)
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/charvi/config"
	"github.com/shashiranjanraj/charvi/pkg/cache"
	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/response"
)

// ------------------- Options -------------------

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns the storefront defaults: a 24-hour HTTP-only cookie,
// Secure + SameSite=None in production so the admin panel can be served from
// a different origin than the API.
func DefaultOptions() Options {
	return Options{
		CookieName: "charvi_session",
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.Production(),
		SameSite:   config.SessionSameSite(),
		Path:       "/",
	}
}

// ------------------- Store drivers -------------------

// store persists session payloads by ID.
type store interface {
	load(id string) (map[string]interface{}, bool)
	save(id string, data map[string]interface{}, ttl time.Duration) error
	remove(id string) error
}

// redisStore keeps sessions in Redis via pkg/cache, shared across nodes.
type redisStore struct{}

func redisKey(id string) string { return "charvi:session:" + id }

func (redisStore) load(id string) (map[string]interface{}, bool) {
	var data map[string]interface{}
	if cache.Get(redisKey(id), &data) {
		return data, true
	}
	return nil, false
}

func (redisStore) save(id string, data map[string]interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := cache.Set(redisKey(id), json.RawMessage(raw), ttl); err != nil {
		return fmt.Errorf("session: redis save: %w", err)
	}
	return nil
}

func (redisStore) remove(id string) error {
	return cache.Del(redisKey(id))
}

// memoryStore keeps sessions in a process-local map. Sessions do not survive
// a restart and are not shared between nodes.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      map[string]interface{}
	expiresAt time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]memoryEntry{}}
}

func (m *memoryStore) load(id string) (map[string]interface{}, bool) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

func (m *memoryStore) save(id string, data map[string]interface{}, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[id] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}

	// Opportunistic sweep so the map does not grow unbounded.
	for k, e := range m.entries {
		if time.Now().After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) remove(id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

var (
	backendOnce sync.Once
	backend     store
)

// activeStore picks Redis when available, the memory store otherwise.
// The choice is made once per process.
func activeStore() store {
	backendOnce.Do(func() {
		if cache.Available() {
			backend = redisStore{}
		} else {
			backend = newMemoryStore()
		}
	})
	return backend
}

// ------------------- Session -------------------

type ctxKey struct{}

// Session is an in-request session handle.
type Session struct {
	id        string
	data      map[string]interface{}
	opts      Options
	changed   bool
	destroyed bool
}

// randRead is swapped out in tests to simulate entropy failure.
var randRead = rand.Read

// newID generates a cryptographically random 32-byte hex session ID.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("session: id generation: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Set stores a value under key in the session.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
	s.destroyed = false
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString is a typed convenience getter.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// Destroy empties the session and marks it for removal from the store on the
// next Save (logout).
func (s *Session) Destroy() {
	s.data = map[string]interface{}{}
	s.changed = true
	s.destroyed = true
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Save persists the session and writes the cookie to the response. A
// destroyed session is removed from the store and its cookie expired.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if s.destroyed {
		if err := activeStore().remove(s.id); err != nil {
			return fmt.Errorf("session: remove: %w", err)
		}
		s.writeCookie(w, "", -1)
		s.changed = false
		return nil
	}

	if err := activeStore().save(s.id, s.data, s.opts.TTL); err != nil {
		return err
	}
	s.writeCookie(w, s.id, int(s.opts.TTL.Seconds()))
	s.changed = false
	return nil
}

func (s *Session) writeCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     s.opts.Path,
		MaxAge:   maxAge,
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})
}

// ------------------- Middleware -------------------

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{opts: opts}

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				sess.id = cookie.Value
				if data, ok := activeStore().load(sess.id); ok {
					sess.data = data
				} else {
					sess.data = map[string]interface{}{}
				}
			} else {
				id, err := newID()
				if err != nil {
					// An empty ID would be shared by every anonymous
					// visitor; refuse the request instead.
					logger.WithCtx(r.Context()).Error("session id generation failed", "error", err)
					response.Error(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
				sess.id = id
				sess.data = map[string]interface{}{}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, err := newID()
	if err != nil {
		panic(err) // unreachable outside entropy exhaustion; Recovery turns it into a 500
	}
	return &Session{id: id, data: map[string]interface{}{}, opts: DefaultOptions()}
}
