package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/app/routes"
	"github.com/shashiranjanraj/charvi/app/services"
	"github.com/shashiranjanraj/charvi/app/store"
	"github.com/shashiranjanraj/charvi/pkg/router"
	"github.com/shashiranjanraj/charvi/pkg/session"
)

type apiHarness struct {
	handler http.Handler
	store   store.Store
	// addr isolates the per-IP login rate limit between tests.
	addr    string
	cookies []*http.Cookie
}

func newHarness(t *testing.T) *apiHarness {
	t.Helper()

	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	authService := services.NewAuthService(fs)
	require.NoError(t, authService.EnsureDefaultAdmin(context.Background()))

	r := router.New()
	r.Use(session.Middleware(session.DefaultOptions()))
	routes.RegisterAPI(r, fs, authService)

	return &apiHarness{
		handler: r.Handler(),
		store:   fs,
		addr:    fmt.Sprintf("192.0.2.%d:1234", len(t.Name())%250+1),
	}
}

func (h *apiHarness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = h.addr
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range h.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		h.cookies = cookies
	}
	return rec
}

func (h *apiHarness) login(t *testing.T) {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": services.DefaultAdminUsername,
		"password": services.DefaultAdminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicProductListing(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/products?page=1&limit=12", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[store.ProductPage](t, rec)
	assert.Empty(t, page.Products)
	assert.Equal(t, int64(0), page.Total)
}

func TestMutationsRequireAuth(t *testing.T) {
	h := newHarness(t)

	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/some-id"},
		{http.MethodDelete, "/api/products/some-id"},
		{http.MethodPost, "/api/categories"},
		{http.MethodDelete, "/api/categories/some-id"},
		{http.MethodGet, "/api/customers"},
	}
	for _, p := range paths {
		rec := h.do(t, p.method, p.path, map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newHarness(t)

	for _, body := range []map[string]string{
		{"username": "nobody", "password": "whatever"},
		{"username": services.DefaultAdminUsername, "password": "wrong"},
	} {
		rec := h.do(t, http.MethodPost, "/api/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decode[map[string]string](t, rec)
		assert.Equal(t, "Invalid credentials", resp["message"])
	}

	rec := h.do(t, http.MethodPost, "/api/auth/login", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	h := newHarness(t)

	// Before login the identity probe rejects.
	rec := h.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	h.login(t)

	rec = h.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]string](t, rec)
	assert.NotEmpty(t, me["adminId"])

	rec = h.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductAdminCRUD(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	rec := h.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name":        "Phone",
		"description": "flagship",
		"price":       "499.99",
		"category":    "electronics",
		"image":       "https://img.example.com/phone.jpg",
		"stock":       3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Product](t, rec)
	assert.Equal(t, 3, created.Stock)
	assert.Equal(t, "0", created.Rating)

	// Partial update: only stock changes.
	rec = h.do(t, http.MethodPut, "/api/products/"+created.ID, map[string]interface{}{
		"stock": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Product](t, rec)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, "Phone", updated.Name)
	assert.Equal(t, "499.99", updated.Price)

	// Public read sees it, case-insensitively filtered.
	rec = h.do(t, http.MethodGet, "/api/products?category=Electronics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[store.ProductPage](t, rec)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, created.ID, page.Products[0].ID)

	rec = h.do(t, http.MethodDelete, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductValidation(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	rec := h.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name":  "Phone",
		"price": "not-a-decimal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBearerTokenAccess(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": services.DefaultAdminUsername,
		"password": services.DefaultAdminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[map[string]interface{}](t, rec)
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	// Fresh request with no session cookie, only the Bearer token.
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.RemoteAddr = h.addr
	req.Header.Set("Authorization", "Bearer "+token)
	out := httptest.NewRecorder()
	h.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
}

func TestCustomerCapture(t *testing.T) {
	h := newHarness(t)

	// Public create, no auth.
	rec := h.do(t, http.MethodPost, "/api/customers", map[string]interface{}{
		"name":               "A",
		"email":              "a@b.com",
		"phone":              "1234567890",
		"interestedProducts": []string{"p1"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/customers", map[string]interface{}{
		"name": "A", "email": "not-an-email", "phone": "1234567890",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Listing is admin-only.
	h.login(t)
	rec = h.do(t, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	customers := decode[[]models.Customer](t, rec)
	require.Len(t, customers, 1)
	assert.Equal(t, models.StringList{"p1"}, customers[0].InterestedProducts)
}

func TestCategoryUniqueName(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	rec := h.do(t, http.MethodPost, "/api/categories", map[string]string{"name": "Electronics"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/categories", map[string]string{"name": "Electronics"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphQLCatalogue(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	rec := h.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name":        "Phone",
		"description": "flagship",
		"price":       "499.99",
		"category":    "electronics",
		"image":       "https://img.example.com/phone.jpg",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/graphql", map[string]string{
		"query": `{ products(category: "Electronics") { total products { name price } } }`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Products struct {
				Total    int `json:"total"`
				Products []struct {
					Name  string `json:"name"`
					Price string `json:"price"`
				} `json:"products"`
			} `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Data.Products.Total)
	assert.Equal(t, "Phone", resp.Data.Products.Products[0].Name)
	assert.Equal(t, "499.99", resp.Data.Products.Products[0].Price)
}
