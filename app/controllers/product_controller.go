// Package controllers maps HTTP requests onto the store and services.
// Validation happens here at the boundary; the store assumes its
// inputs are already valid. Backend failures are logged with detail
// server-side and surface to the client as a generic 500.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/app/store"
	"github.com/shashiranjanraj/charvi/pkg/bind"
	"github.com/shashiranjanraj/charvi/pkg/event"
	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/response"
	"github.com/shashiranjanraj/charvi/pkg/router"
)

type ProductController struct {
	store store.Store
}

func NewProductController(s store.Store) *ProductController {
	return &ProductController{store: s}
}

// Index handles GET /api/products?page&limit&category.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", store.DefaultPage)
	limit := queryInt(r, "limit", store.DefaultLimit)
	category := r.URL.Query().Get("category")

	result, err := c.store.ListProducts(r.Context(), page, limit, category)
	if err != nil {
		logger.WithCtx(r.Context()).Error("list products failed", "error", err)
		response.ServerError(w, "Failed to fetch products")
		return
	}
	response.Success(w, result)
}

// Show handles GET /api/products/{id}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")
	p, err := c.store.GetProduct(r.Context(), id)
	if err != nil {
		logger.WithCtx(r.Context()).Error("get product failed", "id", id, "error", err)
		response.ServerError(w, "Failed to fetch product")
		return
	}
	if p == nil {
		response.NotFound(w, "Product not found")
		return
	}
	response.Success(w, p)
}

// Store handles POST /api/products (admin).
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in models.InsertProduct
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, "Invalid product data", errs)
		return
	}

	p, err := c.store.CreateProduct(r.Context(), in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("create product failed", "error", err)
		response.ServerError(w, "Failed to create product")
		return
	}
	event.FireAsync("product.created", p)
	response.Created(w, p)
}

// Update handles PUT /api/products/{id} (admin).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")

	var patch models.PatchProduct
	if errs, err := bind.JSON(r, &patch); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, "Invalid product data", errs)
		return
	}

	p, err := c.store.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		logger.WithCtx(r.Context()).Error("update product failed", "id", id, "error", err)
		response.ServerError(w, "Failed to update product")
		return
	}
	if p == nil {
		response.NotFound(w, "Product not found")
		return
	}
	event.FireAsync("product.updated", p)
	response.Success(w, p)
}

// Destroy handles DELETE /api/products/{id} (admin).
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")
	ok, err := c.store.DeleteProduct(r.Context(), id)
	if err != nil {
		logger.WithCtx(r.Context()).Error("delete product failed", "id", id, "error", err)
		response.ServerError(w, "Failed to delete product")
		return
	}
	if !ok {
		response.NotFound(w, "Product not found")
		return
	}
	event.FireAsync("product.deleted", map[string]string{"id": id})
	response.NoContent(w)
}

// queryInt reads an integer query parameter, falling back to def when
// absent or unparseable.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
