package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/app/store"
	"github.com/shashiranjanraj/charvi/pkg/bind"
	"github.com/shashiranjanraj/charvi/pkg/event"
	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/response"
	"github.com/shashiranjanraj/charvi/pkg/router"
)

type CategoryController struct {
	store store.Store
}

func NewCategoryController(s store.Store) *CategoryController {
	return &CategoryController{store: s}
}

// Index handles GET /api/categories.
func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := c.store.ListCategories(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list categories failed", "error", err)
		response.ServerError(w, "Failed to fetch categories")
		return
	}
	response.Success(w, categories)
}

// Show handles GET /api/categories/{id}.
func (c *CategoryController) Show(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")
	cat, err := c.store.GetCategory(r.Context(), id)
	if err != nil {
		logger.WithCtx(r.Context()).Error("get category failed", "id", id, "error", err)
		response.ServerError(w, "Failed to fetch category")
		return
	}
	if cat == nil {
		response.NotFound(w, "Category not found")
		return
	}
	response.Success(w, cat)
}

// Store handles POST /api/categories (admin). Name uniqueness is
// checked here at write time.
func (c *CategoryController) Store(w http.ResponseWriter, r *http.Request) {
	var in models.InsertCategory
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, "Invalid category data", errs)
		return
	}

	existing, err := c.store.ListCategories(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("category uniqueness check failed", "error", err)
		response.ServerError(w, "Failed to create category")
		return
	}
	for _, cat := range existing {
		if cat.Name == in.Name {
			response.ValidationError(w, "Invalid category data",
				map[string]string{"name": "A category with this name already exists."})
			return
		}
	}

	cat, err := c.store.CreateCategory(r.Context(), in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("create category failed", "error", err)
		response.ServerError(w, "Failed to create category")
		return
	}
	event.FireAsync("category.created", cat)
	response.Created(w, cat)
}

// Update handles PUT /api/categories/{id} (admin).
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")

	var patch models.PatchCategory
	if errs, err := bind.JSON(r, &patch); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, "Invalid category data", errs)
		return
	}

	cat, err := c.store.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		logger.WithCtx(r.Context()).Error("update category failed", "id", id, "error", err)
		response.ServerError(w, "Failed to update category")
		return
	}
	if cat == nil {
		response.NotFound(w, "Category not found")
		return
	}
	event.FireAsync("category.updated", cat)
	response.Success(w, cat)
}

// Destroy handles DELETE /api/categories/{id} (admin). Products keep
// their category string; there is no cascade.
func (c *CategoryController) Destroy(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "id")
	ok, err := c.store.DeleteCategory(r.Context(), id)
	if err != nil {
		logger.WithCtx(r.Context()).Error("delete category failed", "id", id, "error", err)
		response.ServerError(w, "Failed to delete category")
		return
	}
	if !ok {
		response.NotFound(w, "Category not found")
		return
	}
	event.FireAsync("category.deleted", map[string]string{"id": id})
	response.NoContent(w)
}
