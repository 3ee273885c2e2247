// Package store defines the storage engine behind the catalogue: one
// interface, two interchangeable backends. The gorm backend pushes
// filtering and counting into the database; the file backend loads
// whole JSON collections and slices in memory. Both must agree exactly
// on pagination and filter semantics.
package store

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/config"
	"github.com/shashiranjanraj/charvi/pkg/database"
)

// CategoryAll is the sentinel filter value meaning "no category
// restriction".
const CategoryAll = "all"

// Default listing parameters applied when the caller passes values
// below 1.
const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// ProductPage is one page of a filtered product listing. Total counts
// the whole filtered set so clients can compute page numbers.
type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// Store is the storage engine contract shared by both backends.
//
// Get* operations return (nil, nil) when no record matches: absence is
// not an error. Delete* operations report whether a record existed.
// Update* operations merge only the fields present in the patch and
// return nil when the id is unknown.
type Store interface {
	ListProducts(ctx context.Context, page, limit int, category string) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, in models.InsertProduct) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.PatchProduct) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, in models.InsertCategory) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, patch models.PatchCategory) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, in models.InsertCustomer) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch models.PatchCustomer) (*models.Customer, error)

	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	CreateAdmin(ctx context.Context, in models.InsertAdmin) (*models.Admin, error)
}

// Connect builds the backend selected by STORE_DRIVER: "gorm" opens
// the relational store, "file" the flat-file store under DATA_DIR.
func Connect() (Store, error) {
	switch config.StoreDriver() {
	case "file":
		return NewFileStore(config.DataDir())
	default:
		db, err := database.Connect()
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	}
}

// clampListing normalises page and limit: values below 1 fall back to
// the defaults, uniformly across both backends.
func clampListing(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// categoryFiltered reports whether the given filter value restricts
// the listing. Empty and the "all" sentinel mean unfiltered.
func categoryFiltered(category string) bool {
	return category != "" && !strings.EqualFold(category, CategoryAll)
}
