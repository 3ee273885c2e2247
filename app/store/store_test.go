package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/app/store"
	"github.com/shashiranjanraj/charvi/pkg/database"
)

// backends returns both storage backends so every contract test runs
// against each. The behaviors asserted here must hold identically for
// the relational and the flat-file implementation.
func backends(t *testing.T) map[string]store.Store {
	t.Helper()

	db, err := database.ConnectDSN("sqlite", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	gs := store.NewGormStore(db)
	require.NoError(t, gs.AutoMigrate())

	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	return map[string]store.Store{"gorm": gs, "file": fs}
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func seedProduct(t *testing.T, s store.Store, name, category string) *models.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), models.InsertProduct{
		Name:        name,
		Description: "test product",
		Price:       "499.99",
		Category:    category,
		Image:       "https://img.example.com/p.jpg",
	})
	require.NoError(t, err)
	return p
}

func TestCreateProductDefaults(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			p := seedProduct(t, s, "Phone", "electronics")

			assert.NotEmpty(t, p.ID)
			assert.False(t, p.CreatedAt.IsZero())
			assert.Equal(t, 0, p.Stock)
			assert.Equal(t, "0", p.Rating)
			assert.False(t, p.Featured)
		})
	}
}

func TestProductRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := s.CreateProduct(ctx, models.InsertProduct{
				Name:        "Phone",
				Description: "flagship",
				Price:       "499.99",
				Category:    "electronics",
				Image:       "https://img.example.com/phone.jpg",
				Stock:       intPtr(3),
				Rating:      strPtr("4.5"),
				Featured:    boolPtr(true),
			})
			require.NoError(t, err)

			got, err := s.GetProduct(ctx, created.ID)
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, "Phone", got.Name)
			assert.Equal(t, "flagship", got.Description)
			assert.Equal(t, "499.99", got.Price)
			assert.Equal(t, "electronics", got.Category)
			assert.Equal(t, 3, got.Stock)
			assert.Equal(t, "4.5", got.Rating)
			assert.True(t, got.Featured)
		})
	}
}

func TestGetProductAbsent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.GetProduct(context.Background(), "no-such-id")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestListProductsPagination(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 7; i++ {
				seedProduct(t, s, fmt.Sprintf("Item %d", i), "misc")
			}

			// Contiguous pages of 3 must cover all 7 items exactly once.
			seen := map[string]int{}
			for page := 1; page <= 3; page++ {
				res, err := s.ListProducts(ctx, page, 3, "")
				require.NoError(t, err)
				assert.Equal(t, int64(7), res.Total)
				assert.LessOrEqual(t, len(res.Products), 3)
				for _, p := range res.Products {
					seen[p.ID]++
				}
			}
			assert.Len(t, seen, 7)
			for id, n := range seen {
				assert.Equal(t, 1, n, "product %s returned more than once", id)
			}

			// Past the end: empty page, same total, no error.
			res, err := s.ListProducts(ctx, 9, 3, "")
			require.NoError(t, err)
			assert.Empty(t, res.Products)
			assert.Equal(t, int64(7), res.Total)
		})
	}
}

func TestListProductsClampsPageAndLimit(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedProduct(t, s, "Only", "misc")

			// Non-positive page and limit fall back to 1 and 12.
			res, err := s.ListProducts(ctx, 0, 0, "")
			require.NoError(t, err)
			assert.Len(t, res.Products, 1)
			assert.Equal(t, int64(1), res.Total)

			res, err = s.ListProducts(ctx, -3, -10, "")
			require.NoError(t, err)
			assert.Len(t, res.Products, 1)
		})
	}
}

func TestListProductsCategoryFilter(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.CreateCategory(ctx, models.InsertCategory{Name: "Electronics"})
			require.NoError(t, err)
			phone := seedProduct(t, s, "Phone", "electronics")
			seedProduct(t, s, "Mug", "kitchen")

			// Case-insensitive exact match, both directions.
			for _, filter := range []string{"Electronics", "electronics", "ELECTRONICS"} {
				res, err := s.ListProducts(ctx, 1, 12, filter)
				require.NoError(t, err)
				require.Equal(t, int64(1), res.Total, "filter %q", filter)
				assert.Equal(t, phone.ID, res.Products[0].ID)
			}

			// "all" sentinel and empty string are unfiltered.
			for _, filter := range []string{"", "all", "All"} {
				res, err := s.ListProducts(ctx, 1, 12, filter)
				require.NoError(t, err)
				assert.Equal(t, int64(2), res.Total, "filter %q", filter)
			}

			// No partial matching.
			res, err := s.ListProducts(ctx, 1, 12, "electro")
			require.NoError(t, err)
			assert.Equal(t, int64(0), res.Total)
		})
	}
}

func TestUpdateProductPatchMerge(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := seedProduct(t, s, "Phone", "electronics")

			got, err := s.UpdateProduct(ctx, p.ID, models.PatchProduct{Stock: intPtr(5)})
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, 5, got.Stock)
			assert.Equal(t, p.Name, got.Name)
			assert.Equal(t, p.Price, got.Price)
			assert.Equal(t, p.Category, got.Category)
			assert.Equal(t, p.Image, got.Image)
			assert.Equal(t, p.Rating, got.Rating)
			assert.Equal(t, p.Featured, got.Featured)
		})
	}
}

func TestUpdateProductAbsent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.UpdateProduct(context.Background(), "no-such-id",
				models.PatchProduct{Stock: intPtr(5)})
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestDeleteProductIdempotent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := seedProduct(t, s, "Phone", "electronics")

			ok, err := s.DeleteProduct(ctx, p.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = s.DeleteProduct(ctx, p.ID)
			require.NoError(t, err)
			assert.False(t, ok)

			got, err := s.GetProduct(ctx, p.ID)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestCategoryCRUD(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			c, err := s.CreateCategory(ctx, models.InsertCategory{
				Name:        "Books",
				Description: strPtr("paper things"),
			})
			require.NoError(t, err)
			assert.NotEmpty(t, c.ID)

			got, err := s.GetCategory(ctx, c.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Books", got.Name)
			require.NotNil(t, got.Description)
			assert.Equal(t, "paper things", *got.Description)

			updated, err := s.UpdateCategory(ctx, c.ID, models.PatchCategory{Name: strPtr("Literature")})
			require.NoError(t, err)
			require.NotNil(t, updated)
			assert.Equal(t, "Literature", updated.Name)
			require.NotNil(t, updated.Description)
			assert.Equal(t, "paper things", *updated.Description)

			ok, err := s.DeleteCategory(ctx, c.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			gone, err := s.GetCategory(ctx, c.ID)
			require.NoError(t, err)
			assert.Nil(t, gone)
		})
	}
}

func TestUpdateCategoryNullableDescription(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			c, err := s.CreateCategory(ctx, models.InsertCategory{
				Name:        "Stationery",
				Description: strPtr("paper things"),
			})
			require.NoError(t, err)

			// An absent field keeps the stored value.
			var keep models.PatchCategory
			require.NoError(t, json.Unmarshal([]byte(`{"name": "Office"}`), &keep))
			got, err := s.UpdateCategory(ctx, c.ID, keep)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Office", got.Name)
			require.NotNil(t, got.Description)
			assert.Equal(t, "paper things", *got.Description)

			// An explicit null clears it.
			var clear models.PatchCategory
			require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &clear))
			got, err = s.UpdateCategory(ctx, c.ID, clear)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Nil(t, got.Description)
			assert.Equal(t, "Office", got.Name)

			// A value sets it back.
			got, err = s.UpdateCategory(ctx, c.ID, models.PatchCategory{
				Description: models.SomeOptional("pens and paper"),
			})
			require.NoError(t, err)
			require.NotNil(t, got.Description)
			assert.Equal(t, "pens and paper", *got.Description)

			// Cleared state survives a reload.
			got, err = s.UpdateCategory(ctx, c.ID, models.PatchCategory{
				Description: models.NullOptional[string](),
			})
			require.NoError(t, err)
			assert.Nil(t, got.Description)
			reloaded, err := s.GetCategory(ctx, c.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.Nil(t, reloaded.Description)
		})
	}
}

func TestDeleteCategoryDoesNotCascade(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c, err := s.CreateCategory(ctx, models.InsertCategory{Name: "Electronics"})
			require.NoError(t, err)
			p := seedProduct(t, s, "Phone", "electronics")

			ok, err := s.DeleteCategory(ctx, c.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			// The product keeps its orphaned category string.
			got, err := s.GetProduct(ctx, p.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "electronics", got.Category)
		})
	}
}

func TestCustomerRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := s.CreateCustomer(ctx, models.InsertCustomer{
				Name:               "A",
				Email:              "a@b.com",
				Phone:              "1234567890",
				InterestedProducts: []string{"p1"},
			})
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)

			customers, err := s.ListCustomers(ctx)
			require.NoError(t, err)
			require.Len(t, customers, 1)
			assert.Equal(t, "a@b.com", customers[0].Email)
			assert.Equal(t, models.StringList{"p1"}, customers[0].InterestedProducts)
		})
	}
}

func TestUpdateCustomerPatchMerge(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := s.CreateCustomer(ctx, models.InsertCustomer{
				Name:  "A",
				Email: "a@b.com",
				Phone: "1234567890",
			})
			require.NoError(t, err)

			interested := []string{"p1", "p2"}
			got, err := s.UpdateCustomer(ctx, created.ID, models.PatchCustomer{
				InterestedProducts: &interested,
			})
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, models.StringList{"p1", "p2"}, got.InterestedProducts)
			assert.Equal(t, "A", got.Name)
			assert.Equal(t, "a@b.com", got.Email)

			absent, err := s.UpdateCustomer(ctx, "no-such-id", models.PatchCustomer{})
			require.NoError(t, err)
			assert.Nil(t, absent)
		})
	}
}

func TestCustomerDuplicatesAllowed(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := models.InsertCustomer{Name: "A", Email: "a@b.com", Phone: "1234567890"}

			first, err := s.CreateCustomer(ctx, in)
			require.NoError(t, err)
			second, err := s.CreateCustomer(ctx, in)
			require.NoError(t, err)

			assert.NotEqual(t, first.ID, second.ID)

			customers, err := s.ListCustomers(ctx)
			require.NoError(t, err)
			assert.Len(t, customers, 2)
		})
	}
}

func TestAdminLookup(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			absent, err := s.GetAdminByUsername(ctx, "admin")
			require.NoError(t, err)
			assert.Nil(t, absent)

			created, err := s.CreateAdmin(ctx, models.InsertAdmin{
				Username: "admin",
				Password: "$2a$10$already.hashed.credential",
			})
			require.NoError(t, err)

			got, err := s.GetAdminByUsername(ctx, "admin")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, "$2a$10$already.hashed.credential", got.Password)
		})
	}
}

func TestFileStoreMissingFilesReadEmpty(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	res, err := fs.ListProducts(context.Background(), 1, 12, "")
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	assert.Equal(t, int64(0), res.Total)

	categories, err := fs.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestFileStoreCorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0o644))

	res, err := fs.ListProducts(context.Background(), 1, 12, "")
	require.NoError(t, err)
	assert.Empty(t, res.Products)

	// The store recovers: the next write replaces the corrupt file.
	p, err := fs.CreateProduct(context.Background(), models.InsertProduct{
		Name: "Fresh", Description: "d", Price: "1.00",
		Category: "misc", Image: "https://img.example.com/f.jpg",
	})
	require.NoError(t, err)

	res, err = fs.ListProducts(context.Background(), 1, 12, "")
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, p.ID, res.Products[0].ID)
}
