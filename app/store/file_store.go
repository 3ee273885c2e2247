package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/pkg/collection"
	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/metrics"
)

// FileStore is the flat-file backend: one JSON file per collection
// under the data directory. Every operation is a whole-file read or
// read-modify-write with no locking, so two concurrent writers against
// the same collection can lose one update (last write wins). That
// matches the legacy behavior and is acceptable only at demo scale.
//
// A missing or corrupt file reads as an empty collection.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns the
// flat-file backend rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// readFile loads a collection file into dest. Missing and unreadable
// files degrade to an empty collection rather than failing first runs.
func readFile[T any](s *FileStore, name string) []T {
	items := []T{}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return items
	}
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("store: corrupt collection file, treating as empty",
			"file", s.path(name), "error", err)
		return []T{}
	}
	return items
}

func writeFile[T any](s *FileStore, name string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(name), data, 0o644)
}

// ─── Products ────────────────────────────────────────────────────────────────

func (s *FileStore) ListProducts(ctx context.Context, page, limit int, category string) (*ProductPage, error) {
	defer metrics.ObserveStoreOp("list_products", "file", time.Now())

	page, limit = clampListing(page, limit)
	products := readFile[models.Product](s, "products")
	if categoryFiltered(category) {
		products = collection.Filter(products, func(p models.Product) bool {
			return strings.EqualFold(p.Category, category)
		})
	}
	collection.SortBy(products, func(a, b models.Product) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID // deterministic paging when timestamps collide
	})

	total := int64(len(products))
	pageItems := collection.Paginate(products, page, limit)
	if pageItems == nil {
		pageItems = []models.Product{}
	}
	return &ProductPage{Products: pageItems, Total: total}, nil
}

func (s *FileStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	defer metrics.ObserveStoreOp("get_product", "file", time.Now())

	products := readFile[models.Product](s, "products")
	if p, ok := collection.First(products, func(p models.Product) bool { return p.ID == id }); ok {
		return &p, nil
	}
	return nil, nil
}

func (s *FileStore) CreateProduct(ctx context.Context, in models.InsertProduct) (*models.Product, error) {
	defer metrics.ObserveStoreOp("create_product", "file", time.Now())

	p := models.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		Stock:       0,
		Rating:      "0",
		Featured:    false,
		CreatedAt:   time.Now().UTC(),
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}

	products := readFile[models.Product](s, "products")
	products = append(products, p)
	if err := writeFile(s, "products", products); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *FileStore) UpdateProduct(ctx context.Context, id string, patch models.PatchProduct) (*models.Product, error) {
	defer metrics.ObserveStoreOp("update_product", "file", time.Now())

	products := readFile[models.Product](s, "products")
	for i := range products {
		if products[i].ID != id {
			continue
		}
		p := &products[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Image != nil {
			p.Image = *patch.Image
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.Rating != nil {
			p.Rating = *patch.Rating
		}
		if patch.Featured != nil {
			p.Featured = *patch.Featured
		}
		if err := writeFile(s, "products", products); err != nil {
			return nil, err
		}
		out := *p
		return &out, nil
	}
	return nil, nil
}

func (s *FileStore) DeleteProduct(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveStoreOp("delete_product", "file", time.Now())

	products := readFile[models.Product](s, "products")
	remaining := collection.Filter(products, func(p models.Product) bool { return p.ID != id })
	if len(remaining) == len(products) {
		return false, nil
	}
	if remaining == nil {
		remaining = []models.Product{}
	}
	if err := writeFile(s, "products", remaining); err != nil {
		return false, err
	}
	return true, nil
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (s *FileStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	defer metrics.ObserveStoreOp("list_categories", "file", time.Now())

	categories := readFile[models.Category](s, "categories")
	collection.SortBy(categories, func(a, b models.Category) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return categories, nil
}

func (s *FileStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	defer metrics.ObserveStoreOp("get_category", "file", time.Now())

	categories := readFile[models.Category](s, "categories")
	if c, ok := collection.First(categories, func(c models.Category) bool { return c.ID == id }); ok {
		return &c, nil
	}
	return nil, nil
}

func (s *FileStore) CreateCategory(ctx context.Context, in models.InsertCategory) (*models.Category, error) {
	defer metrics.ObserveStoreOp("create_category", "file", time.Now())

	c := models.Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	categories := readFile[models.Category](s, "categories")
	categories = append(categories, c)
	if err := writeFile(s, "categories", categories); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *FileStore) UpdateCategory(ctx context.Context, id string, patch models.PatchCategory) (*models.Category, error) {
	defer metrics.ObserveStoreOp("update_category", "file", time.Now())

	categories := readFile[models.Category](s, "categories")
	for i := range categories {
		if categories[i].ID != id {
			continue
		}
		c := &categories[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Description.Set {
			c.Description = patch.Description.Ptr()
		}
		if err := writeFile(s, "categories", categories); err != nil {
			return nil, err
		}
		out := *c
		return &out, nil
	}
	return nil, nil
}

func (s *FileStore) DeleteCategory(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveStoreOp("delete_category", "file", time.Now())

	categories := readFile[models.Category](s, "categories")
	remaining := collection.Filter(categories, func(c models.Category) bool { return c.ID != id })
	if len(remaining) == len(categories) {
		return false, nil
	}
	if remaining == nil {
		remaining = []models.Category{}
	}
	if err := writeFile(s, "categories", remaining); err != nil {
		return false, err
	}
	return true, nil
}

// ─── Customers ───────────────────────────────────────────────────────────────

func (s *FileStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	defer metrics.ObserveStoreOp("list_customers", "file", time.Now())

	customers := readFile[models.Customer](s, "customers")
	collection.SortBy(customers, func(a, b models.Customer) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return customers, nil
}

func (s *FileStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	defer metrics.ObserveStoreOp("get_customer", "file", time.Now())

	customers := readFile[models.Customer](s, "customers")
	if c, ok := collection.First(customers, func(c models.Customer) bool { return c.ID == id }); ok {
		return &c, nil
	}
	return nil, nil
}

func (s *FileStore) CreateCustomer(ctx context.Context, in models.InsertCustomer) (*models.Customer, error) {
	defer metrics.ObserveStoreOp("create_customer", "file", time.Now())

	interested := models.StringList{}
	if in.InterestedProducts != nil {
		interested = models.StringList(in.InterestedProducts)
	}
	c := models.Customer{
		ID:                 uuid.NewString(),
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		InterestedProducts: interested,
		CreatedAt:          time.Now().UTC(),
	}
	customers := readFile[models.Customer](s, "customers")
	customers = append(customers, c)
	if err := writeFile(s, "customers", customers); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *FileStore) UpdateCustomer(ctx context.Context, id string, patch models.PatchCustomer) (*models.Customer, error) {
	defer metrics.ObserveStoreOp("update_customer", "file", time.Now())

	customers := readFile[models.Customer](s, "customers")
	for i := range customers {
		if customers[i].ID != id {
			continue
		}
		c := &customers[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Email != nil {
			c.Email = *patch.Email
		}
		if patch.Phone != nil {
			c.Phone = *patch.Phone
		}
		if patch.InterestedProducts != nil {
			c.InterestedProducts = models.StringList(*patch.InterestedProducts)
		}
		if err := writeFile(s, "customers", customers); err != nil {
			return nil, err
		}
		out := *c
		return &out, nil
	}
	return nil, nil
}

// ─── Admins ──────────────────────────────────────────────────────────────────

// adminRecord keeps the hashed password in the file even though the
// model hides it from JSON responses.
type adminRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *FileStore) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	defer metrics.ObserveStoreOp("get_admin", "file", time.Now())

	admins := readFile[adminRecord](s, "admins")
	if a, ok := collection.First(admins, func(a adminRecord) bool { return a.Username == username }); ok {
		return &models.Admin{
			ID:        a.ID,
			Username:  a.Username,
			Password:  a.Password,
			CreatedAt: a.CreatedAt,
		}, nil
	}
	return nil, nil
}

func (s *FileStore) CreateAdmin(ctx context.Context, in models.InsertAdmin) (*models.Admin, error) {
	defer metrics.ObserveStoreOp("create_admin", "file", time.Now())

	a := adminRecord{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Password:  in.Password, // already hashed by the caller
		CreatedAt: time.Now().UTC(),
	}
	admins := readFile[adminRecord](s, "admins")
	admins = append(admins, a)
	if err := writeFile(s, "admins", admins); err != nil {
		return nil, err
	}
	return &models.Admin{
		ID:        a.ID,
		Username:  a.Username,
		Password:  a.Password,
		CreatedAt: a.CreatedAt,
	}, nil
}
