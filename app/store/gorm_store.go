package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/pkg/metrics"
)

// GormStore is the relational backend. Filtering, counting and paging
// run inside the database; the count and page select are separate
// queries and are not snapshot-consistent with each other.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the backing tables.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.Product{},
		&models.Category{},
		&models.Customer{},
		&models.Admin{},
		&models.Order{},
	)
}

// ─── Products ────────────────────────────────────────────────────────────────

func (s *GormStore) ListProducts(ctx context.Context, page, limit int, category string) (*ProductPage, error) {
	defer metrics.ObserveStoreOp("list_products", "gorm", time.Now())

	page, limit = clampListing(page, limit)
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if categoryFiltered(category) {
		q = q.Where("LOWER(category) = LOWER(?)", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	products := []models.Product{}
	err := q.Order("created_at DESC, id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: products, Total: total}, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	defer metrics.ObserveStoreOp("get_product", "gorm", time.Now())

	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, in models.InsertProduct) (*models.Product, error) {
	defer metrics.ObserveStoreOp("create_product", "gorm", time.Now())

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
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, id string, patch models.PatchProduct) (*models.Product, error) {
	defer metrics.ObserveStoreOp("update_product", "gorm", time.Now())

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Image != nil {
		updates["image"] = *patch.Image
	}
	if patch.Stock != nil {
		updates["stock"] = *patch.Stock
	}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}
	if patch.Featured != nil {
		updates["featured"] = *patch.Featured
	}

	existing, err := s.GetProduct(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	if len(updates) > 0 {
		err = s.db.WithContext(ctx).Model(&models.Product{}).
			Where("id = ?", id).Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return s.GetProduct(ctx, id)
}

func (s *GormStore) DeleteProduct(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveStoreOp("delete_product", "gorm", time.Now())

	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	defer metrics.ObserveStoreOp("list_categories", "gorm", time.Now())

	categories := []models.Category{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&categories).Error
	return categories, err
}

func (s *GormStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	defer metrics.ObserveStoreOp("get_category", "gorm", time.Now())

	var c models.Category
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, in models.InsertCategory) (*models.Category, error) {
	defer metrics.ObserveStoreOp("create_category", "gorm", time.Now())

	c := models.Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) UpdateCategory(ctx context.Context, id string, patch models.PatchCategory) (*models.Category, error) {
	defer metrics.ObserveStoreOp("update_category", "gorm", time.Now())

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description.Set {
		if patch.Description.Valid {
			updates["description"] = patch.Description.Value
		} else {
			updates["description"] = nil // explicit null clears it
		}
	}

	existing, err := s.GetCategory(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	if len(updates) > 0 {
		err = s.db.WithContext(ctx).Model(&models.Category{}).
			Where("id = ?", id).Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return s.GetCategory(ctx, id)
}

func (s *GormStore) DeleteCategory(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveStoreOp("delete_category", "gorm", time.Now())

	res := s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// ─── Customers ───────────────────────────────────────────────────────────────

func (s *GormStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	defer metrics.ObserveStoreOp("list_customers", "gorm", time.Now())

	customers := []models.Customer{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (s *GormStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	defer metrics.ObserveStoreOp("get_customer", "gorm", time.Now())

	var c models.Customer
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) CreateCustomer(ctx context.Context, in models.InsertCustomer) (*models.Customer, error) {
	defer metrics.ObserveStoreOp("create_customer", "gorm", time.Now())

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
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) UpdateCustomer(ctx context.Context, id string, patch models.PatchCustomer) (*models.Customer, error) {
	defer metrics.ObserveStoreOp("update_customer", "gorm", time.Now())

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.InterestedProducts != nil {
		updates["interested_products"] = models.StringList(*patch.InterestedProducts)
	}

	existing, err := s.GetCustomer(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	if len(updates) > 0 {
		err = s.db.WithContext(ctx).Model(&models.Customer{}).
			Where("id = ?", id).Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}
	return s.GetCustomer(ctx, id)
}

// ─── Admins ──────────────────────────────────────────────────────────────────

func (s *GormStore) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	defer metrics.ObserveStoreOp("get_admin", "gorm", time.Now())

	var a models.Admin
	err := s.db.WithContext(ctx).First(&a, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) CreateAdmin(ctx context.Context, in models.InsertAdmin) (*models.Admin, error) {
	defer metrics.ObserveStoreOp("create_admin", "gorm", time.Now())

	a := models.Admin{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Password:  in.Password, // already hashed by the caller
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
