package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/charvi/app/models"
	"github.com/shashiranjanraj/charvi/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_catalogue_tables", &CreateCatalogueTables{})
	migration.Register("20260301000001_create_admins_table", &CreateAdminsTable{})
	migration.Register("20260301000002_create_orders_table", &CreateOrdersTable{})
}

// -------- 0001: products, categories, customers --------

type CreateCatalogueTables struct{}

func (m *CreateCatalogueTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.Category{}, &models.Customer{})
}

func (m *CreateCatalogueTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products", "categories", "customers")
}

// -------- 0002: admins --------

type CreateAdminsTable struct{}

func (m *CreateAdminsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Admin{})
}

func (m *CreateAdminsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("admins")
}

// -------- 0003: orders (schema only, no routes yet) --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders")
}
