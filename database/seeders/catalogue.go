package seeders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/charvi/app/models"
)

func init() {
	Register("catalogue", SeedCatalogue)
}

// SeedCatalogue inserts a small demo catalogue. Skips silently when
// products already exist so repeated runs do not duplicate rows.
func SeedCatalogue(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	categories := []models.Category{
		{ID: uuid.NewString(), Name: "Electronics", CreatedAt: now},
		{ID: uuid.NewString(), Name: "Kitchen", CreatedAt: now},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := []models.Product{
		{
			ID:          uuid.NewString(),
			Name:        "Phone",
			Description: "A reasonable phone",
			Price:       "499.99",
			Category:    "electronics",
			Image:       "https://images.example.com/phone.jpg",
			Stock:       25,
			Rating:      "4.5",
			Featured:    true,
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Kettle",
			Description: "Boils water",
			Price:       "29.99",
			Category:    "kitchen",
			Image:       "https://images.example.com/kettle.jpg",
			Stock:       40,
			Rating:      "4.1",
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Headphones",
			Description: "Over-ear, wired",
			Price:       "89.00",
			Category:    "electronics",
			Image:       "https://images.example.com/headphones.jpg",
			Stock:       12,
			Rating:      "4.7",
			CreatedAt:   now,
		},
	}
	return db.Create(&products).Error
}
