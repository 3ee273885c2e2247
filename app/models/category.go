package models

import "time"

// Category groups products by name. Deleting a category leaves its
// products in place with the old category string.
type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

// InsertCategory is the request body for creating a category.
type InsertCategory struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

// PatchCategory is the request body for partial updates. Description is
// nullable: an absent field keeps the stored value, an explicit JSON null
// clears it.
type PatchCategory struct {
	Name        *string          `json:"name" validate:"nullable,max=255"`
	Description Optional[string] `json:"description"`
}
