package models

import "time"

// Product represents one catalogue entry. Price and Rating are exact
// decimal strings, never floats, so money values round-trip without
// drift.
type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       string    `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string    `gorm:"size:255;not null;index" json:"category"`
	Image       string    `gorm:"type:text;not null" json:"image"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Rating      string    `gorm:"type:decimal(2,1);default:0" json:"rating"`
	Featured    bool      `gorm:"default:false" json:"featured"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

// InsertProduct is the request body for creating a product.
// Stock, Rating and Featured are pointers so an omitted field can be
// told apart from a zero value and defaulted server-side.
type InsertProduct struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Price       string  `json:"price" validate:"required,decimal"`
	Category    string  `json:"category" validate:"required,max=255"`
	Image       string  `json:"image" validate:"required,url"`
	Stock       *int    `json:"stock" validate:"nullable,integer,gte=0"`
	Rating      *string `json:"rating" validate:"nullable,decimal"`
	Featured    *bool   `json:"featured" validate:"nullable,boolean"`
}

// PatchProduct is the request body for partial updates. Absent fields
// keep the stored value.
type PatchProduct struct {
	Name        *string `json:"name" validate:"nullable,max=255"`
	Description *string `json:"description"`
	Price       *string `json:"price" validate:"nullable,decimal"`
	Category    *string `json:"category" validate:"nullable,max=255"`
	Image       *string `json:"image" validate:"nullable,url"`
	Stock       *int    `json:"stock" validate:"nullable,integer,gte=0"`
	Rating      *string `json:"rating" validate:"nullable,decimal"`
	Featured    *bool   `json:"featured" validate:"nullable,boolean"`
}
