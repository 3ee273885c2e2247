package models

import "time"

// Customer is a storefront lead captured at checkout interest. Email
// and phone are deliberately not unique, so repeat submissions create
// separate records.
type Customer struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	Name               string     `gorm:"size:255;not null" json:"name"`
	Email              string     `gorm:"size:255;not null" json:"email"`
	Phone              string     `gorm:"size:50;not null" json:"phone"`
	InterestedProducts StringList `gorm:"type:json" json:"interestedProducts"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"createdAt"`
}

// InsertCustomer is the request body for the public customer-capture
// endpoint.
type InsertCustomer struct {
	Name               string   `json:"name" validate:"required,max=255"`
	Email              string   `json:"email" validate:"required,email"`
	Phone              string   `json:"phone" validate:"required,min=6,max=50"`
	InterestedProducts []string `json:"interestedProducts"`
}

// PatchCustomer is the partial-update input. The store supports it but
// no route exposes customer updates publicly.
type PatchCustomer struct {
	Name               *string   `json:"name" validate:"nullable,max=255"`
	Email              *string   `json:"email" validate:"nullable,email"`
	Phone              *string   `json:"phone" validate:"nullable,min=6,max=50"`
	InterestedProducts *[]string `json:"interestedProducts"`
}
