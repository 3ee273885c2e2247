package models

import "time"

// Admin is a panel account. Password holds a bcrypt hash and never
// leaves the server.
type Admin struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

// InsertAdmin carries a pre-hashed password; hashing happens in the
// auth service, never in the store.
type InsertAdmin struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
