package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order status lifecycle. Orders move Pending → Confirmed → Shipped →
// Delivered, or to Cancelled from any non-terminal state.
const (
	OrderStatusPending   = "Pending (COD)"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Payment methods.
const (
	PaymentCOD    = "cod"
	PaymentOnline = "online"
)

// OrderItem is one line of an order, denormalised from Product at
// checkout time so later catalogue edits do not rewrite history.
type OrderItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

// OrderCustomer is the delivery contact embedded in an order.
type OrderCustomer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderItems is stored as a JSON column.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		o = OrderItems{}
	}
	return json.Marshal(o)
}

func (o *OrderItems) Scan(src interface{}) error {
	return scanJSON(src, o)
}

// Value implements driver.Valuer for the embedded customer column.
func (c OrderCustomer) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for the embedded customer column.
func (c *OrderCustomer) Scan(src interface{}) error {
	return scanJSON(src, c)
}

// Order is accepted at checkout but not yet exposed through the REST
// surface; the schema ships ahead of the order-management routes.
type Order struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	Items         OrderItems    `gorm:"type:json;not null" json:"items"`
	Customer      OrderCustomer `gorm:"type:json;not null" json:"customer"`
	PaymentMethod string        `gorm:"size:20;not null;default:cod" json:"paymentMethod"`
	Total         string        `gorm:"type:decimal(10,2);not null" json:"total"`
	Status        string        `gorm:"size:50;not null" json:"status"`
	CreatedAt     time.Time     `gorm:"column:created_at" json:"createdAt"`
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	}
	return fmt.Errorf("models: cannot scan %T as JSON", src)
}
