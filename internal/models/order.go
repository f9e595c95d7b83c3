package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus tracks the checkout state of an order
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Order is a customer's embroidery order
type Order struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber        string          `gorm:"size:64;uniqueIndex;not null" json:"order_number"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	AssignedDesignerID *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_designer_id,omitempty"`
	Status             string          `gorm:"size:32;default:'new'" json:"status"`
	PaymentStatus      PaymentStatus   `gorm:"size:32;default:'unpaid'" json:"payment_status"`
	Total              decimal.Decimal `gorm:"type:numeric(12,2)" json:"total"`
	Currency           string          `gorm:"size:3;default:'USD'" json:"currency"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Customer Customer    `gorm:"foreignKey:CustomerID" json:"-"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName returns the table name for Order
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns a random ID when none was set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is one line of an order
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	ItemType    string          `gorm:"size:32;default:'PRODUCT'" json:"item_type"`
}

// TableName returns the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}
