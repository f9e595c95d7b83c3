package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a buyer. ID equals the customer's auth user ID.
type Customer struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string     `gorm:"size:255" json:"name"`
	Email              string     `gorm:"size:255" json:"email"`
	AssignedSalesRepID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_sales_rep_id,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	AssignedSalesRep *Employee `gorm:"foreignKey:AssignedSalesRepID" json:"-"`
}

// TableName returns the table name for Customer
func (Customer) TableName() string {
	return "customers"
}
