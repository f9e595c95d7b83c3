package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentEvent is a verified webhook notification from the checkout provider
type PaymentEvent struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       *uuid.UUID      `gorm:"type:uuid;index" json:"order_id,omitempty"`
	ProviderRef   string          `gorm:"size:64;index" json:"provider_ref"`
	ProviderOrder string          `gorm:"size:64" json:"provider_order"`
	MerchantRef   string          `gorm:"size:64" json:"merchant_ref"`
	Status        string          `gorm:"size:64" json:"status"`
	Outcome       string          `gorm:"size:16" json:"outcome"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	Currency      string          `gorm:"size:3" json:"currency"`
	PaymentMethod string          `gorm:"size:64" json:"payment_method"`
	ReceivedAt    time.Time       `gorm:"autoCreateTime" json:"received_at"`
}

// TableName returns the table name for PaymentEvent
func (PaymentEvent) TableName() string {
	return "payment_events"
}
