package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderAttachment is a file uploaded against an order. The row only exists
// once the object store has accepted the bytes under StorageKey.
type OrderAttachment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	OriginalFilename string    `gorm:"size:255" json:"original_filename"`
	StoredFilename   string    `gorm:"size:255" json:"stored_filename"`
	SizeBytes        int64     `json:"size_bytes"`
	ContentType      string    `gorm:"size:100" json:"content_type"`
	StorageKey       string    `gorm:"size:500;uniqueIndex;not null" json:"s3_key"`
	UploadedBy       uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	UploadedAt       time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// TableName returns the table name for OrderAttachment
func (OrderAttachment) TableName() string {
	return "order_attachments"
}

// BeforeCreate assigns a random ID when none was set
func (a *OrderAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
