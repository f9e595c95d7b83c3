package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductImage is a catalog image served from a public URL
type ProductImage struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID        *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	OriginalFilename string     `gorm:"size:255" json:"original_filename"`
	StoredFilename   string     `gorm:"size:255" json:"stored_filename"`
	SizeBytes        int64      `json:"size_bytes"`
	ContentType      string     `gorm:"size:100" json:"content_type"`
	StorageKey       string     `gorm:"size:500;uniqueIndex;not null" json:"s3_key"`
	PublicURL        string     `gorm:"size:1000" json:"public_url"`
	UploadedBy       uuid.UUID  `gorm:"type:uuid;not null" json:"uploaded_by"`
	UploadedAt       time.Time  `gorm:"autoCreateTime" json:"uploaded_at"`
}

// TableName returns the table name for ProductImage
func (ProductImage) TableName() string {
	return "product_images"
}

// BeforeCreate assigns a random ID when none was set
func (p *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
