package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"gorm.io/gorm"
)

// AttachmentRepository defines the interface for order attachment metadata
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.OrderAttachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderAttachment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAttachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// attachmentRepository implements AttachmentRepository using GORM
type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository instance
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// Create creates a new attachment record
func (r *attachmentRepository) Create(ctx context.Context, attachment *models.OrderAttachment) error {
	result := r.db.WithContext(ctx).Create(attachment)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create attachment: %w", result.Error)
	}
	return nil
}

// GetByID retrieves an attachment by its ID
func (r *attachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderAttachment, error) {
	var attachment models.OrderAttachment
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attachment by ID: %w", result.Error)
	}
	return &attachment, nil
}

// ListByOrder retrieves the attachments of an order, newest first
func (r *attachmentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAttachment, error) {
	var attachments []models.OrderAttachment
	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("uploaded_at DESC").
		Find(&attachments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", result.Error)
	}
	return attachments, nil
}

// Delete deletes an attachment row. The stored object is the caller's concern.
func (r *attachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OrderAttachment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete attachment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
