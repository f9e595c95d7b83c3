package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"gorm.io/gorm"
)

// PaymentEventRepository stores verified payment notifications
type PaymentEventRepository interface {
	Create(ctx context.Context, event *models.PaymentEvent) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PaymentEvent, error)
}

type paymentEventRepository struct {
	db *gorm.DB
}

// NewPaymentEventRepository creates a new PaymentEventRepository instance
func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

func (r *paymentEventRepository) Create(ctx context.Context, event *models.PaymentEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create payment event: %w", err)
	}
	return nil
}

// ListByOrder returns the events of an order in arrival order
func (r *paymentEventRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&events)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list payment events: %w", result.Error)
	}
	return events, nil
}
