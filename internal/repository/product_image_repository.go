package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"gorm.io/gorm"
)

// ProductImageRepository defines the interface for catalog image metadata
type ProductImageRepository interface {
	Create(ctx context.Context, image *models.ProductImage) error
	GetByStorageKey(ctx context.Context, key string) (*models.ProductImage, error)
	DeleteByStorageKey(ctx context.Context, key string) error
}

type productImageRepository struct {
	db *gorm.DB
}

// NewProductImageRepository creates a new ProductImageRepository instance
func NewProductImageRepository(db *gorm.DB) ProductImageRepository {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) Create(ctx context.Context, image *models.ProductImage) error {
	result := r.db.WithContext(ctx).Create(image)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create product image: %w", result.Error)
	}
	return nil
}

func (r *productImageRepository) GetByStorageKey(ctx context.Context, key string) (*models.ProductImage, error) {
	var image models.ProductImage
	result := r.db.WithContext(ctx).Where("storage_key = ?", key).First(&image)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product image: %w", result.Error)
	}
	return &image, nil
}

func (r *productImageRepository) DeleteByStorageKey(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("storage_key = ?", key).Delete(&models.ProductImage{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
