package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"github.com/welldanyogia/stitchdesk-backend/internal/repository"
	"github.com/welldanyogia/stitchdesk-backend/internal/storage"
)

// ProductImageService manages public catalog images
type ProductImageService interface {
	Upload(ctx context.Context, callerID uuid.UUID, productID *uuid.UUID, file FileUpload) (*models.ProductImage, error)
	Delete(ctx context.Context, callerID uuid.UUID, key string) error
}

type productImageService struct {
	repo       repository.ProductImageRepository
	store      storage.ObjectStorage
	authorizer access.Authorizer
	maxSize    int64
	logger     *slog.Logger
}

// NewProductImageService creates a new ProductImageService instance
func NewProductImageService(
	repo repository.ProductImageRepository,
	store storage.ObjectStorage,
	authorizer access.Authorizer,
	maxSize int64,
	logger *slog.Logger,
) ProductImageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &productImageService{
		repo:       repo,
		store:      store,
		authorizer: authorizer,
		maxSize:    maxSize,
		logger:     logger,
	}
}

func (s *productImageService) Upload(ctx context.Context, callerID uuid.UUID, productID *uuid.UUID, file FileUpload) (*models.ProductImage, error) {
	if err := checkSize(file.Size, s.maxSize); err != nil {
		return nil, err
	}
	if !s.authorizer.ResolveCatalog(ctx, callerID).CanUpload {
		return nil, apperrors.Forbidden("only admins can upload product images")
	}

	key := storage.NewObjectKey(storage.ProductKeyPrefix, file.Filename)
	contentType := contentTypeFor(file.Filename, file.ContentType)

	if err := s.store.Put(ctx, key.Key, file.Body, file.Size, contentType); err != nil {
		if errors.Is(err, storage.ErrSizeMismatch) {
			return nil, apperrors.InvalidInput("file size does not match upload")
		}
		return nil, apperrors.Upstream("put object", err)
	}

	image := &models.ProductImage{
		ProductID:        productID,
		OriginalFilename: file.Filename,
		StoredFilename:   key.StoredFilename,
		SizeBytes:        file.Size,
		ContentType:      contentType,
		StorageKey:       key.Key,
		PublicURL:        s.store.PublicURL(key.Key),
		UploadedBy:       callerID,
	}
	if err := s.repo.Create(ctx, image); err != nil {
		compensate(ctx, s.store, key.Key, s.logger)
		return nil, apperrors.Upstream("insert product image", err)
	}

	s.logger.Info("product image uploaded", slog.String("key", key.Key), slog.Int64("size", file.Size))
	return image, nil
}

func (s *productImageService) Delete(ctx context.Context, callerID uuid.UUID, key string) error {
	if !s.authorizer.ResolveCatalog(ctx, callerID).CanDelete {
		return apperrors.Forbidden("only admins can delete product images")
	}

	image, err := s.repo.GetByStorageKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound(apperrors.ErrProductImageNotFound)
		}
		return apperrors.Upstream("get product image", err)
	}

	if err := s.store.Delete(ctx, image.StorageKey); err != nil {
		return apperrors.Upstream("delete object", err)
	}
	if err := s.repo.DeleteByStorageKey(ctx, image.StorageKey); err != nil {
		return apperrors.Upstream("delete product image", err)
	}

	s.logger.Info("product image deleted", slog.String("key", image.StorageKey))
	return nil
}
