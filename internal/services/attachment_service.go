package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/events"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"github.com/welldanyogia/stitchdesk-backend/internal/repository"
	"github.com/welldanyogia/stitchdesk-backend/internal/storage"
)

// AttachmentServiceConfig holds limits for order attachments
type AttachmentServiceConfig struct {
	MaxSize      int64
	SignedURLTTL time.Duration
}

// Download is a retrievable attachment
type Download struct {
	URL        string                  `json:"downloadUrl"`
	Attachment *models.OrderAttachment `json:"attachment"`
}

// AttachmentService manages order attachments in object storage
type AttachmentService interface {
	// Upload stores the file under the order and records its metadata
	Upload(ctx context.Context, callerID, orderID uuid.UUID, file FileUpload) (*models.OrderAttachment, error)

	// Retrieve returns a presigned download URL for the attachment
	Retrieve(ctx context.Context, callerID, attachmentID uuid.UUID) (*Download, error)

	// Delete removes the object and then its metadata row
	Delete(ctx context.Context, callerID, attachmentID uuid.UUID) error

	// ListByOrder returns the order's attachments, newest first
	ListByOrder(ctx context.Context, callerID, orderID uuid.UUID) ([]models.OrderAttachment, error)
}

type attachmentService struct {
	repo       repository.AttachmentRepository
	store      storage.ObjectStorage
	authorizer access.Authorizer
	publisher  events.Publisher
	config     AttachmentServiceConfig
	logger     *slog.Logger
}

// NewAttachmentService creates a new AttachmentService instance
func NewAttachmentService(
	repo repository.AttachmentRepository,
	store storage.ObjectStorage,
	authorizer access.Authorizer,
	publisher events.Publisher,
	config AttachmentServiceConfig,
	logger *slog.Logger,
) AttachmentService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &attachmentService{
		repo:       repo,
		store:      store,
		authorizer: authorizer,
		publisher:  publisher,
		config:     config,
		logger:     logger,
	}
}

func (s *attachmentService) Upload(ctx context.Context, callerID, orderID uuid.UUID, file FileUpload) (*models.OrderAttachment, error) {
	if err := checkSize(file.Size, s.config.MaxSize); err != nil {
		return nil, err
	}
	if !s.authorizer.Resolve(ctx, callerID, orderID).CanUpload {
		return nil, apperrors.Forbidden("not allowed to upload to this order")
	}

	key := storage.NewObjectKey(storage.OrderPrefix(orderID), file.Filename)
	contentType := contentTypeFor(file.Filename, file.ContentType)

	if err := s.store.Put(ctx, key.Key, file.Body, file.Size, contentType); err != nil {
		if errors.Is(err, storage.ErrSizeMismatch) {
			return nil, apperrors.InvalidInput("file size does not match upload")
		}
		return nil, apperrors.Upstream("put object", err)
	}

	attachment := &models.OrderAttachment{
		OrderID:          orderID,
		OriginalFilename: file.Filename,
		StoredFilename:   key.StoredFilename,
		SizeBytes:        file.Size,
		ContentType:      contentType,
		StorageKey:       key.Key,
		UploadedBy:       callerID,
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		compensate(ctx, s.store, key.Key, s.logger)
		return nil, apperrors.Upstream("insert attachment", err)
	}

	s.logger.Info("attachment uploaded",
		slog.String("attachment_id", attachment.ID.String()),
		slog.String("order_id", orderID.String()),
		slog.Int64("size", file.Size))

	events.Emit(ctx, s.publisher, events.New(events.TypeAttachmentAdded, orderID, attachment))
	return attachment, nil
}

// load fetches the attachment and folds repository misses into NotFound
func (s *attachmentService) load(ctx context.Context, attachmentID uuid.UUID) (*models.OrderAttachment, error) {
	attachment, err := s.repo.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.ErrAttachmentNotFound)
		}
		return nil, apperrors.Upstream("get attachment", err)
	}
	return attachment, nil
}

func (s *attachmentService) Retrieve(ctx context.Context, callerID, attachmentID uuid.UUID) (*Download, error) {
	attachment, err := s.load(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if !s.authorizer.Resolve(ctx, callerID, attachment.OrderID).CanView {
		return nil, apperrors.Forbidden("not allowed to view this attachment")
	}

	url, err := s.store.PresignGet(ctx, attachment.StorageKey, s.config.SignedURLTTL)
	if err != nil {
		return nil, apperrors.Upstream("presign attachment", err)
	}

	return &Download{URL: url, Attachment: attachment}, nil
}

func (s *attachmentService) Delete(ctx context.Context, callerID, attachmentID uuid.UUID) error {
	attachment, err := s.load(ctx, attachmentID)
	if err != nil {
		return err
	}
	if !s.authorizer.Resolve(ctx, callerID, attachment.OrderID).CanDelete {
		return apperrors.Forbidden("not allowed to delete this attachment")
	}

	if err := s.store.Delete(ctx, attachment.StorageKey); err != nil {
		return apperrors.Upstream("delete object", err)
	}
	if err := s.repo.Delete(ctx, attachment.ID); err != nil {
		return apperrors.Upstream("delete attachment", err)
	}

	s.logger.Info("attachment deleted",
		slog.String("attachment_id", attachment.ID.String()),
		slog.String("order_id", attachment.OrderID.String()))

	events.Emit(ctx, s.publisher, events.New(events.TypeAttachmentDeleted, attachment.OrderID, attachment))
	return nil
}

func (s *attachmentService) ListByOrder(ctx context.Context, callerID, orderID uuid.UUID) ([]models.OrderAttachment, error) {
	if !s.authorizer.Resolve(ctx, callerID, orderID).CanView {
		return nil, apperrors.Forbidden("not allowed to view this order")
	}

	attachments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apperrors.Upstream("list attachments", err)
	}
	return attachments, nil
}
