package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/storage"
)

const defaultContentType = "application/octet-stream"

// FileUpload is one uploaded file as received from the client
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// checkSize rejects empty files and files above maxSize. A file exactly at
// maxSize is accepted.
func checkSize(size, maxSize int64) error {
	if size <= 0 {
		return apperrors.InvalidInput("file is empty")
	}
	if size > maxSize {
		return apperrors.NewAppError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("file exceeds the %s limit", humanSize(maxSize)), apperrors.CodeInvalidInput)
	}
	return nil
}

func humanSize(n int64) string {
	const mb = 1 << 20
	if n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}

// contentTypeFor prefers the client's declared type, then the extension
func contentTypeFor(filename, declared string) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return defaultContentType
}

// compensate removes an object whose metadata row could not be written
func compensate(ctx context.Context, store storage.ObjectStorage, key string, logger *slog.Logger) {
	// The request context may already be cancelled; the cleanup must still run
	if err := store.Delete(context.WithoutCancel(ctx), key); err != nil {
		logger.Error("failed to remove orphaned object",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
