// Package storage puts and removes objects in an S3-compatible bucket and
// hands out time-limited download links. The minio client talks to MinIO,
// AWS S3 and other providers; a filesystem driver serves development.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/welldanyogia/stitchdesk-backend/internal/validator"
)

// Storage errors
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidSignature = errors.New("invalid download signature")
	ErrURLExpired       = errors.New("download link expired")
	ErrSizeMismatch     = errors.New("written size does not match declared size")
)

// Key prefixes
const (
	OrderKeyPrefix   = "orders"
	ProductKeyPrefix = "products"
)

// ObjectStorage is the object store the gateway writes through
type ObjectStorage interface {
	// Put streams size bytes from r under key
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a download URL for key valid for ttl
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	// PublicURL returns the unsigned URL of a publicly readable key
	PublicURL(key string) string
	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}

// ObjectKey is a generated storage key and the stored filename inside it
type ObjectKey struct {
	Key            string
	StoredFilename string
}

// NewObjectKey builds prefix/<uuid>-<sanitized name><ext>. Two calls with the
// same filename never return the same key.
func NewObjectKey(prefix, filename string) ObjectKey {
	sanitized := validator.SanitizeFilename(filename)
	ext := filepath.Ext(sanitized)
	base := strings.TrimSuffix(sanitized, ext)
	if base == "" {
		base = "file"
	}
	stored := fmt.Sprintf("%s-%s%s", uuid.New().String(), base, strings.ToLower(ext))
	return ObjectKey{
		Key:            strings.TrimRight(prefix, "/") + "/" + stored,
		StoredFilename: stored,
	}
}

// OrderPrefix is the key prefix of an order's attachments
func OrderPrefix(orderID uuid.UUID) string {
	return OrderKeyPrefix + "/" + orderID.String()
}

// IsPublicKey reports whether key may be served without a signature. Only
// canonical keys qualify, so "products/../orders/..." is not public.
func IsPublicKey(key string) bool {
	return path.Clean(key) == key && strings.HasPrefix(key, ProductKeyPrefix+"/")
}
