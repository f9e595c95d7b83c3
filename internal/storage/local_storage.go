package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FilesRoute is where the local driver's objects are served
const FilesRoute = "/files/"

// LocalStorage implements ObjectStorage on the local filesystem. Download
// links carry an expiry and an HMAC over key and expiry.
type LocalStorage struct {
	basePath      string
	publicBaseURL string
	secret        []byte
	now           func() time.Time
}

// NewLocalStorage creates a new LocalStorage rooted at basePath
func NewLocalStorage(basePath, publicBaseURL string, secret []byte) (*LocalStorage, error) {
	// Ensure base directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{
		basePath:      basePath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		secret:        secret,
		now:           time.Now,
	}, nil
}

// validatePath ensures path is within basePath (prevents traversal)
func (s *LocalStorage) validatePath(key string) (string, error) {
	// Clean the path
	cleanPath := filepath.Clean(filepath.FromSlash(key))

	// Prevent absolute paths
	if filepath.IsAbs(cleanPath) || strings.HasPrefix(key, "/") {
		return "", ErrPathTraversal
	}

	// Prevent path traversal
	if strings.Contains(cleanPath, "..") {
		return "", ErrPathTraversal
	}

	// Build full path
	fullPath := filepath.Join(s.basePath, cleanPath)

	// Get absolute paths for comparison
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("invalid file path: %w", err)
	}

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	// Security check: objects live strictly below the base directory
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	return absPath, nil
}

// Put writes the object, creating parent directories as needed
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	fullPath, err := s.validatePath(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create subdirectory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, r)
	if err != nil {
		// Clean up on error
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if size >= 0 && written != size {
		os.Remove(fullPath)
		return ErrSizeMismatch
	}

	return nil
}

// Delete removes the object
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.validatePath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			// File already doesn't exist, not an error
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// PresignGet returns a signed link to the files route
func (s *LocalStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := s.validatePath(key); err != nil {
		return "", err
	}
	expires := strconv.FormatInt(s.now().Add(ttl).Unix(), 10)

	q := url.Values{}
	q.Set("expires", expires)
	q.Set("sig", s.sign(key, expires))
	return s.PublicURL(key) + "?" + q.Encode(), nil
}

// PublicURL returns the unsigned link to key
func (s *LocalStorage) PublicURL(key string) string {
	return s.publicBaseURL + FilesRoute + key
}

// Ping checks the base directory is still there
func (s *LocalStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(s.basePath)
	if err != nil {
		return fmt.Errorf("storage directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", s.basePath)
	}
	return nil
}

// Open verifies a download link and opens the object. Public keys need no
// signature. Keys must be canonical: dot segments are rejected before the
// key is classified or checked against its signature.
func (s *LocalStorage) Open(key, expires, sig string) (*os.File, error) {
	if path.Clean(key) != key {
		return nil, ErrPathTraversal
	}
	fullPath, err := s.validatePath(key)
	if err != nil {
		return nil, err
	}

	if !IsPublicKey(key) {
		if err := s.verify(key, expires, sig); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

func (s *LocalStorage) sign(key, expires string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(expires))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *LocalStorage) verify(key, expires, sig string) error {
	if expires == "" || sig == "" {
		return ErrInvalidSignature
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return ErrInvalidSignature
	}
	want, _ := hex.DecodeString(s.sign(key, expires))
	if !hmac.Equal(got, want) {
		return ErrInvalidSignature
	}

	unix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	if s.now().After(time.Unix(unix, 0)) {
		return ErrURLExpired
	}
	return nil
}

// IsAccessError reports whether err came from a rejected download link
func IsAccessError(err error) bool {
	return errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrURLExpired) ||
		errors.Is(err, ErrPathTraversal)
}

// Exists reports whether key is present
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := s.validatePath(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
