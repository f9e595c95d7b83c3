package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	tempDir := t.TempDir()
	ls, err := NewLocalStorage(tempDir, "http://localhost:8080/", []byte("test-secret"))
	require.NoError(t, err)
	return ls, tempDir
}

func signedParams(t *testing.T, raw string) (key, expires, sig string) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return strings.TrimPrefix(u.Path, FilesRoute), u.Query().Get("expires"), u.Query().Get("sig")
}

func TestValidatePath_PathTraversal(t *testing.T) {
	ls, _ := newTestLocalStorage(t)

	tests := []struct {
		name string
		path string
	}{
		{"simple traversal", "../etc/passwd"},
		{"double traversal", "../../etc/passwd"},
		{"nested traversal", "subdir/../../../etc/passwd"},
		{"windows style", "..\\..\\windows\\system32"},
		{"absolute", "/etc/passwd"},
		{"base itself", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ls.validatePath(tt.path)
			assert.ErrorIs(t, err, ErrPathTraversal)
		})
	}
}

func TestValidatePath_ValidPath(t *testing.T) {
	ls, tempDir := newTestLocalStorage(t)
	absBase, _ := filepath.Abs(tempDir)

	for _, p := range []string{"file.txt", "orders/abc/file.txt", "products/0f8e-cap.png"} {
		t.Run(p, func(t *testing.T) {
			result, err := ls.validatePath(p)
			assert.NoError(t, err)
			assert.True(t, strings.HasPrefix(result, absBase))
		})
	}
}

func TestPutAndOpen_SignedLink(t *testing.T) {
	ls, _ := newTestLocalStorage(t)
	ctx := context.Background()
	key := "orders/o1/abc-proof.pdf"

	require.NoError(t, ls.Put(ctx, key, strings.NewReader("test content"), 12, "application/pdf"))

	link, err := ls.PresignGet(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:8080/files/orders/o1/abc-proof.pdf?"))

	k, expires, sig := signedParams(t, link)
	file, err := ls.Open(k, expires, sig)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "test content", string(content))
}

func TestOpen_RejectsTamperedOrExpiredLinks(t *testing.T) {
	ls, _ := newTestLocalStorage(t)
	ctx := context.Background()
	key := "orders/o1/abc-proof.pdf"
	require.NoError(t, ls.Put(ctx, key, strings.NewReader("x"), 1, "text/plain"))

	link, err := ls.PresignGet(ctx, key, time.Minute)
	require.NoError(t, err)
	k, expires, sig := signedParams(t, link)

	_, err = ls.Open("orders/o2/abc-proof.pdf", expires, sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = ls.Open(k, expires+"0", sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = ls.Open(k, "", "")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = ls.Open(k, expires, "not-hex")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	ls.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = ls.Open(k, expires, sig)
	assert.ErrorIs(t, err, ErrURLExpired)
	assert.True(t, IsAccessError(err))
}

func TestOpen_PublicKeysNeedNoSignature(t *testing.T) {
	ls, _ := newTestLocalStorage(t)
	key := "products/abc-cap.png"
	require.NoError(t, ls.Put(context.Background(), key, strings.NewReader("png"), 3, "image/png"))

	file, err := ls.Open(key, "", "")
	require.NoError(t, err)
	file.Close()

	assert.Equal(t, "http://localhost:8080/files/products/abc-cap.png", ls.PublicURL(key))
}

func TestOpen_DotSegmentsCannotReachPrivateObjects(t *testing.T) {
	ls, _ := newTestLocalStorage(t)
	key := "orders/o1/abc-secret.pdf"
	require.NoError(t, ls.Put(context.Background(), key, strings.NewReader("secret"), 6, "application/pdf"))

	for _, k := range []string{
		"products/../" + key,
		"products/./../orders/o1/abc-secret.pdf",
		"orders/o1/./abc-secret.pdf",
	} {
		t.Run(k, func(t *testing.T) {
			file, err := ls.Open(k, "", "")
			assert.ErrorIs(t, err, ErrPathTraversal)
			assert.Nil(t, file)
		})
	}
}

func TestPut_SizeMismatchRemovesFile(t *testing.T) {
	ls, _ := newTestLocalStorage(t)
	key := "orders/o1/short.txt"

	err := ls.Put(context.Background(), key, strings.NewReader("abc"), 10, "text/plain")
	assert.ErrorIs(t, err, ErrSizeMismatch)

	exists, err := ls.Exists(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPut_PathTraversal(t *testing.T) {
	ls, _ := newTestLocalStorage(t)

	err := ls.Put(context.Background(), "../../../tmp/evil", strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestDelete_Integration(t *testing.T) {
	ls, _ := newTestLocalStorage(t)
	ctx := context.Background()
	key := "orders/o1/file.txt"
	require.NoError(t, ls.Put(ctx, key, strings.NewReader("data"), 4, "text/plain"))

	require.NoError(t, ls.Delete(ctx, key))

	exists, err := ls.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting nonexistent file should not error
	assert.NoError(t, ls.Delete(ctx, key))
	assert.ErrorIs(t, ls.Delete(ctx, "../../../etc/passwd"), ErrPathTraversal)
}

func TestOpen_FileNotFound(t *testing.T) {
	ls, _ := newTestLocalStorage(t)

	_, err := ls.Open("products/missing.png", "", "")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	newDir := filepath.Join(tempDir, "new", "nested", "dir")

	ls, err := NewLocalStorage(newDir, "http://localhost", nil)
	require.NoError(t, err)

	info, err := os.Stat(newDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, ls.Ping(context.Background()))
}
