package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewObjectKey_Shape(t *testing.T) {
	orderID := uuid.New()

	k := NewObjectKey(OrderPrefix(orderID), "Proof Sheet.PDF")

	assert.True(t, strings.HasPrefix(k.Key, "orders/"+orderID.String()+"/"))
	assert.True(t, strings.HasSuffix(k.Key, "-Proof_Sheet.pdf"))
	assert.Equal(t, k.Key, OrderPrefix(orderID)+"/"+k.StoredFilename)

	_, err := uuid.Parse(k.StoredFilename[:36])
	assert.NoError(t, err)
}

func TestNewObjectKey_NeverCollides(t *testing.T) {
	first := NewObjectKey(ProductKeyPrefix, "cap.png")
	second := NewObjectKey(ProductKeyPrefix, "cap.png")

	assert.NotEqual(t, first.Key, second.Key)
}

func TestNewObjectKey_NoTraversalReachesStorage(t *testing.T) {
	tests := []string{
		"../../etc/passwd",
		"..\\..\\boot.ini",
		"a/../../b.txt",
		"\x00evil.sh",
		"",
		".env",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			k := NewObjectKey("orders/o1", name)
			rest := strings.TrimPrefix(k.Key, "orders/o1/")

			assert.NotContains(t, rest, "/")
			assert.NotContains(t, rest, "\\")
			assert.NotContains(t, rest, "..")
			assert.NotContains(t, rest, "\x00")
		})
	}
}

func TestIsPublicKey(t *testing.T) {
	assert.True(t, IsPublicKey("products/abc.png"))
	assert.False(t, IsPublicKey("orders/o1/abc.pdf"))
	assert.False(t, IsPublicKey("productsX/abc.png"))
	assert.False(t, IsPublicKey("products/../orders/o1/abc.pdf"))
	assert.False(t, IsPublicKey("products/./abc.png"))
}
