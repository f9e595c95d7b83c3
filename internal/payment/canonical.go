// Package payment signs checkout redirect links and verifies the
// provider's webhook notifications.
package payment

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/crypto/sha3"
)

// Algorithm selects the HMAC hash function
type Algorithm string

const (
	SHA256  Algorithm = "sha256"
	MD5     Algorithm = "md5"
	SHA3256 Algorithm = "sha3-256"
)

// ParseAlgorithm parses a configured algorithm name
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case SHA256, MD5, SHA3256:
		return a, nil
	case "":
		return SHA256, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", name)
	}
}

func (a Algorithm) newHash() func() hash.Hash {
	switch a {
	case MD5:
		return md5.New
	case SHA3256:
		return sha3.New256
	default:
		return sha256.New
	}
}

// Canonical serializes params for signing: keys sorted, each value written
// as its byte length followed by the value. Multi-valued keys contribute
// every value in order. Keys named in exclude are skipped.
func Canonical(params url.Values, exclude ...string) string {
	keys := lo.Filter(lo.Keys(params), func(k string, _ int) bool {
		return !lo.Contains(exclude, k)
	})
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range params[k] {
			b.WriteString(strconv.Itoa(len(v)))
			b.WriteString(v)
		}
	}
	return b.String()
}

// hmacHex returns the hex HMAC of message under secret
func hmacHex(algo Algorithm, secret []byte, message string) string {
	mac := hmac.New(algo.newHash(), secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
