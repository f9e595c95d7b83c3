package payment

import (
	"crypto/subtle"
	"net/url"
	"strings"
)

// HashField is the field carrying the webhook HMAC
const HashField = "HASH"

// Verifier checks HMACs on inbound provider payloads
type Verifier struct {
	secret    []byte
	algo      Algorithm
	hashField string
}

// VerifierOption configures a Verifier
type VerifierOption func(*Verifier)

// WithHashField sets the field holding the claimed hash
func WithHashField(name string) VerifierOption {
	return func(v *Verifier) {
		v.hashField = name
	}
}

// NewVerifier creates a Verifier sharing secret with the provider
func NewVerifier(secret []byte, algo Algorithm, opts ...VerifierOption) *Verifier {
	v := &Verifier{secret: secret, algo: algo, hashField: HashField}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Compute returns the expected hash for payload
func (v *Verifier) Compute(payload url.Values) string {
	return hmacHex(v.algo, v.secret, Canonical(payload, v.hashField))
}

// Verify reports whether payload carries a valid hash. It never fails
// loudly: a missing, malformed or wrong hash is simply false.
func (v *Verifier) Verify(payload url.Values) bool {
	if len(v.secret) == 0 {
		return false
	}
	claimed := strings.ToLower(strings.TrimSpace(payload.Get(v.hashField)))
	if claimed == "" {
		return false
	}
	expected := v.Compute(payload)
	return subtle.ConstantTimeCompare([]byte(claimed), []byte(expected)) == 1
}
