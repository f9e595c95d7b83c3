package payment

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookPayload() url.Values {
	return url.Values{
		FieldRefNo:         {"4711"},
		FieldOrderNo:       {"880021"},
		FieldExternalRef:   {"3f0c9b8e-6a2d-4c55-9a7e-0d1c2b3a4f5e"},
		FieldOrderStatus:   {"COMPLETE"},
		FieldPaymentAmount: {"74.00"},
		FieldCurrency:      {"USD"},
		FieldPayMethod:     {"Visa/MasterCard"},
	}
}

func signPayload(v *Verifier, payload url.Values) url.Values {
	payload.Set(HashField, v.Compute(payload))
	return payload
}

func TestVerifier_AcceptsValidHash(t *testing.T) {
	for _, algo := range []Algorithm{SHA256, MD5, SHA3256} {
		t.Run(string(algo), func(t *testing.T) {
			v := NewVerifier([]byte(testSecret), algo)
			payload := signPayload(v, webhookPayload())

			assert.True(t, v.Verify(payload))
		})
	}
}

func TestVerifier_HashIsCaseInsensitiveHex(t *testing.T) {
	v := NewVerifier([]byte(testSecret), SHA256)
	payload := signPayload(v, webhookPayload())
	payload.Set(HashField, strings.ToUpper(payload.Get(HashField)))

	assert.True(t, v.Verify(payload))
}

func TestVerifier_RejectsAmountChangedAfterSigning(t *testing.T) {
	v := NewVerifier([]byte(testSecret), SHA256)
	payload := signPayload(v, webhookPayload())

	payload.Set(FieldPaymentAmount, "1.00")

	assert.False(t, v.Verify(payload))
}

func TestVerifier_RejectsHashFromAnotherSecret(t *testing.T) {
	attacker := NewVerifier([]byte("guess"), SHA256)
	payload := signPayload(attacker, webhookPayload())

	assert.False(t, NewVerifier([]byte(testSecret), SHA256).Verify(payload))
}

func TestVerifier_RejectsMissingOrEmpty(t *testing.T) {
	v := NewVerifier([]byte(testSecret), SHA256)

	assert.False(t, v.Verify(webhookPayload()))
	assert.False(t, v.Verify(url.Values{}))
	assert.False(t, NewVerifier(nil, SHA256).Verify(signPayload(v, webhookPayload())))
}

func TestVerifier_AlgorithmsDisagree(t *testing.T) {
	payload := webhookPayload()
	sha := NewVerifier([]byte(testSecret), SHA256).Compute(payload)
	sha3 := NewVerifier([]byte(testSecret), SHA3256).Compute(payload)
	md := NewVerifier([]byte(testSecret), MD5).Compute(payload)

	assert.Len(t, sha, 64)
	assert.Len(t, sha3, 64)
	assert.Len(t, md, 32)
	assert.NotEqual(t, sha, sha3)
}

func TestParseNotification(t *testing.T) {
	n, err := ParseNotification(webhookPayload())
	require.NoError(t, err)

	assert.Equal(t, "4711", n.RefNo)
	assert.Equal(t, "880021", n.OrderNo)
	assert.Equal(t, "3f0c9b8e-6a2d-4c55-9a7e-0d1c2b3a4f5e", n.ExternalRef)
	assert.Equal(t, OutcomeSuccess, n.Outcome)
	assert.Equal(t, "74", n.Amount.String())
	assert.Equal(t, "USD", n.Currency)
}

func TestParseNotification_BadAmount(t *testing.T) {
	payload := webhookPayload()
	payload.Set(FieldPaymentAmount, "seventy")

	_, err := ParseNotification(payload)
	assert.Error(t, err)
}
