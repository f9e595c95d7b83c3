package payment

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Webhook field names
const (
	FieldRefNo         = "REFNO"
	FieldOrderNo       = "ORDERNO"
	FieldExternalRef   = "REFNOEXT"
	FieldOrderStatus   = "ORDERSTATUS"
	FieldPaymentAmount = "PAYMENTAMOUNT"
	FieldCurrency      = "CURRENCY"
	FieldPayMethod     = "PAYMETHOD"
)

// Notification is a webhook payload whose hash has been verified
type Notification struct {
	RefNo       string
	OrderNo     string
	ExternalRef string
	Status      string
	Outcome     Outcome
	Amount      decimal.Decimal
	Currency    string
	Method      string
}

// ParseNotification reads the fields of a verified payload. Call it only
// after Verify returned true.
func ParseNotification(form url.Values) (Notification, error) {
	n := Notification{
		RefNo:       strings.TrimSpace(form.Get(FieldRefNo)),
		OrderNo:     strings.TrimSpace(form.Get(FieldOrderNo)),
		ExternalRef: strings.TrimSpace(form.Get(FieldExternalRef)),
		Status:      strings.TrimSpace(form.Get(FieldOrderStatus)),
		Currency:    strings.ToUpper(strings.TrimSpace(form.Get(FieldCurrency))),
		Method:      strings.TrimSpace(form.Get(FieldPayMethod)),
	}
	n.Outcome = Classify(n.Status)

	if raw := strings.TrimSpace(form.Get(FieldPaymentAmount)); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return Notification{}, fmt.Errorf("invalid %s %q: %w", FieldPaymentAmount, raw, err)
		}
		n.Amount = amount
	}

	return n, nil
}
