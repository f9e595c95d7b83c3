package payment

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Signed link parameter names
const (
	ParamMerchant      = "merchant"
	ParamCurrency      = "currency"
	ParamReturnURL     = "return-url"
	ParamCancelURL     = "cancel-url"
	ParamCorrelationID = "order-ext-ref"
	ParamSignature     = "signature"

	DefaultItemType = "PRODUCT"
)

// Signer errors
var (
	ErrNoItems              = errors.New("at least one line item is required")
	ErrEmptyItemName        = errors.New("line item name cannot be empty")
	ErrInvalidPrice         = errors.New("line item price must be positive")
	ErrInvalidQuantity      = errors.New("line item quantity must be positive")
	ErrInvalidCurrency      = errors.New("invalid ISO 4217 currency")
	ErrMissingCorrelationID = errors.New("correlation id is required")
)

// Item is one product line on the checkout page
type Item struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Type     string
}

// LinkRequest describes a checkout to sign
type LinkRequest struct {
	Currency      string
	ReturnURL     string
	CancelURL     string
	CorrelationID string
	Items         []Item
}

// Signer builds signed checkout redirect URLs
type Signer struct {
	merchant    string
	secret      []byte
	checkoutURL *url.URL
	algo        Algorithm
}

// NewSigner creates a Signer for merchant posting to checkoutURL
func NewSigner(merchant string, secret []byte, checkoutURL string, algo Algorithm) (*Signer, error) {
	if merchant == "" || len(secret) == 0 {
		return nil, errors.New("merchant code and secret are required")
	}
	u, err := url.Parse(checkoutURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid checkout url %q", checkoutURL)
	}
	return &Signer{merchant: merchant, secret: secret, checkoutURL: u, algo: algo}, nil
}

// itemKey suffixes name with the 1-based item index; the first item is bare
func itemKey(name string, index int) string {
	if index == 0 {
		return name
	}
	return name + strconv.Itoa(index+1)
}

// Params validates req and returns the unsigned parameter set
func (s *Signer) Params(req LinkRequest) (url.Values, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	if strings.TrimSpace(req.CorrelationID) == "" {
		return nil, ErrMissingCorrelationID
	}
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(req.Currency)))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCurrency, req.Currency)
	}

	params := url.Values{}
	params.Set(ParamMerchant, s.merchant)
	params.Set(ParamCurrency, unit.String())
	params.Set(ParamCorrelationID, req.CorrelationID)
	if req.ReturnURL != "" {
		params.Set(ParamReturnURL, req.ReturnURL)
	}
	if req.CancelURL != "" {
		params.Set(ParamCancelURL, req.CancelURL)
	}

	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("item %d: %w", i+1, ErrEmptyItemName)
		}
		if !item.Price.IsPositive() {
			return nil, fmt.Errorf("item %d: %w", i+1, ErrInvalidPrice)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %d: %w", i+1, ErrInvalidQuantity)
		}
		itemType := item.Type
		if itemType == "" {
			itemType = DefaultItemType
		}
		params.Set(itemKey("prod", i), item.Name)
		params.Set(itemKey("price", i), item.Price.StringFixed(2))
		params.Set(itemKey("qty", i), strconv.Itoa(item.Quantity))
		params.Set(itemKey("type", i), itemType)
	}

	return params, nil
}

// Signature returns the HMAC over the canonical form of params, ignoring
// any signature already present.
func (s *Signer) Signature(params url.Values) string {
	return hmacHex(s.algo, s.secret, Canonical(params, ParamSignature))
}

// Sign validates req and returns the checkout URL with a trailing signature
func (s *Signer) Sign(req LinkRequest) (string, error) {
	params, err := s.Params(req)
	if err != nil {
		return "", err
	}

	u := *s.checkoutURL
	// url.Values.Encode sorts keys; signature goes last
	query := params.Encode() + "&" + ParamSignature + "=" + url.QueryEscape(s.Signature(params))
	if u.RawQuery != "" {
		query = u.RawQuery + "&" + query
	}
	u.RawQuery = query
	return u.String(), nil
}
