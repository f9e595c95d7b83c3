// Package notify sends transactional email about orders.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/jhillyerd/enmime"
	"github.com/shopspring/decimal"
	"github.com/welldanyogia/stitchdesk-backend/internal/validator"
)

// Receipt is the content of a payment confirmation
type Receipt struct {
	To          string
	Name        string
	OrderNumber string
	Reference   string
	Method      string
	Amount      decimal.Decimal
	Currency    string
}

// Mailer sends order email
type Mailer interface {
	SendReceipt(ctx context.Context, receipt Receipt) error
}

// NopMailer drops every message
type NopMailer struct{}

// SendReceipt implements Mailer
func (NopMailer) SendReceipt(context.Context, Receipt) error { return nil }

// Transport security modes of the relay connection
const (
	TLSStartTLS = "starttls"
	TLSImplicit = "implicit"
	TLSNone     = "none"
)

// SMTPConfig holds the outbound relay settings. An empty TLS mode means
// STARTTLS.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLS      string
}

// maxHeaderText bounds caller-supplied text placed in message headers
const maxHeaderText = 120

type sendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// SMTPMailer relays mail through an SMTP submission server
type SMTPMailer struct {
	addr   string
	from   string
	auth   sasl.Client
	send   sendFunc
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer for cfg. PLAIN auth is used when a
// username is configured.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) (*SMTPMailer, error) {
	if err := validator.ValidateEmail(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", cfg.From, err)
	}
	send, err := senderFor(cfg.TLS)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &SMTPMailer{
		addr:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:   cfg.From,
		send:   send,
		logger: logger,
	}
	if cfg.Username != "" {
		m.auth = sasl.NewPlainClient("", cfg.Username, cfg.Password)
	}
	return m, nil
}

func senderFor(mode string) (sendFunc, error) {
	switch mode {
	case "", TLSStartTLS:
		return smtp.SendMail, nil
	case TLSImplicit:
		return smtp.SendMailTLS, nil
	case TLSNone:
		return sendPlain, nil
	default:
		return nil, fmt.Errorf("unsupported SMTP TLS mode %q", mode)
	}
}

// sendPlain relays over an unencrypted connection, for local catchers and
// relays on a trusted network.
func sendPlain(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	if a != nil {
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.SendMail(from, to, r); err != nil {
		return err
	}
	return c.Quit()
}

// SendReceipt builds and relays a plain-text receipt
func (m *SMTPMailer) SendReceipt(ctx context.Context, r Receipt) error {
	if err := validator.ValidateEmail(r.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", r.To, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Name = validator.SanitizeString(r.Name, maxHeaderText)
	r.OrderNumber = validator.SanitizeString(r.OrderNumber, maxHeaderText)

	part, err := enmime.Builder().
		From("Stitchdesk", m.from).
		To(r.Name, r.To).
		Subject(fmt.Sprintf("Payment received for order %s", r.OrderNumber)).
		Text([]byte(receiptText(r))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build receipt: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}

	if err := m.send(m.addr, m.auth, m.from, []string{r.To}, &buf); err != nil {
		return fmt.Errorf("failed to send receipt: %w", err)
	}

	m.logger.Info("receipt sent",
		slog.String("order_number", r.OrderNumber),
		slog.String("reference", r.Reference),
	)
	return nil
}

func receiptText(r Receipt) string {
	name := r.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`Hi %s,

We received your payment of %s %s for order %s.
Provider reference: %s
Payment method: %s

Our designers will be in touch with a proof shortly.
`, name, r.Amount.StringFixed(2), r.Currency, r.OrderNumber, r.Reference, r.Method)
}
