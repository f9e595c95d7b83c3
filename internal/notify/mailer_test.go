package notify

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/jhillyerd/enmime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureBackend accepts every message and keeps it
type captureBackend struct {
	mu       sync.Mutex
	from     string
	rcpts    []string
	messages [][]byte
	received chan struct{}
}

func (b *captureBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &captureSession{backend: b}, nil
}

type captureSession struct {
	backend *captureBackend
}

func (s *captureSession) Mail(from string, opts *smtp.MailOptions) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.from = from
	return nil
}

func (s *captureSession) Rcpt(to string, opts *smtp.RcptOptions) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.rcpts = append(s.backend.rcpts, to)
	return nil
}

func (s *captureSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, data)
	s.backend.mu.Unlock()
	s.backend.received <- struct{}{}
	return nil
}

func (s *captureSession) Reset() {}

func (s *captureSession) Logout() error { return nil }

func startCaptureServer(t *testing.T) (*captureBackend, string, int) {
	t.Helper()
	backend := &captureBackend{received: make(chan struct{}, 1)}

	server := smtp.NewServer(backend)
	server.Domain = "localhost"
	server.ReadTimeout = 5 * time.Second
	server.WriteTimeout = 5 * time.Second

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go server.Serve(ln)
	t.Cleanup(func() { server.Close() })

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return backend, host, port
}

func sampleReceipt() Receipt {
	return Receipt{
		To:          "ada@example.com",
		Name:        "Ada",
		OrderNumber: "SD-1001",
		Reference:   "4711",
		Method:      "Visa",
		Amount:      decimal.RequireFromString("74"),
		Currency:    "USD",
	}
}

func TestSMTPMailer_SendsReceipt(t *testing.T) {
	backend, host, port := startCaptureServer(t)

	mailer, err := NewSMTPMailer(SMTPConfig{Host: host, Port: port, From: "orders@stitchdesk.test", TLS: TLSNone}, nil)
	require.NoError(t, err)

	require.NoError(t, mailer.SendReceipt(context.Background(), sampleReceipt()))

	select {
	case <-backend.received:
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, "orders@stitchdesk.test", backend.from)
	assert.Equal(t, []string{"ada@example.com"}, backend.rcpts)

	env, err := enmime.ReadEnvelope(bytes.NewReader(backend.messages[0]))
	require.NoError(t, err)
	assert.Equal(t, "Payment received for order SD-1001", env.GetHeader("Subject"))
	assert.Contains(t, env.Text, "74.00 USD")
	assert.Contains(t, env.Text, "Provider reference: 4711")
}

func TestSMTPMailer_StartTLSRequiresServerSupport(t *testing.T) {
	backend, host, port := startCaptureServer(t)

	mailer, err := NewSMTPMailer(SMTPConfig{Host: host, Port: port, From: "orders@stitchdesk.test", TLS: TLSStartTLS}, nil)
	require.NoError(t, err)

	err = mailer.SendReceipt(context.Background(), sampleReceipt())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Empty(t, backend.messages)
}

func TestSMTPMailer_TLSModes(t *testing.T) {
	for _, mode := range []string{"", TLSStartTLS, TLSImplicit, TLSNone} {
		_, err := NewSMTPMailer(SMTPConfig{Host: "relay", Port: 25, From: "orders@stitchdesk.test", TLS: mode}, nil)
		assert.NoError(t, err, mode)
	}

	_, err := NewSMTPMailer(SMTPConfig{Host: "relay", Port: 25, From: "orders@stitchdesk.test", TLS: "ssl"}, nil)
	assert.ErrorContains(t, err, "unsupported SMTP TLS mode")
}

func TestSMTPMailer_RejectsBadAddresses(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "not-an-address"}, nil)
	assert.Error(t, err)

	mailer, err := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "orders@stitchdesk.test"}, nil)
	require.NoError(t, err)

	called := false
	mailer.send = func(string, sasl.Client, string, []string, io.Reader) error {
		called = true
		return nil
	}

	r := sampleReceipt()
	r.To = "nobody"
	assert.Error(t, mailer.SendReceipt(context.Background(), r))
	assert.False(t, called)
}

func TestSMTPMailer_UsesPlainAuthWhenConfigured(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPConfig{Host: "relay", Port: 587, Username: "u", Password: "p", From: "orders@stitchdesk.test"}, nil)
	require.NoError(t, err)

	var gotAddr string
	var gotAuth sasl.Client
	mailer.send = func(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
		gotAddr, gotAuth = addr, a
		return nil
	}

	require.NoError(t, mailer.SendReceipt(context.Background(), sampleReceipt()))
	assert.Equal(t, "relay:587", gotAddr)
	require.NotNil(t, gotAuth)

	mech, ir, err := gotAuth.Start()
	require.NoError(t, err)
	assert.Equal(t, sasl.Plain, mech)
	assert.Equal(t, "\x00u\x00p", string(ir))
}

func TestSMTPMailer_StripsControlCharactersFromHeaders(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPConfig{Host: "relay", Port: 25, From: "orders@stitchdesk.test"}, nil)
	require.NoError(t, err)

	var raw []byte
	mailer.send = func(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
		data, err := io.ReadAll(r)
		raw = data
		return err
	}

	receipt := sampleReceipt()
	receipt.Name = "Ada\r\nBcc: mallory@example.com"
	receipt.OrderNumber = "SD-1001\r\nX-Injected: yes"
	require.NoError(t, mailer.SendReceipt(context.Background(), receipt))

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, env.GetHeader("Bcc"))
	assert.Empty(t, env.GetHeader("X-Injected"))
	assert.Equal(t, "Payment received for order SD-1001X-Injected: yes", env.GetHeader("Subject"))
	assert.Contains(t, env.Text, "Hi AdaBcc: mallory@example.com,")
}
