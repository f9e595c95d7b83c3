package services

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/events"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"github.com/welldanyogia/stitchdesk-backend/internal/notify"
	"github.com/welldanyogia/stitchdesk-backend/internal/payment"
	"github.com/welldanyogia/stitchdesk-backend/internal/repository"
)

// ErrPaymentsDisabled is returned when no merchant credentials are configured
var ErrPaymentsDisabled = errors.New("payments are not configured")

// PaymentServiceConfig holds the checkout redirect targets
type PaymentServiceConfig struct {
	ReturnURL string
	CancelURL string
}

// PaymentService builds checkout links and applies provider notifications
type PaymentService interface {
	// CreateLink signs a checkout URL for the order's items
	CreateLink(ctx context.Context, callerID, orderID uuid.UUID) (string, error)

	// HandleWebhook verifies and records a provider notification
	HandleWebhook(ctx context.Context, form url.Values) (*models.PaymentEvent, error)
}

type paymentService struct {
	orders     repository.OrderRepository
	paymentLog repository.PaymentEventRepository
	authorizer access.Authorizer
	signer     *payment.Signer
	verifier   *payment.Verifier
	publisher  events.Publisher
	mailer     notify.Mailer
	config     PaymentServiceConfig
	logger     *slog.Logger
}

// NewPaymentService creates a new PaymentService instance. A nil signer
// disables link creation; a nil verifier rejects every notification.
func NewPaymentService(
	orders repository.OrderRepository,
	paymentLog repository.PaymentEventRepository,
	authorizer access.Authorizer,
	signer *payment.Signer,
	verifier *payment.Verifier,
	publisher events.Publisher,
	mailer notify.Mailer,
	config PaymentServiceConfig,
	logger *slog.Logger,
) PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if mailer == nil {
		mailer = notify.NopMailer{}
	}
	return &paymentService{
		orders:     orders,
		paymentLog: paymentLog,
		authorizer: authorizer,
		signer:     signer,
		verifier:   verifier,
		publisher:  publisher,
		mailer:     mailer,
		config:     config,
		logger:     logger,
	}
}

func (s *paymentService) CreateLink(ctx context.Context, callerID, orderID uuid.UUID) (string, error) {
	if !s.authorizer.Resolve(ctx, callerID, orderID).CanView {
		return "", apperrors.Forbidden("not allowed to pay for this order")
	}
	if s.signer == nil {
		return "", apperrors.Upstream("sign payment link", ErrPaymentsDisabled)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NotFound(apperrors.ErrOrderNotFound)
		}
		return "", apperrors.Upstream("get order", err)
	}

	link, err := s.signer.Sign(LinkRequestFor(order, s.config))
	if err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}

	s.logger.Info("payment link created",
		slog.String("order_id", order.ID.String()),
		slog.Int("items", len(order.Items)))
	return link, nil
}

// LinkRequestFor builds the checkout request for an order. The order id is
// the correlation id the provider echoes back as REFNOEXT.
func LinkRequestFor(order *models.Order, config PaymentServiceConfig) payment.LinkRequest {
	return payment.LinkRequest{
		Currency:      order.Currency,
		ReturnURL:     config.ReturnURL,
		CancelURL:     config.CancelURL,
		CorrelationID: order.ID.String(),
		Items: lo.Map(order.Items, func(item models.OrderItem, _ int) payment.Item {
			return payment.Item{
				Name:     item.ProductName,
				Price:    item.UnitPrice,
				Quantity: item.Quantity,
				Type:     item.ItemType,
			}
		}),
	}
}

// paymentStatusFor maps a resolved outcome onto the order's payment status
func paymentStatusFor(outcome payment.Outcome) (models.PaymentStatus, bool) {
	switch outcome {
	case payment.OutcomeSuccess:
		return models.PaymentStatusPaid, true
	case payment.OutcomePending:
		return models.PaymentStatusPending, true
	case payment.OutcomeFailed:
		return models.PaymentStatusFailed, true
	default:
		return "", false
	}
}

func (s *paymentService) HandleWebhook(ctx context.Context, form url.Values) (*models.PaymentEvent, error) {
	if s.verifier == nil || !s.verifier.Verify(form) {
		return nil, apperrors.ErrInvalidSignature
	}

	n, err := payment.ParseNotification(form)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	event := &models.PaymentEvent{
		ProviderRef:   n.RefNo,
		ProviderOrder: n.OrderNo,
		MerchantRef:   n.ExternalRef,
		Status:        n.Status,
		Outcome:       string(n.Outcome),
		Amount:        n.Amount,
		Currency:      n.Currency,
		PaymentMethod: n.Method,
	}

	order := s.matchOrder(ctx, n.ExternalRef)
	if order != nil {
		event.OrderID = &order.ID
	}

	if err := s.paymentLog.Create(ctx, event); err != nil {
		return nil, apperrors.Upstream("insert payment event", err)
	}

	if order == nil {
		s.logger.Warn("payment notification matches no order",
			slog.String("merchant_ref", n.ExternalRef),
			slog.String("provider_ref", n.RefNo))
		return event, nil
	}

	status, resolved := paymentStatusFor(n.Outcome)
	if !resolved {
		s.logger.Warn("unresolved payment status",
			slog.String("order_id", order.ID.String()),
			slog.String("status", n.Status))
		return event, nil
	}

	if err := s.orders.UpdatePaymentStatus(ctx, order.ID, status); err != nil {
		return nil, apperrors.Upstream("update payment status", err)
	}

	s.logger.Info("payment status updated",
		slog.String("order_id", order.ID.String()),
		slog.String("payment_status", string(status)))

	events.Emit(ctx, s.publisher, events.New(events.TypePaymentStatus, order.ID, event))

	if n.Outcome == payment.OutcomeSuccess {
		s.sendReceipt(ctx, order, n)
	}
	return event, nil
}

// matchOrder finds the order named by the correlation id, or nil
func (s *paymentService) matchOrder(ctx context.Context, ref string) *models.Order {
	orderID, err := uuid.Parse(ref)
	if err != nil {
		return nil
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("failed to load order for payment",
				slog.String("order_id", orderID.String()),
				slog.String("error", err.Error()))
		}
		return nil
	}
	return order
}

func (s *paymentService) sendReceipt(ctx context.Context, order *models.Order, n payment.Notification) {
	if order.Customer.Email == "" {
		return
	}
	err := s.mailer.SendReceipt(ctx, notify.Receipt{
		To:          order.Customer.Email,
		Name:        order.Customer.Name,
		OrderNumber: order.OrderNumber,
		Reference:   n.RefNo,
		Method:      n.Method,
		Amount:      n.Amount,
		Currency:    n.Currency,
	})
	if err != nil {
		s.logger.Warn("failed to send receipt",
			slog.String("order_id", order.ID.String()),
			slog.String("error", err.Error()))
	}
}
