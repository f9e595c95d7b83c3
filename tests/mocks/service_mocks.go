package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	"github.com/welldanyogia/stitchdesk-backend/internal/events"
	"github.com/welldanyogia/stitchdesk-backend/internal/notify"
)

// MockAuthorizer implements access.Authorizer
type MockAuthorizer struct {
	mock.Mock
}

// Resolve returns the decision for userID on orderID
func (m *MockAuthorizer) Resolve(ctx context.Context, userID, orderID uuid.UUID) access.Decision {
	args := m.Called(ctx, userID, orderID)
	return args.Get(0).(access.Decision)
}

// ResolveCatalog returns the catalog decision for userID
func (m *MockAuthorizer) ResolveCatalog(ctx context.Context, userID uuid.UUID) access.Decision {
	args := m.Called(ctx, userID)
	return args.Get(0).(access.Decision)
}

// MockPublisher implements events.Publisher and records what was published
type MockPublisher struct {
	mock.Mock
	Published []events.Event
}

// Publish records the event
func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.Published = append(m.Published, event)
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMailer implements notify.Mailer
type MockMailer struct {
	mock.Mock
}

// SendReceipt records the receipt
func (m *MockMailer) SendReceipt(ctx context.Context, receipt notify.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}
