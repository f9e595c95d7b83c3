package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
)

// MockAttachmentRepository implements repository.AttachmentRepository
type MockAttachmentRepository struct {
	mock.Mock
}

// Create creates a new attachment
func (m *MockAttachmentRepository) Create(ctx context.Context, attachment *models.OrderAttachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

// GetByID retrieves an attachment by its ID
func (m *MockAttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderAttachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderAttachment), args.Error(1)
}

// ListByOrder retrieves the attachments of an order
func (m *MockAttachmentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAttachment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderAttachment), args.Error(1)
}

// Delete deletes an attachment by its ID
func (m *MockAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductImageRepository implements repository.ProductImageRepository
type MockProductImageRepository struct {
	mock.Mock
}

// Create creates a new product image
func (m *MockProductImageRepository) Create(ctx context.Context, image *models.ProductImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

// GetByStorageKey retrieves a product image by its storage key
func (m *MockProductImageRepository) GetByStorageKey(ctx context.Context, key string) (*models.ProductImage, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductImage), args.Error(1)
}

// DeleteByStorageKey deletes a product image by its storage key
func (m *MockProductImageRepository) DeleteByStorageKey(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockOrderRepository implements repository.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

// Create creates a new order
func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// GetByID retrieves an order by its ID
func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// UpdatePaymentStatus sets the payment status of an order
func (m *MockOrderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockEmployeeRepository implements repository.EmployeeRepository
type MockEmployeeRepository struct {
	mock.Mock
}

// Create creates a new employee
func (m *MockEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

// GetByUserID retrieves an employee by auth subject
func (m *MockEmployeeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Employee, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

// MockCustomerRepository implements repository.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

// Create creates a new customer
func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// GetByID retrieves a customer by its ID
func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

// MockPaymentEventRepository implements repository.PaymentEventRepository
type MockPaymentEventRepository struct {
	mock.Mock
}

// Create records a payment event
func (m *MockPaymentEventRepository) Create(ctx context.Context, event *models.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// ListByOrder lists the payment events of an order
func (m *MockPaymentEventRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PaymentEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentEvent), args.Error(1)
}
