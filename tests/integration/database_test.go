//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	"github.com/welldanyogia/stitchdesk-backend/internal/database"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"github.com/welldanyogia/stitchdesk-backend/internal/repository"
	"github.com/welldanyogia/stitchdesk-backend/tests/fixtures"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseIntegrationTestSuite runs repositories and the access resolver
// against a real PostgreSQL
type DatabaseIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	db        *gorm.DB

	employees   repository.EmployeeRepository
	customers   repository.CustomerRepository
	orders      repository.OrderRepository
	attachments repository.AttachmentRepository
	resolver    *access.Resolver
}

// SetupSuite starts PostgreSQL container and initializes database
func (s *DatabaseIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "stitchdesk_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(ctx)
	require.NoError(s.T(), err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(s.T(), err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=stitchdesk_test sslmode=disable",
		host, port.Port())

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	s.db = db

	require.NoError(s.T(), database.Migrate(db))

	s.employees = repository.NewEmployeeRepository(db)
	s.customers = repository.NewCustomerRepository(db)
	s.orders = repository.NewOrderRepository(db)
	s.attachments = repository.NewAttachmentRepository(db)
	s.resolver = access.NewResolver(s.employees, s.customers, s.orders, nil)
}

// TearDownSuite stops the PostgreSQL container
func (s *DatabaseIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.container.Terminate(context.Background())
	}
}

// SetupTest cleans up data before each test
func (s *DatabaseIntegrationTestSuite) SetupTest() {
	s.db.Exec("TRUNCATE TABLE order_attachments, order_items, orders, customers, employees, product_images, payment_events RESTART IDENTITY CASCADE")
}

func TestDatabaseIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(DatabaseIntegrationTestSuite))
}

func (s *DatabaseIntegrationTestSuite) seed(items ...any) {
	for _, item := range items {
		require.NoError(s.T(), s.db.Create(item).Error)
	}
}

func (s *DatabaseIntegrationTestSuite) TestOrder_LoadsItemsAndPaymentStatus() {
	ctx := context.Background()
	customer := fixtures.NewCustomerBuilder().Build()
	order := fixtures.NewOrderBuilder(customer).Build()
	s.seed(customer, order)

	loaded, err := s.orders.GetByID(ctx, order.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), loaded.Items, 1)
	assert.True(s.T(), order.Items[0].UnitPrice.Equal(loaded.Items[0].UnitPrice))
	assert.Equal(s.T(), models.PaymentStatusUnpaid, loaded.PaymentStatus)

	require.NoError(s.T(), s.orders.UpdatePaymentStatus(ctx, order.ID, models.PaymentStatusPaid))
	loaded, err = s.orders.GetByID(ctx, order.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.PaymentStatusPaid, loaded.PaymentStatus)
}

func (s *DatabaseIntegrationTestSuite) TestAttachment_UniqueStorageKey() {
	ctx := context.Background()
	customer := fixtures.NewCustomerBuilder().Build()
	order := fixtures.NewOrderBuilder(customer).Build()
	s.seed(customer, order)

	first := fixtures.NewAttachment(order.ID, customer.ID)
	require.NoError(s.T(), s.attachments.Create(ctx, first))

	dup := fixtures.NewAttachment(order.ID, customer.ID)
	dup.StorageKey = first.StorageKey
	assert.Error(s.T(), s.attachments.Create(ctx, dup))
}

func (s *DatabaseIntegrationTestSuite) TestResolver_RoleMatrix() {
	ctx := context.Background()

	admin := fixtures.NewEmployeeBuilder(models.RoleAdmin).Build()
	rep := fixtures.NewEmployeeBuilder(models.RoleSalesRep).Build()
	otherRep := fixtures.NewEmployeeBuilder(models.RoleSalesRep).Build()
	designer := fixtures.NewEmployeeBuilder(models.RoleDesigner).Build()
	retired := fixtures.NewEmployeeBuilder(models.RoleAdmin).Inactive().Build()
	customer := fixtures.NewCustomerBuilder().WithSalesRep(rep).Build()
	stranger := fixtures.NewCustomerBuilder().Build()
	order := fixtures.NewOrderBuilder(customer).WithDesigner(designer).Build()
	s.seed(admin, rep, otherRep, designer, retired, customer, stranger, order)

	tests := []struct {
		name   string
		userID uuid.UUID
		want   access.Decision
	}{
		{"admin", admin.UserID, access.Decision{Role: models.RoleAdmin, CanView: true, CanUpload: true, CanDelete: true}},
		{"assigned sales rep", rep.UserID, access.Decision{Role: models.RoleSalesRep, CanView: true, CanUpload: true}},
		{"other sales rep", otherRep.UserID, access.Decision{Role: models.RoleSalesRep}},
		{"assigned designer", designer.UserID, access.Decision{Role: models.RoleDesigner, CanView: true, CanUpload: true}},
		{"owning customer", customer.ID, access.Decision{Role: models.RoleCustomer, CanView: true, CanUpload: true}},
		{"other customer", stranger.ID, access.Decision{Role: models.RoleCustomer}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got := s.resolver.Resolve(ctx, tt.userID, order.ID)
			assert.Equal(s.T(), tt.want, got)
		})
	}

	inactive := s.resolver.Resolve(ctx, retired.UserID, order.ID)
	assert.False(s.T(), inactive.CanView || inactive.CanUpload || inactive.CanDelete)
}
