package fixtures

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
)

// EmployeeBuilder creates test Employee instances with fluent API
type EmployeeBuilder struct {
	employee models.Employee
}

// NewEmployeeBuilder creates a new active EmployeeBuilder with the given role
func NewEmployeeBuilder(role models.Role) *EmployeeBuilder {
	return &EmployeeBuilder{
		employee: models.Employee{
			ID:     uuid.New(),
			UserID: uuid.New(),
			Role:   role,
			Name:   gofakeit.Name(),
			Email:  gofakeit.Email(),
			Active: true,
		},
	}
}

// WithUserID sets the auth subject of the employee
func (b *EmployeeBuilder) WithUserID(id uuid.UUID) *EmployeeBuilder {
	b.employee.UserID = id
	return b
}

// Inactive marks the employee as deactivated
func (b *EmployeeBuilder) Inactive() *EmployeeBuilder {
	b.employee.Active = false
	return b
}

// Build returns the constructed Employee
func (b *EmployeeBuilder) Build() *models.Employee {
	e := b.employee
	return &e
}

// CustomerBuilder creates test Customer instances with fluent API
type CustomerBuilder struct {
	customer models.Customer
}

// NewCustomerBuilder creates a new CustomerBuilder with sensible defaults
func NewCustomerBuilder() *CustomerBuilder {
	return &CustomerBuilder{
		customer: models.Customer{
			ID:    uuid.New(),
			Name:  gofakeit.Name(),
			Email: gofakeit.Email(),
		},
	}
}

// WithSalesRep assigns the customer to a sales rep
func (b *CustomerBuilder) WithSalesRep(rep *models.Employee) *CustomerBuilder {
	id := rep.ID
	b.customer.AssignedSalesRepID = &id
	return b
}

// Build returns the constructed Customer
func (b *CustomerBuilder) Build() *models.Customer {
	c := b.customer
	return &c
}

// OrderBuilder creates test Order instances with fluent API
type OrderBuilder struct {
	order models.Order
}

// NewOrderBuilder creates an unpaid order for customer with one random item
func NewOrderBuilder(customer *models.Customer) *OrderBuilder {
	id := uuid.New()
	b := &OrderBuilder{
		order: models.Order{
			ID:            id,
			OrderNumber:   fmt.Sprintf("SD-%06d", gofakeit.Number(1, 999999)),
			CustomerID:    customer.ID,
			Status:        "new",
			PaymentStatus: models.PaymentStatusUnpaid,
			Currency:      "USD",
		},
	}
	return b.WithItem(gofakeit.ProductName(), decimal.NewFromFloat(gofakeit.Price(5, 120)).Round(2), gofakeit.Number(1, 24))
}

// WithDesigner assigns the order to a designer
func (b *OrderBuilder) WithDesigner(designer *models.Employee) *OrderBuilder {
	id := designer.ID
	b.order.AssignedDesignerID = &id
	return b
}

// WithItem appends a line item and updates the total
func (b *OrderBuilder) WithItem(name string, price decimal.Decimal, qty int) *OrderBuilder {
	b.order.Items = append(b.order.Items, models.OrderItem{
		OrderID:     b.order.ID,
		ProductName: name,
		UnitPrice:   price,
		Quantity:    qty,
		ItemType:    "PRODUCT",
	})
	b.order.Total = b.order.Total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	return b
}

// WithoutItems drops all line items
func (b *OrderBuilder) WithoutItems() *OrderBuilder {
	b.order.Items = nil
	b.order.Total = decimal.Zero
	return b
}

// Build returns the constructed Order
func (b *OrderBuilder) Build() *models.Order {
	o := b.order
	o.Items = append([]models.OrderItem(nil), b.order.Items...)
	return &o
}

// NewAttachment returns an attachment row for order as uploaded by uploader
func NewAttachment(orderID, uploader uuid.UUID) *models.OrderAttachment {
	name := strings.ToLower(gofakeit.Word()) + ".png"
	stored := uuid.NewString() + "-" + name
	return &models.OrderAttachment{
		ID:               uuid.New(),
		OrderID:          orderID,
		OriginalFilename: name,
		StoredFilename:   stored,
		SizeBytes:        int64(gofakeit.Number(1, 20*1024*1024)),
		ContentType:      "image/png",
		StorageKey:       "orders/" + orderID.String() + "/" + stored,
		UploadedBy:       uploader,
		UploadedAt:       time.Now().UTC(),
	}
}
