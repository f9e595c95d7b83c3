// Package access decides what a caller may do with an order's files.
package access

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"github.com/welldanyogia/stitchdesk-backend/internal/repository"
)

// Decision is the outcome of one policy evaluation. It is computed per
// request and never cached.
type Decision struct {
	Role      models.Role `json:"role"`
	CanView   bool        `json:"canView"`
	CanUpload bool        `json:"canUpload"`
	CanDelete bool        `json:"canDelete"`
}

func deny(role models.Role) Decision {
	return Decision{Role: role}
}

func viewUpload(role models.Role) Decision {
	return Decision{Role: role, CanView: true, CanUpload: true}
}

// Authorizer is implemented by Resolver
type Authorizer interface {
	Resolve(ctx context.Context, userID, orderID uuid.UUID) Decision
	ResolveCatalog(ctx context.Context, userID uuid.UUID) Decision
}

// subject is the caller after role resolution
type subject struct {
	userID     uuid.UUID
	role       models.Role
	employeeID uuid.UUID
}

type roleResolver func(ctx context.Context, s subject, orderID uuid.UUID) Decision

// Resolver evaluates the order file policy against the employee, customer
// and order tables.
type Resolver struct {
	employees repository.EmployeeRepository
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	logger    *slog.Logger
	byRole    map[models.Role]roleResolver
}

// NewResolver creates a new Resolver
func NewResolver(
	employees repository.EmployeeRepository,
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	logger *slog.Logger,
) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{
		employees: employees,
		customers: customers,
		orders:    orders,
		logger:    logger,
	}
	r.byRole = map[models.Role]roleResolver{
		models.RoleAdmin:    r.resolveAdmin,
		models.RoleSalesRep: r.resolveSalesRep,
		models.RoleDesigner: r.resolveDesigner,
		models.RoleCustomer: r.resolveCustomer,
	}
	return r
}

// Resolve returns what userID may do with the files of orderID. Every
// failure path yields a full denial.
func (r *Resolver) Resolve(ctx context.Context, userID, orderID uuid.UUID) Decision {
	s := r.subjectFor(ctx, userID)
	fn, ok := r.byRole[s.role]
	if !ok {
		return deny(models.RoleNone)
	}
	return fn(ctx, s, orderID)
}

// ResolveCatalog returns what userID may do with product images
func (r *Resolver) ResolveCatalog(ctx context.Context, userID uuid.UUID) Decision {
	s := r.subjectFor(ctx, userID)
	if s.role == models.RoleAdmin {
		return Decision{Role: s.role, CanView: true, CanUpload: true, CanDelete: true}
	}
	return Decision{Role: s.role, CanView: true}
}

func (r *Resolver) subjectFor(ctx context.Context, userID uuid.UUID) subject {
	s := subject{userID: userID, role: models.RoleNone}

	employee, err := r.employees.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if !employee.Active || !employee.Role.IsStaff() {
			return s
		}
		s.role = employee.Role
		s.employeeID = employee.ID
		return s
	case !errors.Is(err, repository.ErrNotFound):
		r.lookupFailed("employee", userID, err)
		return s
	}

	if _, err := r.customers.GetByID(ctx, userID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			r.lookupFailed("customer", userID, err)
		}
		return s
	}
	s.role = models.RoleCustomer
	return s
}

func (r *Resolver) loadOrder(ctx context.Context, s subject, orderID uuid.UUID) (*models.Order, bool) {
	order, err := r.orders.GetByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			r.lookupFailed("order", s.userID, err, slog.String("order_id", orderID.String()))
		}
		return nil, false
	}
	return order, true
}

func (r *Resolver) resolveAdmin(_ context.Context, s subject, _ uuid.UUID) Decision {
	return Decision{Role: s.role, CanView: true, CanUpload: true, CanDelete: true}
}

func (r *Resolver) resolveSalesRep(ctx context.Context, s subject, orderID uuid.UUID) Decision {
	order, ok := r.loadOrder(ctx, s, orderID)
	if !ok {
		return deny(s.role)
	}
	// Assignment lives on the customer, not the order.
	customer := &order.Customer
	if customer.ID != order.CustomerID {
		var err error
		if customer, err = r.customers.GetByID(ctx, order.CustomerID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				r.lookupFailed("customer", s.userID, err, slog.String("order_id", orderID.String()))
			}
			return deny(s.role)
		}
	}
	if customer.AssignedSalesRepID == nil || *customer.AssignedSalesRepID != s.employeeID {
		return deny(s.role)
	}
	return viewUpload(s.role)
}

func (r *Resolver) resolveDesigner(ctx context.Context, s subject, orderID uuid.UUID) Decision {
	order, ok := r.loadOrder(ctx, s, orderID)
	if !ok {
		return deny(s.role)
	}
	if order.AssignedDesignerID == nil || *order.AssignedDesignerID != s.employeeID {
		return deny(s.role)
	}
	return viewUpload(s.role)
}

func (r *Resolver) resolveCustomer(ctx context.Context, s subject, orderID uuid.UUID) Decision {
	order, ok := r.loadOrder(ctx, s, orderID)
	if !ok {
		return deny(s.role)
	}
	if order.CustomerID != s.userID {
		return deny(s.role)
	}
	return viewUpload(s.role)
}

func (r *Resolver) lookupFailed(what string, userID uuid.UUID, err error, attrs ...any) {
	args := append([]any{
		slog.String("lookup", what),
		slog.String("user_id", userID.String()),
		slog.String("error", err.Error()),
	}, attrs...)
	r.logger.Warn("access lookup failed, denying", args...)
}
