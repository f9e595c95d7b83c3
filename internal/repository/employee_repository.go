package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"gorm.io/gorm"
)

// EmployeeRepository defines the interface for staff lookups
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Employee, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository instance
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Create(employee)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create employee: %w", result.Error)
	}
	return nil
}

// GetByUserID retrieves the employee row for an auth subject
func (r *employeeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&employee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee by user ID: %w", result.Error)
	}
	return &employee, nil
}
