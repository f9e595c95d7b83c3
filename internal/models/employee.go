package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies how a caller relates to the order book
type Role string

// remember to add new staff roles to the validStaffRoles map
const (
	RoleAdmin    Role = "admin"
	RoleSalesRep Role = "sales_rep"
	RoleDesigner Role = "designer"
	RoleCustomer Role = "customer"
	RoleNone     Role = "none"
)

var validStaffRoles = map[Role]struct{}{
	RoleAdmin:    {},
	RoleSalesRep: {},
	RoleDesigner: {},
}

// IsStaff reports whether the role can be stored on an employee row
func (r Role) IsStaff() bool {
	_, ok := validStaffRoles[r]
	return ok
}

// Employee is a staff member; UserID is the subject of their auth token
type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Role      Role      `gorm:"size:32;not null" json:"role"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Employee
func (Employee) TableName() string {
	return "employees"
}

// BeforeCreate assigns a random ID when none was set
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
