package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Staff roles. MANAGER and ADMIN are the elevated roles that may approve
// discounts above the order ceiling and resolve cash audits.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
	RoleSeller  = "SELLER"
)

// IsElevatedRole reports whether the role may override business ceilings.
func IsElevatedRole(role string) bool {
	return role == RoleAdmin || role == RoleManager
}

// StaffMember is one employee of a tenant. ExternalID links the record to the
// identity provider's user; the API never stores credentials itself.
type StaffMember struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index;uniqueIndex:idx_staff_org_email,priority:1"`
	ExternalID     *string   `gorm:"uniqueIndex"`
	FullName       string    `gorm:"not null"`
	Email          string    `gorm:"not null;uniqueIndex:idx_staff_org_email,priority:2"`
	Role           string    `gorm:"type:varchar(20);not null;default:'STAFF'"`
	Department     *string
	AvatarURL      *string
	IsActive       bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Store is one physical shop of a tenant. CardFeeRate is the percentage the
// card machine retains; checkout uses it to compute the net amount.
type Store struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index"`
	Name           string    `gorm:"not null"`
	Address        *string
	Phone          *string
	CardFeeRate    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Customer document (CPF-like) is unique per tenant.
type Customer struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index;uniqueIndex:idx_customer_org_doc,priority:1"`
	FullName       string    `gorm:"index;not null"`
	Document       string    `gorm:"uniqueIndex:idx_customer_org_doc,priority:2;not null"`
	Email          *string
	Phone          *string
	BirthDate      *time.Time
	Notes          *string
	IsActive       bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
