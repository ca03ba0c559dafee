package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash session statuses.
const (
	SessionOpen         = "OPEN"
	SessionClosed       = "CLOSED"
	SessionPendingAudit = "PENDING_AUDIT"
)

// Audit actions for sessions closed with a discrepancy.
const (
	AuditAcceptLoss   = "ACCEPT_LOSS"
	AuditChargeStaff  = "CHARGE_STAFF"
	AuditCorrectValue = "CORRECT_VALUE"
)

// CashSession is one open/close cycle of a seller's drawer. At most one OPEN
// session exists per (staff, tenant). Discrepancy = calculated - declared;
// a nonzero value parks the session in PENDING_AUDIT until a manager resolves
// it. Sessions are deactivated, never deleted.
type CashSession struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index"`
	StoreID        uuid.UUID `gorm:"type:uuid;not null;index"`
	StaffID        uuid.UUID `gorm:"type:uuid;not null;index:idx_session_staff_status,priority:1"`

	Status   string    `gorm:"type:varchar(20);not null;default:'OPEN';index:idx_session_staff_status,priority:2"`
	OpenedAt time.Time `gorm:"not null"`
	ClosedAt *time.Time

	OpeningBalance    decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	ClosingBalance    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CalculatedBalance *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Discrepancy       *decimal.Decimal `gorm:"type:decimal(10,2)"`

	AuditResolvedBy *uuid.UUID `gorm:"type:uuid"`
	AuditResolvedAt *time.Time
	AuditAction     *string `gorm:"type:varchar(50)"`
	AuditNotes      *string

	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Movements []CashMovement `gorm:"foreignKey:CashSessionID"`
}

// Cash movement types.
const (
	MovementDeposit    = "DEPOSIT"
	MovementWithdrawal = "WITHDRAWAL"
)

// CashMovement is an immutable entry in a session's drawer log. Amount is
// always positive; the type carries the sign. Movements are never updated or
// deleted — reversals append an opposite entry.
type CashMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index"`
	CashSessionID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StaffID        uuid.UUID `gorm:"type:uuid;not null"`

	MovementType string          `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description  string          `gorm:"not null"`
	// ReferenceID links the movement to an originating sale, when any.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`

	MovementDate time.Time `gorm:"not null"`
	IsActive     bool      `gorm:"not null;default:true"`
}
