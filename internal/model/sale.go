package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout.
const (
	PayCash   = "CASH"
	PayCard   = "CARD"
	PayPix    = "PIX"
	PayCredit = "CREDIT"
)

// Sale records the settled payment for exactly one order, created at
// checkout when the order moves PENDING -> PAID. CashSessionID is set only
// for cash payments; the card fields only for card; ReceivableID only for
// deferred methods.
type Sale struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	StoreID        uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID       uuid.UUID `gorm:"type:uuid;not null;index"`

	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`

	CashSessionID *uuid.UUID `gorm:"type:uuid;index"`

	CardFeeRate     *decimal.Decimal `gorm:"type:decimal(5,2)"`
	CardGrossAmount *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CardNetAmount   *decimal.Decimal `gorm:"type:decimal(10,2)"`

	ReceivableID *uuid.UUID `gorm:"type:uuid;index"`

	SoldAt    time.Time `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
}

// Receivable statuses.
const (
	ReceivablePending   = "PENDING"
	ReceivablePartial   = "PARTIAL"
	ReceivablePaid      = "PAID"
	ReceivableOverdue   = "OVERDUE"
	ReceivableCancelled = "CANCELLED"
)

// Receivable is a deferred-payment obligation. The order core only creates
// it at checkout (or during a CHARGE_STAFF audit); the billing flow settles
// it afterwards. Invariant: RemainingAmount = TotalAmount - PaidAmount.
type Receivable struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string     `gorm:"not null;index"`
	CustomerID     *uuid.UUID `gorm:"type:uuid;index"`
	// StaffID is set instead of CustomerID when the receivable charges an
	// employee for a cash shortage.
	StaffID *uuid.UUID `gorm:"type:uuid;index"`
	SaleID  *uuid.UUID `gorm:"type:uuid;index"`

	Description     string          `gorm:"not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Status   string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	DueDate  time.Time  `gorm:"type:date;not null;index"`
	PaidAt   *time.Time
	Notes    *string
	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
