package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	StockEntry       = "ENTRY"
	StockExit        = "EXIT"
	StockReservation = "RESERVATION"
	StockRelease     = "RELEASE"
)

// StockMovement is the kardex: one append-only entry per inventory mutation,
// written in the same transaction as the mutation itself. BalanceBefore and
// BalanceAfter capture the metric the movement affected (available units for
// reservations and releases, on-hand units for entries and exits).
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index"`
	StoreID        uuid.UUID `gorm:"type:uuid;not null;index:idx_kardex_store_date,priority:1"`

	ProductFrameID *uuid.UUID `gorm:"type:uuid;index"`
	ProductLensID  *uuid.UUID `gorm:"type:uuid;index"`
	OrderID        *uuid.UUID `gorm:"type:uuid;index"`
	SaleID         *uuid.UUID `gorm:"type:uuid;index"`

	MovementType  string `gorm:"type:varchar(20);not null"`
	Quantity      int    `gorm:"not null"`
	BalanceBefore int    `gorm:"not null"`
	BalanceAfter  int    `gorm:"not null"`

	MovedBy      uuid.UUID `gorm:"type:uuid;not null"`
	MovementDate time.Time `gorm:"not null;index:idx_kardex_store_date,priority:2"`
	Notes        *string
}

func (StockMovement) TableName() string { return "stock_movements" }
