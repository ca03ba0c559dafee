package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryLevel tracks on-hand and reserved quantity for one frame at one
// store. Invariant: 0 <= ReservedQuantity <= Quantity. Both fields are
// mutated exclusively by the inventory repository's reserve/release/commit
// statements, never assigned directly.
type InventoryLevel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID   string    `gorm:"not null;index"`
	StoreID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inv_store_frame,priority:1"`
	ProductFrameID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inv_store_frame,priority:2"`
	Quantity         int       `gorm:"not null;default:0"`
	ReservedQuantity int       `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Available is the quantity a new reservation may still claim.
func (l *InventoryLevel) Available() int { return l.Quantity - l.ReservedQuantity }

// LensParams is the optical-power tuple that keys lens stock.
type LensParams struct {
	Spherical   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Cylindrical decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Axis        *int
}

// LensStock is one cell of the lens power grid for a store. A missing cell
// means zero stock, not an error. Same reserve/release/commit discipline as
// InventoryLevel.
type LensStock struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID   string    `gorm:"not null;index"`
	StoreID          uuid.UUID `gorm:"type:uuid;not null;index:idx_lens_grid,priority:1"`
	ProductLensID    uuid.UUID `gorm:"type:uuid;not null;index:idx_lens_grid,priority:2"`
	LensParams       `gorm:"embedded"`
	Quantity         int `gorm:"not null;default:0"`
	ReservedQuantity int `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (LensStock) TableName() string { return "lens_stock_grid" }

func (s *LensStock) Available() int { return s.Quantity - s.ReservedQuantity }
