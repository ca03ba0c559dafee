package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFrame is a serialized eyeglass frame in the catalog. Stock is kept
// per store in InventoryLevel, never on the product itself.
type ProductFrame struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index;uniqueIndex:idx_frame_org_ref,priority:1"`
	ReferenceCode  string    `gorm:"uniqueIndex:idx_frame_org_ref,priority:2;not null"`
	Name           string    `gorm:"index;not null"`
	Brand          *string
	Color          *string
	Material       *string
	CostPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProductFrame) TableName() string { return "product_frames" }

// ProductLens is a lens family in the catalog. IsLabOrder marks surfaced
// lenses that are always purchased externally, never held in the stock grid.
type ProductLens struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index"`
	Name           string    `gorm:"index;not null"`
	Brand          *string
	Treatment      *string
	SalePrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsLabOrder     bool            `gorm:"not null;default:false"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProductLens) TableName() string { return "product_lenses" }
