package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Transitions are one-directional; no status is re-entered.
const (
	OrderDraft        = "DRAFT"
	OrderPending      = "PENDING"
	OrderPaid         = "PAID"
	OrderAwaitingLens = "AWAITING_LENS"
	OrderInProduction = "IN_PRODUCTION"
	OrderReady        = "READY"
	OrderDelivered    = "DELIVERED"
	OrderCancelled    = "CANCELLED"
)

// OrderTransitions is the only table AdvanceStatus consults. DRAFT→PENDING
// and PENDING→PAID are excluded on purpose: those edges run through
// SendToPayment and Checkout, which carry side effects beyond the status flip.
var OrderTransitions = map[string][]string{
	OrderPaid:         {OrderAwaitingLens, OrderInProduction},
	OrderAwaitingLens: {OrderInProduction},
	OrderInProduction: {OrderReady},
	OrderReady:        {OrderDelivered},
}

// Item kinds within an order.
const (
	ItemFrame   = "FRAME"
	ItemLens    = "LENS"
	ItemService = "SERVICE"
)

// Order is one sell-through transaction: a quote assembled in DRAFT, paid at
// checkout, produced by the lab and delivered. Monetary invariant held after
// every mutation: Total = Subtotal - DiscountAmount, never negative.
type Order struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index:idx_order_org_status,priority:1"`
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	StoreID        uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID       uuid.UUID `gorm:"type:uuid;not null;index"`

	// OrderNumber is unique per tenant, allocated from the per-tenant-year
	// counter (e.g. OS-2026-0042). Never reused, even for cancelled orders.
	OrderNumber string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status      string `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_order_org_status,priority:2"`

	Subtotal           decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	DiscountAmount     decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	DiscountPercentage *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Total              decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`

	// MaxDiscountAllowed is the per-order ceiling in percent. Discounts above
	// it require an elevated role, recorded in DiscountApprovedBy.
	MaxDiscountAllowed decimal.Decimal `gorm:"type:decimal(5,2);not null;default:10"`
	DiscountApprovedBy *uuid.UUID      `gorm:"type:uuid"`

	Notes       *string
	PaidAt      *time.Time
	DeliveredAt *time.Time
	IsActive    bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "service_orders" }

// OrderItem is one unit of sale. ItemType discriminates the variant:
// FRAME and LENS reference the catalog through ProductID, SERVICE carries
// only a description. Lens fields are populated for LENS items only.
type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string    `gorm:"not null;index"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemType       string    `gorm:"type:varchar(20);not null"`
	ProductID      *uuid.UUID `gorm:"type:uuid"`
	Description    *string

	Quantity       int             `gorm:"not null;default:1"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	// ReservedQuantity mirrors the hold placed on InventoryLevel/LensStock;
	// the two are mutated in lock-step inside one transaction.
	ReservedQuantity int        `gorm:"not null;default:0"`
	ReservedAt       *time.Time

	Lens            *LensParams `gorm:"embedded;embeddedPrefix:lens_"`
	LensAddition    *decimal.Decimal `gorm:"type:decimal(5,2)"`
	LensSide        *string          `gorm:"type:varchar(10)"`
	NeedsPurchasing bool             `gorm:"not null;default:false"`

	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OrderItem) TableName() string { return "service_order_items" }

// OrderCounter backs gap-free order number allocation: one row per tenant and
// calendar year, bumped atomically with an upsert RETURNING the new value.
type OrderCounter struct {
	OrganizationID string `gorm:"primaryKey"`
	Year           int    `gorm:"primaryKey"`
	Value          int    `gorm:"not null;default:0"`
}

func (OrderCounter) TableName() string { return "order_counters" }
