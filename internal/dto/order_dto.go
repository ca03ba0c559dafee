package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateOrderRequest struct {
	CustomerID string  `json:"customer_id" validate:"required,uuid"`
	StoreID    string  `json:"store_id"    validate:"required,uuid"`
	Notes      *string `json:"notes"`
}

// LensSpec carries the optical parameters of a LENS item.
type LensSpec struct {
	Spherical   decimal.Decimal  `json:"spherical"   validate:"required"`
	Cylindrical decimal.Decimal  `json:"cylindrical" validate:"required"`
	Axis        *int             `json:"axis"        validate:"omitempty,min=0,max=180"`
	Addition    *decimal.Decimal `json:"addition"`
	Side        *string          `json:"side" validate:"omitempty,oneof=OD OE BOTH"`
}

// OrderItemRequest is the tagged item input: exactly the fields of the named
// kind must be present. FRAME and LENS reference the catalog via product_id;
// SERVICE carries a free description instead.
type OrderItemRequest struct {
	ItemType       string          `json:"item_type"   validate:"required,oneof=FRAME LENS SERVICE"`
	ProductID      *string         `json:"product_id"  validate:"omitempty,uuid"`
	Description    *string         `json:"description"`
	Quantity       int             `json:"quantity"    validate:"required,gt=0"`
	UnitPrice      decimal.Decimal `json:"unit_price"  validate:"min=0"`
	DiscountAmount decimal.Decimal `json:"discount_amount" validate:"min=0"`
	Lens           *LensSpec       `json:"lens"`
}

type UpdateOrderItemRequest struct {
	Quantity       *int             `json:"quantity"        validate:"omitempty,gt=0"`
	UnitPrice      *decimal.Decimal `json:"unit_price"      validate:"omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount" validate:"omitempty"`
}

// ApplyDiscountRequest accepts either an absolute amount or a percentage;
// exactly one must be set.
type ApplyDiscountRequest struct {
	Amount     *decimal.Decimal `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AWAITING_LENS IN_PRODUCTION READY DELIVERED"`
}

type CancelOrderRequest struct {
	Reason *string `json:"reason"`
}

type OrderFilter struct {
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	StoreID    string `form:"store_id"`
	SellerID   string `form:"seller_id"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID               string          `json:"id"`
	ItemType         string          `json:"item_type"`
	ProductID        *string         `json:"product_id"`
	Description      *string         `json:"description"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	ReservedQuantity int             `json:"reserved_quantity"`
	Lens             *LensSpec       `json:"lens,omitempty"`
	NeedsPurchasing  bool            `json:"needs_purchasing"`
}

type OrderResponse struct {
	ID                 string              `json:"id"`
	OrderNumber        string              `json:"order_number"`
	Status             string              `json:"status"`
	CustomerID         string              `json:"customer_id"`
	StoreID            string              `json:"store_id"`
	SellerID           string              `json:"seller_id"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	DiscountAmount     decimal.Decimal     `json:"discount_amount"`
	DiscountPercentage *decimal.Decimal    `json:"discount_percentage"`
	Total              decimal.Decimal     `json:"total"`
	MaxDiscountAllowed decimal.Decimal     `json:"max_discount_allowed"`
	DiscountApprovedBy *string             `json:"discount_approved_by"`
	Notes              *string             `json:"notes"`
	Items              []OrderItemResponse `json:"items"`
	PaidAt             *string             `json:"paid_at"`
	DeliveredAt        *string             `json:"delivered_at"`
	CreatedAt          string              `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// LabQueueResponse groups in-flight orders by production stage (Kanban).
type LabQueueResponse struct {
	AwaitingMount []OrderResponse `json:"awaiting_mount"`
	AwaitingLens  []OrderResponse `json:"awaiting_lens"`
	InProduction  []OrderResponse `json:"in_production"`
	Ready         []OrderResponse `json:"ready"`
}
