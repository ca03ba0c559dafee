package dto

import "github.com/shopspring/decimal"

// ─── Frames ──────────────────────────────────────────────────────────────────

type CreateFrameRequest struct {
	ReferenceCode string          `json:"reference_code" validate:"required,min=2"`
	Name          string          `json:"name"           validate:"required,min=2"`
	Brand         *string         `json:"brand"`
	Color         *string         `json:"color"`
	Material      *string         `json:"material"`
	CostPrice     decimal.Decimal `json:"cost_price" validate:"min=0"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"required"`
}

type UpdateFrameRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=2"`
	Brand     *string          `json:"brand"`
	Color     *string          `json:"color"`
	Material  *string          `json:"material"`
	CostPrice *decimal.Decimal `json:"cost_price"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	Active    *bool            `json:"active"`
}

type FrameResponse struct {
	ID            string          `json:"id"`
	ReferenceCode string          `json:"reference_code"`
	Name          string          `json:"name"`
	Brand         *string         `json:"brand"`
	Color         *string         `json:"color"`
	Material      *string         `json:"material"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Active        bool            `json:"active"`
}

// ─── Lenses ──────────────────────────────────────────────────────────────────

type CreateLensRequest struct {
	Name       string          `json:"name"       validate:"required,min=2"`
	Brand      *string         `json:"brand"`
	Treatment  *string         `json:"treatment"`
	SalePrice  decimal.Decimal `json:"sale_price" validate:"required"`
	IsLabOrder bool            `json:"is_lab_order"`
}

type UpdateLensRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=2"`
	Brand      *string          `json:"brand"`
	Treatment  *string          `json:"treatment"`
	SalePrice  *decimal.Decimal `json:"sale_price"`
	IsLabOrder *bool            `json:"is_lab_order"`
	Active     *bool            `json:"active"`
}

type LensResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Brand      *string         `json:"brand"`
	Treatment  *string         `json:"treatment"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	IsLabOrder bool            `json:"is_lab_order"`
	Active     bool            `json:"active"`
}

type ProductFilter struct {
	Search string `form:"search"`
	Active *bool  `form:"active"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type FrameListResponse struct {
	Data  []FrameResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type LensListResponse struct {
	Data  []LensResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// PriceLookupResponse is served from the redis price cache when warm.
type PriceLookupResponse struct {
	ProductID     string          `json:"product_id"`
	ReferenceCode string          `json:"reference_code"`
	Name          string          `json:"name"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	FromCache     bool            `json:"from_cache"`
}
