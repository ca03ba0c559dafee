package dto

import "github.com/shopspring/decimal"

// AdjustStockRequest performs a manual ENTRY or EXIT on a frame stock level.
type AdjustStockRequest struct {
	StoreID      string `json:"store_id"      validate:"required,uuid"`
	FrameID      string `json:"frame_id"      validate:"required,uuid"`
	MovementType string `json:"movement_type" validate:"required,oneof=ENTRY EXIT"`
	Quantity     int    `json:"quantity"      validate:"required,gt=0"`
	Reason       string `json:"reason"        validate:"required,min=3"`
}

// AdjustLensStockRequest adjusts a cell of the lens stock grid.
type AdjustLensStockRequest struct {
	StoreID      string          `json:"store_id"      validate:"required,uuid"`
	LensID       string          `json:"lens_id"       validate:"required,uuid"`
	Spherical    decimal.Decimal `json:"spherical"     validate:"required"`
	Cylindrical  decimal.Decimal `json:"cylindrical"   validate:"required"`
	Axis         *int            `json:"axis"          validate:"omitempty,min=0,max=180"`
	MovementType string          `json:"movement_type" validate:"required,oneof=ENTRY EXIT"`
	Quantity     int             `json:"quantity"      validate:"required,gt=0"`
	Reason       string          `json:"reason"        validate:"required,min=3"`
}

type LevelFilter struct {
	StoreID  string `form:"store_id"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type LevelResponse struct {
	ID               string `json:"id"`
	StoreID          string `json:"store_id"`
	FrameID          string `json:"frame_id"`
	FrameReference   string `json:"frame_reference"`
	Quantity         int    `json:"quantity"`
	ReservedQuantity int    `json:"reserved_quantity"`
	Available        int    `json:"available"`
}

type LevelListResponse struct {
	Data  []LevelResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// MovementFilter is bound from the query string of the kardex listing.
type MovementFilter struct {
	StoreID      string `form:"store_id"`
	FrameID      string `form:"frame_id"`
	LensID       string `form:"lens_id"`
	MovementType string `form:"movement_type"`
	From         string `form:"from"` // YYYY-MM-DD
	To           string `form:"to"`   // YYYY-MM-DD
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type StockMovementResponse struct {
	ID            string  `json:"id"`
	StoreID       string  `json:"store_id"`
	FrameID       *string `json:"frame_id"`
	LensID        *string `json:"lens_id"`
	MovementType  string  `json:"movement_type"`
	Quantity      int     `json:"quantity"`
	BalanceBefore int     `json:"balance_before"`
	BalanceAfter  int     `json:"balance_after"`
	Reason        string  `json:"reason"`
	OrderID       *string `json:"order_id"`
	SaleID        *string `json:"sale_id"`
	MovedBy       string  `json:"moved_by"`
	CreatedAt     string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
