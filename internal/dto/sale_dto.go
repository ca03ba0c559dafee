package dto

import "github.com/shopspring/decimal"

// CheckoutRequest settles a PENDING order with a single payment method.
type CheckoutRequest struct {
	OrderID       string  `json:"order_id"       validate:"required,uuid"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=CASH CARD PIX CREDIT"`
	Notes         *string `json:"notes"`
}

type SaleResponse struct {
	ID            string           `json:"id"`
	OrderID       string           `json:"order_id"`
	OrderNumber   string           `json:"order_number"`
	PaymentMethod string           `json:"payment_method"`
	Amount        decimal.Decimal  `json:"amount"`
	CashSessionID *string          `json:"cash_session_id"`
	CardFeeRate   *decimal.Decimal `json:"card_fee_rate"`
	CardNetAmount *decimal.Decimal `json:"card_net_amount"`
	ReceivableID  *string          `json:"receivable_id"`
	SellerID      string           `json:"seller_id"`
	CreatedAt     string           `json:"created_at"`
}

type SaleFilter struct {
	StoreID       string `form:"store_id"`
	SellerID      string `form:"seller_id"`
	PaymentMethod string `form:"payment_method"`
	From          string `form:"from"` // YYYY-MM-DD
	To            string `form:"to"`   // YYYY-MM-DD
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
