package dto

import "github.com/shopspring/decimal"

// SettleReceivableRequest records a payment against an open receivable.
type SettleReceivableRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Notes  *string         `json:"notes"`
}

type ReceivableFilter struct {
	CustomerID string `form:"customer_id"`
	StaffID    string `form:"staff_id"`
	Status     string `form:"status"`
	Overdue    bool   `form:"overdue"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ReceivableResponse struct {
	ID              string          `json:"id"`
	CustomerID      *string         `json:"customer_id"`
	StaffID         *string         `json:"staff_id"`
	SaleID          *string         `json:"sale_id"`
	Description     string          `json:"description"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	DueDate         string          `json:"due_date"`
	CreatedAt       string          `json:"created_at"`
}

type ReceivableListResponse struct {
	Data  []ReceivableResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
