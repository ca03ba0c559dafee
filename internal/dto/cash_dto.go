package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	StoreID        string          `json:"store_id"        validate:"required,uuid"`
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
}

type MovementRequest struct {
	MovementType string          `json:"movement_type" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount       decimal.Decimal `json:"amount"        validate:"required"`
	Description  string          `json:"description"   validate:"required,min=3"`
}

// CloseSessionRequest carries the balance the operator counted in the drawer.
type CloseSessionRequest struct {
	DeclaredBalance decimal.Decimal `json:"declared_balance" validate:"min=0"`
	Notes           *string         `json:"notes"`
}

// AuditSessionRequest resolves a PENDING_AUDIT session.
// CORRECT_VALUE requires corrected_balance; CHARGE_STAFF and ACCEPT_LOSS do not.
type AuditSessionRequest struct {
	Action           string           `json:"action" validate:"required,oneof=ACCEPT_LOSS CHARGE_STAFF CORRECT_VALUE"`
	CorrectedBalance *decimal.Decimal `json:"corrected_balance"`
	Notes            string           `json:"notes" validate:"required,min=5"`
}

type SessionFilter struct {
	StoreID string `form:"store_id"`
	Status  string `form:"status"`
	From    string `form:"from"` // YYYY-MM-DD
	To      string `form:"to"`   // YYYY-MM-DD
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID           string          `json:"id"`
	MovementType string          `json:"movement_type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	ReferenceID  *string         `json:"reference_id"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    string          `json:"created_at"`
}

type SessionResponse struct {
	ID                string           `json:"id"`
	StoreID           string           `json:"store_id"`
	OpenedBy          string           `json:"opened_by"`
	Status            string           `json:"status"`
	OpeningBalance    decimal.Decimal  `json:"opening_balance"`
	ClosingBalance    *decimal.Decimal `json:"closing_balance"`
	CalculatedBalance *decimal.Decimal `json:"calculated_balance"`
	Discrepancy       *decimal.Decimal `json:"discrepancy"`
	AuditAction       *string          `json:"audit_action"`
	AuditNotes        *string          `json:"audit_notes"`
	AuditResolvedBy   *string          `json:"audit_resolved_by"`
	OpenedAt          string           `json:"opened_at"`
	ClosedAt          *string          `json:"closed_at"`
}

type SessionDetailResponse struct {
	SessionResponse
	Movements []MovementResponse `json:"movements"`
}

type SessionListResponse struct {
	Data  []SessionResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// SessionStatsResponse summarises the running totals of an open session.
type SessionStatsResponse struct {
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	ExpectedBalance  decimal.Decimal `json:"expected_balance"`
	MovementCount    int             `json:"movement_count"`
}
