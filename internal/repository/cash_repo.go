package repository

import (
	"context"

	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashRepository interface {
	CreateSession(ctx context.Context, s *model.CashSession) error
	FindOpenByStaff(ctx context.Context, orgID string, staffID uuid.UUID) (*model.CashSession, error)
	FindSessionByID(ctx context.Context, orgID string, id uuid.UUID) (*model.CashSession, error)
	UpdateSession(ctx context.Context, tx *gorm.DB, s *model.CashSession) error
	CreateMovement(ctx context.Context, tx *gorm.DB, m *model.CashMovement) error
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
	SumMovements(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (deposits, withdrawals decimal.Decimal, err error)
	ListSessions(ctx context.Context, orgID string, filter dto.SessionFilter) ([]model.CashSession, int64, error)
	DB() *gorm.DB
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

func (r *cashRepo) DB() *gorm.DB { return r.db }

func (r *cashRepo) CreateSession(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashRepo) FindOpenByStaff(ctx context.Context, orgID string, staffID uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND staff_id = ? AND status = ?", orgID, staffID, model.SessionOpen).
		First(&s).Error
	return &s, err
}

func (r *cashRepo) FindSessionByID(ctx context.Context, orgID string, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("movement_date ASC") }).
		Where("organization_id = ?", orgID).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *cashRepo) UpdateSession(ctx context.Context, tx *gorm.DB, s *model.CashSession) error {
	return tx.WithContext(ctx).Omit("Movements").Save(s).Error
}

func (r *cashRepo) CreateMovement(ctx context.Context, tx *gorm.DB, m *model.CashMovement) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *cashRepo) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("cash_session_id = ? AND is_active = true", sessionID).
		Order("movement_date ASC").
		Find(&movs).Error
	return movs, err
}

// SumMovements totals the session's ledger per direction, inside the
// caller's transaction so the close computation sees a frozen log.
func (r *cashRepo) SumMovements(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	type row struct {
		MovementType string
		Total        decimal.Decimal
	}
	var rows []row
	err := tx.WithContext(ctx).Model(&model.CashMovement{}).
		Select("movement_type, COALESCE(SUM(amount), 0) AS total").
		Where("cash_session_id = ? AND is_active = true", sessionID).
		Group("movement_type").
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	deposits, withdrawals := decimal.Zero, decimal.Zero
	for _, rw := range rows {
		switch rw.MovementType {
		case model.MovementDeposit:
			deposits = rw.Total
		case model.MovementWithdrawal:
			withdrawals = rw.Total
		}
	}
	return deposits, withdrawals, nil
}

func (r *cashRepo) ListSessions(ctx context.Context, orgID string, filter dto.SessionFilter) ([]model.CashSession, int64, error) {
	var sessions []model.CashSession
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.CashSession{}).
		Where("organization_id = ? AND is_active = true", orgID)

	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != "" {
		q = q.Where("DATE(opened_at) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(opened_at) <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("opened_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sessions).Error

	return sessions, total, err
}
