package repository

import (
	"context"
	"time"

	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceivableRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rcv *model.Receivable) error
	FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Receivable, error)
	Update(ctx context.Context, tx *gorm.DB, rcv *model.Receivable) error
	List(ctx context.Context, orgID string, filter dto.ReceivableFilter) ([]model.Receivable, int64, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	DB() *gorm.DB
}

type receivableRepo struct{ db *gorm.DB }

func NewReceivableRepository(db *gorm.DB) ReceivableRepository { return &receivableRepo{db: db} }

func (r *receivableRepo) DB() *gorm.DB { return r.db }

func (r *receivableRepo) Create(ctx context.Context, tx *gorm.DB, rcv *model.Receivable) error {
	return tx.WithContext(ctx).Create(rcv).Error
}

func (r *receivableRepo) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Receivable, error) {
	var rcv model.Receivable
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&rcv, "id = ?", id).Error
	return &rcv, err
}

func (r *receivableRepo) Update(ctx context.Context, tx *gorm.DB, rcv *model.Receivable) error {
	return tx.WithContext(ctx).Save(rcv).Error
}

func (r *receivableRepo) List(ctx context.Context, orgID string, filter dto.ReceivableFilter) ([]model.Receivable, int64, error) {
	var rcvs []model.Receivable
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Receivable{}).
		Where("organization_id = ? AND is_active = true", orgID)

	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.StaffID != "" {
		q = q.Where("staff_id = ?", filter.StaffID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Overdue {
		q = q.Where("status = ?", model.ReceivableOverdue)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("due_date ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rcvs).Error

	return rcvs, total, err
}

// MarkOverdue flips every open receivable whose due date has passed. Run by
// the nightly cron; idempotent.
func (r *receivableRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Receivable{}).
		Where("status IN ? AND due_date < ? AND is_active = true",
			[]string{model.ReceivablePending, model.ReceivablePartial}, asOf).
		Update("status", model.ReceivableOverdue)
	return res.RowsAffected, res.Error
}
