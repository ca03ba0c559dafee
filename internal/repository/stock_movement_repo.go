package repository

import (
	"context"

	"otica/internal/dto"
	"otica/internal/model"

	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, orgID string, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) Create(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, orgID string, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var movs []model.StockMovement
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("organization_id = ?", orgID)

	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.FrameID != "" {
		q = q.Where("product_frame_id = ?", filter.FrameID)
	}
	if filter.LensID != "" {
		q = q.Where("product_lens_id = ?", filter.LensID)
	}
	if filter.MovementType != "" {
		q = q.Where("movement_type = ?", filter.MovementType)
	}
	if filter.From != "" {
		q = q.Where("DATE(movement_date) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(movement_date) <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("movement_date DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&movs).Error

	return movs, total, err
}
