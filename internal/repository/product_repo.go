package repository

import (
	"context"

	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	CreateFrame(ctx context.Context, f *model.ProductFrame) error
	FindFrameByID(ctx context.Context, orgID string, id uuid.UUID) (*model.ProductFrame, error)
	FindFrameByReference(ctx context.Context, orgID, reference string) (*model.ProductFrame, error)
	UpdateFrame(ctx context.Context, f *model.ProductFrame) error
	ListFrames(ctx context.Context, orgID string, filter dto.ProductFilter) ([]model.ProductFrame, int64, error)

	CreateLens(ctx context.Context, l *model.ProductLens) error
	FindLensByID(ctx context.Context, orgID string, id uuid.UUID) (*model.ProductLens, error)
	UpdateLens(ctx context.Context, l *model.ProductLens) error
	ListLenses(ctx context.Context, orgID string, filter dto.ProductFilter) ([]model.ProductLens, int64, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) CreateFrame(ctx context.Context, f *model.ProductFrame) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *productRepo) FindFrameByID(ctx context.Context, orgID string, id uuid.UUID) (*model.ProductFrame, error) {
	var f model.ProductFrame
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *productRepo) FindFrameByReference(ctx context.Context, orgID, reference string) (*model.ProductFrame, error) {
	var f model.ProductFrame
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND reference_code = ?", orgID, reference).
		First(&f).Error
	return &f, err
}

func (r *productRepo) UpdateFrame(ctx context.Context, f *model.ProductFrame) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *productRepo) ListFrames(ctx context.Context, orgID string, filter dto.ProductFilter) ([]model.ProductFrame, int64, error) {
	var frames []model.ProductFrame
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.ProductFrame{}).
		Where("organization_id = ?", orgID)

	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR reference_code ILIKE ? OR brand ILIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&frames).Error

	return frames, total, err
}

func (r *productRepo) CreateLens(ctx context.Context, l *model.ProductLens) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *productRepo) FindLensByID(ctx context.Context, orgID string, id uuid.UUID) (*model.ProductLens, error) {
	var l model.ProductLens
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *productRepo) UpdateLens(ctx context.Context, l *model.ProductLens) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *productRepo) ListLenses(ctx context.Context, orgID string, filter dto.ProductFilter) ([]model.ProductLens, int64, error) {
	var lenses []model.ProductLens
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.ProductLens{}).
		Where("organization_id = ?", orgID)

	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR brand ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&lenses).Error

	return lenses, total, err
}
