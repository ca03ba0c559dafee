package repository

import (
	"context"

	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository interface {
	Create(ctx context.Context, s *model.StaffMember) error
	FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.StaffMember, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.StaffMember, error)
	FindByEmail(ctx context.Context, orgID, email string) (*model.StaffMember, error)
	Update(ctx context.Context, s *model.StaffMember) error
	List(ctx context.Context, orgID string, filter dto.StaffFilter) ([]model.StaffMember, int64, error)
}

type staffRepo struct{ db *gorm.DB }

func NewStaffRepository(db *gorm.DB) StaffRepository { return &staffRepo{db: db} }

func (r *staffRepo) Create(ctx context.Context, s *model.StaffMember) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *staffRepo) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.StaffMember, error) {
	var s model.StaffMember
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *staffRepo) FindByExternalID(ctx context.Context, externalID string) (*model.StaffMember, error) {
	var s model.StaffMember
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&s).Error
	return &s, err
}

func (r *staffRepo) FindByEmail(ctx context.Context, orgID, email string) (*model.StaffMember, error) {
	var s model.StaffMember
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND email = ?", orgID, email).
		First(&s).Error
	return &s, err
}

func (r *staffRepo) Update(ctx context.Context, s *model.StaffMember) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *staffRepo) List(ctx context.Context, orgID string, filter dto.StaffFilter) ([]model.StaffMember, int64, error) {
	var staff []model.StaffMember
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.StaffMember{}).
		Where("organization_id = ?", orgID)

	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("full_name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&staff).Error

	return staff, total, err
}
