package repository

import (
	"context"

	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Customer, error)
	FindByDocument(ctx context.Context, orgID, document string) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	List(ctx context.Context, orgID string, filter dto.CustomerFilter) ([]model.Customer, int64, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *customerRepo) FindByDocument(ctx context.Context, orgID, document string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND document = ?", orgID, document).
		First(&c).Error
	return &c, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) List(ctx context.Context, orgID string, filter dto.CustomerFilter) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("organization_id = ? AND is_active = true", orgID)

	if filter.Search != "" {
		q = q.Where("full_name ILIKE ? OR document ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("full_name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&customers).Error

	return customers, total, err
}
