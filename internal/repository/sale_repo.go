package repository

import (
	"context"

	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Sale, error)
	// FindAny looks a sale up without a tenant filter; background jobs carry
	// no request identity and recover the tenant from the row itself.
	FindAny(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByOrderID(ctx context.Context, orgID string, orderID uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, orgID string, filter dto.SaleFilter) ([]model.Sale, int64, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindAny(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByOrderID(ctx context.Context, orgID string, orderID uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND order_id = ?", orgID, orderID).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, orgID string, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("organization_id = ? AND is_active = true", orgID)

	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.SellerID != "" {
		q = q.Where("seller_id = ?", filter.SellerID)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.From != "" {
		q = q.Where("DATE(sold_at) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(sold_at) <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("sold_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sales).Error

	return sales, total, err
}
