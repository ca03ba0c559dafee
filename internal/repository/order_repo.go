package repository

import (
	"context"

	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Order, error)
	Update(ctx context.Context, tx *gorm.DB, o *model.Order) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to string) (bool, error)
	NextOrderNumber(ctx context.Context, tx *gorm.DB, orgID string, year int) (int, error)
	CreateItem(ctx context.Context, tx *gorm.DB, it *model.OrderItem) error
	UpdateItem(ctx context.Context, tx *gorm.DB, it *model.OrderItem) error
	DeactivateItem(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, orgID string, filter dto.OrderFilter) ([]model.Order, int64, error)
	ListByStatuses(ctx context.Context, orgID string, statuses []string) ([]model.Order, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", "is_active = true").
		Where("organization_id = ?", orgID).
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) Update(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return tx.WithContext(ctx).Omit("Items").Save(o).Error
}

// UpdateStatus flips the status only when the row still holds the expected
// one; the false return means a concurrent writer got there first.
func (r *orderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

// NextOrderNumber bumps the per-tenant-year counter atomically. The upsert
// serializes concurrent callers on the counter row, so two orders can never
// draw the same number.
func (r *orderRepo) NextOrderNumber(ctx context.Context, tx *gorm.DB, orgID string, year int) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO order_counters (organization_id, year, value)
		VALUES (?, ?, 1)
		ON CONFLICT (organization_id, year)
		DO UPDATE SET value = order_counters.value + 1
		RETURNING value`, orgID, year).Scan(&num).Error
	return num, err
}

func (r *orderRepo) CreateItem(ctx context.Context, tx *gorm.DB, it *model.OrderItem) error {
	return tx.WithContext(ctx).Create(it).Error
}

func (r *orderRepo) UpdateItem(ctx context.Context, tx *gorm.DB, it *model.OrderItem) error {
	return tx.WithContext(ctx).Save(it).Error
}

func (r *orderRepo) DeactivateItem(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Model(&model.OrderItem{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *orderRepo) List(ctx context.Context, orgID string, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("organization_id = ? AND is_active = true", orgID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.SellerID != "" {
		q = q.Where("seller_id = ?", filter.SellerID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items", "is_active = true").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepo) ListByStatuses(ctx context.Context, orgID string, statuses []string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", "is_active = true").
		Where("organization_id = ? AND is_active = true AND status IN ?", orgID, statuses).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}
