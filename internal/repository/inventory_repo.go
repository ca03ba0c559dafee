package repository

import (
	"context"

	"otica/internal/dto"
	"otica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRepository mutates stock levels through guarded single-statement
// updates. Every reserve/release/commit returns ok=false when the guard
// rejected the change (insufficient availability, over-release, or a row
// changed underneath); callers decide whether that is an error.
type InventoryRepository interface {
	FindLevel(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID) (*model.InventoryLevel, error)
	EnsureLevel(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID) (*model.InventoryLevel, error)
	ReserveFrame(ctx context.Context, tx *gorm.DB, levelID uuid.UUID, qty int) (bool, error)
	ReleaseFrame(ctx context.Context, tx *gorm.DB, levelID uuid.UUID, qty int) (bool, error)
	CommitFrame(ctx context.Context, tx *gorm.DB, levelID uuid.UUID, qty int) (bool, error)
	AdjustFrame(ctx context.Context, tx *gorm.DB, levelID uuid.UUID, delta int) (bool, error)

	FindLensStock(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams) (*model.LensStock, error)
	EnsureLensStock(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams) (*model.LensStock, error)
	ReserveLens(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, qty int) (bool, error)
	ReleaseLens(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, qty int) (bool, error)
	CommitLens(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, qty int) (bool, error)
	AdjustLens(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, delta int) (bool, error)

	ListLevels(ctx context.Context, orgID string, filter dto.LevelFilter) ([]model.InventoryLevel, int64, error)
	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) DB() *gorm.DB { return r.db }

func (r *inventoryRepo) FindLevel(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID) (*model.InventoryLevel, error) {
	var l model.InventoryLevel
	err := tx.WithContext(ctx).
		Where("organization_id = ? AND store_id = ? AND product_frame_id = ?", orgID, storeID, frameID).
		First(&l).Error
	return &l, err
}

// EnsureLevel returns the level row, creating a zero-quantity one when the
// frame has never been stocked at this store.
func (r *inventoryRepo) EnsureLevel(ctx context.Context, tx *gorm.DB, orgID string, storeID, frameID uuid.UUID) (*model.InventoryLevel, error) {
	l, err := r.FindLevel(ctx, tx, orgID, storeID, frameID)
	if err == nil {
		return l, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	l = &model.InventoryLevel{
		OrganizationID: orgID,
		StoreID:        storeID,
		ProductFrameID: frameID,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

// ReserveFrame holds qty units. The WHERE guard is the whole concurrency
// story: the update only lands while quantity - reserved_quantity >= qty,
// so two competing reservations can never oversubscribe the level.
func (r *inventoryRepo) ReserveFrame(ctx context.Context, tx *gorm.DB, levelID uuid.UUID, qty int) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.InventoryLevel{}).
		Where("id = ? AND quantity - reserved_quantity >= ?", levelID, qty).
		Update("reserved_quantity", gorm.Expr("reserved_quantity + ?", qty))
	return res.RowsAffected == 1, res.Error
}

func (r *inventoryRepo) ReleaseFrame(ctx context.Context, tx *gorm.DB, levelID uuid.UUID, qty int) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.InventoryLevel{}).
		Where("id = ? AND reserved_quantity >= ?", levelID, qty).
		Update("reserved_quantity", gorm.Expr("reserved_quantity - ?", qty))
	return res.RowsAffected == 1, res.Error
}

// CommitFrame converts a hold into a sale: on-hand and reserved drop
// together, keeping available unchanged for everyone else.
func (r *inventoryRepo) CommitFrame(ctx context.Context, tx *gorm.DB, levelID uuid.UUID, qty int) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.InventoryLevel{}).
		Where("id = ? AND reserved_quantity >= ? AND quantity >= ?", levelID, qty, qty).
		Updates(map[string]interface{}{
			"quantity":          gorm.Expr("quantity - ?", qty),
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", qty),
		})
	return res.RowsAffected == 1, res.Error
}

// AdjustFrame applies a manual entry (positive delta) or exit (negative).
// Exits may not bite into reserved units.
func (r *inventoryRepo) AdjustFrame(ctx context.Context, tx *gorm.DB, levelID uuid.UUID, delta int) (bool, error) {
	q := tx.WithContext(ctx).Model(&model.InventoryLevel{})
	if delta < 0 {
		q = q.Where("id = ? AND quantity - reserved_quantity >= ?", levelID, -delta)
	} else {
		q = q.Where("id = ?", levelID)
	}
	res := q.Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected == 1, res.Error
}

func (r *inventoryRepo) FindLensStock(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams) (*model.LensStock, error) {
	var s model.LensStock
	q := tx.WithContext(ctx).
		Where("organization_id = ? AND store_id = ? AND product_lens_id = ?", orgID, storeID, lensID).
		Where("spherical = ? AND cylindrical = ?", p.Spherical, p.Cylindrical)
	if p.Axis != nil {
		q = q.Where("axis = ?", *p.Axis)
	} else {
		q = q.Where("axis IS NULL")
	}
	err := q.First(&s).Error
	return &s, err
}

func (r *inventoryRepo) EnsureLensStock(ctx context.Context, tx *gorm.DB, orgID string, storeID, lensID uuid.UUID, p model.LensParams) (*model.LensStock, error) {
	s, err := r.FindLensStock(ctx, tx, orgID, storeID, lensID, p)
	if err == nil {
		return s, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	s = &model.LensStock{
		OrganizationID: orgID,
		StoreID:        storeID,
		ProductLensID:  lensID,
		LensParams:     p,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *inventoryRepo) ReserveLens(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, qty int) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.LensStock{}).
		Where("id = ? AND quantity - reserved_quantity >= ?", stockID, qty).
		Update("reserved_quantity", gorm.Expr("reserved_quantity + ?", qty))
	return res.RowsAffected == 1, res.Error
}

func (r *inventoryRepo) ReleaseLens(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, qty int) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.LensStock{}).
		Where("id = ? AND reserved_quantity >= ?", stockID, qty).
		Update("reserved_quantity", gorm.Expr("reserved_quantity - ?", qty))
	return res.RowsAffected == 1, res.Error
}

func (r *inventoryRepo) CommitLens(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, qty int) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.LensStock{}).
		Where("id = ? AND reserved_quantity >= ? AND quantity >= ?", stockID, qty, qty).
		Updates(map[string]interface{}{
			"quantity":          gorm.Expr("quantity - ?", qty),
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", qty),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *inventoryRepo) AdjustLens(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, delta int) (bool, error) {
	q := tx.WithContext(ctx).Model(&model.LensStock{})
	if delta < 0 {
		q = q.Where("id = ? AND quantity - reserved_quantity >= ?", stockID, -delta)
	} else {
		q = q.Where("id = ?", stockID)
	}
	res := q.Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected == 1, res.Error
}

func (r *inventoryRepo) ListLevels(ctx context.Context, orgID string, filter dto.LevelFilter) ([]model.InventoryLevel, int64, error) {
	var levels []model.InventoryLevel
	var total int64

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.InventoryLevel{}).
		Where("organization_id = ?", orgID)

	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.LowStock {
		q = q.Where("quantity - reserved_quantity <= 2")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("updated_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&levels).Error

	return levels, total, err
}
