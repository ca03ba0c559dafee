package repository

import (
	"context"

	"otica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Store, error)
	List(ctx context.Context, orgID string) ([]model.Store, error)
}

type storeRepo struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) StoreRepository { return &storeRepo{db: db} }

func (r *storeRepo) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*model.Store, error) {
	var s model.Store
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *storeRepo) List(ctx context.Context, orgID string) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_active = true", orgID).
		Order("name ASC").
		Find(&stores).Error
	return stores, err
}
