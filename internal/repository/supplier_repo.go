package repository

import (
	"context"

	"stockpro/internal/model"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	List(ctx context.Context) ([]model.Supplier, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Omit("Products").Create(s).Error
}

func (r *supplierRepo) List(ctx context.Context) ([]model.Supplier, error) {
	var list []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}
