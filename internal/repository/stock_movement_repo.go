package repository

import (
	"context"

	"stockpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementFilter defines filters for listing stock movements.
type StockMovementFilter struct {
	ProductID *uuid.UUID
	Type      string
	Reference string
	Limit     int
}

// StockMovementRepository is append-only: there is no update or delete.
type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Omit("Product").Create(m).Error
}

// List returns the newest movements first, with their product loaded.
func (r *stockMovementRepo) List(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Reference != "" {
		q = q.Where("reference_document = ?", filter.Reference)
	}

	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 50
	}

	var movements []model.StockMovement
	err := q.Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}
