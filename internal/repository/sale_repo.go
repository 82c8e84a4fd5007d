package repository

import (
	"context"
	"time"

	"stockpro/internal/dto"
	"stockpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	CreateItemTx(tx *gorm.DB, item *model.SaleItem) error
	// FindByIDForUpdateTx locks the sale row until tx ends and loads its items
	// in insertion order.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter, loc *time.Location) ([]model.Sale, int64, error)

	// Aggregates: ranges are half-open [from, to).
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	ListCompletedItemsBetween(ctx context.Context, from, to time.Time) ([]model.SaleItem, error)

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	// Items are inserted one by one by the caller, interleaved with stock updates.
	return tx.Omit("Items").Create(s).Error
}

func (r *saleRepo) CreateItemTx(tx *gorm.DB, item *model.SaleItem) error {
	return tx.Omit("Product").Create(item).Error
}

func (r *saleRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("sale_id = ?", id).Order("created_at ASC, id ASC").Find(&s.Items).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Items.Product").
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter, loc *time.Location) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != "" {
		if from, err := time.ParseInLocation(time.DateOnly, filter.From, loc); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if filter.To != "" {
		if to, err := time.ParseInLocation(time.DateOnly, filter.To, loc); err == nil {
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	err := q.Preload("Items.Product").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at >= ? AND created_at < ?", model.SaleStatusCompleted, from, to).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *saleRepo) ListCompletedItemsBetween(ctx context.Context, from, to time.Time) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := r.db.WithContext(ctx).Preload("Product").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.status = ? AND sales.created_at >= ? AND sales.created_at < ?",
			model.SaleStatusCompleted, from, to).
		Find(&items).Error
	return items, err
}
