package repository

import (
	"context"
	"time"

	"stockpro/internal/dto"
	"stockpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// so unit tests can substitute in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Aggregates and reports
	Count(ctx context.Context) (int64, error)
	CountBelow(ctx context.Context, threshold int) (int64, error)
	ListInStock(ctx context.Context) ([]model.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)
	ListExpiringBefore(ctx context.Context, before time.Time) ([]model.Product, error)
	ListAtOrBelowMinStock(ctx context.Context) ([]model.Product, error)

	// Used inside transactions: callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	// DecrementStockTx subtracts qty only if the product holds at least qty
	// units. It reports false when no row qualified.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error)
	IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Supplier").Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Omit("Category", "Supplier").Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Supplier").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := tx.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR ean = ? OR internal_code = ?", like, filter.Search, filter.Search)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	err := q.Preload("Category").Preload("Supplier").
		Order("name ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&products).Error
	return products, total, err
}

// Update saves editable catalog fields. stock_quantity is deliberately not
// written here; it only moves through the *StockTx methods.
func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":           p.Name,
			"description":    p.Description,
			"ean":            p.EAN,
			"internal_code":  p.InternalCode,
			"category_id":    p.CategoryID,
			"supplier_id":    p.SupplierID,
			"purchase_price": p.PurchasePrice,
			"sale_price":     p.SalePrice,
			"min_stock":      p.MinStock,
			"max_stock":      p.MaxStock,
			"unit":           p.Unit,
			"status":         p.Status,
			"expiry_date":    p.ExpiryDate,
			"updated_at":     p.UpdatedAt,
		}).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) CountBelow(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("stock_quantity < ?", threshold).Count(&n).Error
	return n, err
}

func (r *productRepo) ListInStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Select("id", "name", "sale_price", "stock_quantity").
		Where("stock_quantity > 0").Find(&products).Error
	return products, err
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Supplier").
		Where("status = ? AND stock_quantity < ?", model.ProductActive, threshold).
		Order("stock_quantity ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListExpiringBefore(ctx context.Context, before time.Time) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", model.ProductActive, before).
		Order("expiry_date ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListAtOrBelowMinStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Supplier").
		Where("status = ? AND min_stock IS NOT NULL AND stock_quantity <= min_stock", model.ProductActive).
		Order("stock_quantity ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", qty),
			"updated_at":     time.Now(),
		}).Error
}
