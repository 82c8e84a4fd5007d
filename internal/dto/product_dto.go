package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string           `json:"name"           validate:"required,min=2,max=120"`
	Description   *string          `json:"description"`
	EAN           *string          `json:"ean"            validate:"omitempty,min=8,max=14"`
	InternalCode  *string          `json:"internal_code"  validate:"omitempty,max=40"`
	CategoryID    *string          `json:"category_id"    validate:"omitempty,uuid"`
	SupplierID    *string          `json:"supplier_id"    validate:"omitempty,uuid"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal  `json:"sale_price"     validate:"required"`
	StockQuantity int              `json:"stock_quantity" validate:"min=0"`
	MinStock      *int             `json:"min_stock"      validate:"omitempty,min=0"`
	MaxStock      *int             `json:"max_stock"      validate:"omitempty,min=0"`
	Unit          string           `json:"unit"           validate:"omitempty,max=10"`
	Status        string           `json:"status"         validate:"omitempty,oneof=active inactive discontinued"`
	ExpiryDate    *string          `json:"expiry_date"    validate:"omitempty,datetime=2006-01-02"`
}

// UpdateProductRequest carries a partial update. Stock is not editable here:
// it only changes through sales, cancellations and stock movements.
type UpdateProductRequest struct {
	Name          *string          `json:"name"           validate:"omitempty,min=2,max=120"`
	Description   *string          `json:"description"`
	EAN           *string          `json:"ean"            validate:"omitempty,min=8,max=14"`
	InternalCode  *string          `json:"internal_code"  validate:"omitempty,max=40"`
	CategoryID    *string          `json:"category_id"    validate:"omitempty,uuid"`
	SupplierID    *string          `json:"supplier_id"    validate:"omitempty,uuid"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MinStock      *int             `json:"min_stock"      validate:"omitempty,min=0"`
	MaxStock      *int             `json:"max_stock"      validate:"omitempty,min=0"`
	Unit          *string          `json:"unit"           validate:"omitempty,max=10"`
	Status        *string          `json:"status"         validate:"omitempty,oneof=active inactive discontinued"`
	ExpiryDate    *string          `json:"expiry_date"    validate:"omitempty,datetime=2006-01-02"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status"` // active | inactive | discontinued | all (default: all)
	CategoryID string `form:"category_id" validate:"omitempty,uuid"`
	SupplierID string `form:"supplier_id" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	EAN           *string          `json:"ean"`
	InternalCode  *string          `json:"internal_code"`
	CategoryID    *string          `json:"category_id"`
	CategoryName  *string          `json:"category_name"`
	SupplierID    *string          `json:"supplier_id"`
	SupplierName  *string          `json:"supplier_name"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	StockQuantity int              `json:"stock_quantity"`
	MinStock      *int             `json:"min_stock"`
	MaxStock      *int             `json:"max_stock"`
	Unit          string           `json:"unit"`
	Status        string           `json:"status"`
	ExpiryDate    *string          `json:"expiry_date"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
