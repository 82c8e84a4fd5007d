package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product status values.
const (
	ProductActive       = "active"
	ProductInactive     = "inactive"
	ProductDiscontinued = "discontinued"
)

// Product is a catalog entry with its on-hand quantity.
// StockQuantity is never negative: the products table carries a CHECK
// constraint and every stock write is a conditional or relative UPDATE.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	Description   *string
	EAN           *string          `gorm:"column:ean;index"`
	InternalCode  *string          `gorm:"index"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index"`
	SupplierID    *uuid.UUID       `gorm:"type:uuid;index"`
	PurchasePrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SalePrice     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	StockQuantity int              `gorm:"not null;default:0"`
	MinStock      *int
	MaxStock      *int
	Unit          string     `gorm:"not null;default:'un'"`
	Status        string     `gorm:"type:varchar(20);not null;default:'active'"`
	ExpiryDate    *time.Time `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// CategoryName is the optional category lookup; nil when unset or not loaded.
func (p *Product) CategoryName() *string {
	if p.Category == nil {
		return nil
	}
	return &p.Category.Name
}

// SupplierName is the optional supplier lookup; nil when unset or not loaded.
func (p *Product) SupplierName() *string {
	if p.Supplier == nil {
		return nil
	}
	return &p.Supplier.Name
}
