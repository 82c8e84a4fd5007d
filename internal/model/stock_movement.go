package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock movement types.
const (
	MovementInbound    = "entrada"
	MovementOutbound   = "saida"
	MovementAdjustment = "ajuste"
	MovementSale       = "venda"
	MovementReturn     = "devolucao"
)

// StockMovement is an append-only ledger entry for a product's stock.
// Quantity is a signed delta: negative for sales, positive for returns.
// Rows are never updated or deleted; cancellations append inverse entries.
type StockMovement struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	Quantity          int              `gorm:"not null"`
	Type              string           `gorm:"type:varchar(20);not null"`
	UnitCost          *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ReferenceDocument *string          `gorm:"index"`
	Notes             *string
	CreatedBy         *uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time  `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
