package dto

import (
	"stockpro/internal/stats"

	"github.com/shopspring/decimal"
)

// Expiry urgency levels.
const (
	UrgencyCritical  = "critical"
	UrgencyWarning   = "warning"
	UrgencyAttention = "attention"
)

// Purchase suggestion priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

type ExpiringProductResponse struct {
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	CategoryName  *string `json:"category_name"`
	StockQuantity int     `json:"stock_quantity"`
	ExpiryDate    string  `json:"expiry_date"`
	DaysToExpiry  int     `json:"days_to_expiry"`
	Urgency       string  `json:"urgency"`
}

type PurchaseSuggestionResponse struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SupplierName      *string         `json:"supplier_name"`
	CurrentStock      int             `json:"current_stock"`
	MinStock          int             `json:"min_stock"`
	MaxStock          *int            `json:"max_stock"`
	SuggestedQuantity int             `json:"suggested_quantity"`
	Priority          string          `json:"priority"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
}

type StockMovementResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	Type              string           `json:"type"`
	Quantity          int              `json:"quantity"`
	UnitCost          *decimal.Decimal `json:"unit_cost"`
	ReferenceDocument *string          `json:"reference_document"`
	Notes             *string          `json:"notes"`
	CreatedAt         string           `json:"created_at"`
}

type SalesReportResponse struct {
	Daily       []stats.DailyTotal   `json:"daily"`
	TopProducts []stats.ProductTotal `json:"top_products"`
}
