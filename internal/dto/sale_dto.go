package dto

import (
	"stockpro/internal/notify"

	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Status string `form:"status"` // pending | completed | cancelled; empty = all
	From   string `form:"from"   validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to"     validate:"omitempty,datetime=2006-01-02"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleItemRequest is one line of a sale. UnitPrice is the price the cart showed;
// when omitted the product's current sale price is charged.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest commits a sale. Item presence, quantities and the payment
// method are checked by the sale service so the caller gets the same messages
// the counter UI shows.
type CreateSaleRequest struct {
	Items            []SaleItemRequest `json:"items"             validate:"dive"`
	PaymentMethod    string            `json:"payment_method"`
	DiscountAmount   decimal.Decimal   `json:"discount_amount"`
	CustomerName     *string           `json:"customer_name"     validate:"omitempty,max=150"`
	CustomerDocument *string           `json:"customer_document" validate:"omitempty,max=20"`
	// CustomerEmail: optional: when present, the receipt worker mails the PDF receipt.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
	Notes         *string `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type SaleResponse struct {
	ID               string               `json:"id"`
	SaleNumber       string               `json:"sale_number"`
	CustomerName     *string              `json:"customer_name"`
	CustomerDocument *string              `json:"customer_document"`
	CustomerEmail    *string              `json:"customer_email"`
	Items            []SaleItemResponse   `json:"items"`
	TotalAmount      decimal.Decimal      `json:"total_amount"`
	DiscountAmount   decimal.Decimal      `json:"discount_amount"`
	FinalAmount      decimal.Decimal      `json:"final_amount"`
	PaymentMethod    string               `json:"payment_method"`
	Status           string               `json:"status"`
	Notes            *string              `json:"notes"`
	CreatedAt        string               `json:"created_at"`
	CompletedAt      *string              `json:"completed_at"`
	Notification     *notify.Notification `json:"notification,omitempty"`
}
