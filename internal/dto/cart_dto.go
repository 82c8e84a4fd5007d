package dto

import (
	"stockpro/internal/notify"

	"github.com/shopspring/decimal"
)

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// UpdateCartItemRequest sets a line quantity; zero or less removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type SetDiscountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CheckoutRequest turns a cart into a sale.
type CheckoutRequest struct {
	PaymentMethod    string  `json:"payment_method"`
	CustomerName     *string `json:"customer_name"     validate:"omitempty,max=150"`
	CustomerDocument *string `json:"customer_document" validate:"omitempty,max=20"`
	CustomerEmail    *string `json:"customer_email"    validate:"omitempty,email"`
	Notes            *string `json:"notes"`
}

type CartLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	StockAvailable int             `json:"stock_available"`
	Total          decimal.Decimal `json:"total"`
}

// CartResponse mirrors the cart after an operation. A rejected builder
// operation still returns the unchanged cart, with Notification explaining why.
type CartResponse struct {
	ID           string               `json:"id"`
	Lines        []CartLineResponse   `json:"lines"`
	Subtotal     decimal.Decimal      `json:"subtotal"`
	Discount     decimal.Decimal      `json:"discount"`
	Total        decimal.Decimal      `json:"total"`
	Notification *notify.Notification `json:"notification,omitempty"`
}
