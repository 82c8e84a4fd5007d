// Package cart implements the sale builder: a session-owned cart of candidate
// line items validated against known product stock before a sale is committed.
package cart

import (
	"errors"
	"fmt"
	"time"

	"stockpro/internal/model"
	"stockpro/internal/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOutOfStock        = errors.New("produto sem estoque")
	ErrInsufficientStock = errors.New("estoque insuficiente")
	ErrLineNotFound      = errors.New("item não encontrado no carrinho")
)

// Line is one product+quantity+price entry. UnitPrice and StockAvailable are
// snapshots taken when the line was first added.
type Line struct {
	ID             string          `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	StockAvailable int             `json:"stock_available"`
}

// Total is Quantity × UnitPrice.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the in-progress sale of a single session.
type Cart struct {
	ID        string          `json:"id"`
	Lines     []Line          `json:"lines"`
	Discount  decimal.Decimal `json:"discount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// New returns an empty cart with a fresh id.
func New() *Cart {
	return &Cart{ID: uuid.NewString(), Lines: []Line{}, UpdatedAt: time.Now()}
}

// AddItem adds one unit of p. A nil product or one without stock is rejected
// with ErrOutOfStock. When p is already in the cart its quantity grows by one
// as long as it stays within p.StockQuantity; otherwise ErrInsufficientStock
// is returned and the cart is left unchanged.
func (c *Cart) AddItem(p *model.Product) error {
	if p == nil || p.StockQuantity <= 0 {
		return ErrOutOfStock
	}
	lineID := p.ID.String()
	if i := c.find(lineID); i >= 0 {
		next := c.Lines[i].Quantity + 1
		if next > p.StockQuantity {
			return fmt.Errorf("%w: %s (disponível: %d)", ErrInsufficientStock, p.Name, p.StockQuantity)
		}
		c.Lines[i].Quantity = next
		c.touch()
		return nil
	}
	c.Lines = append(c.Lines, Line{
		ID:             lineID,
		ProductID:      p.ID,
		ProductName:    p.Name,
		UnitPrice:      p.SalePrice,
		Quantity:       1,
		StockAvailable: p.StockQuantity,
	})
	c.touch()
	return nil
}

// UpdateQuantity sets the quantity of a line. quantity <= 0 removes the line.
// The check uses the stock snapshot taken when the line was added; live stock
// is verified again when the sale is committed.
func (c *Cart) UpdateQuantity(lineID string, quantity int) error {
	i := c.find(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	if quantity <= 0 {
		c.RemoveItem(lineID)
		return nil
	}
	if quantity > c.Lines[i].StockAvailable {
		return fmt.Errorf("%w: %s (disponível: %d)", ErrInsufficientStock, c.Lines[i].ProductName, c.Lines[i].StockAvailable)
	}
	c.Lines[i].Quantity = quantity
	c.touch()
	return nil
}

// RemoveItem drops a line. Removing an unknown line is a no-op.
func (c *Cart) RemoveItem(lineID string) {
	i := c.find(lineID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.touch()
}

// SetDiscount stores an absolute discount. Range checks are left to callers.
func (c *Cart) SetDiscount(amount decimal.Decimal) {
	c.Discount = amount
	c.touch()
}

// Subtotal is the sum of line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// Total is Subtotal minus Discount.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Sub(c.Discount)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

func (c *Cart) find(lineID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() { c.UpdatedAt = time.Now() }

// Notice converts a builder error into the notice shown to the user.
func Notice(err error) notify.Notification {
	switch {
	case errors.Is(err, ErrOutOfStock):
		return notify.Failure("Produto sem estoque", "Este produto não possui estoque disponível.")
	case errors.Is(err, ErrInsufficientStock):
		return notify.Failure("Estoque insuficiente", err.Error())
	case errors.Is(err, ErrLineNotFound):
		return notify.Failure("Item não encontrado", "O item não está no carrinho.")
	default:
		return notify.Failure("Erro", err.Error())
	}
}
