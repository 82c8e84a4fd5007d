package cart

import (
	"context"
	"testing"

	"stockpro/internal/model"
	"stockpro/internal/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(name string, price float64, stock int) *model.Product {
	return &model.Product{
		ID:            uuid.New(),
		Name:          name,
		SalePrice:     decimal.NewFromFloat(price),
		StockQuantity: stock,
		Status:        model.ProductActive,
	}
}

func TestAddItem_ZeroStockRejected(t *testing.T) {
	c := New()
	err := c.AddItem(product("Leite 1L", 5, 0))
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.True(t, c.IsEmpty())
}

func TestAddItem_UnknownProductRejected(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.AddItem(nil), ErrOutOfStock)
}

func TestAddItem_NewLineSnapshotsPriceAndStock(t *testing.T) {
	c := New()
	p := product("Mouse", 45, 3)
	require.NoError(t, c.AddItem(p))

	require.Len(t, c.Lines, 1)
	line := c.Lines[0]
	assert.Equal(t, p.ID.String(), line.ID)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, 3, line.StockAvailable)
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(45)))

	// later price changes do not affect the line
	p.SalePrice = decimal.NewFromInt(99)
	require.NoError(t, c.AddItem(p))
	assert.True(t, c.Lines[0].UnitPrice.Equal(decimal.NewFromInt(45)))
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestAddItem_ExistingLineCappedAtStock(t *testing.T) {
	c := New()
	p := product("Teclado", 180, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.AddItem(p))
	}

	err := c.AddItem(p)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	p := product("Monitor", 800, 4)
	require.NoError(t, c.AddItem(p))
	id := p.ID.String()

	require.NoError(t, c.UpdateQuantity(id, 4))
	assert.Equal(t, 4, c.Lines[0].Quantity)

	err := c.UpdateQuantity(id, 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 4, c.Lines[0].Quantity)

	require.NoError(t, c.UpdateQuantity(id, 0))
	assert.True(t, c.IsEmpty())

	assert.ErrorIs(t, c.UpdateQuantity(id, 1), ErrLineNotFound)
}

func TestUpdateQuantity_UsesSnapshotNotLiveStock(t *testing.T) {
	c := New()
	p := product("Notebook", 2500, 2)
	require.NoError(t, c.AddItem(p))

	p.StockQuantity = 10
	assert.ErrorIs(t, c.UpdateQuantity(p.ID.String(), 3), ErrInsufficientStock)
}

func TestRemoveItem(t *testing.T) {
	c := New()
	a, b := product("A", 1, 5), product("B", 2, 5)
	require.NoError(t, c.AddItem(a))
	require.NoError(t, c.AddItem(b))

	c.RemoveItem(a.ID.String())
	require.Len(t, c.Lines, 1)
	assert.Equal(t, b.ID, c.Lines[0].ProductID)

	c.RemoveItem("missing")
	assert.Len(t, c.Lines, 1)
}

func TestTotals(t *testing.T) {
	c := New()
	p1, p2 := product("P1", 10, 5), product("P2", 5, 5)
	require.NoError(t, c.AddItem(p1))
	require.NoError(t, c.AddItem(p1))
	require.NoError(t, c.AddItem(p2))

	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(25)))
	c.SetDiscount(decimal.NewFromInt(5))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(20)))
}

func TestNotice(t *testing.T) {
	n := Notice(ErrOutOfStock)
	assert.Equal(t, "Produto sem estoque", n.Title)
	assert.Equal(t, notify.SeverityDestructive, n.Severity)

	c := New()
	p := product("X", 1, 1)
	require.NoError(t, c.AddItem(p))
	err := c.AddItem(p)
	assert.Equal(t, "Estoque insuficiente", Notice(err).Title)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrCartNotFound)

	c := New()
	require.NoError(t, c.AddItem(product("Y", 3.5, 2)))
	c.SetDiscount(decimal.NewFromFloat(0.5))
	require.NoError(t, s.Save(ctx, c))

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Total().Equal(decimal.NewFromInt(3)))

	require.NoError(t, s.Delete(ctx, c.ID))
	_, err = s.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}
