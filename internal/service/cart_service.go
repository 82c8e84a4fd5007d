package service

import (
	"context"
	"fmt"

	"stockpro/internal/cart"
	"stockpro/internal/dto"
	"stockpro/internal/model"
	"stockpro/internal/notify"
	"stockpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CartService builds sales server-side. Builder rejections (no stock, too
// many units) are not errors: the unchanged cart comes back with a
// notification attached.
type CartService interface {
	Create(ctx context.Context) (*dto.CartResponse, error)
	Get(ctx context.Context, id string) (*dto.CartResponse, error)
	AddItem(ctx context.Context, id string, req dto.AddCartItemRequest) (*dto.CartResponse, error)
	UpdateItem(ctx context.Context, id, lineID string, req dto.UpdateCartItemRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, id, lineID string) (*dto.CartResponse, error)
	SetDiscount(ctx context.Context, id string, req dto.SetDiscountRequest) (*dto.CartResponse, error)
	Checkout(ctx context.Context, id string, createdBy *uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	Discard(ctx context.Context, id string) error
}

type cartService struct {
	store    cart.Store
	products repository.ProductRepository
	sales    SaleService
}

func NewCartService(store cart.Store, products repository.ProductRepository, sales SaleService) CartService {
	return &cartService{store: store, products: products, sales: sales}
}

func (s *cartService) Create(ctx context.Context) (*dto.CartResponse, error) {
	c := cart.New()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCartResponse(c, nil), nil
}

func (s *cartService) Get(ctx context.Context, id string) (*dto.CartResponse, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCartResponse(c, nil), nil
}

func (s *cartService) AddItem(ctx context.Context, id string, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: product_id %q", ErrInvalidID, req.ProductID)
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, err
		}
		p = nil
	}
	// Products that are not for sale behave like unknown ones.
	if p != nil && p.Status != model.ProductActive {
		p = nil
	}

	if err := c.AddItem(p); err != nil {
		return s.reject(c, err), nil
	}
	return s.save(ctx, c)
}

func (s *cartService) UpdateItem(ctx context.Context, id, lineID string, req dto.UpdateCartItemRequest) (*dto.CartResponse, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateQuantity(lineID, req.Quantity); err != nil {
		return s.reject(c, err), nil
	}
	return s.save(ctx, c)
}

func (s *cartService) RemoveItem(ctx context.Context, id, lineID string) (*dto.CartResponse, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(lineID)
	return s.save(ctx, c)
}

func (s *cartService) SetDiscount(ctx context.Context, id string, req dto.SetDiscountRequest) (*dto.CartResponse, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.SetDiscount(req.Amount)
	return s.save(ctx, c)
}

// Checkout commits the cart as a sale at the snapshotted prices and discards
// it. A failed commit leaves the cart untouched so the operator can fix it.
func (s *cartService) Checkout(ctx context.Context, id string, createdBy *uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	saleReq := dto.CreateSaleRequest{
		Items:            make([]dto.SaleItemRequest, 0, len(c.Lines)),
		PaymentMethod:    req.PaymentMethod,
		DiscountAmount:   c.Discount,
		CustomerName:     req.CustomerName,
		CustomerDocument: req.CustomerDocument,
		CustomerEmail:    req.CustomerEmail,
		Notes:            req.Notes,
	}
	for _, l := range c.Lines {
		price := l.UnitPrice
		saleReq.Items = append(saleReq.Items, dto.SaleItemRequest{
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
			UnitPrice: &price,
		})
	}

	resp, err := s.sales.Commit(ctx, createdBy, saleReq)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("cart_id", id).Msg("cart not discarded after checkout")
	}
	return resp, nil
}

func (s *cartService) Discard(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *cartService) save(ctx context.Context, c *cart.Cart) (*dto.CartResponse, error) {
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCartResponse(c, nil), nil
}

func (s *cartService) reject(c *cart.Cart, err error) *dto.CartResponse {
	n := cart.Notice(err)
	log.Debug().Str("cart_id", c.ID).Err(err).Msg("cart operation rejected")
	return toCartResponse(c, &n)
}

func toCartResponse(c *cart.Cart, n *notify.Notification) *dto.CartResponse {
	lines := make([]dto.CartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, dto.CartLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID.String(),
			ProductName:    l.ProductName,
			UnitPrice:      l.UnitPrice,
			Quantity:       l.Quantity,
			StockAvailable: l.StockAvailable,
			Total:          l.Total(),
		})
	}
	return &dto.CartResponse{
		ID:           c.ID,
		Lines:        lines,
		Subtotal:     c.Subtotal(),
		Discount:     c.Discount,
		Total:        c.Total(),
		Notification: n,
	}
}
