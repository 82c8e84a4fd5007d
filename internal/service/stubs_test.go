package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stockpro/internal/cache"
	"stockpro/internal/dto"
	"stockpro/internal/model"
	"stockpro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository. Stock writes mimic the
// conditional UPDATE of the real repository.
type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
	deleted  []uuid.UUID
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) seed(name string, price float64, stock int) *model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &model.Product{
		ID:            uuid.New(),
		Name:          name,
		SalePrice:     decimal.NewFromFloat(price),
		StockQuantity: stock,
		Unit:          "un",
		Status:        model.ProductActive,
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].StockQuantity
}

func (r *stubProductRepo) all() []model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	return r.CreateTx(nil, p)
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := r.all()
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.products[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	cp.StockQuantity = cur.StockQuantity
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.all())), nil
}

func (r *stubProductRepo) CountBelow(_ context.Context, threshold int) (int64, error) {
	var n int64
	for _, p := range r.all() {
		if p.StockQuantity < threshold {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) ListInStock(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.all() {
		if p.StockQuantity > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context, threshold int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.all() {
		if p.Status == model.ProductActive && p.StockQuantity < threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListExpiringBefore(_ context.Context, before time.Time) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.all() {
		if p.Status == model.ProductActive && p.ExpiryDate != nil && p.ExpiryDate.Before(before) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	return out, nil
}

func (r *stubProductRepo) ListAtOrBelowMinStock(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.all() {
		if p.Status == model.ProductActive && p.MinStock != nil && p.StockQuantity <= *p.MinStock {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.StockQuantity < qty {
		return false, nil
	}
	p.StockQuantity -= qty
	return true, nil
}

func (r *stubProductRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity += qty
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo stores sales and their items in memory.
type stubSaleRepo struct {
	mu     sync.Mutex
	sales  map[uuid.UUID]*model.Sale
	extra  []model.Sale // seeded history for aggregate queries
	items  []model.SaleItem
	locked []uuid.UUID
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	cp.Items = nil
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) CreateItemTx(_ *gorm.DB, item *model.SaleItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[item.SaleID]
	if !ok {
		return fmt.Errorf("sale %s not stored", item.SaleID)
	}
	s.Items = append(s.Items, *item)
	return nil
}

func (r *stubSaleRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = append(r.locked, id)
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	return &cp, nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	return r.FindByIDForUpdateTx(nil, id)
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter, _ *time.Location) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Status == "" || filter.Status == s.Status {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) completed() []model.Sale {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]model.Sale(nil), r.extra...)
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out
}

func (r *stubSaleRepo) ListCompletedBetween(_ context.Context, from, to time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.completed() {
		if s.Status == model.SaleStatusCompleted && !s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, s := range r.completed() {
		if !s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *stubSaleRepo) ListCompletedItemsBetween(_ context.Context, from, to time.Time) ([]model.SaleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SaleItem
	for _, it := range r.items {
		if !it.CreatedAt.Before(from) && it.CreatedAt.Before(to) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubMovementRepo captures the ledger entries for assertion.
type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *stubMovementRepo) byType(typ string) []model.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// seqNumbers hands out VND-20260101-00001, VND-20260101-00002, ...
type seqNumbers struct {
	mu  sync.Mutex
	seq int
}

func (g *seqNumbers) NextTx(_ *gorm.DB) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("VND-20260101-%05d", g.seq), nil
}

// recordingCache counts invalidated views; lookups always miss.
type recordingCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCache) Get(_ context.Context, view, key string, _ any) (cache.Token, bool) {
	return cache.Token{View: view, Key: key}, false
}
func (c *recordingCache) Set(context.Context, cache.Token, any) {}
func (c *recordingCache) Invalidate(_ context.Context, views ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, views...)
	return nil
}

func (c *recordingCache) views() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }
