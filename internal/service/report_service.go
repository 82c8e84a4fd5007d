package service

import (
	"context"
	"time"

	"stockpro/internal/cache"
	"stockpro/internal/dto"
	"stockpro/internal/model"
	"stockpro/internal/repository"
	"stockpro/internal/stats"

	"github.com/shopspring/decimal"
)

const (
	recentMovementsLimit = 50
	salesReportDays      = 7
	topProductsDays      = 30
	topProductsLimit     = 10
)

// ReportService builds the read-only operational reports.
type ReportService interface {
	LowStock(ctx context.Context) ([]dto.ProductResponse, error)
	Expiring(ctx context.Context) ([]dto.ExpiringProductResponse, error)
	PurchaseSuggestions(ctx context.Context) ([]dto.PurchaseSuggestionResponse, error)
	RecentMovements(ctx context.Context) ([]dto.StockMovementResponse, error)
	Sales(ctx context.Context) (*dto.SalesReportResponse, error)
}

type reportService struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	movements repository.StockMovementRepository
	cache     cache.Cache
	cfg       StatsConfig
	now       func() time.Time
}

func NewReportService(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	movements repository.StockMovementRepository,
	c cache.Cache,
	cfg StatsConfig,
) ReportService {
	if c == nil {
		c = cache.Noop{}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &reportService{products: products, sales: sales, movements: movements, cache: c, cfg: cfg, now: time.Now}
}

func (s *reportService) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	var cached []dto.ProductResponse
	tok, hit := s.cache.Get(ctx, cache.ViewReports, "low-stock", &cached)
	if hit {
		return cached, nil
	}
	products, err := s.products.ListLowStock(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	s.cache.Set(ctx, tok, out)
	return out, nil
}

// Expiring lists active products expiring within a month, soonest first.
// Already expired products are reported as critical.
func (s *reportService) Expiring(ctx context.Context) ([]dto.ExpiringProductResponse, error) {
	today := stats.StartOfDay(s.now(), s.cfg.Location)
	products, err := s.products.ListExpiringBefore(ctx, today.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringProductResponse, 0, len(products))
	for i := range products {
		p := &products[i]
		days := daysUntil(today, *p.ExpiryDate)
		out = append(out, dto.ExpiringProductResponse{
			ProductID:     p.ID.String(),
			ProductName:   p.Name,
			CategoryName:  p.CategoryName(),
			StockQuantity: p.StockQuantity,
			ExpiryDate:    p.ExpiryDate.Format(time.DateOnly),
			DaysToExpiry:  days,
			Urgency:       ExpiryUrgency(days),
		})
	}
	return out, nil
}

// ExpiryUrgency: critical within 7 days, warning within 15, attention beyond.
func ExpiryUrgency(days int) string {
	switch {
	case days <= 7:
		return dto.UrgencyCritical
	case days <= 15:
		return dto.UrgencyWarning
	default:
		return dto.UrgencyAttention
	}
}

// daysUntil counts calendar days between today (local midnight) and a DATE
// value, comparing calendar components so time zones cannot shift the result.
func daysUntil(today time.Time, date time.Time) int {
	a := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func (s *reportService) PurchaseSuggestions(ctx context.Context) ([]dto.PurchaseSuggestionResponse, error) {
	var cached []dto.PurchaseSuggestionResponse
	tok, hit := s.cache.Get(ctx, cache.ViewReports, "purchase-suggestions", &cached)
	if hit {
		return cached, nil
	}
	products, err := s.products.ListAtOrBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseSuggestionResponse, 0, len(products))
	for i := range products {
		if sug, ok := SuggestPurchase(&products[i]); ok {
			out = append(out, sug)
		}
	}
	s.cache.Set(ctx, tok, out)
	return out, nil
}

// SuggestPurchase computes the reorder line for a product at or below its
// minimum: refill to max_stock when known, otherwise to twice the minimum.
func SuggestPurchase(p *model.Product) (dto.PurchaseSuggestionResponse, bool) {
	if p.MinStock == nil || p.StockQuantity > *p.MinStock {
		return dto.PurchaseSuggestionResponse{}, false
	}
	min := *p.MinStock
	var qty int
	if p.MaxStock != nil {
		qty = *p.MaxStock - p.StockQuantity
	} else {
		qty = 2*min - p.StockQuantity
	}
	if qty <= 0 {
		return dto.PurchaseSuggestionResponse{}, false
	}

	priority := dto.PriorityMedium
	if p.StockQuantity*2 <= min {
		priority = dto.PriorityHigh
	}
	unitCost := p.SalePrice
	if p.PurchasePrice != nil {
		unitCost = *p.PurchasePrice
	}
	return dto.PurchaseSuggestionResponse{
		ProductID:         p.ID.String(),
		ProductName:       p.Name,
		SupplierName:      p.SupplierName(),
		CurrentStock:      p.StockQuantity,
		MinStock:          min,
		MaxStock:          p.MaxStock,
		SuggestedQuantity: qty,
		Priority:          priority,
		UnitCost:          unitCost,
		EstimatedCost:     unitCost.Mul(decimal.NewFromInt(int64(qty))),
	}, true
}

func (s *reportService) RecentMovements(ctx context.Context) ([]dto.StockMovementResponse, error) {
	var cached []dto.StockMovementResponse
	tok, hit := s.cache.Get(ctx, cache.ViewStockMovements, "recent", &cached)
	if hit {
		return cached, nil
	}
	movements, err := s.movements.List(ctx, repository.StockMovementFilter{Limit: recentMovementsLimit})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		name := ""
		if m.Product != nil {
			name = m.Product.Name
		}
		out = append(out, dto.StockMovementResponse{
			ID:                m.ID.String(),
			ProductID:         m.ProductID.String(),
			ProductName:       name,
			Type:              m.Type,
			Quantity:          m.Quantity,
			UnitCost:          m.UnitCost,
			ReferenceDocument: m.ReferenceDocument,
			Notes:             m.Notes,
			CreatedAt:         formatTime(m.CreatedAt),
		})
	}
	s.cache.Set(ctx, tok, out)
	return out, nil
}

// Sales groups the last 7 days of completed sales by day and ranks the top
// products of the last 30 days.
func (s *reportService) Sales(ctx context.Context) (*dto.SalesReportResponse, error) {
	now := s.now()
	key := now.In(s.cfg.Location).Format(time.DateOnly)
	var cached dto.SalesReportResponse
	tok, hit := s.cache.Get(ctx, cache.ViewReports, "sales|"+key, &cached)
	if hit {
		return &cached, nil
	}

	tomorrow := stats.StartOfDay(now, s.cfg.Location).AddDate(0, 0, 1)
	recent, err := s.sales.ListCompletedBetween(ctx, tomorrow.AddDate(0, 0, -salesReportDays), tomorrow)
	if err != nil {
		return nil, err
	}
	items, err := s.sales.ListCompletedItemsBetween(ctx, tomorrow.AddDate(0, 0, -topProductsDays), tomorrow)
	if err != nil {
		return nil, err
	}

	resp := dto.SalesReportResponse{
		Daily:       stats.GroupByDay(recent, s.cfg.Location),
		TopProducts: stats.TopProducts(items, topProductsLimit),
	}
	s.cache.Set(ctx, tok, resp)
	return &resp, nil
}
