package service

import (
	"context"
	"time"

	"stockpro/internal/cache"
	"stockpro/internal/dto"
	"stockpro/internal/repository"
	"stockpro/internal/stats"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const analyticsTopProducts = 5

// StatsConfig carries the business thresholds behind the aggregates.
type StatsConfig struct {
	MonthlyGoal            decimal.Decimal
	LowStockThreshold      int
	CriticalStockThreshold int
	Location               *time.Location
}

// StatsService computes dashboard aggregates on demand. Results are cached
// per view until a sale or product write invalidates them.
type StatsService interface {
	SalesStats(ctx context.Context) (*dto.SalesStatsResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Analytics(ctx context.Context) (*dto.AnalyticsResponse, error)
}

type statsService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	cache    cache.Cache
	cfg      StatsConfig
	now      func() time.Time
}

func NewStatsService(sales repository.SaleRepository, products repository.ProductRepository, c cache.Cache, cfg StatsConfig) StatsService {
	if c == nil {
		c = cache.Noop{}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &statsService{sales: sales, products: products, cache: c, cfg: cfg, now: time.Now}
}

// SalesStats compares today with the whole of yesterday and tracks the
// month-to-date revenue against the monthly goal.
func (s *statsService) SalesStats(ctx context.Context) (*dto.SalesStatsResponse, error) {
	var cached dto.SalesStatsResponse
	tok, hit := s.cache.Get(ctx, cache.ViewSalesStats, s.dayKey(), &cached)
	if hit {
		return &cached, nil
	}

	now := s.now()
	today := stats.StartOfDay(now, s.cfg.Location)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)
	month := stats.StartOfMonth(now, s.cfg.Location)

	todaySales, err := s.sales.ListCompletedBetween(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	prevSales, err := s.sales.ListCompletedBetween(ctx, yesterday, today)
	if err != nil {
		return nil, err
	}
	monthSales, err := s.sales.ListCompletedBetween(ctx, month, tomorrow)
	if err != nil {
		return nil, err
	}

	todayTotal := stats.SumFinal(todaySales)
	prevTotal := stats.SumFinal(prevSales)
	monthTotal := stats.SumFinal(monthSales)
	todayCount := int64(len(todaySales))

	resp := dto.SalesStatsResponse{
		TodayTotal:        todayTotal,
		TodayCount:        todayCount,
		AverageTicket:     stats.AverageTicket(todayTotal, todayCount),
		SalesGrowth:       stats.Growth(todayTotal, prevTotal),
		TransactionGrowth: stats.GrowthCount(todayCount, int64(len(prevSales))),
		MonthlyGoal:       s.cfg.MonthlyGoal,
		MonthTotal:        monthTotal,
		MonthProgress:     stats.Progress(monthTotal, s.cfg.MonthlyGoal),
	}
	s.cache.Set(ctx, tok, resp)
	return &resp, nil
}

func (s *statsService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	var cached dto.DashboardResponse
	tok, hit := s.cache.Get(ctx, cache.ViewDashboard, s.dayKey(), &cached)
	if hit {
		return &cached, nil
	}

	now := s.now()
	today := stats.StartOfDay(now, s.cfg.Location)
	tomorrow := today.AddDate(0, 0, 1)
	month := stats.StartOfMonth(now, s.cfg.Location)

	var resp dto.DashboardResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.TotalProducts, err = s.products.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.LowStockCount, err = s.products.CountBelow(gctx, s.cfg.LowStockThreshold)
		return err
	})
	g.Go(func() (err error) {
		resp.SalesToday, err = s.sales.CountCreatedBetween(gctx, today, tomorrow)
		return err
	})
	g.Go(func() error {
		monthSales, err := s.sales.ListCompletedBetween(gctx, month, tomorrow)
		if err != nil {
			return err
		}
		resp.MonthRevenue = stats.SumFinal(monthSales)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, tok, resp)
	return &resp, nil
}

// Analytics compares the current month to date with the whole previous
// calendar month.
func (s *statsService) Analytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	var cached dto.AnalyticsResponse
	tok, hit := s.cache.Get(ctx, cache.ViewAnalytics, s.dayKey(), &cached)
	if hit {
		return &cached, nil
	}

	now := s.now()
	month := stats.StartOfMonth(now, s.cfg.Location)
	nextMonth := month.AddDate(0, 1, 0)
	prevMonth := month.AddDate(0, -1, 0)

	current, err := s.sales.ListCompletedBetween(ctx, month, nextMonth)
	if err != nil {
		return nil, err
	}
	previous, err := s.sales.ListCompletedBetween(ctx, prevMonth, month)
	if err != nil {
		return nil, err
	}
	items, err := s.sales.ListCompletedItemsBetween(ctx, month, nextMonth)
	if err != nil {
		return nil, err
	}
	inStock, err := s.products.ListInStock(ctx)
	if err != nil {
		return nil, err
	}
	critical, err := s.products.CountBelow(ctx, s.cfg.CriticalStockThreshold)
	if err != nil {
		return nil, err
	}

	currentRevenue := stats.SumFinal(current)
	previousRevenue := stats.SumFinal(previous)
	resp := dto.AnalyticsResponse{
		CurrentRevenue:     currentRevenue,
		PreviousRevenue:    previousRevenue,
		RevenueGrowth:      stats.Growth(currentRevenue, previousRevenue),
		TopProducts:        stats.TopProducts(items, analyticsTopProducts),
		StockValue:         stats.StockValue(inStock),
		CriticalStockCount: critical,
	}
	s.cache.Set(ctx, tok, resp)
	return &resp, nil
}

// dayKey scopes cached aggregates to the current local day so they roll
// over at midnight even without writes.
func (s *statsService) dayKey() string {
	return s.now().In(s.cfg.Location).Format(time.DateOnly)
}
