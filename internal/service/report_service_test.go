package service_test

import (
	"context"
	"testing"
	"time"

	"stockpro/internal/dto"
	"stockpro/internal/model"
	"stockpro/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildReportSvc(sales *stubSaleRepo, products *stubProductRepo, movements *stubMovementRepo) service.ReportService {
	svc := service.NewReportService(products, sales, movements, nil, service.StatsConfig{
		LowStockThreshold: 10,
		Location:          time.UTC,
	})
	service.SetClock(svc, func() time.Time { return statsNow })
	return svc
}

func TestExpiryUrgency(t *testing.T) {
	assert.Equal(t, dto.UrgencyCritical, service.ExpiryUrgency(-3))
	assert.Equal(t, dto.UrgencyCritical, service.ExpiryUrgency(7))
	assert.Equal(t, dto.UrgencyWarning, service.ExpiryUrgency(8))
	assert.Equal(t, dto.UrgencyWarning, service.ExpiryUrgency(15))
	assert.Equal(t, dto.UrgencyAttention, service.ExpiryUrgency(16))
}

func TestExpiring(t *testing.T) {
	products := newStubProductRepo()
	day := func(d int) *time.Time {
		v := time.Date(2026, time.March, 15+d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	products.seed("Iogurte", 3, 5)
	products.seed("Leite", 5, 10).ExpiryDate = day(3)
	products.seed("Queijo", 30, 2).ExpiryDate = day(20)
	products.seed("Presunto", 25, 1).ExpiryDate = day(-1)
	products.seed("Mel", 40, 1).ExpiryDate = day(90)

	got, err := buildReportSvc(newStubSaleRepo(), products, &stubMovementRepo{}).Expiring(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Presunto", got[0].ProductName)
	assert.Equal(t, -1, got[0].DaysToExpiry)
	assert.Equal(t, dto.UrgencyCritical, got[0].Urgency)
	assert.Equal(t, "Leite", got[1].ProductName)
	assert.Equal(t, dto.UrgencyCritical, got[1].Urgency)
	assert.Equal(t, "Queijo", got[2].ProductName)
	assert.Equal(t, 20, got[2].DaysToExpiry)
	assert.Equal(t, dto.UrgencyAttention, got[2].Urgency)
	assert.Equal(t, "2026-04-04", got[2].ExpiryDate)
}

func TestSuggestPurchase(t *testing.T) {
	cost := dec("4")
	withMax := &model.Product{ID: uuid.New(), Name: "Arroz", SalePrice: dec("10"), PurchasePrice: &cost,
		StockQuantity: 2, MinStock: ptr(5), MaxStock: ptr(20)}
	sug, ok := service.SuggestPurchase(withMax)
	require.True(t, ok)
	assert.Equal(t, 18, sug.SuggestedQuantity)
	assert.Equal(t, dto.PriorityHigh, sug.Priority)
	assert.True(t, dec("72").Equal(sug.EstimatedCost))

	noMax := &model.Product{ID: uuid.New(), Name: "Sal", SalePrice: dec("2"), StockQuantity: 4, MinStock: ptr(5)}
	sug, ok = service.SuggestPurchase(noMax)
	require.True(t, ok)
	assert.Equal(t, 6, sug.SuggestedQuantity)
	assert.Equal(t, dto.PriorityMedium, sug.Priority)
	assert.True(t, dec("2").Equal(sug.UnitCost), "falls back to the sale price")

	overMax := &model.Product{ID: uuid.New(), StockQuantity: 5, MinStock: ptr(5), MaxStock: ptr(5)}
	_, ok = service.SuggestPurchase(overMax)
	assert.False(t, ok)

	_, ok = service.SuggestPurchase(&model.Product{StockQuantity: 1})
	assert.False(t, ok, "no minimum configured")
}

func TestLowStockAndSuggestions(t *testing.T) {
	products := newStubProductRepo()
	products.seed("Arroz", 10, 50)
	products.seed("Feijão", 5, 3).MinStock = ptr(4)
	products.seed("Farinha", 3, 1).Status = model.ProductDiscontinued

	svc := buildReportSvc(newStubSaleRepo(), products, &stubMovementRepo{})

	lowStock, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, "Feijão", lowStock[0].Name)

	sugs, err := svc.PurchaseSuggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, sugs, 1)
	assert.Equal(t, 5, sugs[0].SuggestedQuantity)
}

func TestRecentMovementsAndSalesReport(t *testing.T) {
	f := buildSaleSvc()
	p := f.products.seed("Café", 20, 10)
	_, err := f.svc.Commit(context.Background(), nil, dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{item(p, 2)},
		PaymentMethod: model.PaymentPix,
	})
	require.NoError(t, err)

	f.sales.extra = []model.Sale{
		historicSale(statsNow.Add(-time.Hour), "40", model.SaleStatusCompleted),
		historicSale(statsNow.Add(-2*time.Hour), "10", model.SaleStatusCompleted),
		historicSale(statsNow.AddDate(0, 0, -2), "25", model.SaleStatusCompleted),
		historicSale(statsNow.AddDate(0, 0, -9), "99", model.SaleStatusCompleted),
	}
	f.sales.items = []model.SaleItem{
		{ProductID: p.ID, Quantity: 3, TotalPrice: dec("60"), CreatedAt: statsNow.AddDate(0, 0, -20), Product: p},
		{ProductID: p.ID, Quantity: 1, TotalPrice: dec("20"), CreatedAt: statsNow.AddDate(0, 0, -40), Product: p},
	}

	svc := buildReportSvc(f.sales, f.products, f.movements)

	moves, err := svc.RecentMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, model.MovementSale, moves[0].Type)
	assert.Equal(t, -2, moves[0].Quantity)

	report, err := svc.Sales(context.Background())
	require.NoError(t, err)
	var days []string
	for _, d := range report.Daily {
		if d.Date == "2026-03-15" {
			assert.True(t, dec("50").Equal(d.Total))
			assert.Equal(t, 2, d.Count)
		}
		days = append(days, d.Date)
	}
	assert.Contains(t, days, "2026-03-13")
	assert.NotContains(t, days, "2026-03-06")

	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, 3, report.TopProducts[0].Quantity)
}
