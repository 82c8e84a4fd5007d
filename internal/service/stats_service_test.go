package service_test

import (
	"context"
	"testing"
	"time"

	"stockpro/internal/model"
	"stockpro/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statsNow = time.Date(2026, time.March, 15, 14, 0, 0, 0, time.UTC)

func historicSale(at time.Time, final string, status string) model.Sale {
	return model.Sale{
		ID:          uuid.New(),
		SaleNumber:  "VND-" + at.Format("20060102") + "-" + final,
		FinalAmount: dec(final),
		TotalAmount: dec(final),
		Status:      status,
		CreatedAt:   at,
	}
}

func buildStatsSvc(sales *stubSaleRepo, products *stubProductRepo) service.StatsService {
	svc := service.NewStatsService(sales, products, nil, service.StatsConfig{
		MonthlyGoal:            dec("900"),
		LowStockThreshold:      10,
		CriticalStockThreshold: 5,
		Location:               time.UTC,
	})
	service.SetClock(svc, func() time.Time { return statsNow })
	return svc
}

func TestSalesStats(t *testing.T) {
	sales := newStubSaleRepo()
	sales.extra = []model.Sale{
		historicSale(statsNow.Add(-2*time.Hour), "100", model.SaleStatusCompleted),
		historicSale(statsNow.Add(-1*time.Hour), "50", model.SaleStatusCompleted),
		historicSale(statsNow.Add(-30*time.Minute), "999", model.SaleStatusCancelled),
		historicSale(statsNow.AddDate(0, 0, -1), "100", model.SaleStatusCompleted),
		historicSale(statsNow.AddDate(0, 0, -10), "200", model.SaleStatusCompleted),
		historicSale(statsNow.AddDate(0, -1, 0), "300", model.SaleStatusCompleted),
	}
	svc := buildStatsSvc(sales, newStubProductRepo())

	resp, err := svc.SalesStats(context.Background())
	require.NoError(t, err)

	assert.True(t, dec("150").Equal(resp.TodayTotal))
	assert.EqualValues(t, 2, resp.TodayCount)
	assert.True(t, dec("75").Equal(resp.AverageTicket))
	assert.True(t, dec("50").Equal(resp.SalesGrowth))
	assert.True(t, dec("100").Equal(resp.TransactionGrowth))
	assert.True(t, dec("450").Equal(resp.MonthTotal))
	assert.True(t, dec("50").Equal(resp.MonthProgress))
}

func TestSalesStats_NoHistory(t *testing.T) {
	svc := buildStatsSvc(newStubSaleRepo(), newStubProductRepo())

	resp, err := svc.SalesStats(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.TodayTotal.IsZero())
	assert.True(t, resp.AverageTicket.IsZero(), "no division by zero without sales")
	assert.True(t, resp.SalesGrowth.IsZero())
	assert.True(t, resp.TransactionGrowth.IsZero())
	assert.True(t, resp.MonthProgress.IsZero())
}

func TestDashboard(t *testing.T) {
	sales := newStubSaleRepo()
	sales.extra = []model.Sale{
		historicSale(statsNow.Add(-time.Hour), "80", model.SaleStatusCompleted),
		historicSale(statsNow.AddDate(0, 0, -3), "20", model.SaleStatusCompleted),
	}
	products := newStubProductRepo()
	products.seed("Arroz", 10, 50)
	products.seed("Feijão", 5, 3)
	products.seed("Sal", 2, 0)

	resp, err := buildStatsSvc(sales, products).Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.TotalProducts)
	assert.EqualValues(t, 2, resp.LowStockCount)
	assert.EqualValues(t, 1, resp.SalesToday)
	assert.True(t, dec("100").Equal(resp.MonthRevenue))
}

func TestAnalytics(t *testing.T) {
	sales := newStubSaleRepo()
	sales.extra = []model.Sale{
		historicSale(statsNow.AddDate(0, 0, -2), "300", model.SaleStatusCompleted),
		historicSale(statsNow.AddDate(0, -1, 0), "200", model.SaleStatusCompleted),
	}
	products := newStubProductRepo()
	arroz := products.seed("Arroz", 10, 4)
	cafe := products.seed("Café", 20, 10)
	sales.items = []model.SaleItem{
		{ProductID: arroz.ID, Quantity: 5, TotalPrice: dec("50"), CreatedAt: statsNow.AddDate(0, 0, -2), Product: arroz},
		{ProductID: cafe.ID, Quantity: 2, TotalPrice: dec("40"), CreatedAt: statsNow.AddDate(0, 0, -2), Product: cafe},
		{ProductID: cafe.ID, Quantity: 9, TotalPrice: dec("180"), CreatedAt: statsNow.AddDate(0, -1, 0), Product: cafe},
	}

	resp, err := buildStatsSvc(sales, products).Analytics(context.Background())
	require.NoError(t, err)
	assert.True(t, dec("300").Equal(resp.CurrentRevenue))
	assert.True(t, dec("200").Equal(resp.PreviousRevenue))
	assert.True(t, dec("50").Equal(resp.RevenueGrowth))
	assert.True(t, dec("240").Equal(resp.StockValue))
	assert.EqualValues(t, 1, resp.CriticalStockCount)

	require.Len(t, resp.TopProducts, 2)
	assert.Equal(t, "Arroz", resp.TopProducts[0].ProductName)
	assert.Equal(t, 5, resp.TopProducts[0].Quantity)
}
