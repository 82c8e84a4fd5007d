package dto

import (
	"stockpro/internal/stats"

	"github.com/shopspring/decimal"
)

// SalesStatsResponse is served by GET /v1/sales/stats.
type SalesStatsResponse struct {
	TodayTotal        decimal.Decimal `json:"today_total"`
	TodayCount        int64           `json:"today_count"`
	AverageTicket     decimal.Decimal `json:"average_ticket"`
	SalesGrowth       decimal.Decimal `json:"sales_growth"`
	TransactionGrowth decimal.Decimal `json:"transaction_growth"`
	MonthlyGoal       decimal.Decimal `json:"monthly_goal"`
	MonthTotal        decimal.Decimal `json:"month_total"`
	MonthProgress     decimal.Decimal `json:"month_progress"`
}

type DashboardResponse struct {
	TotalProducts int64           `json:"total_products"`
	LowStockCount int64           `json:"low_stock_count"`
	SalesToday    int64           `json:"sales_today"`
	MonthRevenue  decimal.Decimal `json:"month_revenue"`
}

type AnalyticsResponse struct {
	CurrentRevenue     decimal.Decimal      `json:"current_revenue"`
	PreviousRevenue    decimal.Decimal      `json:"previous_revenue"`
	RevenueGrowth      decimal.Decimal      `json:"revenue_growth"`
	TopProducts        []stats.ProductTotal `json:"top_products"`
	StockValue         decimal.Decimal      `json:"stock_value"`
	CriticalStockCount int64                `json:"critical_stock_count"`
}
