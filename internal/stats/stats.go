// Package stats holds the pure reducers behind the dashboard, analytics and
// report aggregates. Every division is guarded against a zero denominator.
package stats

import (
	"sort"
	"time"

	"stockpro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Growth returns (current - previous) / previous * 100, or 0 when previous is 0.
func Growth(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// GrowthCount is Growth over plain counts.
func GrowthCount(current, previous int64) decimal.Decimal {
	return Growth(decimal.NewFromInt(current), decimal.NewFromInt(previous))
}

// AverageTicket returns total / count, or 0 when count is 0.
func AverageTicket(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(2)
}

// Progress returns value / goal * 100, or 0 when goal is not positive.
func Progress(value, goal decimal.Decimal) decimal.Decimal {
	if !goal.IsPositive() {
		return decimal.Zero
	}
	return value.Div(goal).Mul(hundred).Round(2)
}

// SumFinal adds the final amounts of the given sales.
func SumFinal(sales []model.Sale) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(s.FinalAmount)
	}
	return sum
}

// DailyTotal is the revenue and sale count of one calendar day.
type DailyTotal struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// GroupByDay buckets sales by their creation day in loc. Days are returned in
// ascending order; days without sales are omitted.
func GroupByDay(sales []model.Sale, loc *time.Location) []DailyTotal {
	if loc == nil {
		loc = time.Local
	}
	byDay := make(map[string]*DailyTotal)
	for _, s := range sales {
		key := s.CreatedAt.In(loc).Format(time.DateOnly)
		d, ok := byDay[key]
		if !ok {
			d = &DailyTotal{Date: key, Total: decimal.Zero}
			byDay[key] = d
		}
		d.Total = d.Total.Add(s.FinalAmount)
		d.Count++
	}
	out := make([]DailyTotal, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ProductTotal is the aggregated quantity and revenue sold of one product.
type ProductTotal struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// TopProducts aggregates sale items per product and returns the limit best
// sellers by quantity. Ties are broken by revenue, then by name.
// Items whose Product is not loaded are reported with an empty name.
func TopProducts(items []model.SaleItem, limit int) []ProductTotal {
	byProduct := make(map[uuid.UUID]*ProductTotal)
	for _, it := range items {
		pt, ok := byProduct[it.ProductID]
		if !ok {
			pt = &ProductTotal{ProductID: it.ProductID, Revenue: decimal.Zero}
			if it.Product != nil {
				pt.ProductName = it.Product.Name
			}
			byProduct[it.ProductID] = pt
		}
		pt.Quantity += it.Quantity
		pt.Revenue = pt.Revenue.Add(it.TotalPrice)
	}
	out := make([]ProductTotal, 0, len(byProduct))
	for _, pt := range byProduct {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ProductName < out[j].ProductName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// StockValue is Σ(stock_quantity × sale_price) over products with stock.
func StockValue(products []model.Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		if p.StockQuantity <= 0 {
			continue
		}
		sum = sum.Add(p.SalePrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}
	return sum
}

// StartOfDay returns midnight of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth returns midnight of the first day of t's month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}
