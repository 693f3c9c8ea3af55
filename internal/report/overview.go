// Package report computes the analytical views of the dashboard. Every
// view is a stateless function over a date-range-filtered copy of the
// normalized sales table; nothing here is persisted.
package report

import (
	"fmt"
	"sort"

	"salescope/internal/dataset"
)

type Granularity string

const (
	ByDay     Granularity = "day"
	ByWeek    Granularity = "week"
	ByMonth   Granularity = "month"
	ByQuarter Granularity = "quarter"
	ByYear    Granularity = "year"
)

// ParseGranularity defaults to day and rejects anything outside the five
// supported buckets.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case "":
		return ByDay, nil
	case ByDay, ByWeek, ByMonth, ByQuarter, ByYear:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("unknown granularity %q", s)
	}
}

type OverviewTotals struct {
	Revenue   float64 `json:"revenue"`
	Orders    int     `json:"orders"`
	Customers int     `json:"customers"`
	Products  int     `json:"products"`
	Units     float64 `json:"units"`
	Freight   float64 `json:"freight"`
}

type SeriesPoint struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

type OverviewReport struct {
	Totals      OverviewTotals `json:"totals"`
	Granularity Granularity    `json:"granularity"`
	Series      []SeriesPoint  `json:"series"`
}

// Overview computes the headline totals. An order is a distinct
// (customer, purchase date) pair; one order can span several product rows.
func Overview(rows []dataset.SaleRecord) OverviewTotals {
	var t OverviewTotals
	orders := make(map[string]bool)
	customers := make(map[string]bool)
	products := make(map[string]bool)
	for _, r := range rows {
		t.Revenue += r.LineTotal
		t.Units += r.Quantity
		t.Freight += r.Freight
		orders[orderKey(r)] = true
		customers[r.CustomerID] = true
		products[r.ProductID] = true
	}
	t.Orders = len(orders)
	t.Customers = len(customers)
	t.Products = len(products)
	return t
}

func orderKey(r dataset.SaleRecord) string {
	return r.CustomerID + "\x1f" + r.PurchaseDate.Format("2006-01-02")
}

// RevenueSeries buckets revenue by calendar period. Week buckets key on
// (ISO year, week number), month on (year, month), quarter on
// (year, quarter); output is in chronological order.
func RevenueSeries(rows []dataset.SaleRecord, g Granularity) []SeriesPoint {
	type bucket struct {
		sortKey int64
		label   string
	}
	sums := make(map[bucket]float64)
	for _, r := range rows {
		var b bucket
		switch g {
		case ByDay:
			d := r.PurchaseDate
			b = bucket{
				sortKey: int64(d.Year())*10000 + int64(d.Month())*100 + int64(d.Day()),
				label:   d.Format("2006-01-02"),
			}
		case ByWeek:
			b = bucket{
				sortKey: int64(r.ISOYear)*100 + int64(r.ISOWeek),
				label:   fmt.Sprintf("%d-W%d", r.ISOYear, r.ISOWeek),
			}
		case ByMonth:
			b = bucket{
				sortKey: int64(r.Year)*100 + int64(r.Month),
				label:   fmt.Sprintf("%d-%02d", r.Year, r.Month),
			}
		case ByQuarter:
			b = bucket{
				sortKey: int64(r.Year)*10 + int64(r.Quarter),
				label:   fmt.Sprintf("%d-Q%d", r.Year, r.Quarter),
			}
		case ByYear:
			b = bucket{
				sortKey: int64(r.Year),
				label:   fmt.Sprintf("%d", r.Year),
			}
		}
		sums[b] += r.LineTotal
	}
	points := make([]SeriesPoint, 0, len(sums))
	keys := make([]bucket, 0, len(sums))
	for b := range sums {
		keys = append(keys, b)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].sortKey < keys[j].sortKey })
	for _, b := range keys {
		points = append(points, SeriesPoint{Label: b.label, Revenue: sums[b]})
	}
	return points
}
