package report

import (
	"sort"

	"salescope/internal/dataset"
)

const (
	minTopN     = 3
	maxTopN     = 10
	defaultTopN = 6
)

type ProductStat struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Revenue     float64 `json:"revenue"`
	Customers   int     `json:"customers"`
}

// ClampTopN limits the top-N selector to the supported 3..10 window; zero
// means the default.
func ClampTopN(n int) int {
	if n == 0 {
		return defaultTopN
	}
	if n < minTopN {
		return minTopN
	}
	if n > maxTopN {
		return maxTopN
	}
	return n
}

// TopProducts ranks products by revenue and returns the first n.
func TopProducts(rows []dataset.SaleRecord, n int) []ProductStat {
	type acc struct {
		name      string
		quantity  float64
		revenue   float64
		customers map[string]bool
	}
	products := make(map[string]*acc)
	for _, r := range rows {
		a, ok := products[r.ProductID]
		if !ok {
			a = &acc{name: r.ProductName, customers: make(map[string]bool)}
			products[r.ProductID] = a
		}
		a.quantity += r.Quantity
		a.revenue += r.LineTotal
		a.customers[r.CustomerID] = true
	}
	stats := make([]ProductStat, 0, len(products))
	for id, a := range products {
		stats = append(stats, ProductStat{
			ProductID:   id,
			ProductName: a.name,
			Quantity:    a.quantity,
			Revenue:     a.revenue,
			Customers:   len(a.customers),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Revenue != stats[j].Revenue {
			return stats[i].Revenue > stats[j].Revenue
		}
		return stats[i].ProductID < stats[j].ProductID
	})
	n = ClampTopN(n)
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}
