package report

import (
	"sort"

	"salescope/internal/dataset"
)

type RegionStat struct {
	Region    string  `json:"region"`
	Revenue   float64 `json:"revenue"`
	Customers int     `json:"customers"`
	Products  int     `json:"products"`
}

// Geography aggregates revenue and distinct customer/product counts per
// region, highest revenue first.
func Geography(rows []dataset.SaleRecord) []RegionStat {
	type acc struct {
		revenue   float64
		customers map[string]bool
		products  map[string]bool
	}
	regions := make(map[string]*acc)
	for _, r := range rows {
		a, ok := regions[r.Region]
		if !ok {
			a = &acc{customers: make(map[string]bool), products: make(map[string]bool)}
			regions[r.Region] = a
		}
		a.revenue += r.LineTotal
		a.customers[r.CustomerID] = true
		a.products[r.ProductID] = true
	}
	out := make([]RegionStat, 0, len(regions))
	for region, a := range regions {
		out = append(out, RegionStat{
			Region:    region,
			Revenue:   a.revenue,
			Customers: len(a.customers),
			Products:  len(a.products),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Region < out[j].Region
	})
	return out
}
