package report

import (
	"salescope/internal/dataset"
	"salescope/internal/mining"
)

const (
	minSupportFloor   = 0.01
	minSupportCeiling = 0.20
	defaultMinSupport = 0.05
)

type Combination struct {
	Products []string `json:"products"`
	Support  float64  `json:"support"`
	Size     int      `json:"size"`
}

// ClampMinSupport limits the support threshold to the supported
// 0.01..0.20 window; zero means the default.
func ClampMinSupport(s float64) float64 {
	if s == 0 {
		return defaultMinSupport
	}
	if s < minSupportFloor {
		return minSupportFloor
	}
	if s > minSupportCeiling {
		return minSupportCeiling
	}
	return s
}

// Combinations mines frequently co-purchased product sets. One transaction
// is the set of product names bought by one customer on one date; only
// itemsets of more than one product are reported, support descending.
func Combinations(rows []dataset.SaleRecord, minSupport float64) []Combination {
	type txKey struct {
		customer string
		date     string
	}
	baskets := make(map[txKey]map[string]bool)
	for _, r := range rows {
		key := txKey{customer: r.CustomerID, date: r.PurchaseDate.Format("2006-01-02")}
		set, ok := baskets[key]
		if !ok {
			set = make(map[string]bool)
			baskets[key] = set
		}
		set[r.ProductName] = true
	}
	transactions := make([][]string, 0, len(baskets))
	for _, set := range baskets {
		tx := make([]string, 0, len(set))
		for p := range set {
			tx = append(tx, p)
		}
		transactions = append(transactions, tx)
	}

	itemsets := mining.FrequentItemsets(transactions, ClampMinSupport(minSupport))
	out := []Combination{}
	for _, is := range itemsets {
		if len(is.Items) < 2 {
			continue
		}
		out = append(out, Combination{Products: is.Items, Support: is.Support, Size: len(is.Items)})
	}
	return out
}
