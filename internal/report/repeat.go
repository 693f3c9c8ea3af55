package report

import "salescope/internal/dataset"

// Repeat-purchase tiers, keyed by the number of distinct purchase dates of
// a customer. The tiers partition customers exhaustively and disjointly.
var tierLabels = []string{"1", "2-3", "4-5", ">5"}

type TierCount struct {
	Tier      string `json:"tier"`
	Customers int    `json:"customers"`
}

func tierIndex(purchases int) int {
	switch {
	case purchases <= 1:
		return 0
	case purchases <= 3:
		return 1
	case purchases <= 5:
		return 2
	default:
		return 3
	}
}

// RepeatTiers counts distinct purchase dates per customer and reports the
// tier distribution. Tiers with no customers are still present so the
// distribution always shows all four.
func RepeatTiers(rows []dataset.SaleRecord) []TierCount {
	dates := make(map[string]map[string]bool)
	for _, r := range rows {
		set, ok := dates[r.CustomerID]
		if !ok {
			set = make(map[string]bool)
			dates[r.CustomerID] = set
		}
		set[r.PurchaseDate.Format("2006-01-02")] = true
	}
	counts := make([]int, len(tierLabels))
	for _, set := range dates {
		counts[tierIndex(len(set))]++
	}
	out := make([]TierCount, len(tierLabels))
	for i, label := range tierLabels {
		out[i] = TierCount{Tier: label, Customers: counts[i]}
	}
	return out
}
