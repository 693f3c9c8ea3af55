// Package mining implements level-wise apriori frequent-itemset search
// over string-item transactions. Transactions here are the distinct
// products one customer bought on one date.
package mining

import (
	"sort"
	"strings"
)

// Itemset is a frequent set of items with its support: the fraction of
// transactions containing every item of the set.
type Itemset struct {
	Items   []string `json:"items"`
	Support float64  `json:"support"`
	Count   int      `json:"count"`
}

const sep = "\x1f"

// FrequentItemsets returns every itemset whose support meets minSupport,
// singletons included. Items inside a set are sorted; the result is sorted
// by support descending, ties broken by the joined item label, so output
// is deterministic.
func FrequentItemsets(transactions [][]string, minSupport float64) []Itemset {
	n := len(transactions)
	if n == 0 || minSupport <= 0 {
		return nil
	}

	// Deduplicate items per transaction; containment checks use sets.
	txSets := make([]map[string]bool, n)
	itemCounts := make(map[string]int)
	for i, tx := range transactions {
		set := make(map[string]bool, len(tx))
		for _, item := range tx {
			if item == "" || set[item] {
				continue
			}
			set[item] = true
			itemCounts[item]++
		}
		txSets[i] = set
	}

	meets := func(count int) bool {
		return float64(count)/float64(n) >= minSupport
	}

	var result []Itemset
	// L1: frequent singletons.
	var level [][]string
	for item, count := range itemCounts {
		if meets(count) {
			level = append(level, []string{item})
			result = append(result, Itemset{Items: []string{item}, Support: float64(count) / float64(n), Count: count})
		}
	}
	sortLevel(level)

	// Lk from Lk-1 until no candidates survive.
	for k := 2; len(level) > 0; k++ {
		candidates := generateCandidates(level, k)
		var next [][]string
		for _, cand := range candidates {
			count := 0
			for _, set := range txSets {
				if containsAll(set, cand) {
					count++
				}
			}
			if meets(count) {
				next = append(next, cand)
				items := append([]string(nil), cand...)
				result = append(result, Itemset{Items: items, Support: float64(count) / float64(n), Count: count})
			}
		}
		sortLevel(next)
		level = next
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Support != result[j].Support {
			return result[i].Support > result[j].Support
		}
		return strings.Join(result[i].Items, sep) < strings.Join(result[j].Items, sep)
	})
	return result
}

// generateCandidates joins sorted (k-1)-itemsets sharing a (k-2)-prefix and
// prunes candidates with an infrequent (k-1)-subset.
func generateCandidates(level [][]string, k int) [][]string {
	frequent := make(map[string]bool, len(level))
	for _, set := range level {
		frequent[strings.Join(set, sep)] = true
	}

	var candidates [][]string
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			a, b := level[i], level[j]
			if !samePrefix(a, b, k-2) {
				continue
			}
			cand := make([]string, 0, k)
			cand = append(cand, a...)
			if a[k-2] < b[k-2] {
				cand = append(cand, b[k-2])
			} else {
				cand = append(cand[:k-2], b[k-2], a[k-2])
			}
			if hasInfrequentSubset(cand, frequent) {
				continue
			}
			candidates = append(candidates, cand)
		}
	}
	return candidates
}

func samePrefix(a, b []string, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hasInfrequentSubset(cand []string, frequent map[string]bool) bool {
	sub := make([]string, 0, len(cand)-1)
	for skip := range cand {
		sub = sub[:0]
		for i, item := range cand {
			if i != skip {
				sub = append(sub, item)
			}
		}
		if !frequent[strings.Join(sub, sep)] {
			return true
		}
	}
	return false
}

func containsAll(set map[string]bool, items []string) bool {
	for _, item := range items {
		if !set[item] {
			return false
		}
	}
	return true
}

func sortLevel(level [][]string) {
	for _, set := range level {
		sort.Strings(set)
	}
	sort.Slice(level, func(i, j int) bool {
		return strings.Join(level[i], sep) < strings.Join(level[j], sep)
	})
}
