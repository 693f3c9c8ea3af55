package report

import (
	"sort"
	"time"

	"salescope/internal/dataset"
)

// Order is one distinct purchase date of a customer with the product set
// bought on it.
type Order struct {
	Date     time.Time `json:"date"`
	Products []string  `json:"products"`
	Revenue  float64   `json:"revenue"`
}

// OrderDiff compares one order with the previous one of the same customer.
type OrderDiff struct {
	Date         time.Time `json:"date"`
	IntervalDays int       `json:"interval_days"`
	Products     []string  `json:"products"`
	Previous     []string  `json:"previous"`
	Added        []string  `json:"added"`
	Dropped      []string  `json:"dropped"`
	Unchanged    []string  `json:"unchanged"`
}

type BehaviorReport struct {
	Customer         string      `json:"customer"`
	Orders           []Order     `json:"orders"`
	Comparisons      []OrderDiff `json:"comparisons"`
	NotEnoughHistory bool        `json:"not_enough_history"`
}

// Behavior drills into one customer, selected by name: order history,
// intervals between consecutive distinct purchase dates, and set
// differences between consecutive product baskets. A customer with fewer
// than two orders gets a not-enough-history notice, not an error; the
// first order of a customer has no comparison row.
func Behavior(rows []dataset.SaleRecord, customerName string) BehaviorReport {
	rep := BehaviorReport{Customer: customerName}

	byDate := make(map[string]*Order)
	productSets := make(map[string]map[string]bool)
	for _, r := range rows {
		if r.CustomerName != customerName {
			continue
		}
		key := r.PurchaseDate.Format("2006-01-02")
		o, ok := byDate[key]
		if !ok {
			o = &Order{Date: dayOf(r.PurchaseDate)}
			byDate[key] = o
			productSets[key] = make(map[string]bool)
		}
		o.Revenue += r.LineTotal
		if !productSets[key][r.ProductName] {
			productSets[key][r.ProductName] = true
			o.Products = append(o.Products, r.ProductName)
		}
	}

	for _, o := range byDate {
		sort.Strings(o.Products)
		rep.Orders = append(rep.Orders, *o)
	}
	sort.Slice(rep.Orders, func(i, j int) bool { return rep.Orders[i].Date.Before(rep.Orders[j].Date) })

	if len(rep.Orders) < 2 {
		rep.NotEnoughHistory = true
		return rep
	}

	for i := 1; i < len(rep.Orders); i++ {
		cur, prev := rep.Orders[i], rep.Orders[i-1]
		curSet := toSet(cur.Products)
		prevSet := toSet(prev.Products)
		rep.Comparisons = append(rep.Comparisons, OrderDiff{
			Date:         cur.Date,
			IntervalDays: int(cur.Date.Sub(prev.Date).Hours() / 24),
			Products:     cur.Products,
			Previous:     prev.Products,
			Added:        sortedDiff(curSet, prevSet),
			Dropped:      sortedDiff(prevSet, curSet),
			Unchanged:    sortedIntersect(curSet, prevSet),
		})
	}
	return rep
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}

func sortedDiff(a, b map[string]bool) []string {
	out := []string{}
	for s := range a {
		if !b[s] {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func sortedIntersect(a, b map[string]bool) []string {
	out := []string{}
	for s := range a {
		if b[s] {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
