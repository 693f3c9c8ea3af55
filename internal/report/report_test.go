package report

import (
	"math"
	"reflect"
	"testing"
	"time"

	"salescope/internal/dataset"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func row(customer, product, region, date string, total float64) dataset.SaleRecord {
	return dataset.SaleRecord{
		CustomerID:   customer,
		CustomerName: customer,
		ProductID:    product,
		ProductName:  product,
		Region:       region,
		PurchaseDate: day(date),
		Quantity:     1,
		Freight:      1,
		LineTotal:    total,
	}
}

func fixture() []dataset.SaleRecord {
	rows := []dataset.SaleRecord{
		row("C1", "A", "North", "2024-01-08", 100),
		row("C1", "B", "North", "2024-01-08", 50),
		row("C1", "B", "North", "2024-02-12", 60),
		row("C1", "C", "North", "2024-02-12", 40),
		row("C2", "A", "South", "2024-01-15", 200),
		row("C3", "C", "South", "2024-04-01", 30),
	}
	return dataset.Normalize(rows)
}

func TestOverviewTotals(t *testing.T) {
	totals := Overview(fixture())
	if totals.Revenue != 480 {
		t.Fatalf("revenue %v, want 480", totals.Revenue)
	}
	if totals.Orders != 4 {
		t.Fatalf("orders %d, want 4 distinct (customer, date) pairs", totals.Orders)
	}
	if totals.Customers != 3 || totals.Products != 3 {
		t.Fatalf("distinct counts wrong: %+v", totals)
	}
	if totals.Units != 6 || totals.Freight != 6 {
		t.Fatalf("sums wrong: %+v", totals)
	}
}

// Sum of per-region revenue must equal total revenue for the same
// filtered range.
func TestGeographyAdditivity(t *testing.T) {
	rows := fixture()
	start, end := day("2024-01-01"), day("2024-02-29")
	filtered := dataset.FilterRange(rows, start, end)

	var regionSum float64
	for _, g := range Geography(filtered) {
		regionSum += g.Revenue
	}
	if total := Overview(filtered).Revenue; math.Abs(regionSum-total) > 1e-9 {
		t.Fatalf("region revenue %v != overview revenue %v", regionSum, total)
	}
}

func TestRevenueSeriesLabels(t *testing.T) {
	rows := fixture()

	monthly := RevenueSeries(rows, ByMonth)
	wantLabels := []string{"2024-01", "2024-02", "2024-04"}
	var labels []string
	for _, p := range monthly {
		labels = append(labels, p.Label)
	}
	if !reflect.DeepEqual(labels, wantLabels) {
		t.Fatalf("monthly labels %v, want %v", labels, wantLabels)
	}
	if monthly[0].Revenue != 350 {
		t.Fatalf("january revenue %v, want 350", monthly[0].Revenue)
	}

	quarterly := RevenueSeries(rows, ByQuarter)
	if quarterly[0].Label != "2024-Q1" || quarterly[1].Label != "2024-Q2" {
		t.Fatalf("quarter labels: %v", quarterly)
	}

	weekly := RevenueSeries(rows, ByWeek)
	if weekly[0].Label != "2024-W2" {
		t.Fatalf("first week label %q, want 2024-W2", weekly[0].Label)
	}

	yearly := RevenueSeries(rows, ByYear)
	if len(yearly) != 1 || yearly[0].Revenue != 480 {
		t.Fatalf("yearly series: %v", yearly)
	}
}

func TestBehaviorDiff(t *testing.T) {
	rep := Behavior(fixture(), "C1")
	if rep.NotEnoughHistory {
		t.Fatalf("C1 has two orders, not_enough_history should be false")
	}
	if len(rep.Comparisons) != 1 {
		t.Fatalf("got %d comparisons, want 1 (first order has none)", len(rep.Comparisons))
	}
	diff := rep.Comparisons[0]
	// O1={A,B}, O2={B,C}: added {C}, dropped {A}, unchanged {B}.
	if !reflect.DeepEqual(diff.Added, []string{"C"}) {
		t.Fatalf("added %v, want [C]", diff.Added)
	}
	if !reflect.DeepEqual(diff.Dropped, []string{"A"}) {
		t.Fatalf("dropped %v, want [A]", diff.Dropped)
	}
	if !reflect.DeepEqual(diff.Unchanged, []string{"B"}) {
		t.Fatalf("unchanged %v, want [B]", diff.Unchanged)
	}
	if diff.IntervalDays != 35 {
		t.Fatalf("interval %d days, want 35", diff.IntervalDays)
	}
}

func TestBehaviorNotEnoughHistory(t *testing.T) {
	rep := Behavior(fixture(), "C2")
	if !rep.NotEnoughHistory {
		t.Fatalf("single-order customer must report not_enough_history")
	}
	if len(rep.Comparisons) != 0 {
		t.Fatalf("no comparisons expected, got %v", rep.Comparisons)
	}

	// Unknown customer: same notice, no error.
	rep = Behavior(fixture(), "no such customer")
	if !rep.NotEnoughHistory || len(rep.Orders) != 0 {
		t.Fatalf("unknown customer: %+v", rep)
	}
}

func TestTopProducts(t *testing.T) {
	stats := TopProducts(fixture(), 3)
	if len(stats) != 3 {
		t.Fatalf("got %d products, want 3", len(stats))
	}
	if stats[0].ProductID != "A" || stats[0].Revenue != 300 {
		t.Fatalf("top product: %+v", stats[0])
	}
	if stats[0].Customers != 2 {
		t.Fatalf("product A purchasing customers %d, want 2", stats[0].Customers)
	}
}

func TestClampTopN(t *testing.T) {
	cases := map[int]int{0: 6, 1: 3, 3: 3, 7: 7, 10: 10, 25: 10}
	for in, want := range cases {
		if got := ClampTopN(in); got != want {
			t.Errorf("ClampTopN(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRepeatTiersPartition(t *testing.T) {
	rows := fixture()
	tiers := RepeatTiers(rows)
	if len(tiers) != 4 {
		t.Fatalf("got %d tiers, want 4", len(tiers))
	}
	// C1 has 2 distinct dates, C2 and C3 one each.
	want := map[string]int{"1": 2, "2-3": 1, "4-5": 0, ">5": 0}
	sum := 0
	for _, tier := range tiers {
		if tier.Customers != want[tier.Tier] {
			t.Errorf("tier %q = %d, want %d", tier.Tier, tier.Customers, want[tier.Tier])
		}
		sum += tier.Customers
	}
	if sum != 3 {
		t.Fatalf("tiers must partition all %d customers, summed %d", 3, sum)
	}
}

func TestTierIndexBoundaries(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 3: 1, 4: 2, 5: 2, 6: 3, 12: 3}
	for purchases, want := range cases {
		if got := tierIndex(purchases); got != want {
			t.Errorf("tierIndex(%d) = %d, want %d", purchases, got, want)
		}
	}
}

func TestCombinationsExcludeSingletons(t *testing.T) {
	combos := Combinations(fixture(), 0.01)
	if len(combos) == 0 {
		t.Fatalf("expected at least one combination at the lowest threshold")
	}
	for _, c := range combos {
		if c.Size < 2 || len(c.Products) < 2 {
			t.Fatalf("singleton leaked into combinations: %+v", c)
		}
	}
}

func TestClampMinSupport(t *testing.T) {
	cases := map[float64]float64{0: 0.05, 0.001: 0.01, 0.01: 0.01, 0.1: 0.1, 0.5: 0.2}
	for in, want := range cases {
		if got := ClampMinSupport(in); got != want {
			t.Errorf("ClampMinSupport(%v) = %v, want %v", in, got, want)
		}
	}
}
