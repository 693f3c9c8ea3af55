package mining

import (
	"strings"
	"testing"
)

var corpus = [][]string{
	{"beans", "milk"},
	{"beans", "milk", "cocoa"},
	{"beans", "filter"},
	{"milk", "cocoa"},
	{"beans", "milk"},
}

func find(sets []Itemset, items ...string) (Itemset, bool) {
	want := strings.Join(items, sep)
	for _, is := range sets {
		if strings.Join(is.Items, sep) == want {
			return is, true
		}
	}
	return Itemset{}, false
}

func TestFrequentItemsetsSupports(t *testing.T) {
	sets := FrequentItemsets(corpus, 0.4)

	beans, ok := find(sets, "beans")
	if !ok || beans.Count != 4 || beans.Support != 0.8 {
		t.Fatalf("beans: got %+v ok=%v, want count 4 support 0.8", beans, ok)
	}
	pair, ok := find(sets, "beans", "milk")
	if !ok || pair.Count != 3 {
		t.Fatalf("beans+milk: got %+v ok=%v, want count 3", pair, ok)
	}
	// cocoa appears twice (0.4): in, but beans+cocoa appears once (0.2): out.
	if _, ok := find(sets, "cocoa"); !ok {
		t.Fatalf("cocoa at exact threshold should be frequent")
	}
	if _, ok := find(sets, "beans", "cocoa"); ok {
		t.Fatalf("beans+cocoa below threshold should be absent")
	}
}

func TestFrequentItemsetsSortedBySupport(t *testing.T) {
	sets := FrequentItemsets(corpus, 0.2)
	for i := 1; i < len(sets); i++ {
		if sets[i].Support > sets[i-1].Support {
			t.Fatalf("sets not sorted by support: %v before %v", sets[i-1], sets[i])
		}
	}
}

func TestLoweringThresholdNeverShrinksResult(t *testing.T) {
	prev := -1
	for _, minSupport := range []float64{0.20, 0.15, 0.10, 0.05, 0.01} {
		n := len(FrequentItemsets(corpus, minSupport))
		if prev >= 0 && n < prev {
			t.Fatalf("min_support %.2f returned %d itemsets, fewer than %d at the higher threshold", minSupport, n, prev)
		}
		prev = n
	}
}

func TestEmptyTransactions(t *testing.T) {
	if got := FrequentItemsets(nil, 0.1); got != nil {
		t.Fatalf("nil transactions: got %v", got)
	}
}
