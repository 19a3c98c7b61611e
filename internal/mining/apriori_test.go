package mining

import (
	"math"
	"testing"

	"github.com/spencermt000/clash-royale-apriori/internal/models"
)

func supportOf(t *testing.T, itemsets []models.Itemset, items ...string) float64 {
	t.Helper()
	key := models.NewItemset(items, 0).Key()
	for _, s := range itemsets {
		if s.Key() == key {
			return s.Support
		}
	}
	t.Fatalf("Itemset %v not found", items)
	return 0
}

func TestAprioriSmall(t *testing.T) {
	txs := []Transaction{
		{"a", "b"},
		{"a", "b"},
		{"a", "c"},
		{"a"},
	}
	m := Encode(txs)
	itemsets := Apriori(m, 0.5, 0)

	if got := supportOf(t, itemsets, "a"); got != 1.0 {
		t.Errorf("support(a) = %v, want 1.0", got)
	}
	if got := supportOf(t, itemsets, "b"); got != 0.5 {
		t.Errorf("support(b) = %v, want 0.5", got)
	}
	if got := supportOf(t, itemsets, "a", "b"); got != 0.5 {
		t.Errorf("support(a,b) = %v, want 0.5", got)
	}

	// c has support 0.25, below threshold; nothing containing c survives.
	for _, s := range itemsets {
		for _, item := range s.Items {
			if item == "c" {
				t.Errorf("Infrequent item leaked into %v", s.Items)
			}
		}
	}
}

func TestAprioriMaxLen(t *testing.T) {
	txs := []Transaction{
		{"a", "b", "c"},
		{"a", "b", "c"},
	}
	m := Encode(txs)
	itemsets := Apriori(m, 0.5, 2)
	for _, s := range itemsets {
		if s.Length() > 2 {
			t.Errorf("Itemset %v exceeds max length 2", s.Items)
		}
	}
	// All three pairs are frequent.
	if got := supportOf(t, itemsets, "a", "c"); got != 1.0 {
		t.Errorf("support(a,c) = %v, want 1.0", got)
	}
}

func TestAprioriDownwardClosure(t *testing.T) {
	txs := []Transaction{
		{"a", "b", "c", "d"},
		{"a", "b", "c"},
		{"a", "b"},
		{"d"},
	}
	m := Encode(txs)
	itemsets := Apriori(m, 0.25, 0)

	seen := make(map[string]bool, len(itemsets))
	for _, s := range itemsets {
		seen[s.Key()] = true
	}
	// Every subset of every frequent itemset must itself be present.
	for _, s := range itemsets {
		n := s.Length()
		for mask := 1; mask < (1 << n); mask++ {
			var sub []string
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					sub = append(sub, s.Items[i])
				}
			}
			if !seen[models.NewItemset(sub, 0).Key()] {
				t.Errorf("Subset %v of %v missing from result", sub, s.Items)
			}
		}
	}
}

func TestEnsureSingletons(t *testing.T) {
	txs := []Transaction{
		{"a", "b"},
		{"a", "b"},
		{"a"},
		{"b"},
	}
	m := Encode(txs)

	// Simulate a table that lost its singletons.
	itemsets := []models.Itemset{
		{Items: []string{"a", "b"}, Support: 0.5},
	}
	itemsets = EnsureSingletons(itemsets, m)

	if got := supportOf(t, itemsets, "a"); got != 0.75 {
		t.Errorf("Back-filled support(a) = %v, want 0.75", got)
	}
	if got := supportOf(t, itemsets, "b"); got != 0.75 {
		t.Errorf("Back-filled support(b) = %v, want 0.75", got)
	}

	// Idempotent: nothing new when singletons already exist.
	before := len(itemsets)
	itemsets = EnsureSingletons(itemsets, m)
	if len(itemsets) != before {
		t.Errorf("EnsureSingletons added %d entries on second pass", len(itemsets)-before)
	}
}

func TestEnsureSingletonsAfterApriori(t *testing.T) {
	txs := []Transaction{
		{"a", "b", "c"},
		{"a", "b"},
		{"c"},
	}
	m := Encode(txs)
	itemsets := Apriori(m, 0.3, 3)
	itemsets = EnsureSingletons(itemsets, m)

	singles := make(map[string]bool)
	for _, s := range itemsets {
		if s.Length() == 1 {
			singles[s.Items[0]] = true
		}
	}
	for _, s := range itemsets {
		if s.Length() < 2 {
			continue
		}
		for _, item := range s.Items {
			if !singles[item] {
				t.Errorf("Item %q of %v has no singleton entry", item, s.Items)
			}
		}
	}
}

func TestFilterLength(t *testing.T) {
	itemsets := []models.Itemset{
		{Items: []string{"a"}, Support: 0.9},
		{Items: []string{"a", "b"}, Support: 0.5},
		{Items: []string{"a", "b", "c"}, Support: 0.3},
	}
	got := FilterLength(itemsets, 2, 2)
	if len(got) != 1 || got[0].Length() != 2 {
		t.Errorf("FilterLength = %v", got)
	}
}

func TestSortItemsets(t *testing.T) {
	itemsets := []models.Itemset{
		{Items: []string{"a"}, Support: 0.9},
		{Items: []string{"b", "c"}, Support: 0.3},
		{Items: []string{"a", "b"}, Support: 0.5},
	}
	SortItemsets(itemsets)
	if itemsets[0].Length() != 2 || itemsets[0].Support != 0.5 {
		t.Errorf("First itemset = %+v, want the length-2 set with higher support", itemsets[0])
	}
	if itemsets[2].Length() != 1 {
		t.Errorf("Last itemset = %+v, want the singleton", itemsets[2])
	}
	if math.IsNaN(itemsets[0].Support) {
		t.Error("Unexpected NaN support")
	}
}
