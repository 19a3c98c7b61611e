package mining

import (
	"sort"
	"strconv"

	"github.com/spencermt000/clash-royale-apriori/internal/models"
)

// Apriori mines frequent itemsets from a one-hot matrix at the given minimum
// support. maxLen caps itemset cardinality; maxLen <= 0 means uncapped.
// Itemsets are returned level by level (all singletons, then pairs, ...),
// with items sorted within each set.
func Apriori(m *Matrix, minSupport float64, maxLen int) []models.Itemset {
	var result []models.Itemset

	// Level 1: frequent single columns.
	var level [][]int
	for i, item := range m.Columns {
		sup := m.supportOf([]int{i})
		if sup >= minSupport {
			level = append(level, []int{i})
			result = append(result, models.Itemset{Items: []string{item}, Support: sup})
		}
	}

	k := 1
	for len(level) > 0 && (maxLen <= 0 || k < maxLen) {
		frequent := make(map[string]bool, len(level))
		for _, idx := range level {
			frequent[idxKey(idx)] = true
		}

		var next [][]int
		// Join step: two frequent k-sets sharing their first k-1 elements
		// produce one (k+1)-candidate. Index slices are kept sorted, so
		// the join is a prefix compare.
		for a := 0; a < len(level); a++ {
			for b := a + 1; b < len(level); b++ {
				joined, ok := join(level[a], level[b])
				if !ok {
					continue
				}
				// Prune step: every k-subset must itself be frequent.
				if !allSubsetsFrequent(joined, frequent) {
					continue
				}
				sup := m.supportOf(joined)
				if sup < minSupport {
					continue
				}
				next = append(next, joined)
				items := make([]string, len(joined))
				for i, col := range joined {
					items[i] = m.Columns[col]
				}
				result = append(result, models.Itemset{Items: items, Support: sup})
			}
		}
		level = next
		k++
	}

	return result
}

// EnsureSingletons back-fills a singleton itemset, with support taken from
// the one-hot column mean, for every item that appears in a multi-item
// itemset but has no singleton entry of its own. Rule generation needs those
// supports to resolve antecedents and consequents.
func EnsureSingletons(itemsets []models.Itemset, m *Matrix) []models.Itemset {
	existing := make(map[string]bool)
	inSets := make(map[string]bool)
	for _, s := range itemsets {
		if s.Length() == 1 {
			existing[s.Items[0]] = true
			continue
		}
		for _, item := range s.Items {
			inSets[item] = true
		}
	}

	var missing []string
	for item := range inSets {
		if !existing[item] {
			missing = append(missing, item)
		}
	}
	sort.Strings(missing)

	for _, item := range missing {
		sup, ok := m.ColumnSupport(item)
		if !ok {
			continue
		}
		itemsets = append(itemsets, models.Itemset{Items: []string{item}, Support: sup})
	}
	return itemsets
}

// FilterLength keeps itemsets whose cardinality falls within [minLen, maxLen].
func FilterLength(itemsets []models.Itemset, minLen, maxLen int) []models.Itemset {
	var out []models.Itemset
	for _, s := range itemsets {
		if s.Length() >= minLen && s.Length() <= maxLen {
			out = append(out, s)
		}
	}
	return out
}

// SortItemsets orders itemsets by (length, support) descending, with the
// label as a deterministic tiebreak.
func SortItemsets(itemsets []models.Itemset) {
	sort.SliceStable(itemsets, func(i, j int) bool {
		if itemsets[i].Length() != itemsets[j].Length() {
			return itemsets[i].Length() > itemsets[j].Length()
		}
		if itemsets[i].Support != itemsets[j].Support {
			return itemsets[i].Support > itemsets[j].Support
		}
		return itemsets[i].Label() < itemsets[j].Label()
	})
}

// join merges two sorted k-sets sharing their first k-1 elements.
func join(a, b []int) ([]int, bool) {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return nil, false
		}
	}
	last, blast := a[len(a)-1], b[len(b)-1]
	if last >= blast {
		return nil, false
	}
	joined := make([]int, len(a)+1)
	copy(joined, a)
	joined[len(a)] = blast
	return joined, true
}

// allSubsetsFrequent checks downward closure for a candidate: every subset
// obtained by dropping one element must be in the frequent set.
func allSubsetsFrequent(candidate []int, frequent map[string]bool) bool {
	sub := make([]int, 0, len(candidate)-1)
	for drop := range candidate {
		sub = sub[:0]
		for i, v := range candidate {
			if i != drop {
				sub = append(sub, v)
			}
		}
		if !frequent[idxKey(sub)] {
			return false
		}
	}
	return true
}

func idxKey(idx []int) string {
	key := make([]byte, 0, len(idx)*3)
	for _, v := range idx {
		key = strconv.AppendInt(key, int64(v), 10)
		key = append(key, ',')
	}
	return string(key)
}
