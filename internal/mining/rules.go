package mining

import (
	"math"
	"sort"

	"github.com/spencermt000/clash-royale-apriori/internal/models"
)

// GenerateRules derives association rules from a frequent-itemset table at
// the given minimum confidence. Every non-empty proper subset of each
// itemset of length >= 2 is tried as an antecedent, with the complement as
// consequent. Antecedent and consequent supports are resolved from the
// itemset table itself; an itemset with no table entry yields NaN supports
// and the split is skipped, since confidence cannot be computed without it.
func GenerateRules(itemsets []models.Itemset, minConfidence float64) []models.Rule {
	supports := supportTable(itemsets)

	var rules []models.Rule
	for _, s := range itemsets {
		n := s.Length()
		if n < 2 {
			continue
		}
		// Enumerate proper non-empty subsets by bitmask. Cardinality is
		// capped by the miner's max_cardinality, so masks stay small.
		for mask := 1; mask < (1<<n)-1; mask++ {
			ant := make([]string, 0, n-1)
			cons := make([]string, 0, n-1)
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					ant = append(ant, s.Items[i])
				} else {
					cons = append(cons, s.Items[i])
				}
			}

			antSup, ok := supports[models.Itemset{Items: ant}.Key()]
			if !ok || antSup == 0 {
				continue
			}
			consSup, ok := supports[models.Itemset{Items: cons}.Key()]
			if !ok {
				consSup = math.NaN()
			}

			confidence := s.Support / antSup
			if confidence < minConfidence {
				continue
			}

			rules = append(rules, models.Rule{
				Antecedents:       models.Itemset{Items: ant, Support: antSup},
				Consequents:       models.Itemset{Items: cons, Support: consSup},
				Support:           s.Support,
				Confidence:        confidence,
				Lift:              confidence / consSup,
				Leverage:          s.Support - antSup*consSup,
				Conviction:        conviction(consSup, confidence),
				AntecedentSupport: antSup,
				ConsequentSupport: consSup,
			})
		}
	}
	return rules
}

// conviction is (1 - consequent support) / (1 - confidence); a confidence of
// exactly 1 yields +Inf, matching the conventional definition.
func conviction(consSup, confidence float64) float64 {
	if confidence == 1 {
		return math.Inf(1)
	}
	return (1 - consSup) / (1 - confidence)
}

// supportTable maps canonical itemset keys to supports. Itemset items are
// already sorted, so keys are stable.
func supportTable(itemsets []models.Itemset) map[string]float64 {
	table := make(map[string]float64, len(itemsets))
	for _, s := range itemsets {
		table[s.Key()] = s.Support
	}
	return table
}

// FilterConsequent keeps only rules whose consequent is the exact singleton
// set {target}. This is how a pipeline pins its prediction target.
func FilterConsequent(rules []models.Rule, target string) []models.Rule {
	var out []models.Rule
	for _, r := range rules {
		if r.Consequents.Length() == 1 && r.Consequents.Items[0] == target {
			out = append(out, r)
		}
	}
	return out
}

// FilterAntecedentLength keeps rules whose antecedent length, plus one for
// the consequent, falls within the configured cardinality window:
// min_ant = max(1, minCardinality-1), max_ant = max(1, maxCardinality-1).
func FilterAntecedentLength(rules []models.Rule, minCardinality, maxCardinality int) []models.Rule {
	minAnt := max(1, minCardinality-1)
	maxAnt := max(1, maxCardinality-1)
	var out []models.Rule
	for _, r := range rules {
		n := r.Antecedents.Length()
		if n >= minAnt && n <= maxAnt {
			out = append(out, r)
		}
	}
	return out
}

// FilterLift keeps rules at or above the minimum lift.
func FilterLift(rules []models.Rule, minLift float64) []models.Rule {
	var out []models.Rule
	for _, r := range rules {
		if r.Lift >= minLift {
			out = append(out, r)
		}
	}
	return out
}

// SortRules orders rules by (lift, confidence, support) descending, with the
// antecedent label as a deterministic tiebreak.
func SortRules(rules []models.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Lift != rules[j].Lift {
			return rules[i].Lift > rules[j].Lift
		}
		if rules[i].Confidence != rules[j].Confidence {
			return rules[i].Confidence > rules[j].Confidence
		}
		if rules[i].Support != rules[j].Support {
			return rules[i].Support > rules[j].Support
		}
		return rules[i].Antecedents.Label() < rules[j].Antecedents.Label()
	})
}
