package models

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"
)

// Itemset is a set of items with its empirical support. Items are kept
// sorted so two itemsets over the same items compare and key identically.
type Itemset struct {
	Items   []string
	Support float64
}

// NewItemset copies and sorts items into a canonical Itemset.
func NewItemset(items []string, support float64) Itemset {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return Itemset{Items: sorted, Support: support}
}

// Length returns the itemset cardinality.
func (s Itemset) Length() int {
	return len(s.Items)
}

// Key returns a canonical string key for support-table lookups.
// Item labels never contain the unit separator.
func (s Itemset) Key() string {
	return strings.Join(s.Items, "\x1f")
}

// Label returns the human-readable, alphabetically sorted item list.
func (s Itemset) Label() string {
	return strings.Join(s.Items, ", ")
}

// Validate checks that all itemset fields are valid.
func (s Itemset) Validate() error {
	if len(s.Items) == 0 {
		return errors.New("itemset must not be empty")
	}
	for _, item := range s.Items {
		if item == "" {
			return errors.New("itemset items must not be empty strings")
		}
	}
	if !sort.StringsAreSorted(s.Items) {
		return errors.New("itemset items must be sorted")
	}
	if s.Support < 0.0 || s.Support > 1.0 {
		return errors.New("support must be between 0.0 and 1.0")
	}
	return nil
}

// Rule is one association rule: antecedent ⇒ consequent with its metrics.
// Rules are generated transiently per mining run and only persisted as
// CSV rows (or optionally in the results store).
type Rule struct {
	Antecedents Itemset
	Consequents Itemset

	Support           float64
	Confidence        float64
	Lift              float64
	Leverage          float64
	Conviction        float64 // +Inf when confidence is 1
	AntecedentSupport float64 // NaN when the itemset table has no entry
	ConsequentSupport float64 // NaN when the itemset table has no entry
}

// Validate checks that all rule fields are valid.
func (r *Rule) Validate() error {
	if err := r.Antecedents.Validate(); err != nil {
		return err
	}
	if err := r.Consequents.Validate(); err != nil {
		return err
	}
	if r.Support < 0.0 || r.Support > 1.0 {
		return errors.New("rule support must be between 0.0 and 1.0")
	}
	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		return errors.New("confidence must be between 0.0 and 1.0")
	}
	if r.Lift < 0.0 {
		return errors.New("lift must not be negative")
	}
	if !math.IsNaN(r.AntecedentSupport) && (r.AntecedentSupport < 0.0 || r.AntecedentSupport > 1.0) {
		return errors.New("antecedent support must be between 0.0 and 1.0")
	}
	if !math.IsNaN(r.ConsequentSupport) && (r.ConsequentSupport < 0.0 || r.ConsequentSupport > 1.0) {
		return errors.New("consequent support must be between 0.0 and 1.0")
	}
	return nil
}

// MiningRun records one rule-mining invocation for the optional results store
// and the run-summary notification.
type MiningRun struct {
	ID            string
	InputCSV      string
	MinSupport    float64
	MinConfidence float64
	MinLift       float64
	Transactions  int
	RuleCount     int
	ItemsetCount  int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Validate checks that all run fields are valid.
func (m *MiningRun) Validate() error {
	if m.ID == "" {
		return errors.New("run ID must not be empty")
	}
	if m.InputCSV == "" {
		return errors.New("run input CSV must not be empty")
	}
	if m.Transactions < 0 || m.RuleCount < 0 || m.ItemsetCount < 0 {
		return errors.New("run counts must not be negative")
	}
	if m.FinishedAt.Before(m.StartedAt) {
		return errors.New("finished at must not precede started at")
	}
	return nil
}
