// Package mining implements market-basket analysis over deck transactions:
// one-hot transaction encoding, level-wise frequent-itemset search (apriori),
// and association-rule generation with the standard metric set.
//
// Metrics, for antecedent A and consequent C over n transactions:
//
//	support     = P(A ∪ C)
//	confidence  = P(A ∪ C) / P(A)
//	lift        = confidence / P(C)
//	leverage    = P(A ∪ C) − P(A)·P(C)
//	conviction  = (1 − P(C)) / (1 − confidence), +Inf at confidence 1
//
// Supports are empirical fractions over the encoded matrix. The apriori
// search relies on downward closure: every subset of a frequent itemset is
// itself frequent, so candidate generation only joins surviving sets.
package mining

import (
	"sort"

	"github.com/spencermt000/clash-royale-apriori/internal/models"
)

// Transaction is one observation's deduplicated set of item labels.
type Transaction []string

// NewTransaction builds a transaction from deck items: empty strings are
// dropped and duplicates collapse to the first occurrence, preserving order.
func NewTransaction(items []string) Transaction {
	seen := make(map[string]struct{}, len(items))
	tx := make(Transaction, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		tx = append(tx, item)
	}
	return tx
}

// WithOutcome returns a copy of the transaction with the synthetic outcome
// label appended: OUTCOME=WIN when winner is 1, OUTCOME=LOSS otherwise.
func (t Transaction) WithOutcome(winner int) Transaction {
	outcome := models.OutcomeLoss
	if winner == 1 {
		outcome = models.OutcomeWin
	}
	out := make(Transaction, len(t), len(t)+1)
	copy(out, t)
	return append(out, outcome)
}

// Matrix is a one-hot item-presence matrix: one boolean column per item in
// the union vocabulary, one row per transaction.
type Matrix struct {
	Columns []string
	index   map[string]int
	cols    [][]bool
	rows    int
}

// Encode one-hot encodes transactions over their union vocabulary.
// Columns are sorted so encoding is deterministic.
func Encode(txs []Transaction) *Matrix {
	vocab := make(map[string]struct{})
	for _, tx := range txs {
		for _, item := range tx {
			vocab[item] = struct{}{}
		}
	}
	columns := make([]string, 0, len(vocab))
	for item := range vocab {
		columns = append(columns, item)
	}
	sort.Strings(columns)

	index := make(map[string]int, len(columns))
	for i, item := range columns {
		index[item] = i
	}

	cols := make([][]bool, len(columns))
	for i := range cols {
		cols[i] = make([]bool, len(txs))
	}
	for row, tx := range txs {
		for _, item := range tx {
			cols[index[item]][row] = true
		}
	}

	return &Matrix{Columns: columns, index: index, cols: cols, rows: len(txs)}
}

// Rows returns the number of encoded transactions.
func (m *Matrix) Rows() int {
	return m.rows
}

// ColumnSupport returns the empirical support of a single item: the mean of
// its one-hot column. The second return is false for unknown items.
func (m *Matrix) ColumnSupport(item string) (float64, bool) {
	i, ok := m.index[item]
	if !ok {
		return 0, false
	}
	return m.supportOf([]int{i}), true
}

// supportOf counts the fraction of rows where every listed column is set.
func (m *Matrix) supportOf(colIdx []int) float64 {
	if m.rows == 0 {
		return 0
	}
	count := 0
rows:
	for row := 0; row < m.rows; row++ {
		for _, i := range colIdx {
			if !m.cols[i][row] {
				continue rows
			}
		}
		count++
	}
	return float64(count) / float64(m.rows)
}
