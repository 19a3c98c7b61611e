// Package report writes mining results as CSV tables and prints ranked
// top-N summaries to the console. Empty result sets still produce a valid
// header-only CSV so downstream consumers always find the expected schema.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spencermt000/clash-royale-apriori/internal/models"
)

// RuleHeader is the fixed column layout of a rule table.
var RuleHeader = []string{
	"antecedents_str", "consequents_str",
	"support", "confidence", "lift", "leverage", "conviction",
	"antecedent_support", "consequent_support",
}

// ItemsetHeader is the fixed column layout of a frequent-itemset table.
var ItemsetHeader = []string{"items_str", "support", "length"}

// WriteRulesCSV writes rules in the fixed column layout.
func WriteRulesCSV(rules []models.Rule, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(RuleHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rules {
		record := []string{
			r.Antecedents.Label(),
			r.Consequents.Label(),
			FormatFloat(r.Support),
			FormatFloat(r.Confidence),
			FormatFloat(r.Lift),
			FormatFloat(r.Leverage),
			FormatFloat(r.Conviction),
			FormatFloat(r.AntecedentSupport),
			FormatFloat(r.ConsequentSupport),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteItemsetsCSV writes frequent itemsets in the fixed column layout.
func WriteItemsetsCSV(itemsets []models.Itemset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ItemsetHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range itemsets {
		record := []string{
			s.Label(),
			FormatFloat(s.Support),
			strconv.Itoa(s.Length()),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// FormatFloat renders a metric cell: NaN is an empty cell, infinities render
// as "inf"/"-inf" so rule tables with confidence-1 convictions stay readable.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// PrintTopRules prints the first top rules as an aligned table.
func PrintTopRules(w io.Writer, rules []models.Rule, top int, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", 100))
	fmt.Fprintf(w, "%-48s %-14s %8s %8s %8s\n", "Antecedents", "Consequents", "Supp", "Conf", "Lift")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i := 0; i < top && i < len(rules); i++ {
		r := rules[i]
		fmt.Fprintf(w, "%-48s %-14s %8.4f %8.4f %8.3f\n",
			truncate(r.Antecedents.Label(), 48),
			truncate(r.Consequents.Label(), 14),
			r.Support, r.Confidence, r.Lift)
	}
	if len(rules) == 0 {
		fmt.Fprintln(w, "(no rules)")
	}
}

// PrintTopItemsets prints the first top itemsets as an aligned table.
func PrintTopItemsets(w io.Writer, itemsets []models.Itemset, top int, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "%-60s %8s %6s\n", "Items", "Supp", "Len")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i := 0; i < top && i < len(itemsets); i++ {
		s := itemsets[i]
		fmt.Fprintf(w, "%-60s %8.4f %6d\n", truncate(s.Label(), 60), s.Support, s.Length())
	}
	if len(itemsets) == 0 {
		fmt.Fprintln(w, "(no itemsets)")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// MergeCSV concatenates two CSV tables row-wise into out, preserving the
// union of their columns in first-seen order. Cells absent from a source
// table are left empty. No deduplication, no schema validation.
func MergeCSV(pathA, pathB, out string) error {
	headerA, rowsA, err := readTable(pathA)
	if err != nil {
		return err
	}
	headerB, rowsB, err := readTable(pathB)
	if err != nil {
		return err
	}

	columns := append([]string{}, headerA...)
	seen := make(map[string]bool, len(headerA))
	for _, c := range headerA {
		seen[c] = true
	}
	for _, c := range headerB {
		if !seen[c] {
			seen[c] = true
			columns = append(columns, c)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	writeRows := func(header []string, rows [][]string) error {
		idx := make(map[string]int, len(header))
		for i, c := range header {
			idx[c] = i
		}
		for _, row := range rows {
			record := make([]string, len(columns))
			for i, c := range columns {
				if j, ok := idx[c]; ok && j < len(row) {
					record[i] = row[j]
				}
			}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
		return nil
	}
	if err := writeRows(headerA, rowsA); err != nil {
		return err
	}
	if err := writeRows(headerB, rowsB); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func readTable(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows = append(rows, record)
	}
	return header, rows, nil
}
