package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spencermt000/clash-royale-apriori/internal/models"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestWriteRulesCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.csv")
	if err := WriteRulesCSV(nil, path); err != nil {
		t.Fatalf("WriteRulesCSV failed: %v", err)
	}
	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("Empty table has %d lines, want header only", len(lines))
	}
	if lines[0] != strings.Join(RuleHeader, ",") {
		t.Errorf("Header = %q", lines[0])
	}
}

func TestWriteRulesCSV(t *testing.T) {
	rules := []models.Rule{
		{
			Antecedents:       models.NewItemset([]string{"zap", "rocket"}, 0.4),
			Consequents:       models.NewItemset([]string{models.OutcomeLoss}, 0.5),
			Support:           0.3,
			Confidence:        1.0,
			Lift:              2.0,
			Leverage:          0.1,
			Conviction:        math.Inf(1),
			AntecedentSupport: 0.4,
			ConsequentSupport: 0.5,
		},
	}
	path := filepath.Join(t.TempDir(), "rules.csv")
	if err := WriteRulesCSV(rules, path); err != nil {
		t.Fatalf("WriteRulesCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("Got %d records, want 2", len(records))
	}
	row := records[1]
	if row[0] != "rocket, zap" {
		t.Errorf("antecedents_str = %q, want alphabetical order", row[0])
	}
	if row[1] != models.OutcomeLoss {
		t.Errorf("consequents_str = %q", row[1])
	}
	if row[6] != "inf" {
		t.Errorf("conviction cell = %q, want \"inf\"", row[6])
	}
}

func TestWriteItemsetsCSV(t *testing.T) {
	itemsets := []models.Itemset{
		models.NewItemset([]string{"knight", "archers"}, 0.25),
	}
	path := filepath.Join(t.TempDir(), "itemsets.csv")
	if err := WriteItemsetsCSV(itemsets, path); err != nil {
		t.Fatalf("WriteItemsetsCSV failed: %v", err)
	}
	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("Got %d lines, want 2", len(lines))
	}
	if lines[1] != `"archers, knight",0.25,2` {
		t.Errorf("Row = %q", lines[1])
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0.5, "0.5"},
		{math.NaN(), ""},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{1.0, "1"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.input); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMergeCSVColumnUnion(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.csv")
	pathB := filepath.Join(dir, "b.csv")
	out := filepath.Join(dir, "master.csv")

	if err := os.WriteFile(pathA, []byte("A,B,C\n1,2,3\n4,5,6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte("B,C,D\n7,8,9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := MergeCSV(pathA, pathB, out); err != nil {
		t.Fatalf("MergeCSV failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(records[0], []string{"A", "B", "C", "D"}) {
		t.Errorf("Header = %v, want union in first-seen order", records[0])
	}
	if len(records) != 4 {
		t.Fatalf("Got %d rows, want header + 3", len(records))
	}
	if !reflect.DeepEqual(records[1], []string{"1", "2", "3", ""}) {
		t.Errorf("Row 1 = %v", records[1])
	}
	if !reflect.DeepEqual(records[3], []string{"", "7", "8", "9"}) {
		t.Errorf("Row 3 = %v", records[3])
	}
}

func TestMergeCSVMissingInput(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(pathA, []byte("A\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := MergeCSV(pathA, filepath.Join(dir, "absent.csv"), filepath.Join(dir, "out.csv"))
	if err == nil {
		t.Error("Expected error for missing input file")
	}
}

func TestPrintTopRules(t *testing.T) {
	rules := []models.Rule{
		{
			Antecedents: models.NewItemset([]string{"zap"}, 0.4),
			Consequents: models.NewItemset([]string{models.OutcomeLoss}, 0.5),
			Support:     0.3, Confidence: 0.75, Lift: 1.5,
		},
		{
			Antecedents: models.NewItemset([]string{"rocket"}, 0.4),
			Consequents: models.NewItemset([]string{models.OutcomeLoss}, 0.5),
			Support:     0.2, Confidence: 0.5, Lift: 1.0,
		},
	}
	var buf bytes.Buffer
	PrintTopRules(&buf, rules, 1, "TOP rules:")
	out := buf.String()
	if !strings.Contains(out, "zap") {
		t.Errorf("Output missing first rule: %q", out)
	}
	if strings.Contains(out, "rocket") {
		t.Errorf("Output includes rule beyond top-N: %q", out)
	}
}

func TestPrintTopItemsetsEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintTopItemsets(&buf, nil, 10, "TOP itemsets:")
	if !strings.Contains(buf.String(), "(no itemsets)") {
		t.Errorf("Empty output = %q", buf.String())
	}
}
