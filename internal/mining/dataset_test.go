package mining

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDeckRows(t *testing.T) {
	path := writeCSV(t, `battle_id,player_deck,winner
b1,"['zap', 'rocket']",1
b1,"['knight', 'archers']",0
b2,"bare, comma, split",
`)
	rows, err := LoadDeckRows(path)
	if err != nil {
		t.Fatalf("LoadDeckRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Got %d rows, want 3", len(rows))
	}
	if !reflect.DeepEqual(rows[0].Deck, []string{"zap", "rocket"}) || rows[0].Winner != 1 {
		t.Errorf("Row 0 = %+v", rows[0])
	}
	if rows[1].Winner != 0 {
		t.Errorf("Row 1 winner = %d, want 0", rows[1].Winner)
	}
	// Fallback split plus empty winner treated as 0.
	if !reflect.DeepEqual(rows[2].Deck, []string{"bare", "comma", "split"}) || rows[2].Winner != 0 {
		t.Errorf("Row 2 = %+v", rows[2])
	}
}

func TestLoadDeckRowsMissingColumns(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no winner", "battle_id,player_deck\n"},
		{"no deck", "battle_id,winner\n"},
		{"neither", "battle_id\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.header)
			if _, err := LoadDeckRows(path); err == nil {
				t.Error("Expected error for missing required columns")
			}
		})
	}
}

func TestParseDeckCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"list literal", "['a', 'b']", []string{"a", "b"}},
		{"tuple literal", "('a', 'b')", []string{"a", "b"}},
		{"comma fallback", "a, b, c", []string{"a", "b", "c"}},
		{"bracketed fallback", "[a, b, c]", []string{"a", "b", "c"}},
		{"quoted fallback", "'a', \"b\"", []string{"a", "b"}},
		{"empty", "", nil},
		{"whitespace", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDeckCell(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDeckCell(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Parsing a serialized deck and re-serializing it is a fixed point.
func TestParseDeckCellIdempotent(t *testing.T) {
	first := ParseDeckCell("['zap-ev1', 'rocket']")
	second := ParseDeckCell("['" + first[0] + "', '" + first[1] + "']")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Reparse = %v, want %v", second, first)
	}
}

func TestParseWinner(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1", 1},
		{"0", 0},
		{"", 0},
		{" 1 ", 1},
		{"1.0", 1},
		{"2", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseWinner(tt.input); got != tt.want {
			t.Errorf("parseWinner(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
