package literal

import (
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple deck",
			input: "['zap-ev1', 'executioner-ev1', 'rocket']",
			want:  []string{"zap-ev1", "executioner-ev1", "rocket"},
		},
		{
			name:  "double quotes",
			input: `["knight", "archers"]`,
			want:  []string{"knight", "archers"},
		},
		{
			name:  "tuple",
			input: "('hog-rider', 'musketeer')",
			want:  []string{"hog-rider", "musketeer"},
		},
		{
			name:  "whitespace and trailing comma",
			input: "[ 'a' ,  'b' , ]",
			want:  []string{"a", "b"},
		},
		{
			name:  "empty list",
			input: "[]",
			want:  []string{},
		},
		{
			name:  "mixed scalars stringified",
			input: "['a', 2, 3.5, True, None]",
			want:  []string{"a", "2", "3.5", "True", "None"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseList(tt.input)
			if err != nil {
				t.Fatalf("ParseList(%q) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseListErrors(t *testing.T) {
	bad := []string{
		"",
		"[",
		"['a'",
		"['a' 'b']",
		"not a literal",
		"'just a string'",
		"{'k': 1}",
		"['a'] trailing",
	}
	for _, input := range bad {
		if _, err := ParseList(input); err == nil {
			t.Errorf("ParseList(%q) expected error, got none", input)
		}
	}
}

func TestParseDict(t *testing.T) {
	input := "{'avg_elixir': 3.5, 'four_card_cycle': True, 'elixir_leaked': 12, 'tower_hp': None}"
	dict, err := ParseDict(input)
	if err != nil {
		t.Fatalf("ParseDict failed: %v", err)
	}

	if got, ok := dict["avg_elixir"]; !ok || got != 3.5 {
		t.Errorf("avg_elixir = %v, want 3.5", got)
	}
	if got, ok := dict["four_card_cycle"]; !ok || got != true {
		t.Errorf("four_card_cycle = %v, want true", got)
	}
	if got, ok := dict["elixir_leaked"]; !ok || got != int64(12) {
		t.Errorf("elixir_leaked = %v, want int64(12)", got)
	}
	if got, ok := dict["tower_hp"]; !ok || got != nil {
		t.Errorf("tower_hp = %v, want nil", got)
	}
}

func TestParseDictNested(t *testing.T) {
	dict, err := ParseDict("{'deck': ['a', 'b'], 'meta': {'season': 7}}")
	if err != nil {
		t.Fatalf("ParseDict failed: %v", err)
	}
	deck, ok := dict["deck"].([]Value)
	if !ok || len(deck) != 2 {
		t.Fatalf("deck = %v, want 2-element list", dict["deck"])
	}
	meta, ok := dict["meta"].(map[string]Value)
	if !ok || meta["season"] != int64(7) {
		t.Fatalf("meta = %v, want map with season 7", dict["meta"])
	}
}

func TestParseDictErrors(t *testing.T) {
	bad := []string{
		"{'k' 1}",
		"{'k':}",
		"{1: 'v'}",
		"{'k': 1",
		"['a']",
	}
	for _, input := range bad {
		if _, err := ParseDict(input); err == nil {
			t.Errorf("ParseDict(%q) expected error, got none", input)
		}
	}
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"'it\\'s'", "it's"},
		{`"line\n"`, "line\n"},
		{"42", int64(42)},
		{"-17", int64(-17)},
		{"3.14", 3.14},
		{"1e3", 1000.0},
		{"-2.5e-2", -0.025},
		{"True", true},
		{"False", false},
		{"None", nil},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
		}
	}
}

func TestAsFloat(t *testing.T) {
	if f, ok := AsFloat(int64(3)); !ok || f != 3 {
		t.Errorf("AsFloat(int64(3)) = %v, %v", f, ok)
	}
	if f, ok := AsFloat(2.5); !ok || f != 2.5 {
		t.Errorf("AsFloat(2.5) = %v, %v", f, ok)
	}
	if f, ok := AsFloat(true); !ok || f != 1 {
		t.Errorf("AsFloat(true) = %v, %v", f, ok)
	}
	if _, ok := AsFloat("nope"); ok {
		t.Error("AsFloat(string) should not convert")
	}
}

func TestAsBool(t *testing.T) {
	if b, ok := AsBool(true); !ok || !b {
		t.Errorf("AsBool(true) = %v, %v", b, ok)
	}
	if b, ok := AsBool(int64(0)); !ok || b {
		t.Errorf("AsBool(int64(0)) = %v, %v", b, ok)
	}
	if _, ok := AsBool("nope"); ok {
		t.Error("AsBool(string) should not convert")
	}
}
