package mining

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spencermt000/clash-royale-apriori/internal/literal"
)

// DeckRow is one row of the merged table as the miner consumes it: the
// parsed deck and the binary winner flag.
type DeckRow struct {
	Deck   []string
	Winner int
}

// LoadDeckRows reads the miner's input CSV. Missing required columns are the
// one fatal input condition; everything else degrades per row.
func LoadDeckRows(path string) ([]DeckRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	deckCol, winnerCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "player_deck":
			deckCol = i
		case "winner":
			winnerCol = i
		}
	}
	if deckCol < 0 || winnerCol < 0 {
		return nil, fmt.Errorf("CSV must contain columns: 'player_deck' and 'winner'")
	}

	var rows []DeckRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed record, not a schema problem: skip the row.
			continue
		}
		row := DeckRow{}
		if deckCol < len(record) {
			row.Deck = ParseDeckCell(record[deckCol])
		}
		if winnerCol < len(record) {
			row.Winner = parseWinner(record[winnerCol])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseDeckCell parses a deck cell: a Python-style list/tuple literal when it
// is one, otherwise a best-effort comma split stripping brackets and quotes.
// It never fails; a hopeless cell yields an empty deck.
func ParseDeckCell(cell string) []string {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if items, err := literal.ParseList(trimmed); err == nil {
		return items
	}
	return commaSplit(trimmed)
}

func commaSplit(s string) []string {
	s = strings.Trim(s, "[]")
	var items []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `'"`)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// parseWinner coerces the winner cell to 0 or 1; anything unparseable or
// empty counts as 0, matching a fill-missing-with-zero load.
func parseWinner(cell string) int {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n == 1 {
			return 1
		}
		return 0
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == 1 {
		return 1
	}
	return 0
}
