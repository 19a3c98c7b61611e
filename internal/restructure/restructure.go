// Package restructure turns raw per-battle CSV exports into one row per
// player per battle. Each battle contributes two rows; opponent tower HP is
// a group-local swap of the two rows' own tower HP, and the winner flag is
// positional (player 1 first) because upstream exports are winner-first.
package restructure

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spencermt000/clash-royale-apriori/internal/literal"
	"github.com/spencermt000/clash-royale-apriori/internal/logger"
	"github.com/spencermt000/clash-royale-apriori/internal/models"
)

// LoadBattles reads every .csv file in dir, concatenates the records, and
// deduplicates by battle_id keeping the first occurrence. Files are visited
// in name order.
func LoadBattles(dir string) ([]models.Battle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var battles []models.Battle
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		loaded, err := loadBattleFile(path, seen)
		if err != nil {
			logger.Warn("Skipping file %s: %v", path, err)
			continue
		}
		battles = append(battles, loaded...)
	}
	return battles, nil
}

func loadBattleFile(path string, seen map[string]bool) ([]models.Battle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["battle_id"]; !ok {
		return nil, fmt.Errorf("missing battle_id column")
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var battles []models.Battle
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("Skipping record in %s: %v", path, err)
			continue
		}
		id := field(record, "battle_id")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		battles = append(battles, models.Battle{
			BattleID:   id,
			GameResult: field(record, "game_result"),
			PlayerDecks: [2]string{
				field(record, "player_1_deck"),
				field(record, "player_2_deck"),
			},
			PlayerStats: [2]string{
				field(record, "player_1_stats"),
				field(record, "player_2_stats"),
			},
		})
	}
	return battles, nil
}

// Restructure emits one row per (battle, player). A player row whose deck or
// stats literal fails to parse is skipped with a logged cause; missing stat
// keys become nil values, not errors. After building rows, opponent tower HP
// is assigned by reversing the tower_hp sequence within each battle group
// (a two-row swap when the invariant holds; undefined for other group sizes)
// and dmg_dif is own minus opponent tower HP.
func Restructure(battles []models.Battle) []models.PlayerBattle {
	var rows []models.PlayerBattle
	for _, battle := range battles {
		for playerNum := 1; playerNum <= 2; playerNum++ {
			deck, err := literal.ParseList(battle.PlayerDecks[playerNum-1])
			if err != nil {
				logger.Warn("Skipping row due to error: %v", err)
				continue
			}
			stats, err := literal.ParseDict(battle.PlayerStats[playerNum-1])
			if err != nil {
				logger.Warn("Skipping row due to error: %v", err)
				continue
			}

			winner := 0
			if playerNum == 1 {
				winner = 1
			}
			rows = append(rows, models.PlayerBattle{
				BattleID:      battle.BattleID,
				Result:        battle.GameResult,
				PlayerNum:     playerNum,
				Deck:          deck,
				AvgElixir:     statFloat(stats, "avg_elixir"),
				FourCardCycle: statBool(stats, "four_card_cycle"),
				ElixirLeaked:  statFloat(stats, "elixir_leaked"),
				TowerHP:       statFloat(stats, "tower_hp"),
				Winner:        winner,
			})
		}
	}

	assignOpponentHP(rows)
	return rows
}

// assignOpponentHP reverses tower_hp within each battle_id group and derives
// dmg_dif. Group membership follows row order, mirroring a grouped transform.
func assignOpponentHP(rows []models.PlayerBattle) {
	groups := make(map[string][]int)
	var order []string
	for i, row := range rows {
		if _, ok := groups[row.BattleID]; !ok {
			order = append(order, row.BattleID)
		}
		groups[row.BattleID] = append(groups[row.BattleID], i)
	}

	for _, id := range order {
		idx := groups[id]
		n := len(idx)
		hp := make([]*float64, n)
		for j, i := range idx {
			hp[j] = rows[i].TowerHP
		}
		for j, i := range idx {
			opp := hp[n-1-j]
			rows[i].OppTowerHP = opp
			if rows[i].TowerHP != nil && opp != nil {
				dif := *rows[i].TowerHP - *opp
				rows[i].DmgDif = &dif
			}
		}
	}
}

func statFloat(stats map[string]literal.Value, key string) *float64 {
	v, ok := stats[key]
	if !ok || v == nil {
		return nil
	}
	f, ok := literal.AsFloat(v)
	if !ok {
		return nil
	}
	return &f
}

func statBool(stats map[string]literal.Value, key string) *bool {
	v, ok := stats[key]
	if !ok || v == nil {
		return nil
	}
	b, ok := literal.AsBool(v)
	if !ok {
		return nil
	}
	return &b
}

// mergedHeader is the fixed column order of the restructured table.
var mergedHeader = []string{
	"battle_id", "result", "player_num", "player_deck",
	"avg_elixir", "four_card_cycle", "elixir_leaked", "tower_hp",
	"winner", "opp_tower_hp", "dmg_dif",
}

// WriteMerged writes the restructured rows to a CSV file. Decks serialize as
// Python-style list literals so the file round-trips through the miner's
// deck parser (and stays byte-compatible with historical exports).
func WriteMerged(rows []models.PlayerBattle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(mergedHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.BattleID,
			row.Result,
			strconv.Itoa(row.PlayerNum),
			FormatDeck(row.Deck),
			floatCell(row.AvgElixir),
			boolCell(row.FourCardCycle),
			floatCell(row.ElixirLeaked),
			floatCell(row.TowerHP),
			strconv.Itoa(row.Winner),
			floatCell(row.OppTowerHP),
			floatCell(row.DmgDif),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// FormatDeck renders a deck as a Python-style list literal.
func FormatDeck(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = "'" + item + "'"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func boolCell(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

// CollectUniqueCards re-scans a merged CSV and returns the sorted set of
// distinct card identifiers across all decks. Rows whose deck cell fails to
// parse are skipped with a logged cause.
func CollectUniqueCards(path string) ([]string, error) {
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
	deckCol := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "player_deck" {
			deckCol = i
			break
		}
	}
	if deckCol < 0 {
		return nil, fmt.Errorf("missing player_deck column in %s", path)
	}

	unique := make(map[string]struct{})
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("Skipping deck due to error: %v", err)
			continue
		}
		if deckCol >= len(record) {
			continue
		}
		deck, err := literal.ParseList(record[deckCol])
		if err != nil {
			logger.Warn("Skipping deck due to error: %v", err)
			continue
		}
		for _, card := range deck {
			unique[card] = struct{}{}
		}
	}

	cards := make([]string, 0, len(unique))
	for card := range unique {
		cards = append(cards, card)
	}
	sort.Strings(cards)
	return cards, nil
}

// WriteCardList persists the card vocabulary as a newline-delimited file.
func WriteCardList(cards []string, path string) error {
	var sb strings.Builder
	for _, card := range cards {
		sb.WriteString(card)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
