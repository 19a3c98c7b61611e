// Package storage provides an optional sqlite-backed results store for
// restructured battles and mining runs. CSV files remain the primary output
// of every tool; the store exists so repeated runs can be queried and
// compared without re-parsing report files.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/spencermt000/clash-royale-apriori/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS player_battles (
	battle_id       TEXT    NOT NULL,
	player_num      INTEGER NOT NULL,
	result          TEXT,
	player_deck     TEXT,
	avg_elixir      REAL,
	four_card_cycle INTEGER,
	elixir_leaked   REAL,
	tower_hp        REAL,
	winner          INTEGER NOT NULL,
	opp_tower_hp    REAL,
	dmg_dif         REAL,
	PRIMARY KEY (battle_id, player_num)
);

CREATE TABLE IF NOT EXISTS mining_runs (
	id             TEXT PRIMARY KEY,
	input_csv      TEXT NOT NULL,
	min_support    REAL NOT NULL,
	min_confidence REAL NOT NULL,
	min_lift       REAL NOT NULL,
	transactions   INTEGER NOT NULL,
	rule_count     INTEGER NOT NULL,
	itemset_count  INTEGER NOT NULL,
	started_at     TIMESTAMP NOT NULL,
	finished_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id             TEXT NOT NULL REFERENCES mining_runs(id),
	antecedents        TEXT NOT NULL,
	consequents        TEXT NOT NULL,
	support            REAL NOT NULL,
	confidence         REAL NOT NULL,
	lift               REAL NOT NULL,
	leverage           REAL NOT NULL,
	conviction         REAL,
	antecedent_support REAL,
	consequent_support REAL
);
`

// Store wraps a sqlite database holding battles and mining results.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the results store at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBattles upserts restructured player-battle rows.
func (s *Store) SaveBattles(ctx context.Context, rows []models.PlayerBattle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO player_battles (
			battle_id, player_num, result, player_deck,
			avg_elixir, four_card_cycle, elixir_leaked, tower_hp,
			winner, opp_tower_hp, dmg_dif
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("invalid row for battle %s: %w", row.BattleID, err)
		}
		_, err := stmt.ExecContext(ctx,
			row.BattleID,
			row.PlayerNum,
			row.Result,
			strings.Join(row.Deck, ", "),
			row.AvgElixir,
			row.FourCardCycle,
			row.ElixirLeaked,
			row.TowerHP,
			row.Winner,
			row.OppTowerHP,
			row.DmgDif,
		)
		if err != nil {
			return fmt.Errorf("failed to insert battle %s: %w", row.BattleID, err)
		}
	}
	return tx.Commit()
}

// CountBattles returns the number of stored player-battle rows.
func (s *Store) CountBattles(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM player_battles`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count battles: %w", err)
	}
	return n, nil
}

// SaveRun records a mining run and its surviving rules.
func (s *Store) SaveRun(ctx context.Context, run models.MiningRun, rules []models.Rule) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mining_runs (
			id, input_csv, min_support, min_confidence, min_lift,
			transactions, rule_count, itemset_count, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.InputCSV, run.MinSupport, run.MinConfidence, run.MinLift,
		run.Transactions, run.RuleCount, run.ItemsetCount, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rules (
			run_id, antecedents, consequents,
			support, confidence, lift, leverage, conviction,
			antecedent_support, consequent_support
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rules {
		_, err := stmt.ExecContext(ctx,
			run.ID,
			r.Antecedents.Label(),
			r.Consequents.Label(),
			r.Support, r.Confidence, r.Lift, r.Leverage,
			nullableMetric(r.Conviction),
			nullableMetric(r.AntecedentSupport),
			nullableMetric(r.ConsequentSupport),
		)
		if err != nil {
			return fmt.Errorf("failed to insert rule: %w", err)
		}
	}
	return tx.Commit()
}

// GetRun retrieves a mining run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*models.MiningRun, error) {
	run := &models.MiningRun{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, input_csv, min_support, min_confidence, min_lift,
		       transactions, rule_count, itemset_count, started_at, finished_at
		FROM mining_runs WHERE id = ?
	`, id).Scan(
		&run.ID, &run.InputCSV, &run.MinSupport, &run.MinConfidence, &run.MinLift,
		&run.Transactions, &run.RuleCount, &run.ItemsetCount, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("run not found: %s: %w", id, err)
	}
	return run, nil
}

// CountRules returns the number of rules stored for a run.
func (s *Store) CountRules(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rules WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return n, nil
}

// nullableMetric maps NaN and infinities to NULL; sqlite REAL has no
// representation for them that round-trips cleanly.
func nullableMetric(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
