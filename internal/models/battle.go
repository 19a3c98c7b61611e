// Package models defines the core domain entities for the clash-royale-apriori pipeline.
// These models represent per-player battle rows, frequent itemsets, and association rules.
// Models that cross a persistence boundary include built-in validation.
//
// Terminology (matching market-basket analysis naming):
//   - Transaction: the set of item labels observed together, here one player's
//     deck plus an optional synthetic outcome label.
//   - Itemset: any set of items considered together; "frequent" means its
//     support meets the configured minimum.
package models

import "errors"

// Outcome labels appended to transactions when mining rules that predict the
// game result. Kept as plain items so consequent filtering is a set compare.
const (
	OutcomeWin  = "OUTCOME=WIN"
	OutcomeLoss = "OUTCOME=LOSS"
)

// Battle represents one raw battle record: one row per match with both
// players' decks and stat bundles still serialized as Python-style literals.
type Battle struct {
	BattleID    string
	GameResult  string
	PlayerDecks [2]string // stringified card lists, winner-first by upstream convention
	PlayerStats [2]string // stringified stat dicts
}

// PlayerBattle is one restructured row: one player's side of one battle.
// Optional stats are pointers; a nil value serializes as an empty CSV cell.
type PlayerBattle struct {
	BattleID  string
	Result    string
	PlayerNum int
	Deck      []string

	AvgElixir     *float64
	FourCardCycle *bool
	ElixirLeaked  *float64
	TowerHP       *float64

	// Winner is positional: 1 iff PlayerNum == 1. Upstream data is assumed
	// winner-first, so the flag does not consult Result.
	Winner     int
	OppTowerHP *float64
	DmgDif     *float64
}

// Validate checks that a restructured row is internally consistent.
func (p *PlayerBattle) Validate() error {
	if p.BattleID == "" {
		return errors.New("battle ID must not be empty")
	}
	if p.PlayerNum != 1 && p.PlayerNum != 2 {
		return errors.New("player num must be 1 or 2")
	}
	if p.Winner != 0 && p.Winner != 1 {
		return errors.New("winner must be 0 or 1")
	}
	if (p.PlayerNum == 1) != (p.Winner == 1) {
		return errors.New("winner flag must follow player num")
	}
	return nil
}
