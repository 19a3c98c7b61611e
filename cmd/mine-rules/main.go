package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/spencermt000/clash-royale-apriori/internal/config"
	"github.com/spencermt000/clash-royale-apriori/internal/logger"
	"github.com/spencermt000/clash-royale-apriori/internal/mining"
	"github.com/spencermt000/clash-royale-apriori/internal/models"
	"github.com/spencermt000/clash-royale-apriori/internal/notify"
	"github.com/spencermt000/clash-royale-apriori/internal/report"
	"github.com/spencermt000/clash-royale-apriori/internal/storage"
)

// Flags mirror the historical mining knobs; a flag set on the command line
// overrides the config file value.
var (
	configPath     = flag.String("config", "configs/config.yaml", "Path to configuration file")
	csvPath        = flag.String("csv", "", "Path to input CSV with columns: player_deck, winner")
	minSupport     = flag.Float64("min-support", 0, "Minimum support for apriori (0-1)")
	minConfidence  = flag.Float64("min-confidence", 0, "Minimum confidence for association rules (0-1)")
	minLift        = flag.Float64("min-lift", 0, "Minimum lift for association rules")
	minCardinality = flag.Int("min-cardinality", 0, "Minimum itemset length (e.g., 2 for pairs)")
	maxCardinality = flag.Int("max-cardinality", 0, "Maximum itemset length (e.g., 4 for quads)")
	top            = flag.Int("top", 0, "Top N rows to print for each output table")
	outDir         = flag.String("outdir", "", "Directory to write CSV outputs")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlagOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	m := cfg.Miner
	if err := os.MkdirAll(m.OutDir, 0o755); err != nil {
		logger.Fatal("Failed to create output directory: %v", err)
	}

	// Missing required columns are the one fatal input condition.
	rows, err := mining.LoadDeckRows(m.InputCSV)
	if err != nil {
		logger.Fatal("Failed to load input: %v", err)
	}
	logger.Info("Loaded %d player rows from %s", len(rows), m.InputCSV)

	started := time.Now()
	rules, itemsetCount := mineOutcomeRules(rows, m)
	mineLoserItemsets(rows, m)
	finished := time.Now()

	run := models.MiningRun{
		ID:            uuid.New().String(),
		InputCSV:      m.InputCSV,
		MinSupport:    m.MinSupport,
		MinConfidence: m.MinConfidence,
		MinLift:       m.MinLift,
		Transactions:  len(rows),
		RuleCount:     len(rules),
		ItemsetCount:  itemsetCount,
		StartedAt:     started,
		FinishedAt:    finished,
	}

	if cfg.Storage.Enabled {
		store, err := storage.Open(cfg.Storage.DBPath)
		if err != nil {
			logger.Error("Failed to open results store: %v", err)
		} else {
			defer store.Close()
			if err := store.SaveRun(context.Background(), run, rules); err != nil {
				logger.Error("Failed to persist run: %v", err)
			} else {
				logger.Info("Persisted run %s with %d rules", run.ID, len(rules))
			}
		}
	}

	if cfg.Telegram.Enabled {
		client, err := notify.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries)
		if err != nil {
			logger.Error("Failed to initialize Telegram client: %v", err)
		} else if err := client.SendRunSummary(run, rules); err != nil {
			logger.Error("Failed to send run summary: %v", err)
		}
	}

	fmt.Println("\nDone.")
}

// mineOutcomeRules runs the outcome pipeline: transactions tagged with a
// synthetic OUTCOME item, rules filtered to those predicting a loss.
// Returns the surviving rules and the frequent-itemset count.
func mineOutcomeRules(rows []mining.DeckRow, m config.MinerConfig) ([]models.Rule, int) {
	txs := make([]mining.Transaction, len(rows))
	for i, row := range rows {
		txs[i] = mining.NewTransaction(row.Deck).WithOutcome(row.Winner)
	}

	matrix := mining.Encode(txs)
	itemsets := mining.Apriori(matrix, m.MinSupport, m.MaxCardinality)
	// Rule generation needs singleton supports for every antecedent and
	// consequent lookup, so back-fill before deriving rules.
	itemsets = mining.EnsureSingletons(itemsets, matrix)
	logger.Debug("Outcome pipeline: %d transactions, %d frequent itemsets", len(txs), len(itemsets))

	rules := mining.GenerateRules(itemsets, m.MinConfidence)
	rules = mining.FilterConsequent(rules, models.OutcomeLoss)
	rules = mining.FilterAntecedentLength(rules, m.MinCardinality, m.MaxCardinality)
	rules = mining.FilterLift(rules, m.MinLift)
	mining.SortRules(rules)

	out := filepath.Join(m.OutDir, "rules_predicting_LOSS.csv")
	if err := report.WriteRulesCSV(rules, out); err != nil {
		logger.Fatal("Failed to write rules: %v", err)
	}
	report.PrintTopRules(os.Stdout, rules, m.Top, "TOP rules predicting LOSS (sorted by lift, confidence, support):")
	fmt.Printf("\nSaved full rules to: %s\n", out)
	return rules, len(itemsets)
}

// mineLoserItemsets runs the co-occurrence pipeline over losing rows only,
// with no outcome tag in the basket.
func mineLoserItemsets(rows []mining.DeckRow, m config.MinerConfig) {
	var txs []mining.Transaction
	for _, row := range rows {
		if row.Winner == 0 {
			txs = append(txs, mining.NewTransaction(row.Deck))
		}
	}

	matrix := mining.Encode(txs)
	itemsets := mining.Apriori(matrix, m.MinSupport, m.MaxCardinality)
	itemsets = mining.FilterLength(itemsets, m.MinCardinality, m.MaxCardinality)
	mining.SortItemsets(itemsets)
	logger.Debug("Loser pipeline: %d transactions, %d itemsets in range", len(txs), len(itemsets))

	out := filepath.Join(m.OutDir, "frequent_itemsets_losers.csv")
	if err := report.WriteItemsetsCSV(itemsets, out); err != nil {
		logger.Fatal("Failed to write itemsets: %v", err)
	}
	report.PrintTopItemsets(os.Stdout, itemsets, m.Top, "TOP frequent co-occurring card sets among LOSERS only:")
	fmt.Printf("\nSaved full itemsets to: %s\n", out)
}

// applyFlagOverrides overlays explicitly set flags onto the loaded config.
func applyFlagOverrides(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "csv":
			cfg.Miner.InputCSV = *csvPath
		case "min-support":
			cfg.Miner.MinSupport = *minSupport
		case "min-confidence":
			cfg.Miner.MinConfidence = *minConfidence
		case "min-lift":
			cfg.Miner.MinLift = *minLift
		case "min-cardinality":
			cfg.Miner.MinCardinality = *minCardinality
		case "max-cardinality":
			cfg.Miner.MaxCardinality = *maxCardinality
		case "top":
			cfg.Miner.Top = *top
		case "outdir":
			cfg.Miner.OutDir = *outDir
		}
	})
}
