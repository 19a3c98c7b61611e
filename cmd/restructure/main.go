package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/spencermt000/clash-royale-apriori/internal/config"
	"github.com/spencermt000/clash-royale-apriori/internal/logger"
	"github.com/spencermt000/clash-royale-apriori/internal/restructure"
	"github.com/spencermt000/clash-royale-apriori/internal/storage"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	battles, err := restructure.LoadBattles(cfg.Restructure.InputDir)
	if err != nil {
		logger.Fatal("Failed to load battles: %v", err)
	}
	logger.Info("Loaded %d unique battles from %s", len(battles), cfg.Restructure.InputDir)

	rows := restructure.Restructure(battles)
	logger.Info("Restructured into %d player rows", len(rows))

	if err := restructure.WriteMerged(rows, cfg.Restructure.OutputCSV); err != nil {
		logger.Fatal("Failed to write merged table: %v", err)
	}
	logger.Info("Wrote merged table to %s", cfg.Restructure.OutputCSV)

	if cfg.Storage.Enabled {
		store, err := storage.Open(cfg.Storage.DBPath)
		if err != nil {
			logger.Fatal("Failed to open results store: %v", err)
		}
		defer store.Close()
		if err := store.SaveBattles(context.Background(), rows); err != nil {
			logger.Error("Failed to persist battles: %v", err)
		} else {
			logger.Info("Persisted %d player rows to %s", len(rows), cfg.Storage.DBPath)
		}
	}

	// The vocabulary pass re-reads the written file rather than the in-memory
	// rows so it sees exactly what downstream consumers will parse.
	cards, err := restructure.CollectUniqueCards(cfg.Restructure.OutputCSV)
	if err != nil {
		logger.Fatal("Failed to collect unique cards: %v", err)
	}
	if err := restructure.WriteCardList(cards, cfg.Restructure.CardsFile); err != nil {
		logger.Fatal("Failed to write card list: %v", err)
	}
	fmt.Printf("Total unique cards: %d\n", len(cards))
}
