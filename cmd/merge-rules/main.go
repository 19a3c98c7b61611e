package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spencermt000/clash-royale-apriori/internal/config"
	"github.com/spencermt000/clash-royale-apriori/internal/logger"
	"github.com/spencermt000/clash-royale-apriori/internal/report"
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

	outDir := cfg.Miner.OutDir
	fileLoss := filepath.Join(outDir, "rules_predicting_LOSS.csv")
	fileWin := filepath.Join(outDir, "rules_predicting_WIN.csv")
	outputFile := filepath.Join(outDir, "master_rules.csv")

	// Both inputs must exist; the WIN table comes from a separate run.
	if err := report.MergeCSV(fileLoss, fileWin, outputFile); err != nil {
		logger.Fatal("Failed to merge rule tables: %v", err)
	}

	fmt.Printf("Master file created: %s\n", outputFile)
}
