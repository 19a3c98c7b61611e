package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Restructure RestructureConfig `mapstructure:"restructure"`
	Miner       MinerConfig       `mapstructure:"miner"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// RestructureConfig holds settings for the battle restructuring job
type RestructureConfig struct {
	InputDir  string `mapstructure:"input_dir"`
	OutputCSV string `mapstructure:"output_csv"`
	CardsFile string `mapstructure:"cards_file"`
}

// MinerConfig holds association-rule mining thresholds and output settings
type MinerConfig struct {
	InputCSV       string  `mapstructure:"input_csv"`
	MinSupport     float64 `mapstructure:"min_support"`
	MinConfidence  float64 `mapstructure:"min_confidence"`
	MinLift        float64 `mapstructure:"min_lift"`
	MinCardinality int     `mapstructure:"min_cardinality"`
	MaxCardinality int     `mapstructure:"max_cardinality"`
	Top            int     `mapstructure:"top"`
	OutDir         string  `mapstructure:"outdir"`
}

// StorageConfig holds the optional sqlite results store configuration
type StorageConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// TelegramConfig holds the optional run-summary notification configuration
type TelegramConfig struct {
	BotToken   string `mapstructure:"bot_token"`
	ChatID     string `mapstructure:"chat_id"`
	MaxRetries int    `mapstructure:"max_retries"`
	Enabled    bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// A missing config file is not an error: all settings have defaults,
// so the tools run out of the box like their script ancestors.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("CR_APRIORI")
	v.AutomaticEnv()

	// Read config file if present
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Restructure defaults
	v.SetDefault("restructure.input_dir", "files")
	v.SetDefault("restructure.output_csv", "merged_restructured_battles.csv")
	v.SetDefault("restructure.cards_file", "unique_cards.txt")

	// Miner defaults (matching the documented knobs)
	v.SetDefault("miner.input_csv", "data/merged_restructured_battles.csv")
	v.SetDefault("miner.min_support", 0.01)
	v.SetDefault("miner.min_confidence", 0.4)
	v.SetDefault("miner.min_lift", 1.0)
	v.SetDefault("miner.min_cardinality", 2)
	v.SetDefault("miner.max_cardinality", 4)
	v.SetDefault("miner.top", 50)
	v.SetDefault("miner.outdir", "outputs")

	// Storage defaults
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.db_path", "./data/battles.db")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Restructure config
	if c.Restructure.InputDir == "" {
		return fmt.Errorf("restructure.input_dir is required")
	}
	if c.Restructure.OutputCSV == "" {
		return fmt.Errorf("restructure.output_csv is required")
	}
	if c.Restructure.CardsFile == "" {
		return fmt.Errorf("restructure.cards_file is required")
	}

	// Validate Miner config
	if c.Miner.InputCSV == "" {
		return fmt.Errorf("miner.input_csv is required")
	}
	if c.Miner.MinSupport <= 0.0 || c.Miner.MinSupport > 1.0 {
		return fmt.Errorf("miner.min_support must be in (0.0, 1.0]")
	}
	if c.Miner.MinConfidence < 0.0 || c.Miner.MinConfidence > 1.0 {
		return fmt.Errorf("miner.min_confidence must be between 0.0 and 1.0")
	}
	if c.Miner.MinLift < 0.0 {
		return fmt.Errorf("miner.min_lift must not be negative")
	}
	if c.Miner.MinCardinality < 1 {
		return fmt.Errorf("miner.min_cardinality must be at least 1")
	}
	if c.Miner.MaxCardinality < c.Miner.MinCardinality {
		return fmt.Errorf("miner.max_cardinality must be >= miner.min_cardinality")
	}
	if c.Miner.Top < 1 {
		return fmt.Errorf("miner.top must be at least 1")
	}
	if c.Miner.OutDir == "" {
		return fmt.Errorf("miner.outdir is required")
	}

	// Validate Storage config
	if c.Storage.Enabled && c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required when storage is enabled")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
