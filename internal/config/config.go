package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/cardledger/internal/fraud"
)

type Config struct {
	App struct {
		Name    string `envconfig:"APP_NAME" default:"cardledger"`
		Port    int    `envconfig:"PORT" default:"8080"`
		Version string `envconfig:"API_VERSION" default:"1.0.0"`
	}

	Data struct {
		// CSVPath is the ledger source, re-read on every reload.
		CSVPath string `envconfig:"CSV_FILE_PATH" default:"data/transactions.csv"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Fraud struct {
		Threshold float64 `envconfig:"FRAUD_THRESHOLD" default:"0.5"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Fraud.Threshold <= 0 || cfg.Fraud.Threshold > 1 {
		cfg.Fraud.Threshold = fraud.DefaultThreshold
	}

	return &cfg, nil
}
