package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application configuration values.
type Config struct {
	Secret        string
	DatabaseDSN   string
	HTTPPort      string
	DataDir       string
	OwnerPassword string
	ReceiptFile   string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	cfg := Config{
		Secret:        os.Getenv("SECRET"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		HTTPPort:      os.Getenv("HTTP_PORT"),
		DataDir:       os.Getenv("DATA_DIR"),
		OwnerPassword: os.Getenv("OWNER_PASSWORD"),
		ReceiptFile:   os.Getenv("RECEIPT_FILE"),
	}

	if cfg.Secret == "" {
		cfg.Secret = "dev_secret"
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "warungpos.db"
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	if cfg.OwnerPassword == "" {
		cfg.OwnerPassword = "password123"
	}
	if cfg.ReceiptFile == "" {
		cfg.ReceiptFile = "struk_pembelian.txt"
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", cfg.HTTPPort)
		cfg.HTTPPort = "8080"
	}

	return cfg
}
