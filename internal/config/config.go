package config

import (
	"os"
	"strconv"
	"strings"

	"boardpharma/domain/panel"
	"boardpharma/internal/errors"
)

// Source kinds for loading the input tables.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// DefaultBatchSize caps how many groups are attached and cached at once.
// It bounds the peak size of the lag/lead/terminal cache.
const DefaultBatchSize = 20

// Config is the explicit run configuration passed into the pipeline entry
// point. There is no environment branching inside the pipeline itself.
type Config struct {
	InputDir    string
	OutputDir   string
	BatchSize   int
	Entities    []panel.Entity
	Source      string
	DatabaseURL string
}

// Load builds a Config from environment variables, applying defaults for
// everything except the input and output directories. Callers overlay CLI
// flags on top and then run Validate.
func Load() (*Config, error) {
	cfg := &Config{
		InputDir:    os.Getenv("BOARDPHARMA_INPUT_DIR"),
		OutputDir:   os.Getenv("BOARDPHARMA_OUTPUT_DIR"),
		BatchSize:   getEnvInt("BOARDPHARMA_BATCH_SIZE", DefaultBatchSize),
		Source:      getEnv("BOARDPHARMA_SOURCE", SourceCSV),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	entities, err := ParseEntities(getEnv("BOARDPHARMA_ENTITIES", "disease,therapeutic"))
	if err != nil {
		return nil, err
	}
	cfg.Entities = entities
	return cfg, nil
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	if c.Source != SourcePostgres && c.InputDir == "" {
		return errors.ConfigInvalid("input directory is required")
	}
	if c.OutputDir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if c.BatchSize <= 0 {
		return errors.ConfigInvalid("batch size must be positive")
	}
	if len(c.Entities) == 0 {
		return errors.ConfigInvalid("at least one entity kind is required")
	}
	switch c.Source {
	case SourceCSV:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres source")
		}
	default:
		return errors.ConfigInvalid("source must be csv or postgres")
	}
	return nil
}

// ParseEntities parses a comma-separated entity list ("disease,therapeutic").
func ParseEntities(s string) ([]panel.Entity, error) {
	var entities []panel.Entity
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		e := panel.Entity(part)
		if !e.Valid() {
			return nil, errors.ConfigInvalid("unknown entity kind: " + part)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
