package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardpharma/domain/panel"
	"boardpharma/internal/errors"
)

func validConfig() *Config {
	return &Config{
		InputDir:  "/data/in",
		OutputDir: "/data/out",
		BatchSize: DefaultBatchSize,
		Entities:  []panel.Entity{panel.EntityDisease},
		Source:    SourceCSV,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOARDPHARMA_INPUT_DIR", "/data/in")
	t.Setenv("BOARDPHARMA_OUTPUT_DIR", "/data/out")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, SourceCSV, cfg.Source)
	assert.Equal(t, []panel.Entity{panel.EntityDisease, panel.EntityTherapeutic}, cfg.Entities)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOARDPHARMA_BATCH_SIZE", "5")
	t.Setenv("BOARDPHARMA_ENTITIES", "therapeutic")
	t.Setenv("BOARDPHARMA_SOURCE", SourcePostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/panel")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, []panel.Entity{panel.EntityTherapeutic}, cfg.Entities)
	assert.Equal(t, SourcePostgres, cfg.Source)
	assert.Equal(t, "postgres://localhost/panel", cfg.DatabaseURL)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.InputDir = ""
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(cfg.Validate()))

	// The postgres source reads nothing from disk, so the input directory
	// becomes optional but the connection string does not.
	cfg = validConfig()
	cfg.InputDir = ""
	cfg.Source = SourcePostgres
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(cfg.Validate()))
	cfg.DatabaseURL = "postgres://localhost/panel"
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.BatchSize = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Entities = nil
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Source = "sqlite"
	assert.Error(t, cfg.Validate())
}

func TestParseEntities(t *testing.T) {
	entities, err := ParseEntities("disease, therapeutic,")
	require.NoError(t, err)
	assert.Equal(t, []panel.Entity{panel.EntityDisease, panel.EntityTherapeutic}, entities)

	_, err = ParseEntities("disease,protein")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
