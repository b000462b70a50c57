package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"boardpharma/domain/panel"
	"boardpharma/internal/config"
	"boardpharma/internal/errors"
)

// Version is stamped into every run manifest.
const Version = "0.1.0"

// ManifestFile is the manifest's basename in the output directory.
const ManifestFile = "run_manifest.json"

// Manifest records what a run computed and from where. It is written only
// after every report file of the run has been emitted, so its presence
// marks a complete run.
type Manifest struct {
	RunID        string         `json:"run_id"`
	CodeVersion  string         `json:"code_version"`
	Source       string         `json:"source"`
	InputDir     string         `json:"input_dir,omitempty"`
	OutputDir    string         `json:"output_dir"`
	BatchSize    int            `json:"batch_size"`
	Entities     []string       `json:"entities"`
	GroupCounts  map[string]int `json:"group_counts"`
	PairYearRows int            `json:"pair_year_rows"`
	Pairs        int            `json:"pairs"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
}

func newManifest(cfg *config.Config, base *panel.BaseTable) *Manifest {
	entities := make([]string, len(cfg.Entities))
	for i, e := range cfg.Entities {
		entities[i] = string(e)
	}
	return &Manifest{
		RunID:        uuid.NewString(),
		CodeVersion:  Version,
		Source:       cfg.Source,
		InputDir:     cfg.InputDir,
		OutputDir:    cfg.OutputDir,
		BatchSize:    cfg.BatchSize,
		Entities:     entities,
		GroupCounts:  make(map[string]int),
		PairYearRows: base.Len(),
		Pairs:        base.Pairs(),
	}
}

// Write serializes the manifest into the output directory.
func (m *Manifest) Write(outDir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode run manifest")
	}
	path := filepath.Join(outDir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write run manifest")
	}
	return nil
}
