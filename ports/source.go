package ports

import (
	"context"

	"boardpharma/domain/panel"
)

// TableSource supplies the three input tables the pipeline consumes. The
// default implementation reads CSV/XLSX files from a directory; a Postgres
// implementation serves the same tables from a database.
type TableSource interface {
	// Whitelist returns the distinct valid firm names.
	Whitelist(ctx context.Context) ([]string, error)

	// FirmYearColumns returns the firm-year table header, used for dynamic
	// group discovery before any series data is loaded.
	FirmYearColumns(ctx context.Context) ([]string, error)

	// InterlockRows returns every pair-year interlock observation.
	InterlockRows(ctx context.Context) ([]panel.InterlockRow, error)

	// GroupSeries loads the added/launch series for one batch of groups,
	// restricted to firms in the whitelist. Cells that are empty or
	// non-numeric come back as NaN.
	GroupSeries(ctx context.Context, entity panel.Entity, groups []string, valid map[string]bool) (*panel.FirmYearSlice, error)
}
