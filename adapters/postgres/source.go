// Package postgres serves the input tables from a Postgres database instead
// of a directory of files. Table and column names mirror the file-based
// schema so either backend can feed the same pipeline.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"boardpharma/domain/panel"
	"boardpharma/internal/errors"
)

// Source table names.
const (
	TableFirmYear  = "citeline_originator_firmyr"
	TableWhitelist = "cro_bname_boardex_citeline"
	TableInterlock = "boardex_citeline_originator_sample"
)

// Source is a Postgres-backed TableSource.
type Source struct {
	db *sqlx.DB
}

// NewSource creates a table source over an open connection.
func NewSource(db *sqlx.DB) *Source {
	return &Source{db: db}
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Source, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return &Source{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Source) Close() error {
	return s.db.Close()
}

// Whitelist returns the distinct valid firm names.
func (s *Source) Whitelist(ctx context.Context) ([]string, error) {
	var names []string
	query := fmt.Sprintf(`SELECT DISTINCT %s AS name FROM %s WHERE %s IS NOT NULL ORDER BY name`,
		pq.QuoteIdentifier("BoardName"), pq.QuoteIdentifier(TableWhitelist), pq.QuoteIdentifier("BoardName"))
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		return nil, errors.Wrap(err, "failed to load whitelist")
	}
	return names, nil
}

// FirmYearColumns returns the firm-year table's column names in table order.
func (s *Source) FirmYearColumns(ctx context.Context) ([]string, error) {
	var cols []string
	query := `SELECT column_name FROM information_schema.columns
	          WHERE table_name = $1 ORDER BY ordinal_position`
	if err := s.db.SelectContext(ctx, &cols, query, TableFirmYear); err != nil {
		return nil, errors.Wrap(err, "failed to load firm-year columns")
	}
	if len(cols) == 0 {
		return nil, errors.InputInvalidf("table %s not found or has no columns", TableFirmYear)
	}
	return cols, nil
}

// InterlockRows loads every pair-year interlock observation. NULL indicator
// values come back as NaN.
func (s *Source) InterlockRows(ctx context.Context) ([]panel.InterlockRow, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s`,
		pq.QuoteIdentifier("BoardName1"),
		pq.QuoteIdentifier("BoardName2"),
		pq.QuoteIdentifier("year"),
		pq.QuoteIdentifier("interlock_indirect"),
		pq.QuoteIdentifier("interlock_direct"),
		pq.QuoteIdentifier(TableInterlock))

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query interlock table")
	}
	defer rows.Close()

	var out []panel.InterlockRow
	for rows.Next() {
		var (
			firm1, firm2     string
			year             int
			indirect, direct sql.NullFloat64
		)
		if err := rows.Scan(&firm1, &firm2, &year, &indirect, &direct); err != nil {
			return nil, errors.Wrap(err, "failed to scan interlock row")
		}
		out = append(out, panel.InterlockRow{
			Firm1:    firm1,
			Firm2:    firm2,
			Year:     year,
			Indirect: nullValue(indirect),
			Direct:   nullValue(direct),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate interlock rows")
	}
	return out, nil
}

// GroupSeries loads the added/launch columns for one batch of groups,
// restricted to whitelisted firms.
func (s *Source) GroupSeries(ctx context.Context, entity panel.Entity, groups []string, valid map[string]bool) (*panel.FirmYearSlice, error) {
	selects := []string{pq.QuoteIdentifier("BoardName"), pq.QuoteIdentifier("year")}
	for _, g := range groups {
		selects = append(selects,
			pq.QuoteIdentifier(entity.AddedColumn(g)),
			pq.QuoteIdentifier(entity.LaunchColumn(g)))
	}
	query := fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(selects, ", "), pq.QuoteIdentifier(TableFirmYear))

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query firm-year table")
	}
	defer rows.Close()

	slice := &panel.FirmYearSlice{
		Index:  make(map[panel.FirmYear]int),
		Added:  make(map[string][]float64, len(groups)),
		Launch: make(map[string][]float64, len(groups)),
	}

	scan := make([]interface{}, 2+2*len(groups))
	var firm string
	var year int
	values := make([]sql.NullFloat64, 2*len(groups))
	scan[0] = &firm
	scan[1] = &year
	for i := range values {
		scan[2+i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, errors.Wrap(err, "failed to scan firm-year row")
		}
		if !valid[firm] {
			continue
		}
		slice.Index[panel.FirmYear{Firm: firm, Year: year}] = slice.Rows
		for i, g := range groups {
			slice.Added[g] = append(slice.Added[g], nullValue(values[2*i]))
			slice.Launch[g] = append(slice.Launch[g], nullValue(values[2*i+1]))
		}
		slice.Rows++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate firm-year rows")
	}
	return slice, nil
}

func nullValue(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
