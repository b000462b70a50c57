// Package tables reads the three input tables from a directory of CSV/XLSX
// files and writes the emitted reports.
package tables

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"boardpharma/domain/panel"
	"boardpharma/internal/errors"
)

// Input file basenames.
const (
	FileFirmYear  = "citeline_originator_firmyr.csv"
	FileWhitelist = "cro_bname_boardex_citeline"
	FileInterlock = "boardex_citeline_originator_sample.csv"
)

// DirSource serves the input tables from a single directory. The whitelist
// is accepted as either CSV or XLSX; the firm-year and interlock tables are
// CSV.
type DirSource struct {
	dir string
}

// NewDirSource creates a directory-backed table source.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Whitelist returns the distinct BoardName values, in file order.
func (s *DirSource) Whitelist(ctx context.Context) ([]string, error) {
	header, rows, err := s.readWhitelistCells()
	if err != nil {
		return nil, err
	}
	col := columnIndex(header, "BoardName")
	if col < 0 {
		return nil, errors.InputInvalid("whitelist table is missing the BoardName column")
	}

	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[col])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

func (s *DirSource) readWhitelistCells() ([]string, [][]string, error) {
	csvPath := filepath.Join(s.dir, FileWhitelist+".csv")
	if _, err := os.Stat(csvPath); err == nil {
		return readCSVFile(csvPath)
	}

	xlsxPath := filepath.Join(s.dir, FileWhitelist+".xlsx")
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "whitelist not found as %s.csv or %s.xlsx", FileWhitelist, FileWhitelist)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read whitelist sheet")
	}
	if len(rows) == 0 {
		return nil, nil, errors.InputInvalid("whitelist sheet is empty")
	}
	return rows[0], rows[1:], nil
}

// FirmYearColumns returns the firm-year table header.
func (s *DirSource) FirmYearColumns(ctx context.Context) ([]string, error) {
	f, err := os.Open(filepath.Join(s.dir, FileFirmYear))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open firm-year table")
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read firm-year header")
	}
	return header, nil
}

// InterlockRows reads every pair-year interlock observation. Missing
// indicator cells come back as NaN; the base builder decides how they are
// coerced.
func (s *DirSource) InterlockRows(ctx context.Context) ([]panel.InterlockRow, error) {
	path := filepath.Join(s.dir, FileInterlock)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open interlock table")
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read interlock header")
	}

	cols := struct{ firm1, firm2, year, indirect, direct int }{
		firm1:    columnIndex(header, "BoardName1"),
		firm2:    columnIndex(header, "BoardName2"),
		year:     columnIndex(header, "year"),
		indirect: columnIndex(header, "interlock_indirect"),
		direct:   columnIndex(header, "interlock_direct"),
	}
	if cols.firm1 < 0 || cols.firm2 < 0 || cols.year < 0 || cols.indirect < 0 || cols.direct < 0 {
		return nil, errors.InputInvalid("interlock table is missing required columns")
	}

	var rows []panel.InterlockRow
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read interlock row %d", line)
		}

		year, err := strconv.Atoi(strings.TrimSpace(rec[cols.year]))
		if err != nil {
			return nil, errors.InputInvalidf("interlock row %d: invalid year %q", line, rec[cols.year])
		}
		rows = append(rows, panel.InterlockRow{
			Firm1:    rec[cols.firm1],
			Firm2:    rec[cols.firm2],
			Year:     year,
			Indirect: parseCell(rec[cols.indirect]),
			Direct:   parseCell(rec[cols.direct]),
		})
	}
	return rows, nil
}

// GroupSeries loads the added/launch columns for one batch of groups in a
// single streaming pass over the firm-year table, restricted to whitelisted
// firms. A requested group column that does not exist is a fatal schema
// error.
func (s *DirSource) GroupSeries(ctx context.Context, entity panel.Entity, groups []string, valid map[string]bool) (*panel.FirmYearSlice, error) {
	f, err := os.Open(filepath.Join(s.dir, FileFirmYear))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open firm-year table")
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read firm-year header")
	}

	firmCol := columnIndex(header, "BoardName")
	yearCol := columnIndex(header, "year")
	if firmCol < 0 || yearCol < 0 {
		return nil, errors.InputInvalid("firm-year table is missing BoardName/year columns")
	}

	addedCols := make([]int, len(groups))
	launchCols := make([]int, len(groups))
	for i, g := range groups {
		addedCols[i] = columnIndex(header, entity.AddedColumn(g))
		launchCols[i] = columnIndex(header, entity.LaunchColumn(g))
		if addedCols[i] < 0 || launchCols[i] < 0 {
			return nil, errors.InputInvalidf("firm-year table is missing columns for group %q", g)
		}
	}

	slice := &panel.FirmYearSlice{
		Index:  make(map[panel.FirmYear]int),
		Added:  make(map[string][]float64, len(groups)),
		Launch: make(map[string][]float64, len(groups)),
	}
	for _, g := range groups {
		slice.Added[g] = nil
		slice.Launch[g] = nil
	}

	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read firm-year row %d", line)
		}

		firm := rec[firmCol]
		if !valid[firm] {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(rec[yearCol]))
		if err != nil {
			return nil, errors.InputInvalidf("firm-year row %d: invalid year %q", line, rec[yearCol])
		}

		slice.Index[panel.FirmYear{Firm: firm, Year: year}] = slice.Rows
		for i, g := range groups {
			slice.Added[g] = append(slice.Added[g], parseCell(rec[addedCols[i]]))
			slice.Launch[g] = append(slice.Launch[g], parseCell(rec[launchCols[i]]))
		}
		slice.Rows++
	}
	return slice, nil
}

// parseCell coerces a cell to a number; empty or non-numeric cells become
// NaN rather than zero.
func parseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

func readCSVFile(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, errors.InputInvalidf("%s is empty", filepath.Base(path))
	}
	return all[0], all[1:], nil
}
