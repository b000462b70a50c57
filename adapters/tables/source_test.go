package tables

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"boardpharma/domain/panel"
	"boardpharma/internal/errors"
)

func writeInput(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestWhitelist_CSV(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, FileWhitelist+".csv", "id,BoardName\n1,Acme\n2, Beta \n3,Acme\n4,\n5,Gamma\n")

	names, err := NewDirSource(dir).Whitelist(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Beta", "Gamma"}, names, "trimmed, deduplicated, file order")
}

func TestWhitelist_XLSXFallback(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"BoardName"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Acme"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Beta"}))
	require.NoError(t, f.SaveAs(filepath.Join(dir, FileWhitelist+".xlsx")))
	require.NoError(t, f.Close())

	names, err := NewDirSource(dir).Whitelist(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Beta"}, names)
}

func TestWhitelist_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, FileWhitelist+".csv", "company\nAcme\n")

	_, err := NewDirSource(dir).Whitelist(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInputInvalid, errors.GetCode(err))
}

func TestWhitelist_NotFound(t *testing.T) {
	_, err := NewDirSource(t.TempDir()).Whitelist(context.Background())
	require.Error(t, err)
}

func TestInterlockRows(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, FileInterlock,
		"BoardName1,BoardName2,year,interlock_indirect,interlock_direct,extra\n"+
			"Acme,Beta,2001,1,0,x\n"+
			"Acme,Beta,2002,,n/a,x\n")

	rows, err := NewDirSource(dir).InterlockRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, panel.InterlockRow{Firm1: "Acme", Firm2: "Beta", Year: 2001, Indirect: 1, Direct: 0}, rows[0])
	assert.True(t, math.IsNaN(rows[1].Indirect), "empty indicator cell stays missing")
	assert.True(t, math.IsNaN(rows[1].Direct), "non-numeric indicator cell stays missing")
}

func TestInterlockRows_SchemaErrors(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, FileInterlock, "BoardName1,BoardName2,year\nAcme,Beta,2001\n")

	_, err := NewDirSource(dir).InterlockRows(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInputInvalid, errors.GetCode(err))

	writeInput(t, dir, FileInterlock,
		"BoardName1,BoardName2,year,interlock_indirect,interlock_direct\nAcme,Beta,early,1,0\n")
	_, err = NewDirSource(dir).InterlockRows(context.Background())
	require.Error(t, err, "a non-numeric year is fatal, not missing data")
	assert.Equal(t, errors.CodeInputInvalid, errors.GetCode(err))
}

func TestFirmYearColumns(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, FileFirmYear, "BoardName,year,cum_disease_n_added_onco\nAcme,2001,1\n")

	cols, err := NewDirSource(dir).FirmYearColumns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BoardName", "year", "cum_disease_n_added_onco"}, cols)
}

func TestGroupSeries(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, FileFirmYear,
		"BoardName,year,cum_disease_n_added_onco,cum_disease_n_launch_onco\n"+
			"Acme,2001,1,0\n"+
			"Intruder,2001,9,9\n"+
			"Acme,2002,2,\n")

	valid := map[string]bool{"Acme": true}
	slice, err := NewDirSource(dir).GroupSeries(context.Background(), panel.EntityDisease, []string{"onco"}, valid)
	require.NoError(t, err)

	require.Equal(t, 2, slice.Rows, "non-whitelisted firms skipped")
	assert.Equal(t, 0, slice.Index[panel.FirmYear{Firm: "Acme", Year: 2001}])
	assert.Equal(t, 1, slice.Index[panel.FirmYear{Firm: "Acme", Year: 2002}])
	assert.Equal(t, []float64{1, 2}, slice.Added["onco"])
	assert.Equal(t, 0.0, slice.Launch["onco"][0])
	assert.True(t, math.IsNaN(slice.Launch["onco"][1]))
}

func TestGroupSeries_MissingGroupColumn(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, FileFirmYear, "BoardName,year,cum_disease_n_added_onco\nAcme,2001,1\n")

	_, err := NewDirSource(dir).GroupSeries(context.Background(), panel.EntityDisease, []string{"onco"}, map[string]bool{"Acme": true})
	require.Error(t, err, "added column without its launch twin is a schema error")
	assert.Equal(t, errors.CodeInputInvalid, errors.GetCode(err))
}

func TestWriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	header := []string{"DiseaseGroup", "Total"}
	rows := [][]string{{"onco", "3"}, {"cardio", "0"}}
	require.NoError(t, WriteTable(path, header, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, append([][]string{header}, rows...), records)
}
