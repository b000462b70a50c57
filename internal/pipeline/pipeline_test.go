package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardpharma/adapters/tables"
	"boardpharma/domain/panel"
	"boardpharma/domain/taxonomy"
	"boardpharma/internal/config"
	"boardpharma/internal/errors"
)

// writeFixture lays down a minimal but fully classifiable input set: one
// whitelisted pair (A, B) observed 2000–2004 with an indirect onset in 2002
// and a direct onset in 2003, one disease group, and one row with a
// non-whitelisted counterparty that must be filtered out.
func writeFixture(t *testing.T, dir string) {
	t.Helper()

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	write(tables.FileWhitelist+".csv", "BoardName\nA\nB\nC\n")

	write(tables.FileInterlock,
		"BoardName1,BoardName2,year,interlock_indirect,interlock_direct\n"+
			"A,B,2000,0,0\n"+
			"A,B,2001,0,0\n"+
			"A,B,2002,1,0\n"+
			"A,B,2003,1,1\n"+
			"A,B,2004,0,0\n"+
			"A,D,2000,1,1\n")

	write(tables.FileFirmYear,
		"BoardName,year,cum_disease_n_added_onco,cum_disease_n_launch_onco\n"+
			"A,2000,1,0\n"+
			"A,2001,1,0\n"+
			"A,2002,1,0\n"+
			"A,2003,1,0\n"+
			"A,2004,1,0\n"+
			"B,2000,0,0\n"+
			"B,2001,0,0\n"+
			"B,2002,1,0\n"+
			"B,2003,1,1\n"+
			"B,2004,1,1\n"+
			"D,2000,9,9\n")
}

func testConfig(in, out string) *config.Config {
	return &config.Config{
		InputDir:  in,
		OutputDir: out,
		BatchSize: config.DefaultBatchSize,
		Entities:  []panel.Entity{panel.EntityDisease},
		Source:    config.SourceCSV,
	}
}

// expectedBlock renders one scenario block the way the reports do: total and
// total share followed by 25 count/share pairs.
func expectedBlock(total int, counts [taxonomy.MaskCount]int) []string {
	block := make([]string, 0, 2+2*taxonomy.MaskCount)
	totalShare := "0"
	if total > 0 {
		totalShare = "1"
	}
	block = append(block, strconv.Itoa(total), totalShare)
	for _, c := range counts {
		s := "0"
		if total > 0 && c > 0 {
			s = strconv.FormatFloat(float64(c)/float64(total), 'g', -1, 64)
		}
		block = append(block, strconv.Itoa(c), s)
	}
	return block
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err, path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err, path)
	return records
}

func TestRun_EndToEnd(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFixture(t, in)

	cfg := testConfig(in, out)
	p := New(cfg, tables.NewDirSource(in), nil)
	require.NoError(t, p.Run(context.Background()))

	records := readCSV(t, filepath.Join(out, taxonomy.FileMasterDisease))
	require.Len(t, records, 2)
	assert.Equal(t, taxonomy.MasterColumns("DiseaseGroup"), records[0])

	row := records[1]
	require.Len(t, row, 1+3*(2+2*taxonomy.MaskCount))
	assert.Equal(t, "onco", row[0])

	// Indirect onset year 2002: A originated at lag-1, B catches up within
	// the window but the three-year lead is unobservable this close to the
	// panel edge, so only the lead-free masks fire.
	indirect := expectedBlock(1, [taxonomy.MaskCount]int{
		0: 1, 1: 1,
		15: 1, 16: 1,
		20: 1, 21: 1,
	})
	assert.Equal(t, indirect, row[1:53], "indirect block")

	// Direct onset year 2003: both sides already experienced, so no
	// asymmetric mask can fire.
	direct := expectedBlock(1, [taxonomy.MaskCount]int{})
	assert.Equal(t, direct, row[53:105], "direct block")

	// No-interlock years 2000 and 2001: 2000 is excluded by the missing
	// lag-1, 2001 classifies fully since B's origination-then-launch order
	// checks out.
	none := expectedBlock(2, [taxonomy.MaskCount]int{
		0: 1, 2: 1, 3: 1, 4: 1,
		15: 1, 17: 1, 18: 1, 19: 1,
		20: 1, 22: 1, 23: 1, 24: 1,
	})
	assert.Equal(t, none, row[105:157], "no-interlock block")

	// The YoY tables reuse the scenario bundles verbatim.
	yoy := readCSV(t, filepath.Join(out, taxonomy.FileYoYIndirect))
	require.Len(t, yoy, 2)
	assert.Equal(t, append([]string{"onco"}, indirect...), yoy[1])

	// Both onsets happened before any prior direct interlock accumulated.
	hist := readCSV(t, filepath.Join(out, taxonomy.FileHistoryIndirect))
	require.Len(t, hist, 3)
	assert.Equal(t, taxonomy.BucketNoPriorDirect, hist[1][1])
	assert.Equal(t, append([]string{"onco", taxonomy.BucketNoPriorDirect}, indirect...), hist[1])
	assert.Equal(t, append([]string{"onco", taxonomy.BucketPriorDirect}, expectedBlock(0, [taxonomy.MaskCount]int{})...), hist[2])

	histDirect := readCSV(t, filepath.Join(out, taxonomy.FileHistoryDirect))
	require.Len(t, histDirect, 3)
	assert.Equal(t, "1", histDirect[1][2], "direct onset lands in the no-prior bucket")
	assert.Equal(t, "0", histDirect[2][2])

	// Manifest is written last, after every report.
	raw, err := os.ReadFile(filepath.Join(out, ManifestFile))
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.NotEmpty(t, m.RunID)
	assert.Equal(t, Version, m.CodeVersion)
	assert.Equal(t, 5, m.PairYearRows, "non-whitelisted pair row excluded")
	assert.Equal(t, 1, m.Pairs)
	assert.Equal(t, map[string]int{"disease": 1}, m.GroupCounts)
}

func TestRun_NoGroupsIsFatal(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFixture(t, in)

	// An entity list whose groups never match the firm-year columns aborts
	// before any table is written.
	cfg := testConfig(in, out)
	cfg.Entities = []panel.Entity{panel.EntityTherapeutic}

	p := New(cfg, tables.NewDirSource(in), nil)
	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInputInvalid, errors.GetCode(err))

	_, statErr := os.Stat(filepath.Join(out, taxonomy.FileMasterTherapeutic))
	assert.True(t, os.IsNotExist(statErr))
}
