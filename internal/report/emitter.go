package report

import (
	"path/filepath"

	"boardpharma/adapters/tables"
	"boardpharma/domain/panel"
	"boardpharma/domain/taxonomy"
	"boardpharma/internal"
	"boardpharma/internal/errors"
)

// Emitter writes one entity's full report set to the output directory.
type Emitter struct {
	OutDir string
	Log    *internal.Logger
}

// NewEmitter creates an emitter rooted at outDir.
func NewEmitter(outDir string, log *internal.Logger) *Emitter {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Emitter{OutDir: outDir, Log: log}
}

// EmitEntity writes the master table, the three legacy per-scenario tables,
// the three YoY tables, and the two YoY-by-history tables for one entity.
// Any write error aborts immediately so a failed entity never ends with a
// complete-looking report set.
func (e *Emitter) EmitEntity(entity panel.Entity, results []GroupResult) error {
	key := entity.KeyColumn()

	masterName := taxonomy.FileMasterDisease
	if entity == panel.EntityTherapeutic {
		masterName = taxonomy.FileMasterTherapeutic
	}
	if err := e.write(masterName, taxonomy.MasterColumns(key), e.masterRows(results)); err != nil {
		return err
	}
	e.Log.Info("[%s] saved master: %s", entity, masterName)

	type scenarioTable struct {
		file   string
		header []string
		pick   func(GroupResult) Bundle
	}
	legacy := []scenarioTable{
		{taxonomy.FileLegacyIndirect, taxonomy.LegacyIndirectColumns(key), func(r GroupResult) Bundle { return r.Indirect }},
		{taxonomy.FileLegacyDirect, taxonomy.LegacyDirectColumns(key), func(r GroupResult) Bundle { return r.Direct }},
		{taxonomy.FileLegacyNone, taxonomy.LegacyNoneColumns(key), func(r GroupResult) Bundle { return r.None }},
	}
	yoy := []scenarioTable{
		{taxonomy.FileYoYIndirect, taxonomy.YoYColumns(key, "Total_Interlock_Event_Count", "Total_Interlock_Event_Share"), func(r GroupResult) Bundle { return r.Indirect }},
		{taxonomy.FileYoYDirect, taxonomy.YoYColumns(key, "Total_Direct_Interlock_Event_Count", "Total_Direct_Interlock_Event_Share"), func(r GroupResult) Bundle { return r.Direct }},
		{taxonomy.FileYoYNone, taxonomy.YoYColumns(key, "Total_NoInterlock_Event_Count", "Total_NoInterlock_Event_Share"), func(r GroupResult) Bundle { return r.None }},
	}
	for _, t := range append(legacy, yoy...) {
		name := entity.FilePrefix() + t.file
		if err := e.write(name, t.header, scenarioRows(results, t.pick)); err != nil {
			return err
		}
		e.Log.Info("[%s] %s", entity, name)
	}

	type historyTable struct {
		file    string
		header  []string
		noPrior func(GroupResult) Bundle
		prior   func(GroupResult) Bundle
	}
	history := []historyTable{
		{
			taxonomy.FileHistoryIndirect,
			taxonomy.HistoryColumns(key, "Total_Interlock_Event_Count", "Total_Interlock_Event_Share"),
			func(r GroupResult) Bundle { return r.IndirectNoPrior },
			func(r GroupResult) Bundle { return r.IndirectPrior },
		},
		{
			taxonomy.FileHistoryDirect,
			taxonomy.HistoryColumns(key, "Total_Direct_Interlock_Event_Count", "Total_Direct_Interlock_Event_Share"),
			func(r GroupResult) Bundle { return r.DirectNoPrior },
			func(r GroupResult) Bundle { return r.DirectPrior },
		},
	}
	for _, t := range history {
		name := entity.FilePrefix() + t.file
		if err := e.write(name, t.header, historyRows(results, t.noPrior, t.prior)); err != nil {
			return err
		}
		e.Log.Info("[%s] %s", entity, name)
	}

	return nil
}

func (e *Emitter) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(e.OutDir, name)
	if err := tables.WriteTable(path, header, rows); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	return nil
}

// masterRows builds one wide row per group: the Indirect, Direct, and
// No-Interlock blocks side by side.
func (e *Emitter) masterRows(results []GroupResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := make([]string, 0, 1+3*(2+2*taxonomy.MaskCount))
		row = append(row, r.Group)
		row = appendBundle(row, r.Indirect)
		row = appendBundle(row, r.Direct)
		row = appendBundle(row, r.None)
		rows = append(rows, row)
	}
	return rows
}

// scenarioRows builds one row per group for a single-scenario table.
func scenarioRows(results []GroupResult, pick func(GroupResult) Bundle) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := append(make([]string, 0, 1+2+2*taxonomy.MaskCount), r.Group)
		row = appendBundle(row, pick(r))
		rows = append(rows, row)
	}
	return rows
}

// historyRows builds two rows per group, no_prior_direct first, so each
// pair-year event lands in exactly one bucket row.
func historyRows(results []GroupResult, noPrior, prior func(GroupResult) Bundle) [][]string {
	rows := make([][]string, 0, 2*len(results))
	for _, r := range results {
		noRow := append(make([]string, 0, 2+2+2*taxonomy.MaskCount), r.Group, taxonomy.BucketNoPriorDirect)
		rows = append(rows, appendBundle(noRow, noPrior(r)))

		priorRow := append(make([]string, 0, 2+2+2*taxonomy.MaskCount), r.Group, taxonomy.BucketPriorDirect)
		rows = append(rows, appendBundle(priorRow, prior(r)))
	}
	return rows
}
