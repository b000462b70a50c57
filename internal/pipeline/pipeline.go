// Package pipeline orchestrates a full run: base construction, batched
// group processing through the classification core, and report emission.
package pipeline

import (
	"context"
	"time"

	"boardpharma/domain/panel"
	ipanel "boardpharma/internal/panel"

	"boardpharma/internal"
	"boardpharma/internal/classify"
	"boardpharma/internal/config"
	"boardpharma/internal/errors"
	"boardpharma/internal/report"
	"boardpharma/ports"
)

// Pipeline is the batch entry point. It is synchronous: entities run in
// order, groups run in fixed-size batches, and the only concurrency is the
// per-pair fan-out inside the causal evaluator.
type Pipeline struct {
	cfg     *config.Config
	source  ports.TableSource
	emitter *report.Emitter
	log     *internal.Logger
}

// New wires a pipeline from explicit collaborators.
func New(cfg *config.Config, source ports.TableSource, log *internal.Logger) *Pipeline {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Pipeline{
		cfg:     cfg,
		source:  source,
		emitter: report.NewEmitter(cfg.OutputDir, log),
		log:     log,
	}
}

// Run executes the full transform for every configured entity and writes
// the run manifest once all reports are on disk. Configuration and input
// errors abort before any output is written.
func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()

	whitelist, err := p.source.Whitelist(ctx)
	if err != nil {
		return err
	}
	columns, err := p.source.FirmYearColumns(ctx)
	if err != nil {
		return err
	}

	groupsByEntity := make(map[panel.Entity][]string, len(p.cfg.Entities))
	total := 0
	for _, entity := range p.cfg.Entities {
		groups := ipanel.DetectGroups(columns, entity)
		groupsByEntity[entity] = groups
		total += len(groups)
	}
	if total == 0 {
		return errors.InputInvalid("no groups found in firm-year columns for the requested entities")
	}

	interlock, err := p.source.InterlockRows(ctx)
	if err != nil {
		return err
	}
	base, err := ipanel.BuildBase(interlock, whitelist)
	if err != nil {
		return err
	}
	p.log.Info("[base] rows=%d pairs=%d", base.Len(), base.Pairs())

	valid := make(map[string]bool, len(whitelist))
	for _, name := range whitelist {
		valid[name] = true
	}
	noPrior, prior := base.HistoryMasks()

	manifest := newManifest(p.cfg, base)
	for _, entity := range p.cfg.Entities {
		groups := groupsByEntity[entity]
		if len(groups) == 0 {
			p.log.Warn("[%s] no groups detected, skipped", entity)
			continue
		}
		results, err := p.runEntity(ctx, base, valid, noPrior, prior, entity, groups)
		if err != nil {
			return err
		}
		if err := p.emitter.EmitEntity(entity, results); err != nil {
			return err
		}
		manifest.GroupCounts[string(entity)] = len(groups)
	}

	manifest.StartedAt = started
	manifest.FinishedAt = time.Now()
	if err := manifest.Write(p.cfg.OutputDir); err != nil {
		return err
	}
	p.log.Info("done in %s, outputs at %s", manifest.FinishedAt.Sub(started).Round(time.Millisecond), p.cfg.OutputDir)
	return nil
}

// scenarioMasks bundles one entity run's base masks and their totals.
// Totals are population constants: identical for every group.
type scenarioMasks struct {
	masks  [7][]bool
	totals [7]int
}

const (
	scenarioIndirect = iota
	scenarioDirect
	scenarioNone
	scenarioIndirectNoPrior
	scenarioIndirectPrior
	scenarioDirectNoPrior
	scenarioDirectPrior
)

func (p *Pipeline) runEntity(
	ctx context.Context,
	base *panel.BaseTable,
	valid map[string]bool,
	noPrior, prior []bool,
	entity panel.Entity,
	groups []string,
) ([]report.GroupResult, error) {
	var sm scenarioMasks
	sm.masks[scenarioIndirect] = base.IndirectYoY
	sm.masks[scenarioDirect] = base.DirectYoY
	sm.masks[scenarioNone] = base.Never
	sm.masks[scenarioIndirectNoPrior] = classify.And(base.IndirectYoY, noPrior)
	sm.masks[scenarioIndirectPrior] = classify.And(base.IndirectYoY, prior)
	sm.masks[scenarioDirectNoPrior] = classify.And(base.DirectYoY, noPrior)
	sm.masks[scenarioDirectPrior] = classify.And(base.DirectYoY, prior)
	for i, m := range sm.masks {
		sm.totals[i] = classify.CountTrue(m)
	}

	p.log.Info("[%s] computing %d groups in batches of %d", entity, len(groups), p.cfg.BatchSize)

	results := make([]report.GroupResult, 0, len(groups))
	for start := 0; start < len(groups); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(groups) {
			end = len(groups)
		}
		batch := groups[start:end]

		series, err := p.source.GroupSeries(ctx, entity, batch, valid)
		if err != nil {
			return nil, err
		}
		joined := ipanel.AttachBatch(base, series, entity, batch)
		cache := classify.BuildShiftCache(joined)

		for _, g := range batch {
			d := cache.Group(g)
			d.OK1, d.OK2, err = classify.EvaluateCausal(ctx, base.PairRanges, d.CurO1, d.CurL1, d.CurO2, d.CurL2)
			if err != nil {
				return nil, err
			}

			profile := ipanel.ProfileSeries(d.CurO1)
			p.log.Debug("[%s] group %s coverage=%.3f median=%.1f max=%.1f",
				entity, g, profile.Coverage, profile.Median, profile.Max)

			results = append(results, report.GroupResult{
				Group:           g,
				Indirect:        p.bundle(d, sm, scenarioIndirect),
				Direct:          p.bundle(d, sm, scenarioDirect),
				None:            p.bundle(d, sm, scenarioNone),
				IndirectNoPrior: p.bundle(d, sm, scenarioIndirectNoPrior),
				IndirectPrior:   p.bundle(d, sm, scenarioIndirectPrior),
				DirectNoPrior:   p.bundle(d, sm, scenarioDirectNoPrior),
				DirectPrior:     p.bundle(d, sm, scenarioDirectPrior),
			})
		}

		// The cache holds several wide float64 arrays per group; drop it
		// before the next batch is built to keep peak memory bounded.
		cache.Release()
		p.log.Info("[%s] processed %d/%d groups", entity, end, len(groups))
	}
	return results, nil
}

func (p *Pipeline) bundle(d *classify.Derivatives, sm scenarioMasks, scenario int) report.Bundle {
	return report.Bundle{
		Total:  sm.totals[scenario],
		Counts: classify.BundleCounts(d, sm.masks[scenario]),
	}
}
