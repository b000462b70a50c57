// Package classify implements the event-classification core: the per-batch
// lag/lead/terminal cache, the pair-level causal ordering evaluator, and the
// mask engine that reduces each group's trajectories to 25 counts.
package classify

import (
	"math"

	"boardpharma/domain/panel"
)

// Derivatives bundles every temporal derivative the classification engine
// needs for one group: current values, lag-1, leads 1–3 of origination,
// lag-1 of launch, and the pair-terminal values, on both sides of the pair,
// plus the causal eligibility flags. Missing values are NaN.
type Derivatives struct {
	CurO1, CurO2 []float64
	CurL1, CurL2 []float64

	L1O1, L1O2 []float64

	F1O1, F2O1, F3O1 []float64
	F1O2, F2O2, F3O2 []float64

	L1L1, L1L2 []float64

	LastO1, LastO2 []float64
	LastL1, LastL2 []float64

	OK1, OK2 []bool
}

// ShiftCache holds the Derivatives for every group of one batch. It is built
// once per batch and released before the next batch starts, which bounds the
// peak working set regardless of how many groups a run covers.
type ShiftCache struct {
	groups map[string]*Derivatives
}

// BuildShiftCache computes all lag, lead, and terminal series for the
// batch's groups in one pass over the joined table.
//
// Lags and leads are taken within each single firm's row sequence (the
// firm's activity is a firm-level property observed identically across all
// its pairs), while terminal values are taken within each pair's rows. Both
// groupings rely on the batch table preserving the base (Firm1, Firm2, Year)
// order.
func BuildShiftCache(bt *panel.BatchTable) *ShiftCache {
	base := bt.Base
	cache := &ShiftCache{groups: make(map[string]*Derivatives, len(bt.Groups))}

	for _, g := range bt.Groups {
		cols := bt.Cols[g]
		d := &Derivatives{
			CurO1: cols.Added1,
			CurO2: cols.Added2,
			CurL1: cols.Launch1,
			CurL2: cols.Launch2,

			L1O1: shiftRanges(cols.Added1, base.Firm1Ranges, 1),
			L1O2: shiftIndex(cols.Added2, base.Firm2Rows, 1),

			F1O1: shiftRanges(cols.Added1, base.Firm1Ranges, -1),
			F2O1: shiftRanges(cols.Added1, base.Firm1Ranges, -2),
			F3O1: shiftRanges(cols.Added1, base.Firm1Ranges, -3),
			F1O2: shiftIndex(cols.Added2, base.Firm2Rows, -1),
			F2O2: shiftIndex(cols.Added2, base.Firm2Rows, -2),
			F3O2: shiftIndex(cols.Added2, base.Firm2Rows, -3),

			L1L1: shiftRanges(cols.Launch1, base.Firm1Ranges, 1),
			L1L2: shiftIndex(cols.Launch2, base.Firm2Rows, 1),

			LastO1: lastRanges(cols.Added1, base.PairRanges),
			LastO2: lastRanges(cols.Added2, base.PairRanges),
			LastL1: lastRanges(cols.Launch1, base.PairRanges),
			LastL2: lastRanges(cols.Launch2, base.PairRanges),
		}
		cache.groups[g] = d
	}
	return cache
}

// Group returns the derivative bundle for one group, or nil if the group is
// not part of this batch.
func (c *ShiftCache) Group(name string) *Derivatives {
	return c.groups[name]
}

// Release drops every group's arrays so the batch's working set can be
// reclaimed before the next batch is built.
func (c *ShiftCache) Release() {
	c.groups = nil
}

// shiftRanges shifts values by offset positions within each contiguous row
// range. A positive offset is a lag, a negative offset a lead; positions
// shifted past a range boundary become NaN.
func shiftRanges(values []float64, ranges []panel.Range, offset int) []float64 {
	out := nanSlice(len(values))
	for _, r := range ranges {
		for i := r.Start; i < r.End; i++ {
			src := i - offset
			if src >= r.Start && src < r.End {
				out[i] = values[src]
			}
		}
	}
	return out
}

// shiftIndex is shiftRanges for non-contiguous groupings given as ordered
// row-index lists per key.
func shiftIndex(values []float64, rows map[string][]int, offset int) []float64 {
	out := nanSlice(len(values))
	for _, idx := range rows {
		for pos, i := range idx {
			src := pos - offset
			if src >= 0 && src < len(idx) {
				out[i] = values[idx[src]]
			}
		}
	}
	return out
}

// lastRanges broadcasts each range's last observed (non-NaN) value to every
// row of the range. A range with no observed value stays NaN throughout.
func lastRanges(values []float64, ranges []panel.Range) []float64 {
	out := nanSlice(len(values))
	for _, r := range ranges {
		last := math.NaN()
		for i := r.End - 1; i >= r.Start; i-- {
			if !math.IsNaN(values[i]) {
				last = values[i]
				break
			}
		}
		for i := r.Start; i < r.End; i++ {
			out[i] = last
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
