package panel

import (
	"math"

	"boardpharma/domain/panel"
)

// AttachBatch joins one batch of group series onto both sides of the base
// table. The join is left-outer with respect to the base: every base row is
// retained, and firm-years absent from the series stay NaN rather than
// becoming zeros, so downstream masks can tell "no data" from "no activity".
// Column slices come back aligned with the base table's row order.
func AttachBatch(base *panel.BaseTable, series *panel.FirmYearSlice, entity panel.Entity, groups []string) *panel.BatchTable {
	n := base.Len()
	bt := &panel.BatchTable{
		Base:   base,
		Entity: entity,
		Groups: groups,
		Cols:   make(map[string]*panel.GroupColumns, len(groups)),
	}

	for _, g := range groups {
		added := series.Added[g]
		launch := series.Launch[g]
		cols := &panel.GroupColumns{
			Added1:  make([]float64, n),
			Added2:  make([]float64, n),
			Launch1: make([]float64, n),
			Launch2: make([]float64, n),
		}
		for i := 0; i < n; i++ {
			cols.Added1[i], cols.Launch1[i] = lookup(series, added, launch, base.Firm1[i], base.Year[i])
			cols.Added2[i], cols.Launch2[i] = lookup(series, added, launch, base.Firm2[i], base.Year[i])
		}
		bt.Cols[g] = cols
	}
	return bt
}

func lookup(series *panel.FirmYearSlice, added, launch []float64, firm string, year int) (float64, float64) {
	idx, ok := series.Index[panel.FirmYear{Firm: firm, Year: year}]
	if !ok {
		return math.NaN(), math.NaN()
	}
	a, l := math.NaN(), math.NaN()
	if added != nil {
		a = added[idx]
	}
	if launch != nil {
		l = launch[idx]
	}
	return a, l
}
