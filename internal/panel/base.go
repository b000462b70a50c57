package panel

import (
	"math"
	"sort"

	"boardpharma/domain/panel"
	"boardpharma/internal/errors"
)

// BuildBase constructs the shared pair-year foundation from the raw
// interlock observations: whitelist filtering, the canonical
// (Firm1, Firm2, Year) sort, indicator lag-1 and cumulative sums, and the
// three scenario masks. The result is built once per run and shared by
// every group computation.
func BuildBase(rows []panel.InterlockRow, whitelist []string) (*panel.BaseTable, error) {
	if len(whitelist) == 0 {
		return nil, errors.InputInvalid("firm whitelist is empty")
	}

	valid := make(map[string]bool, len(whitelist))
	for _, name := range whitelist {
		if name != "" {
			valid[name] = true
		}
	}

	kept := make([]panel.InterlockRow, 0, len(rows))
	for _, r := range rows {
		if valid[r.Firm1] && valid[r.Firm2] {
			kept = append(kept, r)
		}
	}

	// Stable sort keeps the input order of duplicate (pair, year) rows,
	// matching a mergesort over the raw table.
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Firm1 != b.Firm1 {
			return a.Firm1 < b.Firm1
		}
		if a.Firm2 != b.Firm2 {
			return a.Firm2 < b.Firm2
		}
		return a.Year < b.Year
	})

	n := len(kept)
	base := &panel.BaseTable{
		Firm1:         make([]string, n),
		Firm2:         make([]string, n),
		Year:          make([]int, n),
		Indirect:      make([]int8, n),
		Direct:        make([]int8, n),
		L1Indirect:    make([]int8, n),
		L1Direct:      make([]int8, n),
		CumIndirect:   make([]int32, n),
		CumDirect:     make([]int32, n),
		CumDirectPrev: make([]int32, n),
		IndirectYoY:   make([]bool, n),
		DirectYoY:     make([]bool, n),
		Never:         make([]bool, n),
		Firm2Rows:     make(map[string][]int),
	}

	for i, r := range kept {
		base.Firm1[i] = r.Firm1
		base.Firm2[i] = r.Firm2
		base.Year[i] = r.Year
		base.Indirect[i] = indicatorValue(r.Indirect)
		base.Direct[i] = indicatorValue(r.Direct)
		base.Firm2Rows[r.Firm2] = append(base.Firm2Rows[r.Firm2], i)
	}

	base.PairRanges = contiguousRanges(n, func(i, j int) bool {
		return base.Firm1[i] == base.Firm1[j] && base.Firm2[i] == base.Firm2[j]
	})
	base.Firm1Ranges = contiguousRanges(n, func(i, j int) bool {
		return base.Firm1[i] == base.Firm1[j]
	})

	for _, pr := range base.PairRanges {
		var cumIndirect, cumDirect int32
		for i := pr.Start; i < pr.End; i++ {
			if i > pr.Start {
				base.L1Indirect[i] = base.Indirect[i-1]
				base.L1Direct[i] = base.Direct[i-1]
				base.CumDirectPrev[i] = cumDirect
			}
			cumIndirect += int32(base.Indirect[i])
			cumDirect += int32(base.Direct[i])
			base.CumIndirect[i] = cumIndirect
			base.CumDirect[i] = cumDirect

			base.IndirectYoY[i] = base.Indirect[i] == 1 && base.L1Indirect[i] == 0
			base.DirectYoY[i] = base.Direct[i] == 1 && base.L1Direct[i] == 0
			base.Never[i] = cumIndirect == 0 && cumDirect == 0
		}
	}

	return base, nil
}

// indicatorValue coerces a raw indicator cell: missing counts as zero, any
// other value as its truthiness.
func indicatorValue(v float64) int8 {
	if math.IsNaN(v) || v == 0 {
		return 0
	}
	return 1
}

// contiguousRanges splits [0, n) into maximal runs of rows for which same
// reports true for adjacent members. Valid only for sort-prefix groupings.
func contiguousRanges(n int, same func(i, j int) bool) []panel.Range {
	var ranges []panel.Range
	start := 0
	for i := 1; i <= n; i++ {
		if i == n || !same(i-1, i) {
			ranges = append(ranges, panel.Range{Start: start, End: i})
			start = i
		}
	}
	return ranges
}
