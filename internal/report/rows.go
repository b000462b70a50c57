// Package report folds per-group count vectors into the master, legacy,
// YoY, and history tables and writes them out.
package report

import (
	"strconv"

	"boardpharma/internal/classify"
)

// Bundle pairs one scenario's mask counts with the scenario's total event
// count, the denominator for every share in its row.
type Bundle struct {
	Total  int
	Counts classify.Counts
}

// GroupResult carries everything emitted for one group: the three scenario
// bundles plus the four history-split bundles. The master and YoY tables
// share bundles because the scenario base masks are the strict
// transition-year masks.
type GroupResult struct {
	Group string

	Indirect Bundle
	Direct   Bundle
	None     Bundle

	IndirectNoPrior Bundle
	IndirectPrior   Bundle
	DirectNoPrior   Bundle
	DirectPrior     Bundle
}

// appendBundle appends one scenario block: total count, total share (1.0
// whenever the scenario has any events — the total row reflects the whole
// scenario population by convention), then 25 count/share pairs. Shares are
// 0 when the total is 0.
func appendBundle(row []string, b Bundle) []string {
	row = append(row, strconv.Itoa(b.Total), formatShare(totalShare(b.Total)))
	for _, c := range b.Counts {
		row = append(row, strconv.Itoa(c), formatShare(share(c, b.Total)))
	}
	return row
}

func totalShare(total int) float64 {
	if total > 0 {
		return 1.0
	}
	return 0.0
}

func share(count, total int) float64 {
	if total <= 0 {
		return 0.0
	}
	return float64(count) / float64(total)
}

func formatShare(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
