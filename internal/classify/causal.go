package classify

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"boardpharma/domain/panel"
)

// EvaluateCausal determines, per pair and per side, whether the first launch
// increment occurs at or after the first origination increment. A launch
// causally preceded by zero origination disqualifies the side.
//
// Each series is first repaired into a monotone trajectory (missing treated
// as zero, then a running maximum — a cumulative counter cannot decrease),
// and the position of its first strictly-positive increment located. A side
// is eligible iff both increments exist and the launch increment does not
// come first. The flags are pair-constant and broadcast to every row.
//
// Pairs are independent, so evaluation fans out across them; each worker
// writes only its own pairs' row indices, keeping the result deterministic.
func EvaluateCausal(ctx context.Context, pairs []panel.Range, o1, l1, o2, l2 []float64) ([]bool, []bool, error) {
	ok1 := make([]bool, len(o1))
	ok2 := make([]bool, len(o2))
	if len(pairs) == 0 {
		return ok1, ok2, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(pairs) {
		workers = len(pairs)
	}
	chunk := (len(pairs) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(pairs); start += chunk {
		end := start + chunk
		if end > len(pairs) {
			end = len(pairs)
		}
		part := pairs[start:end]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, pr := range part {
				evaluatePair(pr, o1, l1, ok1)
				evaluatePair(pr, o2, l2, ok2)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return ok1, ok2, nil
}

// evaluatePair marks every row of the pair eligible when the side's launch
// increment exists and does not precede its origination increment.
func evaluatePair(pr panel.Range, orig, launch []float64, ok []bool) {
	origIdx := firstIncrementIndex(orig, pr)
	if origIdx < 0 {
		return
	}
	launchIdx := firstIncrementIndex(launch, pr)
	if launchIdx < 0 || launchIdx < origIdx {
		return
	}
	for i := pr.Start; i < pr.End; i++ {
		ok[i] = true
	}
}

// firstIncrementIndex returns the position (relative to the pair's first
// row) of the first strictly-positive increment of the repaired monotone
// series, or -1 when the series never increases. The first element is a
// level, not an increment, so position 0 never qualifies.
func firstIncrementIndex(values []float64, pr panel.Range) int {
	if pr.Len() == 0 {
		return -1
	}
	m := values[pr.Start]
	if math.IsNaN(m) {
		m = 0
	}
	for pos, i := 1, pr.Start+1; i < pr.End; pos, i = pos+1, i+1 {
		v := values[i]
		if math.IsNaN(v) {
			v = 0
		}
		if v > m {
			return pos
		}
	}
	return -1
}
