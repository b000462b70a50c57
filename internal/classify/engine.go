package classify

import (
	"math"

	"boardpharma/domain/taxonomy"
)

// ============================================================================
// EVENT CLASSIFICATION ENGINE
// ============================================================================
// BundleCounts reduces one group's derivative bundle to the 25 mask counts
// (a.1–a.10, b.1–b.10, rn1–rn5) for one scenario base mask. Each mask is a
// subset of the base mask; masks overlap freely among themselves.
//
// Missing data propagates as NaN and every comparison with NaN is false, so
// "known zero at lag-1" (v == 0) is naturally distinct from "unobserved at
// lag-1" without any sentinel substitution. The mask_na gates additionally
// require both sides observed before any mask can fire.
// ============================================================================

// Counts is the ordered mask count vector: a.1–a.10, b.1–b.10, rn1–rn5.
type Counts [taxonomy.MaskCount]int

// Mask vector offsets.
const (
	offA  = 0
	offB  = 10
	offRN = 20
)

// BundleCounts evaluates the full mask taxonomy for rows selected by base.
// It is a pure function of its inputs: identical bundles yield identical
// counts, and no state survives the call.
func BundleCounts(d *Derivatives, base []bool) Counts {
	var counts Counts

	for i := range base {
		if !base[i] {
			continue
		}

		l1o1, l1o2 := d.L1O1[i], d.L1O2[i]
		l1l1, l1l2 := d.L1L1[i], d.L1L2[i]
		curO1, curO2 := d.CurO1[i], d.CurO2[i]
		f1o1, f2o1, f3o1 := d.F1O1[i], d.F2O1[i], d.F3O1[i]
		f1o2, f2o2, f3o2 := d.F1O2[i], d.F2O2[i], d.F3O2[i]
		lastO1, lastO2 := d.LastO1[i], d.LastO2[i]
		lastL1, lastL2 := d.LastL1[i], d.LastL2[i]
		ok1, ok2 := d.OK1[i], d.OK2[i]

		// Both-sides-observed gates. One-sided missing data excludes the
		// row from every mask that needs the affected series.
		naOrig := !math.IsNaN(l1o1) && !math.IsNaN(l1o2)
		naLaunch := !math.IsNaN(l1l1) && !math.IsNaN(l1l2)
		naFuture := !math.IsNaN(f3o1) && !math.IsNaN(f3o2)

		if !naOrig {
			continue
		}

		// Known zero at lag-1 on both sides; false under missingness since
		// NaN == 0 is false.
		bothInexpLag := l1o1 == 0 && l1o2 == 0

		// Origination strictly increases somewhere in the 4-year window
		// {t, t+1, t+2, t+3} relative to lag-1.
		starts1 := curO1 > l1o1 || f1o1 > l1o1 || f2o1 > l1o1 || f3o1 > l1o1
		starts2 := curO2 > l1o2 || f1o2 > l1o2 || f2o2 > l1o2 || f3o2 > l1o2

		// "Eventually starts / launches, ever" against the pair terminal.
		starts1ByLast := lastO1 > l1o1
		starts2ByLast := lastO2 > l1o2
		launched1ByLast := lastL1 > l1l1
		launched2ByLast := lastL2 > l1l2

		// Full confirmation: starts in-window, launches by terminal, and
		// the launch is not causally orphaned.
		confirmed1 := starts1 && launched1ByLast && ok1
		confirmed2 := starts2 && launched2ByLast && ok2
		eitherConfirmed := confirmed1 || confirmed2
		eitherStartsByLast := starts1ByLast || starts2ByLast

		// Origination asymmetry at lag-1: exactly one side experienced.
		side1Exp := l1o1 > 0 && l1o2 == 0
		side2Exp := l1o1 == 0 && l1o2 > 0

		// a.1–a.5: asymmetric prior origination, progressively confirmed.
		if side1Exp || side2Exp {
			counts[offA]++
		}
		if (side1Exp && curO2 > 0) || (side2Exp && curO1 > 0) {
			counts[offA+1]++
		}
		if naFuture {
			if (side1Exp && f3o2 > 0) || (side2Exp && f3o1 > 0) {
				counts[offA+2]++
			}
			if naLaunch {
				if (side1Exp && confirmed2) || (side2Exp && confirmed1) {
					counts[offA+3]++
				}
			}
			if (side1Exp && starts2ByLast) || (side2Exp && starts1ByLast) {
				counts[offA+4]++
			}
		}

		// a.6–a.10: both sides inexperienced at lag-1.
		if bothInexpLag {
			counts[offA+5]++
			if curO1 > 0 || curO2 > 0 {
				counts[offA+6]++
			}
			if naFuture {
				if f3o1 > 0 || f3o2 > 0 {
					counts[offA+7]++
				}
				if naLaunch && eitherConfirmed {
					counts[offA+8]++
				}
				if eitherStartsByLast {
					counts[offA+9]++
				}
			}
		}

		if naLaunch {
			// Launch asymmetry at lag-1 for the experienced side.
			launch1Exp := l1l1 > 0 && l1o2 == 0
			launch2Exp := l1o1 == 0 && l1l2 > 0

			// b.1–b.5.
			if launch1Exp || launch2Exp {
				counts[offB]++
			}
			if (launch1Exp && curO2 > 0) || (launch2Exp && curO1 > 0) {
				counts[offB+1]++
			}
			if naFuture {
				if (launch1Exp && f3o2 > 0) || (launch2Exp && f3o1 > 0) {
					counts[offB+2]++
				}
				if (launch1Exp && confirmed2) || (launch2Exp && confirmed1) {
					counts[offB+3]++
				}
				if (launch1Exp && starts2ByLast) || (launch2Exp && starts1ByLast) {
					counts[offB+4]++
				}
			}

			// b.6–b.10: symmetric "neither launched nor originated" base
			// with directional confirmation on the other side.
			quiet1 := l1l1 == 0 && l1o2 == 0
			quiet2 := l1l2 == 0 && l1o1 == 0
			if quiet1 || quiet2 {
				counts[offB+5]++
			}
			if (quiet1 && curO2 > 0) || (quiet2 && curO1 > 0) {
				counts[offB+6]++
			}
			if naFuture {
				if (quiet1 && f3o2 > 0) || (quiet2 && f3o1 > 0) {
					counts[offB+7]++
				}
				if (quiet1 && confirmed2) || (quiet2 && confirmed1) {
					counts[offB+8]++
				}
				if (quiet1 && starts2ByLast) || (quiet2 && starts1ByLast) {
					counts[offB+9]++
				}
			}

			// rn1–rn5: prior origination without prior launch on one side
			// and no origination on the other, progressively confirmed.
			rn1Side1 := l1o1 > 0 && l1o2 == 0 && l1l1 == 0
			rn1Side2 := l1o1 == 0 && l1o2 > 0 && l1l2 == 0
			if rn1Side1 || rn1Side2 {
				counts[offRN]++
			}
			if (rn1Side1 && curO2 > 0) || (rn1Side2 && curO1 > 0) {
				counts[offRN+1]++
			}
			if naFuture {
				if (rn1Side1 && f3o2 > 0) || (rn1Side2 && f3o1 > 0) {
					counts[offRN+2]++
				}
				if (rn1Side1 && confirmed2) || (rn1Side2 && confirmed1) {
					counts[offRN+3]++
				}
				if (rn1Side1 && starts2ByLast) || (rn1Side2 && starts1ByLast) {
					counts[offRN+4]++
				}
			}
		}
	}

	return counts
}

// CountTrue returns the number of set rows in a mask, the scenario total for
// share computation.
func CountTrue(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}

// And returns the elementwise conjunction of two masks.
func And(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}
	return out
}
