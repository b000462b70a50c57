package panel

// Entity selects which family of disease/therapeutic groups a run covers.
// Column prefixes, report key columns, and output filename prefixes all key
// off the entity kind.
type Entity string

const (
	EntityDisease     Entity = "disease"
	EntityTherapeutic Entity = "therapeutic"
)

// AddedColumn returns the firm-year column holding the cumulative
// origination counter for a group.
func (e Entity) AddedColumn(group string) string {
	return "cum_" + string(e) + "_n_added_" + group
}

// LaunchColumn returns the firm-year column holding the cumulative launch
// counter for a group.
func (e Entity) LaunchColumn(group string) string {
	return "cum_" + string(e) + "_n_launch_" + group
}

// KeyColumn is the group key column name used in every report for this entity.
func (e Entity) KeyColumn() string {
	if e == EntityTherapeutic {
		return "TherapeuticGroup"
	}
	return "DiseaseGroup"
}

// FilePrefix is prepended to every output filename for this entity.
// Disease reports keep the historical unprefixed names.
func (e Entity) FilePrefix() string {
	if e == EntityTherapeutic {
		return "therapeutic_"
	}
	return ""
}

// Valid reports whether e is a recognized entity kind.
func (e Entity) Valid() bool {
	return e == EntityDisease || e == EntityTherapeutic
}

// PairKey identifies one firm pair. Firm1/Firm2 keep the orientation of the
// interlock input table; pairs are not symmetrized.
type PairKey struct {
	Firm1 string
	Firm2 string
}

// Range is a half-open [Start, End) run of row indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// InterlockRow is one raw observation from the pair-year interlock table.
// Indicator values are NaN when the source cell was empty or non-numeric;
// the base builder coerces missing indicators to zero.
type InterlockRow struct {
	Firm1    string
	Firm2    string
	Year     int
	Indirect float64
	Direct   float64
}

// FirmYear is the join key between the pair table and the firm-year table.
type FirmYear struct {
	Firm string
	Year int
}

// FirmYearSlice holds the firm-year series for one batch of groups:
// one row per (firm, year), with per-group cumulative added/launch columns.
// Values are NaN where the source cell was empty or non-numeric.
type FirmYearSlice struct {
	Index  map[FirmYear]int
	Added  map[string][]float64
	Launch map[string][]float64
	Rows   int
}

// BaseTable is the shared pair-year foundation built once per run from the
// interlock table. Rows are sorted by (Firm1, Firm2, Year) ascending and the
// table is immutable after construction; every downstream lag/lead and mask
// computation depends on this ordering.
type BaseTable struct {
	Firm1 []string
	Firm2 []string
	Year  []int

	// Indicators with missing filled to zero, plus per-pair lag-1 values
	// and running cumulative sums through the current year.
	Indirect    []int8
	Direct      []int8
	L1Indirect  []int8
	L1Direct    []int8
	CumIndirect []int32
	CumDirect   []int32

	// CumDirectPrev is the lag-1 cumulative direct count, the basis for the
	// prior-direct history split.
	CumDirectPrev []int32

	// Scenario base masks. IndirectYoY and DirectYoY flag only the
	// transition year (indicator 1 with lag-1 value 0); Never flags rows
	// where both cumulative indicators are still zero.
	IndirectYoY []bool
	DirectYoY   []bool
	Never       []bool

	// Row groupings derived from the sort order. Pair and Firm1 groups are
	// contiguous because Firm1 and (Firm1, Firm2) are sort prefixes; Firm2
	// groups are index lists in table order.
	PairRanges  []Range
	Firm1Ranges []Range
	Firm2Rows   map[string][]int
}

// Len returns the number of pair-year rows.
func (b *BaseTable) Len() int { return len(b.Year) }

// Pairs returns the number of distinct firm pairs.
func (b *BaseTable) Pairs() int { return len(b.PairRanges) }

// HistoryMasks derives the two prior-direct history masks: rows whose lag-1
// cumulative direct interlock count is zero, and rows where it is positive.
// Every row lands in exactly one bucket.
func (b *BaseTable) HistoryMasks() (noPrior, prior []bool) {
	noPrior = make([]bool, b.Len())
	prior = make([]bool, b.Len())
	for i, v := range b.CumDirectPrev {
		if v == 0 {
			noPrior[i] = true
		} else {
			prior[i] = true
		}
	}
	return noPrior, prior
}

// BatchTable is the base table joined with one batch of group columns, two
// firm-side columns per group per series. Column slices align row-for-row
// with the base table; unmatched firm-years stay NaN so that "no data" is
// never conflated with "no activity".
type BatchTable struct {
	Base   *BaseTable
	Entity Entity
	Groups []string
	Cols   map[string]*GroupColumns
}

// GroupColumns holds the four joined series for one group: cumulative
// origination ("added") and launch counters on each side of the pair.
type GroupColumns struct {
	Added1  []float64
	Added2  []float64
	Launch1 []float64
	Launch2 []float64
}
