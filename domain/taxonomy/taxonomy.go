// Package taxonomy fixes the classification-mask taxonomy and the exact
// column layouts and filenames of every emitted report. Downstream consumers
// parse these files by name and position, so nothing here may drift.
package taxonomy

import "fmt"

// MaskCount is the number of named classification masks evaluated per
// scenario: a.1–a.10, b.1–b.10, and rn1–rn5.
const MaskCount = 25

// MaskLabels returns the canonical ordered mask names. The order matches the
// count vector produced by the classification engine.
func MaskLabels() []string {
	labels := make([]string, 0, MaskCount)
	for i := 1; i <= 10; i++ {
		labels = append(labels, fmt.Sprintf("a.%d", i))
	}
	for i := 1; i <= 10; i++ {
		labels = append(labels, fmt.Sprintf("b.%d", i))
	}
	for i := 1; i <= 5; i++ {
		labels = append(labels, fmt.Sprintf("rn%d", i))
	}
	return labels
}

// Output basenames. Therapeutic runs prefix each with "therapeutic_".
const (
	FileMasterDisease     = "full_disease_results_with_all_scenarios.csv"
	FileMasterTherapeutic = "full_therapeutic_results_with_all_scenarios.csv"

	FileLegacyIndirect = "originate_changes_interlock_indirect_with_shares.csv"
	FileLegacyDirect   = "originate_changes_interlock_direct_with_shares.csv"
	FileLegacyNone     = "originate_changes_not_interlock_indirect_with_shares.csv"

	FileYoYIndirect = "originate_changes_interlock_indirect_with_shares_YoY_events.csv"
	FileYoYDirect   = "originate_changes_interlock_direct_with_shares_YoY_events.csv"
	FileYoYNone     = "originate_changes_not_interlock_with_shares_YoY_events.csv"

	// The direct history filename carries a historical "share" singular.
	FileHistoryIndirect = "originate_changes_interlock_indirect_with_shares_by_prior_direct_history.csv"
	FileHistoryDirect   = "originate_changes_interlock_direct_with_share_by_prior_direct_history.csv"
)

// History bucket labels, restricted to these two literals.
const (
	BucketNoPriorDirect = "no_prior_direct"
	BucketPriorDirect   = "prior_direct"
)

// countShare appends "<name>_Count", "<name>_Share" column pairs for a run
// of numbered mask names.
func countShare(cols []string, prefix string, from, to int) []string {
	for i := from; i <= to; i++ {
		cols = append(cols, fmt.Sprintf("%s%d_Count", prefix, i), fmt.Sprintf("%s%d_Share", prefix, i))
	}
	return cols
}

// scenarioBlock builds one master-table scenario block: the total pair
// followed by 25 count/share pairs under the block's letter scheme.
func scenarioBlock(cols []string, totalCount, totalShare, first, second, rnPrefix string) []string {
	cols = append(cols, totalCount, totalShare)
	cols = countShare(cols, first+".", 1, 10)
	cols = countShare(cols, second+".", 1, 10)
	cols = countShare(cols, rnPrefix+".rn", 1, 5)
	return cols
}

// MasterColumns returns the wide master-table header: three scenario blocks
// (Indirect a/b, Direct e/f, No-Interlock c/d) keyed by the entity's group
// column.
func MasterColumns(keyColumn string) []string {
	cols := []string{keyColumn}
	cols = scenarioBlock(cols, "Total_Indirect_Event_Count", "Total_Indirect_Event_Share", "a", "b", "ab")
	cols = scenarioBlock(cols, "Total_Direct_Event_Count", "Total_Direct_Event_Share", "e", "f", "ef")
	cols = scenarioBlock(cols, "Total_NoInterlock_Event_Count", "Total_NoInterlock_Event_Share", "c", "d", "cd")
	return cols
}

// LegacyIndirectColumns is the indirect per-scenario table header.
func LegacyIndirectColumns(keyColumn string) []string {
	cols := []string{keyColumn}
	return scenarioBlock(cols, "Total_Interlock_Event_Count", "Total_Interlock_Event_Share", "a", "b", "ab")
}

// LegacyDirectColumns is the direct per-scenario table header. The master
// table's e/f columns are renamed back to a/b to match the historical naming
// scheme, while the ef.rn columns keep their master names.
func LegacyDirectColumns(keyColumn string) []string {
	cols := []string{keyColumn}
	return scenarioBlock(cols, "Total_Direct_Interlock_Event_Count", "Total_Direct_Interlock_Event_Share", "a", "b", "ef")
}

// LegacyNoneColumns is the no-interlock per-scenario table header.
func LegacyNoneColumns(keyColumn string) []string {
	cols := []string{keyColumn}
	return scenarioBlock(cols, "Total_NoInterlock_Event_Count", "Total_NoInterlock_Event_Share", "c", "d", "cd")
}

// YoYColumns returns the year-of-onset table header for one scenario. The
// rn columns drop the block prefix in YoY tables.
func YoYColumns(keyColumn, totalCount, totalShare string) []string {
	cols := []string{keyColumn, totalCount, totalShare}
	cols = countShare(cols, "a.", 1, 10)
	cols = countShare(cols, "b.", 1, 10)
	cols = countShare(cols, "rn", 1, 5)
	return cols
}

// HistoryColumns returns the YoY-by-prior-history table header: the YoY
// layout with a HistoryBucket column after the group key.
func HistoryColumns(keyColumn, totalCount, totalShare string) []string {
	cols := []string{keyColumn, "HistoryBucket", totalCount, totalShare}
	cols = countShare(cols, "a.", 1, 10)
	cols = countShare(cols, "b.", 1, 10)
	cols = countShare(cols, "rn", 1, 5)
	return cols
}
