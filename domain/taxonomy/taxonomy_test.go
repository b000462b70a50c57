package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskLabels(t *testing.T) {
	labels := MaskLabels()
	require.Len(t, labels, MaskCount)
	assert.Equal(t, "a.1", labels[0])
	assert.Equal(t, "a.10", labels[9])
	assert.Equal(t, "b.1", labels[10])
	assert.Equal(t, "b.10", labels[19])
	assert.Equal(t, "rn1", labels[20])
	assert.Equal(t, "rn5", labels[24])
}

func TestMasterColumns(t *testing.T) {
	cols := MasterColumns("DiseaseGroup")
	// Key column plus three blocks of (total pair + 25 count/share pairs).
	require.Len(t, cols, 1+3*(2+2*MaskCount))

	assert.Equal(t, "DiseaseGroup", cols[0])
	assert.Equal(t, "Total_Indirect_Event_Count", cols[1])
	assert.Equal(t, "Total_Indirect_Event_Share", cols[2])
	assert.Equal(t, "a.1_Count", cols[3])
	assert.Equal(t, "a.1_Share", cols[4])
	assert.Equal(t, "b.1_Count", cols[23])
	assert.Equal(t, "ab.rn1_Count", cols[43])
	assert.Equal(t, "ab.rn5_Share", cols[52])

	assert.Equal(t, "Total_Direct_Event_Count", cols[53])
	assert.Equal(t, "e.1_Count", cols[55])
	assert.Equal(t, "f.1_Count", cols[75])
	assert.Equal(t, "ef.rn1_Count", cols[95])

	assert.Equal(t, "Total_NoInterlock_Event_Count", cols[105])
	assert.Equal(t, "c.1_Count", cols[107])
	assert.Equal(t, "d.1_Count", cols[127])
	assert.Equal(t, "cd.rn5_Share", cols[156])
}

func TestLegacyColumns(t *testing.T) {
	indirect := LegacyIndirectColumns("DiseaseGroup")
	require.Len(t, indirect, 1+2+2*MaskCount)
	assert.Equal(t, "Total_Interlock_Event_Count", indirect[1])
	assert.Equal(t, "a.1_Count", indirect[3])
	assert.Equal(t, "ab.rn1_Count", indirect[43])

	// The direct table renames e/f back to a/b but keeps the ef.rn names.
	direct := LegacyDirectColumns("TherapeuticGroup")
	assert.Equal(t, "TherapeuticGroup", direct[0])
	assert.Equal(t, "Total_Direct_Interlock_Event_Count", direct[1])
	assert.Equal(t, "a.1_Count", direct[3])
	assert.Equal(t, "b.10_Share", direct[42])
	assert.Equal(t, "ef.rn1_Count", direct[43])

	none := LegacyNoneColumns("DiseaseGroup")
	assert.Equal(t, "c.1_Count", none[3])
	assert.Equal(t, "cd.rn1_Count", none[43])
}

func TestYoYAndHistoryColumns(t *testing.T) {
	yoy := YoYColumns("DiseaseGroup", "Total_Interlock_Event_Count", "Total_Interlock_Event_Share")
	require.Len(t, yoy, 1+2+2*MaskCount)
	assert.Equal(t, "a.1_Count", yoy[3])
	assert.Equal(t, "rn1_Count", yoy[43], "YoY rn columns carry no block prefix")

	hist := HistoryColumns("DiseaseGroup", "Total_Interlock_Event_Count", "Total_Interlock_Event_Share")
	require.Len(t, hist, 2+2+2*MaskCount)
	assert.Equal(t, "HistoryBucket", hist[1])
	assert.Equal(t, "Total_Interlock_Event_Count", hist[2])
	assert.Equal(t, "a.1_Count", hist[4])
	assert.Equal(t, "rn5_Share", hist[53])
}
