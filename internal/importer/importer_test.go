package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBatchCollectsPerRowOutcomes(t *testing.T) {
	csv := strings.Join([]string{
		"Description,Mileage,Date,Cost",
		"Oil change,101200,1/15/2024,$45.99",
		"Tire rotation,\"104,500\",2/1/2024,",
		"Brake pads,108000,not a date,250",
		"Air filter,110000,4/2024,(12.50)",
		"Wiper blades,112000,5/9/2024,30",
	}, "\n")

	report, err := Read(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Outcomes, 5)

	// Row 3 of the file (line 4) carries the bad date.
	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, 4, failures[0].Line)
	assert.Equal(t, ColDate, failures[0].Column)
	assert.Equal(t, KindInvalidDate, failures[0].Kind)
	assert.Equal(t, "not a date", failures[0].Original)

	// The bad row did not disturb its neighbors.
	assert.Equal(t, "Tire rotation", report.Outcomes[1].Row.Description)
	assert.Equal(t, 104500, report.Outcomes[1].Row.Mileage)
	assert.Nil(t, report.Outcomes[1].Row.Cost)
	assert.Equal(t, "Air filter", report.Outcomes[3].Row.Description)
	require.NotNil(t, report.Outcomes[3].Row.Cost)
	assert.Equal(t, "-12.5", report.Outcomes[3].Row.Cost.String())
}

func TestReadHeaderIsCaseInsensitiveAndOrderFree(t *testing.T) {
	csv := "date,COST,Notes,MILEAGE,Description\n3/3/2023,$10,ignored,50000,Inspection\n"
	report, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded)

	row := report.Outcomes[0].Row
	assert.Equal(t, "Inspection", row.Description)
	assert.Equal(t, 50000, row.Mileage)
	require.NotNil(t, row.Cost)
	assert.Equal(t, "10", row.Cost.String())
}

func TestReadRejectsBatchMissingRequiredColumns(t *testing.T) {
	csv := "description,cost\nOil change,45\n"
	_, err := Read(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mileage")
	assert.Contains(t, err.Error(), "date")
}

func TestReadRejectsEmptyDescription(t *testing.T) {
	csv := "description,mileage,date\n,1000,1/1/2024\n"
	report, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Succeeded)
	require.Equal(t, 1, report.Failed)
	assert.Equal(t, ColDescription, report.Failures()[0].Column)
	assert.Equal(t, KindMissingValue, report.Failures()[0].Kind)
}

func TestReadEmptyCellsReportMissingValue(t *testing.T) {
	csv := strings.Join([]string{
		"description,mileage,date",
		"Oil change,,1/1/2024",
		"Brakes,2000, ",
	}, "\n")
	report, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Succeeded)
	require.Equal(t, 2, report.Failed)

	failures := report.Failures()
	assert.Equal(t, ColMileage, failures[0].Column)
	assert.Equal(t, KindMissingValue, failures[0].Kind)
	assert.Equal(t, ColDate, failures[1].Column)
	assert.Equal(t, KindMissingValue, failures[1].Kind)
}

func TestReadShortRecordFailsRowNotBatch(t *testing.T) {
	csv := "description,mileage,date\nOil change,1000,1/1/2024\nBrakes,2000\nCoolant,3000,2/2/2024\n"
	report, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 3, report.Failures()[0].Line)
}

func TestReadEmptyBatch(t *testing.T) {
	report, err := Read(strings.NewReader("description,mileage,date,cost\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, report.Outcomes)
}
