package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"garagelog/internal/models"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return &d
}

func fixtureVehicles() []models.Vehicle {
	return []models.Vehicle{
		{ID: 1, Name: "Daily Driver", Year: 2018, Make: "Honda", Model: "Civic", VIN: strPtr("2HGFC2F59JH000001")},
		{ID: 2, Name: "Truck", Year: 2005, Make: "Ford", Model: "F-150"},
	}
}

func fixtureRecords() []models.MaintenanceRecord {
	return []models.MaintenanceRecord{
		{
			ID: 10, VehicleID: 1,
			Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Mileage:     101200,
			Description: "Oil change",
			Cost:        decPtr("45.99"),
		},
		{
			ID: 11, VehicleID: 2,
			Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Mileage:     180500,
			Description: "Tire rotation",
		},
	}
}

func fixtureNames() map[int64]string {
	return map[int64]string{1: "Daily Driver", 2: "Truck"}
}

func TestWriteVehiclesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVehiclesCSV(&buf, fixtureVehicles()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Make", "Model", "Year", "VIN"}, rows[0])
	assert.Equal(t, []string{"Daily Driver", "Honda", "Civic", "2018", "2HGFC2F59JH000001"}, rows[1])
	assert.Equal(t, []string{"Truck", "Ford", "F-150", "2005", ""}, rows[2])
}

func TestWriteMaintenanceCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMaintenanceCSV(&buf, fixtureRecords(), fixtureNames()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Daily Driver", "2024-01-15", "Oil change", "$45.99", "101200"}, rows[1])
	// Absent cost stays blank rather than printing $0.00.
	assert.Equal(t, []string{"Truck", "2024-02-01", "Tire rotation", "", "180500"}, rows[2])
}

func TestWriteMaintenanceCSVUnknownVehicle(t *testing.T) {
	var buf bytes.Buffer
	records := fixtureRecords()[:1]
	require.NoError(t, WriteMaintenanceCSV(&buf, records, map[int64]string{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Unknown", rows[1][0])
}

func TestWriteWorkbookXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbookXLSX(&buf, fixtureVehicles(), fixtureRecords(), fixtureNames()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Vehicles", "Maintenance"}, f.GetSheetList())

	name, err := f.GetCellValue("Vehicles", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Daily Driver", name)

	desc, err := f.GetCellValue("Maintenance", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Oil change", desc)

	cost, err := f.GetCellValue("Maintenance", "D2")
	require.NoError(t, err)
	assert.Equal(t, "45.99", cost)
}
