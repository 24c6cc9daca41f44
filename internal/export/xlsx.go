package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"garagelog/internal/models"
)

// WriteWorkbookXLSX renders an XLSX workbook with a Vehicles sheet and a
// Maintenance sheet, for people who want the data back in a spreadsheet.
func WriteWorkbookXLSX(w io.Writer, vehicles []models.Vehicle, records []models.MaintenanceRecord, vehicleNames map[int64]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const vehicleSheet = "Vehicles"
	const maintenanceSheet = "Maintenance"

	// excelize starts with "Sheet1"; rename it rather than leaving an
	// empty tab behind.
	if err := f.SetSheetName("Sheet1", vehicleSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(maintenanceSheet); err != nil {
		return err
	}

	if err := writeRows(f, vehicleSheet, vehicleHeader, vehicleCells(vehicles)); err != nil {
		return err
	}
	if err := writeRows(f, maintenanceSheet, maintenanceHeader, maintenanceCells(records, vehicleNames)); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]any) error {
	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return err
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func vehicleCells(vehicles []models.Vehicle) [][]any {
	rows := make([][]any, 0, len(vehicles))
	for _, v := range vehicles {
		vin := ""
		if v.VIN != nil {
			vin = *v.VIN
		}
		rows = append(rows, []any{v.Name, v.Make, v.Model, v.Year, vin})
	}
	return rows
}

func maintenanceCells(records []models.MaintenanceRecord, vehicleNames map[int64]string) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		name := vehicleNames[r.VehicleID]
		if name == "" {
			name = "Unknown"
		}
		var cost any
		if r.Cost != nil {
			cost, _ = r.Cost.Float64()
		}
		rows = append(rows, []any{name, r.Date.Format("2006-01-02"), r.Description, cost, r.Mileage})
	}
	return rows
}
