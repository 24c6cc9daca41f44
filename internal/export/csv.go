// Package export renders vehicles and maintenance history into the
// download formats offered by the web UI: CSV, an XLSX workbook and a
// PDF report. Writers take already-loaded records so they stay pure.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"garagelog/internal/models"
)

var vehicleHeader = []string{"Name", "Make", "Model", "Year", "VIN"}

// WriteVehiclesCSV renders vehicles in the spreadsheet layout the importer
// round-trips with.
func WriteVehiclesCSV(w io.Writer, vehicles []models.Vehicle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(vehicleHeader); err != nil {
		return err
	}
	for _, v := range vehicles {
		if err := cw.Write(vehicleRow(v)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var maintenanceHeader = []string{"Vehicle Name", "Date", "Description", "Cost", "Mileage"}

// WriteMaintenanceCSV renders maintenance records, newest-first as given.
// vehicleNames maps vehicle ids to display names.
func WriteMaintenanceCSV(w io.Writer, records []models.MaintenanceRecord, vehicleNames map[int64]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(maintenanceHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(maintenanceRow(r, vehicleNames)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func vehicleRow(v models.Vehicle) []string {
	vin := ""
	if v.VIN != nil {
		vin = *v.VIN
	}
	return []string{v.Name, v.Make, v.Model, strconv.Itoa(v.Year), vin}
}

func maintenanceRow(r models.MaintenanceRecord, vehicleNames map[int64]string) []string {
	name := vehicleNames[r.VehicleID]
	if name == "" {
		name = "Unknown"
	}
	cost := ""
	if r.Cost != nil {
		cost = "$" + r.Cost.StringFixed(2)
	}
	return []string{name, r.Date.Format("2006-01-02"), r.Description, cost, strconv.Itoa(r.Mileage)}
}
