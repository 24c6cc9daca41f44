package export

import (
	"io"
	"strconv"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/creator"

	"garagelog/internal/models"
)

// SetPDFLicenseKey registers the unidoc metered key. Without a key the
// creator refuses to write, so the handlers disable the PDF links when
// none is configured.
func SetPDFLicenseKey(key string) error {
	return license.SetMeteredKey(key)
}

// WriteVehiclesPDF renders the vehicle list as a one-table PDF report.
func WriteVehiclesPDF(w io.Writer, vehicles []models.Vehicle) error {
	c := creator.New()
	c.SetPageMargins(40, 40, 40, 40)

	if err := addTitle(c, "Vehicles"); err != nil {
		return err
	}

	table := c.NewTable(5)
	table.SetMargins(0, 0, 10, 0)
	addHeaderRow(c, table, vehicleHeader)
	for _, v := range vehicles {
		for _, cell := range vehicleRow(v) {
			addCell(c, table, cell)
		}
	}
	if err := c.Draw(table); err != nil {
		return err
	}
	return c.Write(w)
}

// WriteMaintenancePDF renders maintenance history as a PDF report.
func WriteMaintenancePDF(w io.Writer, records []models.MaintenanceRecord, vehicleNames map[int64]string) error {
	c := creator.New()
	c.SetPageMargins(40, 40, 40, 40)

	if err := addTitle(c, "Maintenance History"); err != nil {
		return err
	}

	table := c.NewTable(5)
	table.SetMargins(0, 0, 10, 0)
	// Keep the date and mileage columns narrow, the description wide.
	if err := table.SetColumnWidths(0.2, 0.15, 0.35, 0.12, 0.18); err != nil {
		return err
	}
	addHeaderRow(c, table, maintenanceHeader)
	for _, r := range records {
		for _, cell := range maintenanceRow(r, vehicleNames) {
			addCell(c, table, cell)
		}
	}
	if err := c.Draw(table); err != nil {
		return err
	}

	p := c.NewParagraph("Records: " + strconv.Itoa(len(records)))
	p.SetFontSize(9)
	p.SetMargins(0, 0, 10, 0)
	if err := c.Draw(p); err != nil {
		return err
	}
	return c.Write(w)
}

func addTitle(c *creator.Creator, title string) error {
	p := c.NewParagraph(title)
	p.SetFontSize(16)
	return c.Draw(p)
}

func addHeaderRow(c *creator.Creator, table *creator.Table, header []string) {
	for _, h := range header {
		p := c.NewParagraph(h)
		p.SetFontSize(10)
		cell := table.NewCell()
		cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 1)
		cell.SetBackgroundColor(creator.ColorRGBFrom8bit(230, 230, 230))
		_ = cell.SetContent(p)
	}
}

func addCell(c *creator.Creator, table *creator.Table, text string) {
	p := c.NewParagraph(text)
	p.SetFontSize(9)
	cell := table.NewCell()
	cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 1)
	_ = cell.SetContent(p)
}
