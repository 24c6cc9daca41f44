package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"garagelog/internal/db"
	"garagelog/internal/export"
	"garagelog/internal/models"
)

// filterVehicles narrows a vehicle list to a single id; zero keeps all.
func filterVehicles(vehicles []models.Vehicle, id int64) []models.Vehicle {
	if id == 0 {
		return vehicles
	}
	out := make([]models.Vehicle, 0, 1)
	for _, v := range vehicles {
		if v.ID == id {
			out = append(out, v)
		}
	}
	return out
}

// exportData fetches everything the export writers consume, honoring an
// optional ?vehicle=<id> filter.
func (s *Server) exportData(c *gin.Context) ([]models.Vehicle, []models.MaintenanceRecord, map[int64]string, bool) {
	account := activeAccount(c)

	var filter int64
	if raw := c.Query("vehicle"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.renderError(c, http.StatusBadRequest, "invalid vehicle filter")
			return nil, nil, nil, false
		}
		filter = id
	}

	ctx, cancel := s.storeCtx(c)
	defer cancel()

	vehicles, err := s.store.ListVehicles(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return nil, nil, nil, false
	}
	vehicles = filterVehicles(vehicles, filter)
	if filter != 0 && len(vehicles) == 0 {
		s.renderError(c, http.StatusNotFound, "vehicle not found")
		return nil, nil, nil, false
	}

	query := db.MaintenanceQuery{AccountID: account.ID}
	if filter != 0 {
		query.VehicleID = &filter
	}
	records, err := s.store.ListMaintenance(ctx, query)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return nil, nil, nil, false
	}
	return vehicles, records, vehicleNameMap(vehicles), true
}

func serveDownload(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

func (s *Server) handleExportVehiclesCSV(c *gin.Context) {
	vehicles, _, _, ok := s.exportData(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteVehiclesCSV(&buf, vehicles); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	serveDownload(c, "vehicles.csv", "text/csv", buf.Bytes())
}

func (s *Server) handleExportMaintenanceCSV(c *gin.Context) {
	_, records, names, ok := s.exportData(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteMaintenanceCSV(&buf, records, names); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	serveDownload(c, "maintenance.csv", "text/csv", buf.Bytes())
}

func (s *Server) handleExportWorkbook(c *gin.Context) {
	vehicles, records, names, ok := s.exportData(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbookXLSX(&buf, vehicles, records, names); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	serveDownload(c, "garagelog.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) handleExportVehiclesPDF(c *gin.Context) {
	if !s.pdfEnabled {
		s.renderError(c, http.StatusNotImplemented, "PDF export is not configured")
		return
	}
	vehicles, _, _, ok := s.exportData(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteVehiclesPDF(&buf, vehicles); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	serveDownload(c, "vehicles.pdf", "application/pdf", buf.Bytes())
}

func (s *Server) handleExportMaintenancePDF(c *gin.Context) {
	if !s.pdfEnabled {
		s.renderError(c, http.StatusNotImplemented, "PDF export is not configured")
		return
	}
	_, records, names, ok := s.exportData(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteMaintenancePDF(&buf, records, names); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	serveDownload(c, "maintenance.pdf", "application/pdf", buf.Bytes())
}
