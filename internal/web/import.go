package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"garagelog/internal/importer"
)

// handleImportForm renders the CSV upload page.
func (s *Server) handleImportForm(c *gin.Context) {
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	vehicles, err := s.store.ListVehicles(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.HTML(http.StatusOK, "import.html", gin.H{
		"Account":  account,
		"Vehicles": vehicles,
	})
}

// handleImport accepts a CSV upload, parses every row, inserts the
// valid ones and reports per-row failures alongside the counts.
func (s *Server) handleImport(c *gin.Context) {
	vehicleID, err := strconv.ParseInt(c.PostForm("vehicle_id"), 10, 64)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "vehicle is required")
		return
	}
	owns, err := s.ownsVehicle(c, vehicleID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !owns {
		s.renderError(c, http.StatusNotFound, "vehicle not found")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "a CSV file is required")
		return
	}
	f, err := file.Open()
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "could not read the uploaded file")
		return
	}
	defer f.Close()

	report, err := importer.Read(f)
	if err != nil {
		// Batch-level failure: malformed CSV or missing required columns.
		s.renderError(c, http.StatusBadRequest, err.Error())
		return
	}

	rows := make([]importer.Row, 0, report.Succeeded)
	for _, o := range report.Outcomes {
		if o.Err == nil {
			rows = append(rows, *o.Row)
		}
	}

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	inserted, duplicates, err := s.store.ImportMaintenance(ctx, vehicleID, rows)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	s.log.Infow("csv import finished",
		"vehicle_id", vehicleID,
		"inserted", inserted,
		"duplicates", duplicates,
		"failed", report.Failed,
	)

	c.HTML(http.StatusOK, "import_report.html", gin.H{
		"Account":    activeAccount(c),
		"Inserted":   inserted,
		"Duplicates": duplicates,
		"Failed":     report.Failed,
		"Failures":   report.Failures(),
	})
}
