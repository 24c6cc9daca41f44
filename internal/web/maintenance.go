package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"garagelog/internal/db"
	"garagelog/internal/models"
)

// handleListMaintenance renders the maintenance log, optionally
// filtered by ?vehicle=<id>.
func (s *Server) handleListMaintenance(c *gin.Context) {
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	q := db.MaintenanceQuery{AccountID: account.ID}
	if raw := c.Query("vehicle"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.renderError(c, http.StatusBadRequest, "invalid vehicle filter")
			return
		}
		q.VehicleID = &id
	}

	records, err := s.store.ListMaintenance(ctx, q)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	vehicles, err := s.store.ListVehicles(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var filter int64
	if q.VehicleID != nil {
		filter = *q.VehicleID
	}

	c.HTML(http.StatusOK, "maintenance.html", gin.H{
		"Account":      account,
		"Records":      records,
		"Vehicles":     vehicles,
		"VehicleNames": vehicleNameMap(vehicles),
		"Filter":       filter,
	})
}

func vehicleNameMap(vehicles []models.Vehicle) map[int64]string {
	names := make(map[int64]string, len(vehicles))
	for _, v := range vehicles {
		names[v.ID] = v.Name
	}
	return names
}

// handleNewMaintenanceForm renders an empty record form.
func (s *Server) handleNewMaintenanceForm(c *gin.Context) {
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	vehicles, err := s.store.ListVehicles(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.HTML(http.StatusOK, "maintenance_form.html", gin.H{
		"Account":  account,
		"Vehicles": vehicles,
		"Record":   &models.MaintenanceRecord{},
	})
}

// maintenanceFromForm reads and validates the maintenance form fields.
func maintenanceFromForm(c *gin.Context) (*models.MaintenanceRecord, string) {
	vehicleID, err := strconv.ParseInt(c.PostForm("vehicle_id"), 10, 64)
	if err != nil {
		return nil, "vehicle is required"
	}
	desc := strings.TrimSpace(c.PostForm("description"))
	if desc == "" {
		return nil, "description is required"
	}
	date, err := parseFormDate(c.PostForm("date"))
	if err != nil {
		return nil, "date must be YYYY-MM-DD"
	}
	mileage, err := strconv.Atoi(strings.TrimSpace(c.PostForm("mileage")))
	if err != nil || mileage < 0 {
		return nil, "mileage must be a non-negative number"
	}
	cost, err := optionalCost(c.PostForm("cost"))
	if err != nil {
		return nil, "cost is not a valid amount"
	}

	r := &models.MaintenanceRecord{
		VehicleID:     vehicleID,
		Date:          date,
		DateEstimated: c.PostForm("date_estimated") == "on",
		Mileage:       mileage,
		Description:   desc,
		Cost:          cost,
		TireMeta:      parseTireMeta(c),
	}

	if c.PostForm("is_oil_change") == "on" {
		r.IsOilChange = true
		r.OilType = optionalString(c.PostForm("oil_type"))
		r.OilBrand = optionalString(c.PostForm("oil_brand"))
		interval, err := optionalInt(c.PostForm("oil_change_interval"))
		if err != nil {
			return nil, "oil change interval must be a number"
		}
		r.OilChangeInterval = interval
	}
	return r, ""
}

// ownsVehicle reports whether the vehicle belongs to the active account.
func (s *Server) ownsVehicle(c *gin.Context, vehicleID int64) (bool, error) {
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	v, err := s.store.GetVehicle(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	return v != nil && v.AccountID == activeAccount(c).ID, nil
}

// handleCreateMaintenance processes the new-record form.
func (s *Server) handleCreateMaintenance(c *gin.Context) {
	r, formErr := maintenanceFromForm(c)
	if formErr != "" {
		s.renderError(c, http.StatusBadRequest, formErr)
		return
	}
	ok, err := s.ownsVehicle(c, r.VehicleID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		s.renderError(c, http.StatusNotFound, "vehicle not found")
		return
	}

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.CreateMaintenance(ctx, r); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/maintenance")
}

// loadAccountMaintenance fetches a record and verifies ownership
// through its vehicle; nil means the response has been written.
func (s *Server) loadAccountMaintenance(c *gin.Context) *models.MaintenanceRecord {
	id, ok := parseIDParam(c)
	if !ok {
		return nil
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	r, err := s.store.GetMaintenance(ctx, id)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return nil
	}
	if r == nil {
		s.renderError(c, http.StatusNotFound, "record not found")
		return nil
	}
	owns, err := s.ownsVehicle(c, r.VehicleID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return nil
	}
	if !owns {
		s.renderError(c, http.StatusNotFound, "record not found")
		return nil
	}
	return r
}

// handleEditMaintenanceForm renders the edit form.
func (s *Server) handleEditMaintenanceForm(c *gin.Context) {
	r := s.loadAccountMaintenance(c)
	if r == nil {
		return
	}
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	vehicles, err := s.store.ListVehicles(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.HTML(http.StatusOK, "maintenance_form.html", gin.H{
		"Account":  account,
		"Vehicles": vehicles,
		"Record":   r,
	})
}

// handleUpdateMaintenance processes the edit form.
func (s *Server) handleUpdateMaintenance(c *gin.Context) {
	existing := s.loadAccountMaintenance(c)
	if existing == nil {
		return
	}
	r, formErr := maintenanceFromForm(c)
	if formErr != "" {
		s.renderError(c, http.StatusBadRequest, formErr)
		return
	}
	ok, err := s.ownsVehicle(c, r.VehicleID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		s.renderError(c, http.StatusNotFound, "vehicle not found")
		return
	}
	r.ID = existing.ID

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.UpdateMaintenance(ctx, r); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/maintenance")
}

// handleDeleteMaintenance removes a record.
func (s *Server) handleDeleteMaintenance(c *gin.Context) {
	r := s.loadAccountMaintenance(c)
	if r == nil {
		return
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.DeleteMaintenance(ctx, r.ID); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/maintenance")
}
