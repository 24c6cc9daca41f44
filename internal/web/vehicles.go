package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"garagelog/internal/models"
)

// handleListVehicles renders the vehicle list.
func (s *Server) handleListVehicles(c *gin.Context) {
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	vehicles, err := s.store.ListVehicles(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.HTML(http.StatusOK, "vehicles.html", gin.H{
		"Account":  account,
		"Vehicles": vehicles,
	})
}

// handleNewVehicleForm renders an empty vehicle form.
func (s *Server) handleNewVehicleForm(c *gin.Context) {
	c.HTML(http.StatusOK, "vehicle_form.html", gin.H{
		"Account": activeAccount(c),
		"Vehicle": &models.Vehicle{},
	})
}

// vehicleFromForm reads and validates the vehicle form fields.
func vehicleFromForm(c *gin.Context) (*models.Vehicle, string) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		return nil, "name is required"
	}
	year, err := strconv.Atoi(strings.TrimSpace(c.PostForm("year")))
	if err != nil || year < 1900 || year > 2100 {
		return nil, "year must be a plausible four-digit year"
	}
	v := &models.Vehicle{
		Name:  name,
		Year:  year,
		Make:  strings.TrimSpace(c.PostForm("make")),
		Model: strings.TrimSpace(c.PostForm("model")),
		VIN:   optionalString(c.PostForm("vin")),
	}
	if v.VIN != nil && len(*v.VIN) > 17 {
		return nil, "VIN must be at most 17 characters"
	}
	return v, ""
}

// checkVehicleDuplicates enforces the duplicate name/VIN rules; empty
// string means the vehicle is acceptable.
func (s *Server) checkVehicleDuplicates(c *gin.Context, v *models.Vehicle, excludeID int64) (string, error) {
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	existing, err := s.store.FindVehicleByName(ctx, v.AccountID, v.Name, excludeID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "a vehicle with this name already exists", nil
	}
	if v.VIN != nil {
		existing, err = s.store.FindVehicleByVIN(ctx, *v.VIN, excludeID)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return "a vehicle with this VIN already exists", nil
		}
	}
	return "", nil
}

// handleCreateVehicle processes the new-vehicle form.
func (s *Server) handleCreateVehicle(c *gin.Context) {
	account := activeAccount(c)

	v, formErr := vehicleFromForm(c)
	if formErr != "" {
		c.HTML(http.StatusBadRequest, "vehicle_form.html", gin.H{
			"Account": account, "Vehicle": &models.Vehicle{}, "Error": formErr,
		})
		return
	}
	v.AccountID = account.ID

	dup, err := s.checkVehicleDuplicates(c, v, 0)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if dup != "" {
		c.HTML(http.StatusConflict, "vehicle_form.html", gin.H{
			"Account": account, "Vehicle": v, "Error": dup,
		})
		return
	}

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.CreateVehicle(ctx, v); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/vehicles")
}

// loadAccountVehicle fetches a vehicle and verifies it belongs to the
// active account; nil means the response has already been written.
func (s *Server) loadAccountVehicle(c *gin.Context) *models.Vehicle {
	id, ok := parseIDParam(c)
	if !ok {
		return nil
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	v, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return nil
	}
	if v == nil || v.AccountID != activeAccount(c).ID {
		s.renderError(c, http.StatusNotFound, "vehicle not found")
		return nil
	}
	return v
}

// handleEditVehicleForm renders the edit form.
func (s *Server) handleEditVehicleForm(c *gin.Context) {
	v := s.loadAccountVehicle(c)
	if v == nil {
		return
	}
	c.HTML(http.StatusOK, "vehicle_form.html", gin.H{
		"Account": activeAccount(c),
		"Vehicle": v,
	})
}

// handleUpdateVehicle processes the edit form.
func (s *Server) handleUpdateVehicle(c *gin.Context) {
	existing := s.loadAccountVehicle(c)
	if existing == nil {
		return
	}

	v, formErr := vehicleFromForm(c)
	if formErr != "" {
		c.HTML(http.StatusBadRequest, "vehicle_form.html", gin.H{
			"Account": activeAccount(c), "Vehicle": existing, "Error": formErr,
		})
		return
	}
	v.ID = existing.ID
	v.AccountID = existing.AccountID

	dup, err := s.checkVehicleDuplicates(c, v, v.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if dup != "" {
		c.HTML(http.StatusConflict, "vehicle_form.html", gin.H{
			"Account": activeAccount(c), "Vehicle": v, "Error": dup,
		})
		return
	}

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.UpdateVehicle(ctx, v); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/vehicles")
}

// handleDeleteVehicle removes a vehicle and everything hanging off it.
func (s *Server) handleDeleteVehicle(c *gin.Context) {
	v := s.loadAccountVehicle(c)
	if v == nil {
		return
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.DeleteVehicle(ctx, v.ID); err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/vehicles")
}
