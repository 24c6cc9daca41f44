package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"garagelog/internal/mpg"
)

// vehicleMpg is one row of the dashboard MPG table.
type vehicleMpg struct {
	VehicleID   int64
	VehicleName string
	EntryCount  int
	Summary     mpg.Summary
}

// handleDashboard renders the landing page: stat cards plus per-vehicle
// MPG figures.
func (s *Server) handleDashboard(c *gin.Context) {
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	summary, err := s.store.GetMaintenanceSummary(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	vehicles, err := s.store.ListVehicles(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	mpgCfg := s.mpgConfig()

	mpgRows := make([]vehicleMpg, 0, len(vehicles))
	for _, v := range vehicles {
		entries, err := s.store.MpgEntries(ctx, v.ID)
		if err != nil {
			s.renderError(c, http.StatusInternalServerError, err.Error())
			return
		}
		mpgRows = append(mpgRows, vehicleMpg{
			VehicleID:   v.ID,
			VehicleName: v.Name,
			EntryCount:  len(entries),
			Summary:     mpg.Summarize(entries, mpgCfg),
		})
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Account":  account,
		"Summary":  summary,
		"Vehicles": vehicles,
		"MpgRows":  mpgRows,
	})
}

// handleFuelPage renders the fuel tracking screen; entries themselves are
// loaded by fuel.js through the JSON API.
func (s *Server) handleFuelPage(c *gin.Context) {
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	vehicles, err := s.store.ListVehicles(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.HTML(http.StatusOK, "fuel.html", gin.H{
		"Account":  account,
		"Vehicles": vehicles,
	})
}

// handleRemindersPage renders the future-maintenance screen.
func (s *Server) handleRemindersPage(c *gin.Context) {
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	vehicles, err := s.store.ListVehicles(ctx, account.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	reminders, err := s.store.ListReminders(ctx, account.ID, nil)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	vehicleNames := make(map[int64]string, len(vehicles))
	for _, v := range vehicles {
		vehicleNames[v.ID] = v.Name
	}

	c.HTML(http.StatusOK, "reminders.html", gin.H{
		"Account":      account,
		"Vehicles":     vehicles,
		"Reminders":    reminders,
		"VehicleNames": vehicleNames,
	})
}
