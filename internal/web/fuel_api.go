package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"garagelog/internal/models"
	"garagelog/internal/mpg"
)

// fuelPayload is the JSON body for fuel entry create/update.
type fuelPayload struct {
	VehicleID      int64            `json:"vehicle_id" binding:"required"`
	Date           string           `json:"date" binding:"required"`
	Mileage        int              `json:"mileage"`
	Gallons        float64          `json:"gallons"`
	TotalCost      *decimal.Decimal `json:"total_cost"`
	FuelType       string           `json:"fuel_type"`
	DrivingPattern string           `json:"driving_pattern"`
	Notes          *string          `json:"notes"`
}

func (p *fuelPayload) toEntry() (*models.FuelEntry, string) {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return nil, "date must be YYYY-MM-DD"
	}
	if p.Mileage < 0 {
		return nil, "mileage must be non-negative"
	}
	if p.Gallons < 0 {
		return nil, "gallons must be non-negative"
	}
	return &models.FuelEntry{
		VehicleID:      p.VehicleID,
		Date:           date,
		Mileage:        p.Mileage,
		Gallons:        p.Gallons,
		TotalCost:      p.TotalCost,
		FuelType:       p.FuelType,
		DrivingPattern: p.DrivingPattern,
		Notes:          p.Notes,
	}, ""
}

// queryVehicleID reads the required ?vehicle=<id> query parameter.
func (s *Server) queryVehicleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("vehicle"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle query parameter is required"})
		return 0, false
	}
	owns, err := s.ownsVehicle(c, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return 0, false
	}
	if !owns {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return 0, false
	}
	return id, true
}

func (s *Server) handleAPIListFuel(c *gin.Context) {
	vehicleID, ok := s.queryVehicleID(c)
	if !ok {
		return
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	entries, err := s.store.ListFuelEntries(ctx, vehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleAPICreateFuel(c *gin.Context) {
	var p fuelPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, msg := p.toEntry()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	owns, err := s.ownsVehicle(c, entry.VehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !owns {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.CreateFuelEntry(ctx, entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// loadAccountFuel fetches a fuel entry owned by the active account.
func (s *Server) loadAccountFuel(c *gin.Context) *models.FuelEntry {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	entry, err := s.store.GetFuelEntry(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fuel entry not found"})
		return nil
	}
	owns, err := s.ownsVehicle(c, entry.VehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil
	}
	if !owns {
		c.JSON(http.StatusNotFound, gin.H{"error": "fuel entry not found"})
		return nil
	}
	return entry
}

func (s *Server) handleAPIUpdateFuel(c *gin.Context) {
	existing := s.loadAccountFuel(c)
	if existing == nil {
		return
	}
	var p fuelPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, msg := p.toEntry()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	// Entries cannot move between vehicles.
	entry.ID = existing.ID
	entry.VehicleID = existing.VehicleID

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.UpdateFuelEntry(ctx, entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleAPIDeleteFuel(c *gin.Context) {
	entry := s.loadAccountFuel(c)
	if entry == nil {
		return
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.DeleteFuelEntry(ctx, entry.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": entry.ID})
}

// handleAPIMpgSummary computes the three MPG figures for a vehicle.
func (s *Server) handleAPIMpgSummary(c *gin.Context) {
	vehicleID, ok := s.queryVehicleID(c)
	if !ok {
		return
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	entries, err := s.store.MpgEntries(ctx, vehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	summary := mpg.Summarize(entries, s.mpgConfig())
	c.JSON(http.StatusOK, gin.H{
		"vehicle_id":  vehicleID,
		"entry_count": len(entries),
		"summary":     summary,
	})
}
