package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"garagelog/internal/models"
	"garagelog/internal/notify"
)

// reminderPayload is the JSON body for reminder create/update.
type reminderPayload struct {
	VehicleID                int64            `json:"vehicle_id" binding:"required"`
	MaintenanceType          string           `json:"maintenance_type" binding:"required"`
	TargetMileage            *int             `json:"target_mileage"`
	TargetDate               *string          `json:"target_date"`
	MileageReminder          int              `json:"mileage_reminder"`
	DateReminderDays         int              `json:"date_reminder_days"`
	EstimatedCost            *decimal.Decimal `json:"estimated_cost"`
	PartsLink                *string          `json:"parts_link"`
	Notes                    *string          `json:"notes"`
	IsRecurring              bool             `json:"is_recurring"`
	RecurrenceIntervalMiles  *int             `json:"recurrence_interval_miles"`
	RecurrenceIntervalMonths *int             `json:"recurrence_interval_months"`
	IsActive                 *bool            `json:"is_active"`
}

func (p *reminderPayload) toReminder() (*models.FutureMaintenance, string) {
	if strings.TrimSpace(p.MaintenanceType) == "" {
		return nil, "maintenance_type is required"
	}
	if p.TargetMileage == nil && p.TargetDate == nil {
		return nil, "at least one of target_mileage and target_date is required"
	}
	r := &models.FutureMaintenance{
		VehicleID:                p.VehicleID,
		MaintenanceType:          strings.TrimSpace(p.MaintenanceType),
		TargetMileage:            p.TargetMileage,
		MileageReminder:          p.MileageReminder,
		DateReminderDays:         p.DateReminderDays,
		EstimatedCost:            p.EstimatedCost,
		PartsLink:                p.PartsLink,
		Notes:                    p.Notes,
		IsRecurring:              p.IsRecurring,
		RecurrenceIntervalMiles:  p.RecurrenceIntervalMiles,
		RecurrenceIntervalMonths: p.RecurrenceIntervalMonths,
		IsActive:                 true,
	}
	if p.TargetDate != nil {
		d, err := time.Parse("2006-01-02", *p.TargetDate)
		if err != nil {
			return nil, "target_date must be YYYY-MM-DD"
		}
		r.TargetDate = &d
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
	if r.IsRecurring && r.RecurrenceIntervalMiles == nil && r.RecurrenceIntervalMonths == nil {
		return nil, "recurring reminders need a mileage or month interval"
	}
	return r, ""
}

func (s *Server) handleAPIListReminders(c *gin.Context) {
	account := activeAccount(c)

	var vehicleID *int64
	if raw := c.Query("vehicle"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle filter"})
			return
		}
		vehicleID = &id
	}

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	reminders, err := s.store.ListReminders(ctx, account.ID, vehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

func (s *Server) handleAPICreateReminder(c *gin.Context) {
	var p reminderPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, msg := p.toReminder()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	owns, err := s.ownsVehicle(c, r.VehicleID)
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
	if err := s.store.CreateReminder(ctx, r); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// loadAccountReminder fetches a reminder owned by the active account.
func (s *Server) loadAccountReminder(c *gin.Context) *models.FutureMaintenance {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	r, err := s.store.GetReminder(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reminder not found"})
		return nil
	}
	owns, err := s.ownsVehicle(c, r.VehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil
	}
	if !owns {
		c.JSON(http.StatusNotFound, gin.H{"error": "reminder not found"})
		return nil
	}
	return r
}

func (s *Server) handleAPIUpdateReminder(c *gin.Context) {
	existing := s.loadAccountReminder(c)
	if existing == nil {
		return
	}
	var p reminderPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, msg := p.toReminder()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	r.ID = existing.ID
	r.VehicleID = existing.VehicleID

	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.UpdateReminder(ctx, r); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleAPIDeleteReminder(c *gin.Context) {
	r := s.loadAccountReminder(c)
	if r == nil {
		return
	}
	ctx, cancel := s.storeCtx(c)
	defer cancel()
	if err := s.store.DeleteReminder(ctx, r.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": r.ID})
}

// handleAPINotifications returns the reminders currently due for the
// active account, the same view the notifier emails.
func (s *Server) handleAPINotifications(c *gin.Context) {
	account := activeAccount(c)
	ctx, cancel := s.storeCtx(c)
	defer cancel()

	all, err := s.store.ActiveReminders(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	due := notify.FilterDue(all, time.Now())

	mine := make([]notify.DueReminder, 0, len(due))
	for _, d := range due {
		if d.AccountID == account.ID {
			mine = append(mine, d)
		}
	}
	c.JSON(http.StatusOK, gin.H{"due": mine})
}
