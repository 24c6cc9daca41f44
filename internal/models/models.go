package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account groups vehicles under a named owner. The web UI switches the
// active account through a cookie carrying the slug.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Vehicle is a tracked vehicle owned by an account.
type Vehicle struct {
	ID        int64     `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	VIN       *string   `json:"vin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TireMeta holds the tread depths (32nds of an inch) captured during a
// tire rotation, keyed by corner.
type TireMeta struct {
	FrontLeft  *float64 `json:"front_left,omitempty"`
	FrontRight *float64 `json:"front_right,omitempty"`
	RearLeft   *float64 `json:"rear_left,omitempty"`
	RearRight  *float64 `json:"rear_right,omitempty"`
}

// MaintenanceRecord is one logged maintenance event for a vehicle.
type MaintenanceRecord struct {
	ID            int64            `json:"id"`
	VehicleID     int64            `json:"vehicle_id"`
	Date          time.Time        `json:"date"`
	DateEstimated bool             `json:"date_estimated"`
	Mileage       int              `json:"mileage"`
	Description   string           `json:"description"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`

	// Oil change extras; only meaningful when IsOilChange is set.
	IsOilChange       bool    `json:"is_oil_change"`
	OilType           *string `json:"oil_type,omitempty"`
	OilBrand          *string `json:"oil_brand,omitempty"`
	OilChangeInterval *int    `json:"oil_change_interval,omitempty"`

	TireMeta *TireMeta `json:"tire_meta,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FuelEntry records one fill-up. Entries are created by the UI or import
// and only ever read by the MPG aggregator.
type FuelEntry struct {
	ID             int64            `json:"id"`
	VehicleID      int64            `json:"vehicle_id"`
	Date           time.Time        `json:"date"`
	Mileage        int              `json:"mileage"`
	Gallons        float64          `json:"gallons"`
	TotalCost      *decimal.Decimal `json:"total_cost,omitempty"`
	FuelType       string           `json:"fuel_type"`
	DrivingPattern string           `json:"driving_pattern"`
	Notes          *string          `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// FutureMaintenance is a reminder for upcoming work, optionally recurring.
type FutureMaintenance struct {
	ID                       int64            `json:"id"`
	VehicleID                int64            `json:"vehicle_id"`
	MaintenanceType          string           `json:"maintenance_type"`
	TargetMileage            *int             `json:"target_mileage,omitempty"`
	TargetDate               *time.Time       `json:"target_date,omitempty"`
	MileageReminder          int              `json:"mileage_reminder"`
	DateReminderDays         int              `json:"date_reminder_days"`
	EstimatedCost            *decimal.Decimal `json:"estimated_cost,omitempty"`
	PartsLink                *string          `json:"parts_link,omitempty"`
	Notes                    *string          `json:"notes,omitempty"`
	IsRecurring              bool             `json:"is_recurring"`
	RecurrenceIntervalMiles  *int             `json:"recurrence_interval_miles,omitempty"`
	RecurrenceIntervalMonths *int             `json:"recurrence_interval_months,omitempty"`
	IsActive                 bool             `json:"is_active"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

// EmailSubscription is a recipient for reminder notifications.
type EmailSubscription struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
