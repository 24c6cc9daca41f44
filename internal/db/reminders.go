package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"garagelog/internal/models"
)

const reminderColumns = `id, vehicle_id, maintenance_type, target_mileage, target_date,
	mileage_reminder, date_reminder_days, estimated_cost, parts_link, notes,
	is_recurring, recurrence_interval_miles, recurrence_interval_months, is_active,
	created_at, updated_at`

func scanReminderInto(row pgx.Row, r *models.FutureMaintenance) error {
	return row.Scan(&r.ID, &r.VehicleID, &r.MaintenanceType, &r.TargetMileage, &r.TargetDate,
		&r.MileageReminder, &r.DateReminderDays, &r.EstimatedCost, &r.PartsLink, &r.Notes,
		&r.IsRecurring, &r.RecurrenceIntervalMiles, &r.RecurrenceIntervalMonths, &r.IsActive,
		&r.CreatedAt, &r.UpdatedAt)
}

// ListReminders returns an account's reminders, active first.
func (s *Store) ListReminders(ctx context.Context, accountID string, vehicleID *int64) ([]models.FutureMaintenance, error) {
	sql := `SELECT f.id, f.vehicle_id, f.maintenance_type, f.target_mileage, f.target_date,
		f.mileage_reminder, f.date_reminder_days, f.estimated_cost, f.parts_link, f.notes,
		f.is_recurring, f.recurrence_interval_miles, f.recurrence_interval_months, f.is_active,
		f.created_at, f.updated_at
		FROM future_maintenance f
		JOIN vehicles v ON v.id = f.vehicle_id
		WHERE v.account_id = $1`
	args := []any{accountID}
	if vehicleID != nil {
		sql += ` AND f.vehicle_id = $2`
		args = append(args, *vehicleID)
	}
	sql += ` ORDER BY f.is_active DESC, f.target_date NULLS LAST, f.target_mileage NULLS LAST`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]models.FutureMaintenance, 0)
	for rows.Next() {
		var r models.FutureMaintenance
		if err := scanReminderInto(rows, &r); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// GetReminder returns one reminder, nil when missing.
func (s *Store) GetReminder(ctx context.Context, id int64) (*models.FutureMaintenance, error) {
	var r models.FutureMaintenance
	err := scanReminderInto(s.pool.QueryRow(ctx,
		`SELECT `+reminderColumns+` FROM future_maintenance WHERE id = $1`, id), &r)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReminder inserts a reminder and fills generated fields.
func (s *Store) CreateReminder(ctx context.Context, r *models.FutureMaintenance) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO future_maintenance
		 (vehicle_id, maintenance_type, target_mileage, target_date, mileage_reminder,
		  date_reminder_days, estimated_cost, parts_link, notes, is_recurring,
		  recurrence_interval_miles, recurrence_interval_months, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 RETURNING id, created_at, updated_at`,
		r.VehicleID, r.MaintenanceType, r.TargetMileage, r.TargetDate, r.MileageReminder,
		r.DateReminderDays, r.EstimatedCost, r.PartsLink, r.Notes, r.IsRecurring,
		r.RecurrenceIntervalMiles, r.RecurrenceIntervalMonths, r.IsActive,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// UpdateReminder writes the editable fields back.
func (s *Store) UpdateReminder(ctx context.Context, r *models.FutureMaintenance) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE future_maintenance
		 SET maintenance_type = $1, target_mileage = $2, target_date = $3, mileage_reminder = $4,
		     date_reminder_days = $5, estimated_cost = $6, parts_link = $7, notes = $8,
		     is_recurring = $9, recurrence_interval_miles = $10, recurrence_interval_months = $11,
		     is_active = $12, updated_at = NOW()
		 WHERE id = $13`,
		r.MaintenanceType, r.TargetMileage, r.TargetDate, r.MileageReminder,
		r.DateReminderDays, r.EstimatedCost, r.PartsLink, r.Notes,
		r.IsRecurring, r.RecurrenceIntervalMiles, r.RecurrenceIntervalMonths,
		r.IsActive, r.ID)
	return err
}

// DeleteReminder removes one reminder.
func (s *Store) DeleteReminder(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM future_maintenance WHERE id = $1`, id)
	return err
}

// ReminderContext is an active reminder joined with what the notifier
// needs to decide dueness and address the email.
type ReminderContext struct {
	Reminder       models.FutureMaintenance
	VehicleName    string
	AccountID      string
	CurrentMileage int
}

const activeRemindersSQL = `
    SELECT f.id, f.vehicle_id, f.maintenance_type, f.target_mileage, f.target_date,
        f.mileage_reminder, f.date_reminder_days, f.estimated_cost, f.parts_link, f.notes,
        f.is_recurring, f.recurrence_interval_miles, f.recurrence_interval_months, f.is_active,
        f.created_at, f.updated_at,
        v.name, v.account_id,
        GREATEST(
            COALESCE((SELECT MAX(mileage) FROM maintenance_records WHERE vehicle_id = v.id), 0),
            COALESCE((SELECT MAX(mileage) FROM fuel_entries WHERE vehicle_id = v.id), 0)
        )
    FROM future_maintenance f
    JOIN vehicles v ON v.id = f.vehicle_id
    WHERE f.is_active
    ORDER BY v.account_id, v.name
`

// ActiveReminders returns every active reminder with vehicle context for
// the notifier run.
func (s *Store) ActiveReminders(ctx context.Context) ([]ReminderContext, error) {
	rows, err := s.pool.Query(ctx, activeRemindersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ReminderContext, 0)
	for rows.Next() {
		var rc ReminderContext
		r := &rc.Reminder
		if err := rows.Scan(&r.ID, &r.VehicleID, &r.MaintenanceType, &r.TargetMileage, &r.TargetDate,
			&r.MileageReminder, &r.DateReminderDays, &r.EstimatedCost, &r.PartsLink, &r.Notes,
			&r.IsRecurring, &r.RecurrenceIntervalMiles, &r.RecurrenceIntervalMonths, &r.IsActive,
			&r.CreatedAt, &r.UpdatedAt,
			&rc.VehicleName, &rc.AccountID, &rc.CurrentMileage); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
