package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"garagelog/internal/models"
	"garagelog/internal/mpg"
)

const fuelColumns = `id, vehicle_id, date, mileage, gallons, total_cost, fuel_type, driving_pattern, notes, created_at, updated_at`

func scanFuel(row pgx.Row) (*models.FuelEntry, error) {
	var f models.FuelEntry
	err := row.Scan(&f.ID, &f.VehicleID, &f.Date, &f.Mileage, &f.Gallons, &f.TotalCost,
		&f.FuelType, &f.DrivingPattern, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFuelEntries returns a vehicle's fill-ups ordered by odometer
// mileage, the order the MPG aggregator expects.
func (s *Store) ListFuelEntries(ctx context.Context, vehicleID int64) ([]models.FuelEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+fuelColumns+` FROM fuel_entries WHERE vehicle_id = $1 ORDER BY mileage`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.FuelEntry, 0)
	for rows.Next() {
		var f models.FuelEntry
		if err := rows.Scan(&f.ID, &f.VehicleID, &f.Date, &f.Mileage, &f.Gallons, &f.TotalCost,
			&f.FuelType, &f.DrivingPattern, &f.Notes, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, f)
	}
	return entries, rows.Err()
}

// GetFuelEntry returns one fill-up, nil when missing.
func (s *Store) GetFuelEntry(ctx context.Context, id int64) (*models.FuelEntry, error) {
	return scanFuel(s.pool.QueryRow(ctx,
		`SELECT `+fuelColumns+` FROM fuel_entries WHERE id = $1`, id))
}

// CreateFuelEntry inserts a fill-up and fills generated fields.
func (s *Store) CreateFuelEntry(ctx context.Context, f *models.FuelEntry) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO fuel_entries (vehicle_id, date, mileage, gallons, total_cost, fuel_type, driving_pattern, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id, created_at, updated_at`,
		f.VehicleID, f.Date, f.Mileage, f.Gallons, f.TotalCost, f.FuelType, f.DrivingPattern, f.Notes,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// UpdateFuelEntry writes the editable fields back.
func (s *Store) UpdateFuelEntry(ctx context.Context, f *models.FuelEntry) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE fuel_entries
		 SET date = $1, mileage = $2, gallons = $3, total_cost = $4, fuel_type = $5,
		     driving_pattern = $6, notes = $7, updated_at = NOW()
		 WHERE id = $8`,
		f.Date, f.Mileage, f.Gallons, f.TotalCost, f.FuelType, f.DrivingPattern, f.Notes, f.ID)
	return err
}

// DeleteFuelEntry removes one fill-up.
func (s *Store) DeleteFuelEntry(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM fuel_entries WHERE id = $1`, id)
	return err
}

// MpgEntries converts a vehicle's fill-ups into aggregator input.
func (s *Store) MpgEntries(ctx context.Context, vehicleID int64) ([]mpg.Entry, error) {
	entries, err := s.ListFuelEntries(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	out := make([]mpg.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, mpg.Entry{Mileage: e.Mileage, Gallons: e.Gallons, Date: e.Date})
	}
	return out, nil
}
