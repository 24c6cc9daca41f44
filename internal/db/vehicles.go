package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"garagelog/internal/models"
)

const vehicleColumns = `id, account_id, name, year, make, model, vin, created_at, updated_at`

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.AccountID, &v.Name, &v.Year, &v.Make, &v.Model, &v.VIN, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVehicles returns an account's vehicles ordered by name.
func (s *Store) ListVehicles(ctx context.Context, accountID string) ([]models.Vehicle, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE account_id = $1 ORDER BY name`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]models.Vehicle, 0)
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.AccountID, &v.Name, &v.Year, &v.Make, &v.Model, &v.VIN, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetVehicle returns a vehicle by id, nil when missing.
func (s *Store) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	return scanVehicle(s.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
}

// FindVehicleByName looks a vehicle up by name within an account,
// optionally excluding one id (for update duplicate checks).
func (s *Store) FindVehicleByName(ctx context.Context, accountID, name string, excludeID int64) (*models.Vehicle, error) {
	return scanVehicle(s.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE account_id = $1 AND name = $2 AND id <> $3`,
		accountID, name, excludeID))
}

// FindVehicleByVIN looks a vehicle up by VIN, optionally excluding one id.
func (s *Store) FindVehicleByVIN(ctx context.Context, vin string, excludeID int64) (*models.Vehicle, error) {
	return scanVehicle(s.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE vin = $1 AND id <> $2`, vin, excludeID))
}

// CreateVehicle inserts a vehicle and returns it with generated fields.
func (s *Store) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO vehicles (account_id, name, year, make, model, vin)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id, created_at, updated_at`,
		v.AccountID, v.Name, v.Year, v.Make, v.Model, v.VIN,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

// UpdateVehicle writes the editable fields back.
func (s *Store) UpdateVehicle(ctx context.Context, v *models.Vehicle) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE vehicles
		 SET name = $1, year = $2, make = $3, model = $4, vin = $5, updated_at = NOW()
		 WHERE id = $6`,
		v.Name, v.Year, v.Make, v.Model, v.VIN, v.ID)
	return err
}

// DeleteVehicle removes a vehicle; records, fuel entries and reminders go
// with it via ON DELETE CASCADE.
func (s *Store) DeleteVehicle(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	return err
}

const currentMileageSQL = `
    SELECT GREATEST(
        COALESCE((SELECT MAX(mileage) FROM maintenance_records WHERE vehicle_id = $1), 0),
        COALESCE((SELECT MAX(mileage) FROM fuel_entries WHERE vehicle_id = $1), 0)
    )
`

// CurrentMileage returns the highest odometer reading seen for a vehicle
// across maintenance and fuel records, 0 when none exist.
func (s *Store) CurrentMileage(ctx context.Context, vehicleID int64) (int, error) {
	var mileage int
	if err := s.pool.QueryRow(ctx, currentMileageSQL, vehicleID).Scan(&mileage); err != nil {
		return 0, err
	}
	return mileage, nil
}
