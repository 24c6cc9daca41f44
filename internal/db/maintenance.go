package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"garagelog/internal/importer"
	"garagelog/internal/models"
)

const maintenanceColumns = `id, vehicle_id, date, date_estimated, mileage, description, cost,
	is_oil_change, oil_type, oil_brand, oil_change_interval, tire_meta, created_at, updated_at`

func scanMaintenance(row pgx.Row) (*models.MaintenanceRecord, error) {
	var r models.MaintenanceRecord
	var tireMeta []byte
	err := row.Scan(&r.ID, &r.VehicleID, &r.Date, &r.DateEstimated, &r.Mileage, &r.Description, &r.Cost,
		&r.IsOilChange, &r.OilType, &r.OilBrand, &r.OilChangeInterval, &tireMeta, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(tireMeta) > 0 {
		var tm models.TireMeta
		if err := json.Unmarshal(tireMeta, &tm); err == nil {
			r.TireMeta = &tm
		}
	}
	return &r, nil
}

func tireMetaJSON(tm *models.TireMeta) ([]byte, error) {
	if tm == nil {
		return nil, nil
	}
	return json.Marshal(tm)
}

// MaintenanceQuery filters record listings.
type MaintenanceQuery struct {
	AccountID string
	VehicleID *int64
}

// ListMaintenance returns records for an account, newest first, optionally
// restricted to one vehicle.
func (s *Store) ListMaintenance(ctx context.Context, q MaintenanceQuery) ([]models.MaintenanceRecord, error) {
	sql := `SELECT m.id, m.vehicle_id, m.date, m.date_estimated, m.mileage, m.description, m.cost,
		m.is_oil_change, m.oil_type, m.oil_brand, m.oil_change_interval, m.tire_meta, m.created_at, m.updated_at
		FROM maintenance_records m
		JOIN vehicles v ON v.id = m.vehicle_id
		WHERE v.account_id = $1`
	args := []any{q.AccountID}
	if q.VehicleID != nil {
		sql += ` AND m.vehicle_id = $2`
		args = append(args, *q.VehicleID)
	}
	sql += ` ORDER BY m.date DESC, m.mileage DESC`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.MaintenanceRecord, 0)
	for rows.Next() {
		var r models.MaintenanceRecord
		var tireMeta []byte
		if err := rows.Scan(&r.ID, &r.VehicleID, &r.Date, &r.DateEstimated, &r.Mileage, &r.Description, &r.Cost,
			&r.IsOilChange, &r.OilType, &r.OilBrand, &r.OilChangeInterval, &tireMeta, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if len(tireMeta) > 0 {
			var tm models.TireMeta
			if err := json.Unmarshal(tireMeta, &tm); err == nil {
				r.TireMeta = &tm
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetMaintenance returns one record, nil when missing.
func (s *Store) GetMaintenance(ctx context.Context, id int64) (*models.MaintenanceRecord, error) {
	return scanMaintenance(s.pool.QueryRow(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records WHERE id = $1`, id))
}

// CreateMaintenance inserts a record and fills generated fields.
func (s *Store) CreateMaintenance(ctx context.Context, r *models.MaintenanceRecord) error {
	tm, err := tireMetaJSON(r.TireMeta)
	if err != nil {
		return err
	}
	return s.pool.QueryRow(ctx,
		`INSERT INTO maintenance_records
		 (vehicle_id, date, date_estimated, mileage, description, cost,
		  is_oil_change, oil_type, oil_brand, oil_change_interval, tire_meta)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 RETURNING id, created_at, updated_at`,
		r.VehicleID, r.Date, r.DateEstimated, r.Mileage, r.Description, r.Cost,
		r.IsOilChange, r.OilType, r.OilBrand, r.OilChangeInterval, tm,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// UpdateMaintenance writes the editable fields back.
func (s *Store) UpdateMaintenance(ctx context.Context, r *models.MaintenanceRecord) error {
	tm, err := tireMetaJSON(r.TireMeta)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE maintenance_records
		 SET vehicle_id = $1, date = $2, date_estimated = $3, mileage = $4, description = $5, cost = $6,
		     is_oil_change = $7, oil_type = $8, oil_brand = $9, oil_change_interval = $10, tire_meta = $11,
		     updated_at = NOW()
		 WHERE id = $12`,
		r.VehicleID, r.Date, r.DateEstimated, r.Mileage, r.Description, r.Cost,
		r.IsOilChange, r.OilType, r.OilBrand, r.OilChangeInterval, tm, r.ID)
	return err
}

// DeleteMaintenance removes one record.
func (s *Store) DeleteMaintenance(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM maintenance_records WHERE id = $1`, id)
	return err
}

// insertImportedSQL skips rows that already exist with the same key fields
// so re-importing the same spreadsheet stays idempotent.
const insertImportedSQL = `
INSERT INTO maintenance_records (vehicle_id, date, mileage, description, cost)
SELECT $1, $2, $3, $4, $5
WHERE NOT EXISTS (
    SELECT 1 FROM maintenance_records
    WHERE vehicle_id = $1 AND date = $2 AND mileage = $3 AND description = $4
)`

// ImportMaintenance persists the successfully parsed rows of an import
// batch. Returns how many were inserted and how many were skipped as
// duplicates of existing records.
func (s *Store) ImportMaintenance(ctx context.Context, vehicleID int64, rows []importer.Row) (inserted, duplicates int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(insertImportedSQL, vehicleID, row.Date, row.Mileage, row.Description, row.Cost)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range rows {
		tag, execErr := res.Exec()
		if execErr != nil {
			return inserted, duplicates, execErr
		}
		if tag.RowsAffected() == 0 {
			duplicates++
		} else {
			inserted++
		}
	}
	return inserted, duplicates, nil
}

// MaintenanceSummary backs the dashboard stat cards.
type MaintenanceSummary struct {
	TotalVehicles int             `json:"total_vehicles"`
	TotalRecords  int             `json:"total_records"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	AverageCost   decimal.Decimal `json:"average_cost_per_record"`
}

const summarySQL = `
    SELECT
        (SELECT COUNT(*) FROM vehicles WHERE account_id = $1),
        (SELECT COUNT(*) FROM maintenance_records m JOIN vehicles v ON v.id = m.vehicle_id WHERE v.account_id = $1),
        (SELECT COALESCE(SUM(m.cost), 0) FROM maintenance_records m JOIN vehicles v ON v.id = m.vehicle_id WHERE v.account_id = $1)
`

// GetMaintenanceSummary aggregates dashboard statistics for an account.
func (s *Store) GetMaintenanceSummary(ctx context.Context, accountID string) (*MaintenanceSummary, error) {
	var sum MaintenanceSummary
	if err := s.pool.QueryRow(ctx, summarySQL, accountID).Scan(&sum.TotalVehicles, &sum.TotalRecords, &sum.TotalCost); err != nil {
		return nil, err
	}
	if sum.TotalRecords > 0 {
		sum.AverageCost = sum.TotalCost.Div(decimal.NewFromInt(int64(sum.TotalRecords))).Round(2)
	}
	return &sum, nil
}
