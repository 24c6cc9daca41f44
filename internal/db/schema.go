package db

import "context"

// schemaStatements are applied in order at startup. Everything is
// idempotent so both binaries can run it safely.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id BIGSERIAL PRIMARY KEY,
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		year INT NOT NULL,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		vin TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (account_id, name)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicles_vin ON vehicles (vin) WHERE vin IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS maintenance_records (
		id BIGSERIAL PRIMARY KEY,
		vehicle_id BIGINT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		date_estimated BOOLEAN NOT NULL DEFAULT FALSE,
		mileage INT NOT NULL,
		description TEXT NOT NULL,
		cost NUMERIC(10,2),
		is_oil_change BOOLEAN NOT NULL DEFAULT FALSE,
		oil_type TEXT,
		oil_brand TEXT,
		oil_change_interval INT,
		tire_meta JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_vehicle_date ON maintenance_records (vehicle_id, date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_tire_meta ON maintenance_records USING GIN (tire_meta)`,
	`CREATE TABLE IF NOT EXISTS fuel_entries (
		id BIGSERIAL PRIMARY KEY,
		vehicle_id BIGINT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		mileage INT NOT NULL,
		gallons DOUBLE PRECISION NOT NULL,
		total_cost NUMERIC(10,2),
		fuel_type TEXT NOT NULL DEFAULT '87',
		driving_pattern TEXT NOT NULL DEFAULT 'mixed',
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fuel_vehicle_mileage ON fuel_entries (vehicle_id, mileage)`,
	`CREATE TABLE IF NOT EXISTS future_maintenance (
		id BIGSERIAL PRIMARY KEY,
		vehicle_id BIGINT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		maintenance_type TEXT NOT NULL,
		target_mileage INT,
		target_date DATE,
		mileage_reminder INT NOT NULL DEFAULT 100,
		date_reminder_days INT NOT NULL DEFAULT 30,
		estimated_cost NUMERIC(10,2),
		parts_link TEXT,
		notes TEXT,
		is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
		recurrence_interval_miles INT,
		recurrence_interval_months INT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS email_subscriptions (
		id UUID PRIMARY KEY,
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		email TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (account_id, email)
	)`,
}

// EnsureSchema creates any missing tables and indexes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
