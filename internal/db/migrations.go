package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		key VARCHAR(64) NOT NULL,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		lng DOUBLE PRECISION NOT NULL DEFAULT 0,
		vendor VARCHAR(64) NOT NULL DEFAULT '',
		branch_number VARCHAR(32) NOT NULL DEFAULT '',
		branch_name TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		is_home_base BOOLEAN NOT NULL DEFAULT FALSE,
		home_base_initial VARCHAR(8) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_clients_key ON clients (key);`,
	`CREATE INDEX IF NOT EXISTS idx_clients_vendor ON clients (vendor);`,
	`CREATE INDEX IF NOT EXISTS idx_clients_home_base ON clients (is_home_base) WHERE is_home_base;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
