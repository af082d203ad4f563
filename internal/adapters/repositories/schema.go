package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the world tables. The statements are valid for both
// SQLite and PostgreSQL.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		stop_id INTEGER PRIMARY KEY,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		z DOUBLE PRECISION NOT NULL,
		mode TEXT NOT NULL,
		line_id INTEGER NOT NULL
	);
	`

	createLinesQuery := `
	CREATE TABLE IF NOT EXISTS transit_lines (
		line_id INTEGER PRIMARY KEY,
		mode TEXT NOT NULL
	);
	`

	createLineStopsQuery := `
	CREATE TABLE IF NOT EXISTS line_stops (
		line_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		stop_id INTEGER NOT NULL,
		PRIMARY KEY (line_id, seq)
	);
	`

	createCitizensQuery := `
	CREATE TABLE IF NOT EXISTS citizen_instances (
		instance_id INTEGER PRIMARY KEY,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		z DOUBLE PRECISION NOT NULL,
		flags INTEGER NOT NULL,
		mode TEXT NOT NULL,
		target_building INTEGER NOT NULL,
		wait_x DOUBLE PRECISION NOT NULL,
		wait_y DOUBLE PRECISION NOT NULL,
		wait_z DOUBLE PRECISION NOT NULL
	);
	`

	createCitizenPathQuery := `
	CREATE TABLE IF NOT EXISTS citizen_path (
		instance_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		stop_id INTEGER NOT NULL,
		PRIMARY KEY (instance_id, seq)
	);
	`

	statements := []string{
		createStopsQuery,
		createLinesQuery,
		createLineStopsQuery,
		createCitizensQuery,
		createCitizenPathQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
