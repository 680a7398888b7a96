package index

import (
	"context"
	"database/sql"
	"time"
)

const schemaVersion = 1

// nowUTC returns the current UTC time formatted as RFC3339 for consistent datetime storage
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func createTables(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS index_metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS replays (
			path TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			size INTEGER NOT NULL,
			mod_time INTEGER NOT NULL,
			stage INTEGER NOT NULL,
			data_json TEXT NOT NULL,
			indexed_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS replay_players (
			path TEXT NOT NULL,
			port INTEGER NOT NULL,
			character INTEGER NOT NULL,
			PRIMARY KEY (path, port)
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_replay_players_character ON replay_players(character)`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO index_metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)`,
		schemaVersion, nowUTC())
	if err != nil {
		return err
	}

	return tx.Commit()
}
