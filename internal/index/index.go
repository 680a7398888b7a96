// Package index keeps an in-memory SQLite catalog of parsed replays so that
// reloading a folder only decodes files that are new or have changed.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	_ "modernc.org/sqlite"

	"github.com/slpkit/ripped/internal/model"
)

// DSN opens a private in-memory database. The pool is pinned to a single
// connection because every connection to ":memory:" is a separate database.
const DSN = ":memory:"

// Stats counts lookups since the index was opened
type Stats struct {
	Hits   atomic.Int64
	Misses atomic.Int64
	Errors atomic.Int64
}

// Index is the replay catalog
type Index struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	log    zerolog.Logger

	stats *Stats
}

// Open creates an empty in-memory index
func Open(ctx context.Context, log zerolog.Logger) (*Index, error) {
	db, err := sql.Open("sqlite", DSN)
	if err != nil {
		return nil, newIndexError("open", "", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, newIndexError("open", "", err)
	}

	log.Debug().Msg("replay index initialized")
	return &Index{db: db, log: log, stats: &Stats{}}, nil
}

// Close releases the database; the catalog is lost
func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return nil
	}
	ix.closed = true
	return ix.db.Close()
}

// Stats returns the lookup counters
func (ix *Index) Stats() *Stats {
	return ix.stats
}

// Lookup returns the cached replay for path if its size and modification time still match
func (ix *Index) Lookup(ctx context.Context, path string, size int64, modTime time.Time) (*model.Replay, bool, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.closed {
		return nil, false, ErrClosed
	}

	var (
		cachedSize int64
		cachedMod  int64
		data       string
	)
	err := ix.db.QueryRowContext(ctx,
		`SELECT size, mod_time, data_json FROM replays WHERE path = ?`, path,
	).Scan(&cachedSize, &cachedMod, &data)
	if errors.Is(err, sql.ErrNoRows) {
		ix.stats.Misses.Inc()
		return nil, false, nil
	}
	if err != nil {
		ix.stats.Errors.Inc()
		return nil, false, newIndexError("lookup", path, err)
	}

	if cachedSize != size || cachedMod != modTime.UnixNano() {
		ix.stats.Misses.Inc()
		return nil, false, nil
	}

	var replay model.Replay
	if err := json.Unmarshal([]byte(data), &replay); err != nil {
		ix.stats.Errors.Inc()
		return nil, false, newIndexError("lookup", path, err)
	}

	ix.stats.Hits.Inc()
	return &replay, true, nil
}

// Put inserts or replaces the replay keyed by its path
func (ix *Index) Put(ctx context.Context, replay *model.Replay) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return ErrClosed
	}

	data, err := json.Marshal(replay)
	if err != nil {
		return newIndexError("put", replay.Path, err)
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return newIndexError("put", replay.Path, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO replays (path, id, size, mod_time, stage, data_json, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			id = excluded.id,
			size = excluded.size,
			mod_time = excluded.mod_time,
			stage = excluded.stage,
			data_json = excluded.data_json,
			indexed_at = excluded.indexed_at
	`, replay.Path, replay.ID, replay.Size, replay.ModTime.UnixNano(), int(replay.Stage), string(data), nowUTC())
	if err != nil {
		return newIndexError("put", replay.Path, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM replay_players WHERE path = ?`, replay.Path); err != nil {
		return newIndexError("put", replay.Path, err)
	}

	for _, p := range replay.Players {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO replay_players (path, port, character) VALUES (?, ?, ?)`,
			replay.Path, p.Port, int(p.Character))
		if err != nil {
			return newIndexError("put", replay.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return newIndexError("put", replay.Path, err)
	}
	return nil
}

// Prune removes every replay whose path is not in keep and returns how many were removed
func (ix *Index) Prune(ctx context.Context, keep []string) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return 0, ErrClosed
	}

	keepSet := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		keepSet[p] = struct{}{}
	}

	rows, err := ix.db.QueryContext(ctx, `SELECT path FROM replays`)
	if err != nil {
		return 0, newIndexError("prune", "", err)
	}

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return 0, newIndexError("prune", "", err)
		}
		if _, ok := keepSet[path]; !ok {
			stale = append(stale, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, newIndexError("prune", "", err)
	}

	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, newIndexError("prune", "", err)
	}
	defer tx.Rollback()

	for _, path := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM replay_players WHERE path = ?`, path); err != nil {
			return 0, newIndexError("prune", path, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM replays WHERE path = ?`, path); err != nil {
			return 0, newIndexError("prune", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, newIndexError("prune", "", err)
	}

	ix.log.Debug().Int("removed", len(stale)).Msg("pruned replay index")
	return len(stale), nil
}

// Count returns the number of indexed replays
func (ix *Index) Count(ctx context.Context) (int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.closed {
		return 0, ErrClosed
	}

	var n int
	if err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM replays`).Scan(&n); err != nil {
		return 0, newIndexError("count", "", err)
	}
	return n, nil
}

// CharacterCounts returns, per character, the number of indexed replays it appears in
func (ix *Index) CharacterCounts(ctx context.Context) (map[model.Character]int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.closed {
		return nil, ErrClosed
	}

	rows, err := ix.db.QueryContext(ctx,
		`SELECT character, COUNT(DISTINCT path) FROM replay_players GROUP BY character`)
	if err != nil {
		return nil, newIndexError("character_counts", "", err)
	}
	defer rows.Close()

	counts := make(map[model.Character]int)
	for rows.Next() {
		var character, n int
		if err := rows.Scan(&character, &n); err != nil {
			return nil, newIndexError("character_counts", "", err)
		}
		counts[model.Character(character)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, newIndexError("character_counts", "", err)
	}
	return counts, nil
}
