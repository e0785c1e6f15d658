// Package storage provides SQLite-based persistence for recorded replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/cubes/internal/core"
	"github.com/vovakirdan/cubes/internal/replay"
)

// ErrNotFound is returned when a replay ID does not exist.
var ErrNotFound = errors.New("storage: replay not found")

// Store manages the SQLite database connection for the replay archive.
type Store struct {
	db *sql.DB
}

// ReplaySummary is a replay's header without its events.
type ReplaySummary struct {
	ID        int64
	Seed      uint32
	TickRate  int
	Ticks     uint64
	Score     int
	Level     int
	Lines     int
	Events    int
	CreatedAt time.Time
}

// Duration is the game's length at its recorded tick rate.
func (s ReplaySummary) Duration() time.Duration {
	if s.TickRate <= 0 {
		return 0
	}
	return time.Duration(s.Ticks) * time.Second / time.Duration(s.TickRate) //#nosec G115 -- tick counts stay far below overflow
}

// Stats contains aggregated statistics over all archived replays.
type Stats struct {
	Games      int
	BestScore  int
	AvgScore   float64
	TotalLines int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			start_action TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			lines INTEGER NOT NULL DEFAULT 0,
			state_hash INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_score ON replays(score DESC);

		CREATE TABLE IF NOT EXISTS replay_events (
			replay_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			action TEXT NOT NULL,
			PRIMARY KEY (replay_id, seq)
		);

		CREATE TABLE IF NOT EXISTS replay_reseeds (
			replay_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			value INTEGER NOT NULL,
			PRIMARY KEY (replay_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay stores a finished replay with its events and reseed values.
// The new ID is returned and written to rep.ID.
func (s *Store) SaveReplay(rep *replay.Replay) (int64, error) {
	if err := rep.Validate(); err != nil {
		return 0, fmt.Errorf("storage: refusing invalid replay: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(
		`INSERT INTO replays (seed, tick_rate, start_action, ticks, score, level, lines, state_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.Seed, rep.TickRate, rep.Start.String(), int64(rep.Ticks), //#nosec G115 -- tick counts fit in int64
		rep.Score, rep.Level, rep.Lines, int64(rep.Hash), //#nosec G115 -- stored bit-for-bit
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for i, ev := range rep.Events {
		if _, err := tx.Exec(
			"INSERT INTO replay_events (replay_id, seq, tick, action) VALUES (?, ?, ?, ?)",
			id, i, int64(ev.Tick), ev.Action.String(), //#nosec G115 -- tick counts fit in int64
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save replay event %d: %w", i, err)
		}
	}

	for i, v := range rep.Reseeds {
		if _, err := tx.Exec(
			"INSERT INTO replay_reseeds (replay_id, seq, value) VALUES (?, ?, ?)",
			id, i, v,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save reseed %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit replay: %w", err)
	}

	rep.ID = id
	return id, nil
}

// LoadReplay retrieves a replay with all of its events.
func (s *Store) LoadReplay(id int64) (*replay.Replay, error) {
	rep := &replay.Replay{ID: id}
	var start string
	var ticks, hash int64
	var createdAt any

	err := s.db.QueryRow(
		`SELECT seed, tick_rate, start_action, ticks, score, level, lines, state_hash, created_at
		 FROM replays
		 WHERE id = ?`,
		id,
	).Scan(&rep.Seed, &rep.TickRate, &start, &ticks, &rep.Score, &rep.Level, &rep.Lines, &hash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}

	action, ok := core.ParseAction(start)
	if !ok {
		return nil, fmt.Errorf("storage: replay %d has unknown start action %q", id, start)
	}
	rep.Start = action
	rep.Ticks = uint64(ticks) //#nosec G115 -- written from a uint64
	rep.Hash = uint64(hash)   //#nosec G115 -- stored bit-for-bit
	rep.CreatedAt = parseTimestamp(createdAt)

	if rep.Events, err = s.loadEvents(id); err != nil {
		return nil, err
	}
	if rep.Reseeds, err = s.loadReseeds(id); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *Store) loadEvents(id int64) ([]replay.Event, error) {
	rows, err := s.db.Query(
		"SELECT tick, action FROM replay_events WHERE replay_id = ? ORDER BY seq",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay events: %w", err)
	}
	defer rows.Close()

	var events []replay.Event
	for rows.Next() {
		var tick int64
		var name string
		if err := rows.Scan(&tick, &name); err != nil {
			return nil, fmt.Errorf("storage: cannot scan event row: %w", err)
		}
		action, ok := core.ParseAction(name)
		if !ok {
			return nil, fmt.Errorf("storage: replay %d has unknown action %q", id, name)
		}
		events = append(events, replay.Event{Tick: uint64(tick), Action: action}) //#nosec G115 -- written from a uint64
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return events, nil
}

func (s *Store) loadReseeds(id int64) ([]uint32, error) {
	rows, err := s.db.Query(
		"SELECT value FROM replay_reseeds WHERE replay_id = ? ORDER BY seq",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query reseeds: %w", err)
	}
	defer rows.Close()

	var values []uint32
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("storage: cannot scan reseed row: %w", err)
		}
		values = append(values, uint32(v)) //#nosec G115 -- written from a uint32
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return values, nil
}

// ListReplays retrieves the most recent replays, newest first.
func (s *Store) ListReplays(limit int) ([]ReplaySummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.seed, r.tick_rate, r.ticks, r.score, r.level, r.lines,
		        (SELECT COUNT(*) FROM replay_events e WHERE e.replay_id = r.id),
		        r.created_at
		 FROM replays r
		 ORDER BY r.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var list []ReplaySummary
	for rows.Next() {
		var r ReplaySummary
		var ticks int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Seed, &r.TickRate, &ticks, &r.Score, &r.Level, &r.Lines, &r.Events, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Ticks = uint64(ticks) //#nosec G115 -- written from a uint64
		r.CreatedAt = parseTimestamp(createdAt)
		list = append(list, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return list, nil
}

// DeleteReplay removes one replay and its events.
func (s *Store) DeleteReplay(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	if _, err := tx.Exec("DELETE FROM replay_events WHERE replay_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete replay events: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM replay_reseeds WHERE replay_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete reseeds: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// ClearReplays deletes every archived replay.
func (s *Store) ClearReplays() error {
	for _, table := range []string{"replay_events", "replay_reseeds", "replays"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil { //#nosec G202 -- fixed table names
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	return nil
}

// GetStats retrieves aggregated statistics over the archive.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(lines), 0)
		 FROM replays`,
	).Scan(&stats.Games, &stats.BestScore, &stats.AvgScore, &stats.TotalLines)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM replays ORDER BY id DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// parseTimestamp handles both time.Time and string datetime columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
