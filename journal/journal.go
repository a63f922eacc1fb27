// Package journal keeps the broadcast networks that are live on a device in a
// SQLite database, so that a later process can retract networks left behind
// by one that died.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sarchlab/bcastnet/bcast"
)

// ErrNotFound is returned when no live network has the given id.
var ErrNotFound = errors.New("network not in journal")

// Entry is a journaled network.
type Entry struct {
	ID         string
	Device     string
	Network    bcast.Network
	Trigger    bcast.Event
	RecordedAt time.Time
}

// Journal is a SQLite-backed record of live networks.
type Journal struct {
	db *sql.DB
}

// Open opens, or creates, the journal at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("empty journal path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Journal{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// Entries are read back after crashes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=FULL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS networks (
			id TEXT PRIMARY KEY,
			device TEXT NOT NULL,
			start_col INTEGER NOT NULL,
			num_cols INTEGER NOT NULL,
			footprint_json TEXT NOT NULL,
			row_offset INTEGER NOT NULL,
			ch1 INTEGER NOT NULL,
			ch2 INTEGER NOT NULL,
			event_base INTEGER NOT NULL,
			trigger_event INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_networks_device ON networks(device);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores a network as live under id, replacing any previous entry.
func (j *Journal) Record(
	ctx context.Context,
	id, device string,
	net bcast.Network,
	trigger bcast.Event,
) error {
	fp, err := json.Marshal(net.Footprint)
	if err != nil {
		return err
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO networks(
			id, device, start_col, num_cols, footprint_json, row_offset,
			ch1, ch2, event_base, trigger_event, recorded_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		id, device,
		net.Window.StartCol, net.Window.NumCols, string(fp), net.RowOffset,
		int(net.Channel1), int(net.Channel2), int(net.EventBase), int(trigger),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("journal record %s: %w", id, err)
	}

	return nil
}

// Remove drops the entry of a retracted network.
func (j *Journal) Remove(ctx context.Context, id string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM networks WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("journal remove %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// Get returns the entry of a live network.
func (j *Journal) Get(ctx context.Context, id string) (Entry, error) {
	row := j.db.QueryRowContext(ctx, selectEntry+` WHERE id=?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return e, err
}

// List returns the live networks of a device, oldest first. An empty device
// lists every entry.
func (j *Journal) List(ctx context.Context, device string) ([]Entry, error) {
	q := selectEntry
	args := []any{}
	if device != "" {
		q += ` WHERE device=?`
		args = append(args, device)
	}
	q += ` ORDER BY rowid`

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

const selectEntry = `SELECT id, device, start_col, num_cols, footprint_json,
	row_offset, ch1, ch2, event_base, trigger_event, recorded_at FROM networks`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e             Entry
		fp, at        string
		ch1, ch2      int
		base, trigger int
	)

	err := s.Scan(&e.ID, &e.Device,
		&e.Network.Window.StartCol, &e.Network.Window.NumCols, &fp,
		&e.Network.RowOffset, &ch1, &ch2, &base, &trigger, &at)
	if err != nil {
		return Entry{}, err
	}

	if err := json.Unmarshal([]byte(fp), &e.Network.Footprint); err != nil {
		return Entry{}, fmt.Errorf("journal entry %s footprint: %w", e.ID, err)
	}

	e.Network.Channel1 = bcast.Channel(ch1)
	e.Network.Channel2 = bcast.Channel(ch2)
	e.Network.EventBase = bcast.Event(base)
	e.Trigger = bcast.Event(trigger)

	e.RecordedAt, err = time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Entry{}, fmt.Errorf("journal entry %s time: %w", e.ID, err)
	}

	return e, nil
}
