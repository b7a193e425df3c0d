package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/amishk599/reqwiz/internal/model"
)

// dialect holds the statements that differ between drivers.
type dialect struct {
	createTable string
	insert      string
	has         string
	list        string
}

var dialects = map[string]dialect{
	"sqlite": {
		createTable: `CREATE TABLE IF NOT EXISTS selections (
			session_id TEXT NOT NULL,
			category   TEXT NOT NULL,
			item       TEXT NOT NULL,
			added_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (session_id, category, item)
		)`,
		insert: "INSERT OR IGNORE INTO selections (session_id, category, item) VALUES (?, ?, ?)",
		has:    "SELECT 1 FROM selections WHERE session_id = ? AND category = ? AND item = ?",
		list:   "SELECT item FROM selections WHERE session_id = ? AND category = ? ORDER BY rowid",
	},
	"pgx": {
		createTable: `CREATE TABLE IF NOT EXISTS selections (
			id         BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			category   TEXT NOT NULL,
			item       TEXT NOT NULL,
			added_at   TIMESTAMPTZ DEFAULT now(),
			UNIQUE (session_id, category, item)
		)`,
		insert: "INSERT INTO selections (session_id, category, item) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		has:    "SELECT 1 FROM selections WHERE session_id = $1 AND category = $2 AND item = $3",
		list:   "SELECT item FROM selections WHERE session_id = $1 AND category = $2 ORDER BY id",
	},
}

// SelectionStore persists accepted suggestions per session and category in
// a SQL database (sqlite through modernc, postgres through pgx).
type SelectionStore struct {
	db      *sql.DB
	dialect dialect
}

// Open connects with driver ("sqlite" or "pgx") and ensures the selections
// table exists.
func Open(ctx context.Context, driver, dsn string) (*SelectionStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sql.Open(driver, strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", driver, err)
	}

	// Verify the connection is alive.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s db: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating selections table: %w", err)
	}

	return &SelectionStore{db: db, dialect: d}, nil
}

// Add records item for the session and category. It reports whether the item
// was new; adding an existing item is a no-op.
func (s *SelectionStore) Add(ctx context.Context, sessionID string, category model.Category, item string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.dialect.insert, sessionID, string(category), item)
	if err != nil {
		return false, fmt.Errorf("adding %s selection %q: %w", category, item, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adding %s selection %q: %w", category, item, err)
	}
	return n > 0, nil
}

// Has returns true if item has already been selected.
func (s *SelectionStore) Has(ctx context.Context, sessionID string, category model.Category, item string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, s.dialect.has, sessionID, string(category), item).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s selection %q: %w", category, item, err)
	}
	return true, nil
}

// List returns the selected items in the order they were first added.
func (s *SelectionStore) List(ctx context.Context, sessionID string, category model.Category) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.list, sessionID, string(category))
	if err != nil {
		return nil, fmt.Errorf("listing %s selections: %w", category, err)
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("scanning %s selection: %w", category, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Close closes the underlying database connection.
func (s *SelectionStore) Close() error {
	return s.db.Close()
}
