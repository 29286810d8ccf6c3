// ABOUTME: SQLite persistence using modernc.org/sqlite (pure Go)
// ABOUTME: Connection setup, schema, and shared scan helpers

package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists subscriptions, items, and per-user status sets. It is safe
// for concurrent writers to different item GUIDs; same-GUID concurrent
// writes within one refresh batch are not expected and not guarded.
type Store struct {
	db        *sql.DB
	freshness time.Duration
}

// Open creates (or opens) the database at dbPath. freshness is the window
// after publication during which a re-seen item may be overwritten.
func Open(dbPath string, freshness time.Duration) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, freshness: freshness}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS subscriptions (
			id TEXT UNIQUE NOT NULL,
			user_id TEXT NOT NULL,
			url TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			guid TEXT NOT NULL,
			folder TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL,
			last_refreshed_at TIMESTAMP,
			last_refresh_ms INTEGER,
			UNIQUE(user_id, url),
			UNIQUE(user_id, guid)
		);

		CREATE INDEX IF NOT EXISTS idx_subscriptions_user ON subscriptions(user_id);

		CREATE TABLE IF NOT EXISTS items (
			guid TEXT PRIMARY KEY,
			subscription_guid TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			excerpt TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_subscription ON items(subscription_guid);
		CREATE INDEX IF NOT EXISTS idx_items_published ON items(published_at);

		CREATE TABLE IF NOT EXISTS read_status (
			user_id TEXT NOT NULL,
			item_guid TEXT NOT NULL,
			marked_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, item_guid)
		);

		CREATE TABLE IF NOT EXISTS seen_status (
			user_id TEXT NOT NULL,
			item_guid TEXT NOT NULL,
			marked_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, item_guid)
		);

		CREATE TABLE IF NOT EXISTS bookmark_status (
			user_id TEXT NOT NULL,
			item_guid TEXT NOT NULL,
			marked_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, item_guid)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rowScanner abstracts sql.Row and sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}
