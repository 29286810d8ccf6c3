// ABOUTME: Read/seen/bookmark status sets keyed by (user, item GUID)
// ABOUTME: Idempotent marks, batched variants, and filtered bulk lookups

package store

import (
	"fmt"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

// Status tables are fixed; the table name is never caller-supplied.
const (
	tableRead     = "read_status"
	tableSeen     = "seen_status"
	tableBookmark = "bookmark_status"
)

// MarkRead records that a user has read an item. Idempotent.
func (s *Store) MarkRead(userID, guid string) error { return s.mark(tableRead, userID, guid) }

// MarkManyRead marks many items read in one transaction.
func (s *Store) MarkManyRead(userID string, guids []string) error {
	return s.markMany(tableRead, userID, guids)
}

// UnmarkRead clears the read flag. Missing rows are a silent no-op.
func (s *Store) UnmarkRead(userID, guid string) error { return s.unmark(tableRead, userID, guid) }

// IsRead reports whether the user has read the item.
func (s *Store) IsRead(userID, guid string) (bool, error) { return s.isMarked(tableRead, userID, guid) }

// GetReadGUIDs returns the user's read set, optionally restricted to the
// candidate GUIDs. A nil filter returns everything.
func (s *Store) GetReadGUIDs(userID string, filter []string) (map[string]struct{}, error) {
	return s.markedSet(tableRead, userID, filter)
}

// MarkSeen records that an item is no longer "new" for a user. Idempotent,
// and deliberately without an unmark: once seen stays seen.
func (s *Store) MarkSeen(userID, guid string) error { return s.mark(tableSeen, userID, guid) }

// MarkManySeen marks many items seen in one transaction.
func (s *Store) MarkManySeen(userID string, guids []string) error {
	return s.markMany(tableSeen, userID, guids)
}

// IsSeen reports whether the user has seen the item.
func (s *Store) IsSeen(userID, guid string) (bool, error) { return s.isMarked(tableSeen, userID, guid) }

// GetSeenGUIDs returns the user's seen set, optionally restricted to the
// candidate GUIDs for batch enrichment.
func (s *Store) GetSeenGUIDs(userID string, filter []string) (map[string]struct{}, error) {
	return s.markedSet(tableSeen, userID, filter)
}

// MarkBookmarked saves an item for a user. Idempotent.
func (s *Store) MarkBookmarked(userID, guid string) error { return s.mark(tableBookmark, userID, guid) }

// UnmarkBookmarked removes a bookmark. Missing rows are a silent no-op.
func (s *Store) UnmarkBookmarked(userID, guid string) error {
	return s.unmark(tableBookmark, userID, guid)
}

// IsBookmarked reports whether the user bookmarked the item.
func (s *Store) IsBookmarked(userID, guid string) (bool, error) {
	return s.isMarked(tableBookmark, userID, guid)
}

// GetBookmarkedGUIDs returns the user's bookmark set, optionally filtered.
func (s *Store) GetBookmarkedGUIDs(userID string, filter []string) (map[string]struct{}, error) {
	return s.markedSet(tableBookmark, userID, filter)
}

func (s *Store) mark(table, userID, guid string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO "+table+" (user_id, item_guid, marked_at) VALUES (?, ?, ?)",
		userID, guid, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("mark %s: %w", table, err)
	}
	return nil
}

func (s *Store) markMany(table, userID string, guids []string) error {
	if len(guids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin mark batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO " + table + " (user_id, item_guid, marked_at) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare mark: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, guid := range guids {
		if _, err := stmt.Exec(userID, guid, now); err != nil {
			return fmt.Errorf("mark %s %s: %w", table, guid, err)
		}
	}
	return tx.Commit()
}

func (s *Store) unmark(table, userID, guid string) error {
	if _, err := s.db.Exec("DELETE FROM "+table+" WHERE user_id = ? AND item_guid = ?", userID, guid); err != nil {
		return fmt.Errorf("unmark %s: %w", table, err)
	}
	return nil
}

func (s *Store) isMarked(table, userID, guid string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM "+table+" WHERE user_id = ? AND item_guid = ?",
		userID, guid,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", table, err)
	}
	return count > 0, nil
}

func (s *Store) markedSet(table, userID string, filter []string) (map[string]struct{}, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("item_guid").From(table)
	sb.Where(sb.Equal("user_id", userID))
	if filter != nil {
		if len(filter) == 0 {
			return map[string]struct{}{}, nil
		}
		sb.Where(sb.In("item_guid", sqlbuilder.Flatten(filter)...))
	}
	query, args := sb.Build()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("load %s set: %w", table, err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var guid string
		if err := rows.Scan(&guid); err != nil {
			return nil, fmt.Errorf("scan %s guid: %w", table, err)
		}
		set[guid] = struct{}{}
	}
	return set, rows.Err()
}
