// ABOUTME: Content-addressed feed item persistence keyed by derived GUID
// ABOUTME: Upsert with freshness-window guard, bulk reads, and retention pruning

package store

import (
	"database/sql"
	"fmt"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"

	"lectern/internal/models"
)

const itemColumns = "guid, subscription_guid, title, link, source, excerpt, published_at"

// upsertItemQuery inserts a new item or, when the GUID already exists,
// updates the mutable fields only while the stored row is still inside the
// freshness window. An aged row is left untouched even when the same GUID
// shows up again, so republish noise cannot overwrite old items.
const upsertItemQuery = `
	INSERT INTO items (guid, subscription_guid, title, link, source, excerpt, published_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(guid) DO UPDATE SET
		title = excluded.title,
		link = excluded.link,
		source = excluded.source,
		excerpt = excluded.excerpt
	WHERE items.published_at >= ?
`

// UpsertItem inserts or freshness-guard-updates a single item. Timestamps
// are stored in UTC; SQLite compares them as text, so a mixed-offset column
// would break the freshness guard.
func (s *Store) UpsertItem(item models.FeedItem) error {
	now := time.Now().UTC()
	cutoff := now.Add(-s.freshness)
	_, err := s.db.Exec(upsertItemQuery,
		item.GUID, item.SubscriptionGUID, item.Title, item.Link,
		item.Source, item.Excerpt, item.PublishedAt.UTC(), now, cutoff,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// UpsertItems applies the upsert rule per item inside one transaction.
func (s *Store) UpsertItems(items []models.FeedItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertItemQuery)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	cutoff := now.Add(-s.freshness)
	for _, item := range items {
		if _, err := stmt.Exec(
			item.GUID, item.SubscriptionGUID, item.Title, item.Link,
			item.Source, item.Excerpt, item.PublishedAt.UTC(), now, cutoff,
		); err != nil {
			return fmt.Errorf("upsert item %s: %w", item.GUID, err)
		}
	}

	return tx.Commit()
}

// FindItemByGUID returns the item, or nil when absent.
func (s *Store) FindItemByGUID(guid string) (*models.FeedItem, error) {
	row := s.db.QueryRow("SELECT "+itemColumns+" FROM items WHERE guid = ?", guid)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	return item, nil
}

// FindItemsByGUIDs bulk-fetches items; absent GUIDs are simply missing from
// the returned map.
func (s *Store) FindItemsByGUIDs(guids []string) (map[string]models.FeedItem, error) {
	result := make(map[string]models.FeedItem, len(guids))
	if len(guids) == 0 {
		return result, nil
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(itemColumns).From("items")
	sb.Where(sb.In("guid", sqlbuilder.Flatten(guids)...))
	query, args := sb.Build()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("find items by guids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result[item.GUID] = *item
	}
	return result, rows.Err()
}

// FindItemsBySubscriptionGUIDs bulk-fetches items across many feeds,
// newest first. This is the aggregate-view query; published_at DESC with a
// GUID tiebreak is the canonical ordering the view layer relies on.
func (s *Store) FindItemsBySubscriptionGUIDs(subscriptionGUIDs []string) ([]models.FeedItem, error) {
	if len(subscriptionGUIDs) == 0 {
		return nil, nil
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(itemColumns).From("items")
	sb.Where(sb.In("subscription_guid", sqlbuilder.Flatten(subscriptionGUIDs)...))
	sb.OrderBy("published_at DESC", "guid ASC")
	query, args := sb.Build()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("find items by subscriptions: %w", err)
	}
	defer rows.Close()

	var items []models.FeedItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItemGUIDsBySubscription lists the GUIDs stored for one feed.
func (s *Store) GetItemGUIDsBySubscription(subscriptionGUID string) ([]string, error) {
	rows, err := s.db.Query("SELECT guid FROM items WHERE subscription_guid = ?", subscriptionGUID)
	if err != nil {
		return nil, fmt.Errorf("item guids by subscription: %w", err)
	}
	defer rows.Close()

	var guids []string
	for rows.Next() {
		var guid string
		if err := rows.Scan(&guid); err != nil {
			return nil, fmt.Errorf("scan item guid: %w", err)
		}
		guids = append(guids, guid)
	}
	return guids, rows.Err()
}

// CountItemsBySubscription counts the items stored for one feed.
func (s *Store) CountItemsBySubscription(subscriptionGUID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM items WHERE subscription_guid = ?", subscriptionGUID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// DeleteItemsOlderThan is the retention sweep. Per-user status rows are not
// touched; orphaned status rows are harmless since views join from items.
func (s *Store) DeleteItemsOlderThan(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec("DELETE FROM items WHERE published_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete old items: %w", err)
	}
	return result.RowsAffected()
}

// DeleteItemsBySubscription removes a feed's items on unsubscribe.
func (s *Store) DeleteItemsBySubscription(subscriptionGUID string) error {
	if _, err := s.db.Exec("DELETE FROM items WHERE subscription_guid = ?", subscriptionGUID); err != nil {
		return fmt.Errorf("delete subscription items: %w", err)
	}
	return nil
}

func scanItem(row rowScanner) (*models.FeedItem, error) {
	var item models.FeedItem
	if err := row.Scan(
		&item.GUID, &item.SubscriptionGUID, &item.Title, &item.Link,
		&item.Source, &item.Excerpt, &item.PublishedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}
