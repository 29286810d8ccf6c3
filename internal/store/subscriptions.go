// ABOUTME: Per-user feed registrations with idempotent subscribe semantics
// ABOUTME: Refresh outcome stamping and the conservative refresh-time queries

package store

import (
	"database/sql"
	"fmt"
	"time"

	"lectern/internal/models"
)

const subscriptionColumns = "id, user_id, url, name, guid, folder, status, created_at, last_refreshed_at, last_refresh_ms"

// AddSubscription registers a feed for a user. Repeated calls with the same
// (user, url) return the existing row unchanged; the first write wins on
// name and folder.
func (s *Store) AddSubscription(userID, url, name, guid string) (*models.Subscription, error) {
	existing, err := s.GetSubscriptionByURL(userID, url)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	sub := models.NewSubscription(userID, url, name, guid)
	_, err = s.db.Exec(`
		INSERT INTO subscriptions (id, user_id, url, name, guid, folder, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.UserID, sub.URL, sub.Name, sub.GUID, sub.Folder, string(sub.Status), sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	return sub, nil
}

// GetSubscription fetches one subscription by GUID, or nil when absent.
func (s *Store) GetSubscription(userID, guid string) (*models.Subscription, error) {
	row := s.db.QueryRow(
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE user_id = ? AND guid = ?",
		userID, guid,
	)
	return scanSubscriptionMaybe(row)
}

// GetSubscriptionByURL fetches one subscription by URL, or nil when absent.
func (s *Store) GetSubscriptionByURL(userID, url string) (*models.Subscription, error) {
	row := s.db.QueryRow(
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE user_id = ? AND url = ?",
		userID, url,
	)
	return scanSubscriptionMaybe(row)
}

// ListSubscriptions returns a user's subscriptions, newest first.
func (s *Store) ListSubscriptions(userID string) ([]*models.Subscription, error) {
	rows, err := s.db.Query(
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// ListFeedURLs returns every distinct subscribed URL across all users, the
// input to a refresh cycle.
func (s *Store) ListFeedURLs() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT url FROM subscriptions ORDER BY url")
	if err != nil {
		return nil, fmt.Errorf("list feed urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan feed url: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

// RemoveSubscription deletes a registration. Missing rows are a silent no-op.
func (s *Store) RemoveSubscription(userID, guid string) error {
	if _, err := s.db.Exec("DELETE FROM subscriptions WHERE user_id = ? AND guid = ?", userID, guid); err != nil {
		return fmt.Errorf("remove subscription: %w", err)
	}
	return nil
}

// UpdateSubscriptionName renames a subscription. Missing rows are a silent no-op.
func (s *Store) UpdateSubscriptionName(userID, guid, name string) error {
	if _, err := s.db.Exec("UPDATE subscriptions SET name = ? WHERE user_id = ? AND guid = ?", name, userID, guid); err != nil {
		return fmt.Errorf("update subscription name: %w", err)
	}
	return nil
}

// UpdateSubscriptionFolder refiles a subscription. Missing rows are a silent no-op.
func (s *Store) UpdateSubscriptionFolder(userID, guid, folder string) error {
	if _, err := s.db.Exec("UPDATE subscriptions SET folder = ? WHERE user_id = ? AND guid = ?", folder, userID, guid); err != nil {
		return fmt.Errorf("update subscription folder: %w", err)
	}
	return nil
}

// UpdateRefreshOutcome stamps the status, refresh time, and duration on
// every user's subscription to the given URL after a refresh attempt.
func (s *Store) UpdateRefreshOutcome(url string, status models.SubscriptionStatus, duration time.Duration) error {
	_, err := s.db.Exec(`
		UPDATE subscriptions SET status = ?, last_refreshed_at = ?, last_refresh_ms = ?
		WHERE url = ?
	`, string(status), time.Now().UTC(), duration.Milliseconds(), url)
	if err != nil {
		return fmt.Errorf("update refresh outcome: %w", err)
	}
	return nil
}

// UpdateAllRefreshTimestamps stamps every subscription of a user with the
// current time, called after a successful refresh cycle.
func (s *Store) UpdateAllRefreshTimestamps(userID string) error {
	if _, err := s.db.Exec("UPDATE subscriptions SET last_refreshed_at = ? WHERE user_id = ?", time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("update refresh timestamps: %w", err)
	}
	return nil
}

// GetOldestRefreshTime returns the oldest last_refreshed_at for a user, or
// nil while ANY subscription has never been refreshed. The null-on-any-unset
// rule gates "initial sync complete" signals conservatively.
func (s *Store) GetOldestRefreshTime(userID string) (*time.Time, error) {
	return s.refreshTimeEdge(userID, "MIN")
}

// GetLatestRefreshTime is GetOldestRefreshTime's MAX counterpart, with the
// same null-on-any-unset rule.
func (s *Store) GetLatestRefreshTime(userID string) (*time.Time, error) {
	return s.refreshTimeEdge(userID, "MAX")
}

func (s *Store) refreshTimeEdge(userID, aggregate string) (*time.Time, error) {
	var unset int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND last_refreshed_at IS NULL",
		userID,
	).Scan(&unset)
	if err != nil {
		return nil, fmt.Errorf("count unrefreshed subscriptions: %w", err)
	}
	if unset > 0 {
		return nil, nil
	}

	var edge sql.NullTime
	err = s.db.QueryRow(
		"SELECT "+aggregate+"(last_refreshed_at) FROM subscriptions WHERE user_id = ?",
		userID,
	).Scan(&edge)
	if err != nil {
		return nil, fmt.Errorf("refresh time edge: %w", err)
	}
	if !edge.Valid {
		return nil, nil
	}
	return &edge.Time, nil
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	var status string
	var refreshedAt sql.NullTime
	var refreshMillis sql.NullInt64
	if err := row.Scan(
		&sub.ID, &sub.UserID, &sub.URL, &sub.Name, &sub.GUID, &sub.Folder,
		&status, &sub.CreatedAt, &refreshedAt, &refreshMillis,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	sub.Status = models.SubscriptionStatus(status)
	if refreshedAt.Valid {
		sub.LastRefreshedAt = &refreshedAt.Time
	}
	if refreshMillis.Valid {
		sub.LastRefreshMillis = &refreshMillis.Int64
	}
	return &sub, nil
}

func scanSubscriptionMaybe(row *sql.Row) (*models.Subscription, error) {
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return sub, err
}
