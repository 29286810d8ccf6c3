// ABOUTME: Core value types shared across the ingestion pipeline and stores
// ABOUTME: Subscriptions, feed items, and the enriched per-user item view

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus reflects the outcome of the most recent refresh attempt.
type SubscriptionStatus string

const (
	StatusPending     SubscriptionStatus = "pending"
	StatusSuccess     SubscriptionStatus = "success"
	StatusTimeout     SubscriptionStatus = "timeout"
	StatusUnreachable SubscriptionStatus = "unreachable"
	StatusInvalid     SubscriptionStatus = "invalid"
)

// Subscription is a per-user feed registration. GUID is derived from the
// feed URL, so the same URL always maps to the same GUID for every user.
type Subscription struct {
	ID                string
	UserID            string
	URL               string
	Name              string
	GUID              string
	Folder            string
	Status            SubscriptionStatus
	CreatedAt         time.Time
	LastRefreshedAt   *time.Time
	LastRefreshMillis *int64
}

// NewSubscription creates a pending subscription with a generated row ID.
func NewSubscription(userID, url, name, guid string) *Subscription {
	return &Subscription{
		ID:        uuid.New().String(),
		UserID:    userID,
		URL:       url,
		Name:      name,
		GUID:      guid,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// FeedItem is a content-addressed feed entry. GUID is derived from the item
// link (or its feed-native ID when no link is present), so re-parsing the
// same feed always yields the same GUIDs.
type FeedItem struct {
	GUID             string
	SubscriptionGUID string
	Title            string
	Link             string
	Source           string
	Excerpt          string
	PublishedAt      time.Time
}

// ItemView is a FeedItem joined with subscription metadata and per-user
// status flags, ready for presentation.
type ItemView struct {
	FeedItem
	SubscriptionName string
	IsRead           bool
	IsNew            bool
	IsBookmarked     bool
}
