// ABOUTME: Per-user item view assembly over the stores
// ABOUTME: Batched status enrichment, filters, and stable newest-first ordering

package view

import (
	"fmt"

	"github.com/samber/lo"

	"lectern/internal/models"
	"lectern/internal/store"
)

// Query selects and filters the items one user sees.
type Query struct {
	UserID           string
	SubscriptionGUID string // restrict to one feed; empty means all
	ActiveGUID       string // item the caller considers current
	UnreadOnly       bool
	BookmarksOnly    bool
	Limit            int // 0 or negative means no limit
}

// Data is one assembled view. ActiveGUID is the requested active item
// resolved against the filtered set before truncation: it stays resolved
// when the limit cuts the item off, and comes back empty when filters put
// the item out of scope.
type Data struct {
	Items      []models.ItemView
	ActiveGUID string
}

// Assembler joins stored items with subscription metadata and the user's
// read, seen, and bookmark sets. Each status set is loaded once per query,
// never per item.
type Assembler struct {
	store *store.Store
}

// New returns an Assembler over the store.
func New(st *store.Store) *Assembler {
	return &Assembler{store: st}
}

// GetViewData returns the user's items newest first, enriched with status
// flags. Filters apply first, the active item is resolved within the
// filtered set, and the list is truncated to the limit last.
func (a *Assembler) GetViewData(q Query) (Data, error) {
	subs, err := a.store.ListSubscriptions(q.UserID)
	if err != nil {
		return Data{}, fmt.Errorf("load subscriptions: %w", err)
	}

	names := make(map[string]string, len(subs))
	for _, sub := range subs {
		names[sub.GUID] = sub.Name
	}

	subGUIDs := lo.Keys(names)
	if q.SubscriptionGUID != "" {
		if _, ok := names[q.SubscriptionGUID]; !ok {
			return Data{}, nil
		}
		subGUIDs = []string{q.SubscriptionGUID}
	}

	items, err := a.store.FindItemsBySubscriptionGUIDs(subGUIDs)
	if err != nil {
		return Data{}, fmt.Errorf("load items: %w", err)
	}
	if len(items) == 0 {
		return Data{}, nil
	}

	candidates := lo.Map(items, func(item models.FeedItem, _ int) string { return item.GUID })
	readSet, err := a.store.GetReadGUIDs(q.UserID, candidates)
	if err != nil {
		return Data{}, fmt.Errorf("load read set: %w", err)
	}
	seenSet, err := a.store.GetSeenGUIDs(q.UserID, candidates)
	if err != nil {
		return Data{}, fmt.Errorf("load seen set: %w", err)
	}
	bookmarkSet, err := a.store.GetBookmarkedGUIDs(q.UserID, candidates)
	if err != nil {
		return Data{}, fmt.Errorf("load bookmark set: %w", err)
	}

	views := make([]models.ItemView, 0, len(items))
	for _, item := range items {
		_, isRead := readSet[item.GUID]
		_, isSeen := seenSet[item.GUID]
		_, isBookmarked := bookmarkSet[item.GUID]

		if q.UnreadOnly && isRead {
			continue
		}
		if q.BookmarksOnly && !isBookmarked {
			continue
		}

		views = append(views, models.ItemView{
			FeedItem:         item,
			SubscriptionName: names[item.SubscriptionGUID],
			IsRead:           isRead,
			IsNew:            !isSeen,
			IsBookmarked:     isBookmarked,
		})
	}

	// Active resolution happens on the filtered, pre-limit set. A filtered-out
	// active item resolves to nothing.
	data := Data{Items: views}
	for _, v := range views {
		if v.GUID == q.ActiveGUID {
			data.ActiveGUID = q.ActiveGUID
			break
		}
	}

	if q.Limit > 0 && len(data.Items) > q.Limit {
		data.Items = data.Items[:q.Limit]
	}
	return data, nil
}

// FindNextItemGUID returns the GUID following current in the query's view,
// or empty when current is last or absent. Drives "advance to next item"
// navigation.
func (a *Assembler) FindNextItemGUID(q Query, current string) (string, error) {
	q.ActiveGUID = current
	q.Limit = 0
	data, err := a.GetViewData(q)
	if err != nil {
		return "", err
	}
	for i, v := range data.Items {
		if v.GUID == current && i+1 < len(data.Items) {
			return data.Items[i+1].GUID, nil
		}
	}
	return "", nil
}
