// ABOUTME: Test suite for the view assembler
// ABOUTME: Exercises ordering, filters, active-item resolution, and navigation

package view

import (
	"path/filepath"
	"testing"
	"time"

	"lectern/internal/models"
	"lectern/internal/store"
)

func newTestAssembler(t *testing.T) (*Assembler, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "lectern.db"), 36*time.Hour)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st), st
}

// seedItems registers two feeds for alice and stores three items on the
// first and one on the second, with descending ages.
func seedItems(t *testing.T, st *store.Store) {
	t.Helper()
	if _, err := st.AddSubscription("alice", "https://a.example.com/feed", "Feed A", "feeda00000000001"); err != nil {
		t.Fatalf("AddSubscription() error = %v", err)
	}
	if _, err := st.AddSubscription("alice", "https://b.example.com/feed", "Feed B", "feedb00000000001"); err != nil {
		t.Fatalf("AddSubscription() error = %v", err)
	}

	now := time.Now()
	items := []models.FeedItem{
		{GUID: "item000000000001", SubscriptionGUID: "feeda00000000001", Title: "A newest", PublishedAt: now},
		{GUID: "item000000000002", SubscriptionGUID: "feeda00000000001", Title: "A middle", PublishedAt: now.Add(-time.Hour)},
		{GUID: "item000000000003", SubscriptionGUID: "feeda00000000001", Title: "A oldest", PublishedAt: now.Add(-2 * time.Hour)},
		{GUID: "item000000000004", SubscriptionGUID: "feedb00000000001", Title: "B only", PublishedAt: now.Add(-30 * time.Minute)},
	}
	if err := st.UpsertItems(items); err != nil {
		t.Fatalf("UpsertItems() error = %v", err)
	}
}

func TestGetViewData_NewestFirstAcrossFeeds(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	data, err := a.GetViewData(Query{UserID: "alice"})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}

	wantOrder := []string{"item000000000001", "item000000000004", "item000000000002", "item000000000003"}
	if len(data.Items) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(data.Items), len(wantOrder))
	}
	for i, want := range wantOrder {
		if data.Items[i].GUID != want {
			t.Errorf("items[%d].GUID = %q, want %q", i, data.Items[i].GUID, want)
		}
	}
	if data.Items[1].SubscriptionName != "Feed B" {
		t.Errorf("SubscriptionName = %q, want %q", data.Items[1].SubscriptionName, "Feed B")
	}
}

func TestGetViewData_StatusFlags(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	st.MarkRead("alice", "item000000000002")
	st.MarkSeen("alice", "item000000000001")
	st.MarkBookmarked("alice", "item000000000003")

	data, err := a.GetViewData(Query{UserID: "alice"})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}

	flags := make(map[string]models.ItemView, len(data.Items))
	for _, v := range data.Items {
		flags[v.GUID] = v
	}

	if flags["item000000000002"].IsRead != true {
		t.Error("item 2 IsRead = false, want true")
	}
	if flags["item000000000001"].IsNew != false {
		t.Error("seen item 1 IsNew = true, want false")
	}
	if flags["item000000000002"].IsNew != true {
		t.Error("unseen item 2 IsNew = false, want true")
	}
	if flags["item000000000003"].IsBookmarked != true {
		t.Error("item 3 IsBookmarked = false, want true")
	}
}

func TestGetViewData_SingleSubscription(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	data, err := a.GetViewData(Query{UserID: "alice", SubscriptionGUID: "feedb00000000001"})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}
	if len(data.Items) != 1 {
		t.Fatalf("len = %d, want 1", len(data.Items))
	}
	if data.Items[0].GUID != "item000000000004" {
		t.Errorf("GUID = %q, want item000000000004", data.Items[0].GUID)
	}
}

func TestGetViewData_UnknownSubscriptionEmpty(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	data, err := a.GetViewData(Query{UserID: "alice", SubscriptionGUID: "nosuchfeed000000"})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}
	if len(data.Items) != 0 {
		t.Errorf("len = %d, want 0", len(data.Items))
	}
}

func TestGetViewData_UnreadOnlyFiltersReadActiveItem(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	st.MarkRead("alice", "item000000000001")
	st.MarkRead("alice", "item000000000002")

	// A read item named as active does not survive the unread filter; it is
	// simply out of scope and the active resolution comes back empty.
	data, err := a.GetViewData(Query{
		UserID:     "alice",
		UnreadOnly: true,
		ActiveGUID: "item000000000002",
	})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}

	got := make(map[string]bool, len(data.Items))
	for _, v := range data.Items {
		got[v.GUID] = true
	}
	if got["item000000000001"] || got["item000000000002"] {
		t.Error("read item present in unread-only view, want filtered out")
	}
	if !got["item000000000003"] || !got["item000000000004"] {
		t.Error("unread items missing from unread-only view")
	}
	if data.ActiveGUID != "" {
		t.Errorf("ActiveGUID = %q, want empty for filtered-out item", data.ActiveGUID)
	}
}

func TestGetViewData_ActiveResolvedWithinFilteredSet(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	st.MarkRead("alice", "item000000000001")

	data, err := a.GetViewData(Query{
		UserID:     "alice",
		UnreadOnly: true,
		ActiveGUID: "item000000000003",
	})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}
	if data.ActiveGUID != "item000000000003" {
		t.Errorf("ActiveGUID = %q, want the in-scope item", data.ActiveGUID)
	}
}

func TestGetViewData_BookmarksOnly(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	st.MarkBookmarked("alice", "item000000000003")

	data, err := a.GetViewData(Query{UserID: "alice", BookmarksOnly: true})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}
	if len(data.Items) != 1 {
		t.Fatalf("len = %d, want 1", len(data.Items))
	}
	if data.Items[0].GUID != "item000000000003" {
		t.Errorf("GUID = %q, want bookmarked item", data.Items[0].GUID)
	}
}

func TestGetViewData_LimitTruncatesAfterActiveResolution(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	// The oldest item is past the limit window. It is cut from the list, but
	// the active resolution happened on the pre-limit set so it stays
	// resolved.
	data, err := a.GetViewData(Query{
		UserID:     "alice",
		Limit:      2,
		ActiveGUID: "item000000000003",
	})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}
	if len(data.Items) != 2 {
		t.Fatalf("len = %d, want 2", len(data.Items))
	}
	if data.Items[0].GUID != "item000000000001" || data.Items[1].GUID != "item000000000004" {
		t.Errorf("items = [%q, %q], want the two newest", data.Items[0].GUID, data.Items[1].GUID)
	}
	if data.ActiveGUID != "item000000000003" {
		t.Errorf("ActiveGUID = %q, want resolved despite truncation", data.ActiveGUID)
	}
}

func TestGetViewData_UnknownActiveResolvesEmpty(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	data, err := a.GetViewData(Query{UserID: "alice", ActiveGUID: "nosuchitem000000"})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}
	if data.ActiveGUID != "" {
		t.Errorf("ActiveGUID = %q, want empty for unknown item", data.ActiveGUID)
	}
}

func TestGetViewData_ZeroLimitMeansAll(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	data, err := a.GetViewData(Query{UserID: "alice", Limit: 0})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}
	if len(data.Items) != 4 {
		t.Errorf("len = %d, want 4", len(data.Items))
	}
}

func TestFindNextItemGUID(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	next, err := a.FindNextItemGUID(Query{UserID: "alice"}, "item000000000004")
	if err != nil {
		t.Fatalf("FindNextItemGUID() error = %v", err)
	}
	if next != "item000000000002" {
		t.Errorf("next = %q, want item000000000002", next)
	}

	// Last item has no successor.
	next, err = a.FindNextItemGUID(Query{UserID: "alice"}, "item000000000003")
	if err != nil {
		t.Fatalf("FindNextItemGUID() error = %v", err)
	}
	if next != "" {
		t.Errorf("next after last = %q, want empty", next)
	}

	// Unknown current item has no successor.
	next, _ = a.FindNextItemGUID(Query{UserID: "alice"}, "nosuchitem000000")
	if next != "" {
		t.Errorf("next for unknown = %q, want empty", next)
	}
}

func TestGetViewData_ScopedPerUser(t *testing.T) {
	a, st := newTestAssembler(t)
	seedItems(t, st)

	data, err := a.GetViewData(Query{UserID: "bob"})
	if err != nil {
		t.Fatalf("GetViewData() error = %v", err)
	}
	if len(data.Items) != 0 {
		t.Errorf("len = %d, want 0 for unsubscribed user", len(data.Items))
	}
}
