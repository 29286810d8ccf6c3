// ABOUTME: Integration tests for the full feed workflow
// ABOUTME: Composes subscribe, refresh, view assembly, and status marking

package test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"lectern/internal/config"
	"lectern/internal/feed"
	"lectern/internal/fetch"
	"lectern/internal/guid"
	"lectern/internal/models"
	"lectern/internal/parse"
	"lectern/internal/sanitize"
	"lectern/internal/store"
	"lectern/internal/view"
)

const integrationFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Integration Blog</title>
<item>
	<title>First Post</title>
	<link>https://example.com/posts/1</link>
	<pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
	<description>&lt;p&gt;Hello &lt;b&gt;world&lt;/b&gt;&lt;/p&gt;</description>
</item>
<item>
	<title>Second Post</title>
	<link>https://example.com/posts/2</link>
	<pubDate>Mon, 02 Jun 2025 11:00:00 GMT</pubDate>
	<description>More words</description>
</item>
</channel></rss>`

// TestFullWorkflow walks the whole pipeline: subscribe to a feed, refresh
// it, assemble the user's view, read an item, and check the view again.
func TestFullWorkflow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, integrationFeed)
	}))
	defer server.Close()

	cfg := config.Default()
	st, err := store.Open(filepath.Join(t.TempDir(), "lectern.db"), cfg.FreshnessWindow())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)
	parser := parse.New(sanitize.New())
	orchestrator := feed.New(fetch.New(cfg), parser, st, 2, log)
	assembler := view.New(st)

	// Subscribe.
	feedGUID := guid.Hash16(server.URL)
	sub, err := st.AddSubscription("alice", server.URL, server.URL, feedGUID)
	if err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
	if sub.Status != models.StatusPending {
		t.Errorf("new subscription status = %q, want pending", sub.Status)
	}

	// First refresh: items land, the feed names itself.
	outcome, err := orchestrator.RefreshFeed(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("failed to refresh: %v", err)
	}
	if outcome.Items != 2 {
		t.Fatalf("refresh persisted %d items, want 2", outcome.Items)
	}
	if outcome.Title != "Integration Blog" {
		t.Errorf("refresh title = %q, want the feed's title", outcome.Title)
	}
	if err := st.UpdateSubscriptionName("alice", feedGUID, outcome.Title); err != nil {
		t.Fatalf("failed to name subscription: %v", err)
	}

	// Fresh items are unread and new.
	data, err := assembler.GetViewData(view.Query{UserID: "alice"})
	if err != nil {
		t.Fatalf("failed to assemble view: %v", err)
	}
	if len(data.Items) != 2 {
		t.Fatalf("view has %d items, want 2", len(data.Items))
	}
	for _, item := range data.Items {
		if item.IsRead {
			t.Errorf("item %s IsRead = true before reading, want false", item.GUID)
		}
		if !item.IsNew {
			t.Errorf("item %s IsNew = false before listing, want true", item.GUID)
		}
		if item.SubscriptionName != "Integration Blog" {
			t.Errorf("item %s SubscriptionName = %q, want the feed title", item.GUID, item.SubscriptionName)
		}
	}
	// Newest first: the second post leads.
	if data.Items[0].Title != "Second Post" {
		t.Errorf("first view item = %q, want the newer post", data.Items[0].Title)
	}

	// Read the newest item.
	target := data.Items[0].GUID
	if err := st.MarkRead("alice", target); err != nil {
		t.Fatalf("failed to mark read: %v", err)
	}
	if err := st.MarkSeen("alice", target); err != nil {
		t.Fatalf("failed to mark seen: %v", err)
	}

	// The unread view now holds only the older item, and the read item no
	// longer resolves as active there.
	data, err = assembler.GetViewData(view.Query{UserID: "alice", UnreadOnly: true, ActiveGUID: target})
	if err != nil {
		t.Fatalf("failed to assemble unread view: %v", err)
	}
	if len(data.Items) != 1 {
		t.Fatalf("unread view has %d items, want 1", len(data.Items))
	}
	if data.Items[0].Title != "First Post" {
		t.Errorf("unread item = %q, want the older post", data.Items[0].Title)
	}
	if data.ActiveGUID != "" {
		t.Errorf("ActiveGUID = %q, want empty once the item is read", data.ActiveGUID)
	}

	// A second refresh changes nothing: same GUIDs, same count.
	if _, err := orchestrator.RefreshFeed(context.Background(), server.URL); err != nil {
		t.Fatalf("failed to re-refresh: %v", err)
	}
	count, err := st.CountItemsBySubscription(feedGUID)
	if err != nil {
		t.Fatalf("failed to count items: %v", err)
	}
	if count != 2 {
		t.Errorf("items after second refresh = %d, want 2", count)
	}

	// The subscription carries the refresh outcome.
	sub, err = st.GetSubscription("alice", feedGUID)
	if err != nil {
		t.Fatalf("failed to reload subscription: %v", err)
	}
	if sub.Status != models.StatusSuccess {
		t.Errorf("subscription status = %q, want success", sub.Status)
	}
	if sub.LastRefreshedAt == nil {
		t.Error("LastRefreshedAt = nil after refresh, want time")
	}
}
