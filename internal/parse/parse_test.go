// ABOUTME: Test suite for RSS/Atom parsing into the canonical item shape
// ABOUTME: Validates malformed-input tolerance, GUID derivation, and the feed GUID invariant

package parse

import (
	"strings"
	"testing"
	"time"

	"lectern/internal/guid"
	"lectern/internal/sanitize"
)

const rss20XML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test RSS Feed</title>
    <link>https://example.com</link>
    <description>A test RSS feed</description>
    <item>
      <guid>https://example.com/post/1</guid>
      <title>First Post</title>
      <link>https://example.com/post/1</link>
      <pubDate>Mon, 02 Jan 2006 15:04:05 MST</pubDate>
      <description>&lt;p&gt;First post description&lt;/p&gt;</description>
    </item>
    <item>
      <link>https://example.com/post/2</link>
      <pubDate>Tue, 03 Jan 2006 15:04:05 MST</pubDate>
      <description>Second post description with enough text to be a title source</description>
    </item>
  </channel>
</rss>`

const atomXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2006-01-02T15:04:05Z</updated>
  <entry>
    <id>https://example.com/entry/1</id>
    <title>First Entry</title>
    <link rel="alternate" href="https://example.com/entry/1"/>
    <published>2006-01-02T15:04:05Z</published>
    <updated>2006-01-02T16:04:05Z</updated>
    <summary>First entry summary</summary>
  </entry>
  <entry>
    <id>https://example.com/entry/2</id>
    <title>Second Entry</title>
    <link href="https://example.com/entry/2"/>
    <updated>2006-01-03T15:04:05Z</updated>
    <content type="html">&lt;p&gt;Second entry content&lt;/p&gt;</content>
  </entry>
</feed>`

func newParser() *Parser {
	return New(sanitize.New())
}

func TestParse_RSS(t *testing.T) {
	sourceURL := "https://example.com/feed.xml"
	result := newParser().Parse([]byte(rss20XML), sourceURL)

	if result.Title != "Test RSS Feed" {
		t.Errorf("result.Title = %q, want %q", result.Title, "Test RSS Feed")
	}
	if len(result.Items) != 2 {
		t.Fatalf("len(result.Items) = %d, want 2", len(result.Items))
	}

	item1 := result.Items[0]
	if item1.GUID != guid.Hash16("https://example.com/post/1") {
		t.Errorf("item1.GUID = %q, want hash of link", item1.GUID)
	}
	if item1.Title != "First Post" {
		t.Errorf("item1.Title = %q, want %q", item1.Title, "First Post")
	}
	if item1.Source != "Test RSS Feed" {
		t.Errorf("item1.Source = %q, want %q", item1.Source, "Test RSS Feed")
	}
	if strings.Contains(item1.Excerpt, "<script") {
		t.Errorf("item1.Excerpt not sanitized: %q", item1.Excerpt)
	}
	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	if !item1.PublishedAt.UTC().Equal(want) {
		t.Errorf("item1.PublishedAt = %v, want %v", item1.PublishedAt.UTC(), want)
	}

	// Second item has no title; it must be derived from the excerpt.
	item2 := result.Items[1]
	if item2.Title == "" {
		t.Error("item2.Title is empty, want derived title")
	}
	if !strings.HasPrefix(item2.Title, "Second post description") {
		t.Errorf("item2.Title = %q, want excerpt-derived title", item2.Title)
	}
}

func TestParse_Atom(t *testing.T) {
	result := newParser().Parse([]byte(atomXML), "https://example.com/atom.xml")

	if result.Title != "Test Atom Feed" {
		t.Errorf("result.Title = %q, want %q", result.Title, "Test Atom Feed")
	}
	if len(result.Items) != 2 {
		t.Fatalf("len(result.Items) = %d, want 2", len(result.Items))
	}

	// Atom prefers updated over published.
	item1 := result.Items[0]
	want := time.Date(2006, 1, 2, 16, 4, 5, 0, time.UTC)
	if !item1.PublishedAt.UTC().Equal(want) {
		t.Errorf("item1.PublishedAt = %v, want updated timestamp %v", item1.PublishedAt.UTC(), want)
	}

	// Entry with content but no summary takes content as the excerpt.
	item2 := result.Items[1]
	if !strings.Contains(item2.Excerpt, "Second entry content") {
		t.Errorf("item2.Excerpt = %q, want content-derived excerpt", item2.Excerpt)
	}
}

func TestParse_MalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not xml", "this is not xml at all"},
		{"truncated", "<rss version=\"2.0\"><channel><title>Broken"},
		{"empty", ""},
		{"unrecognized root", "<?xml version=\"1.0\"?><unknown><thing/></unknown>"},
		{"html document", "<html><body><p>a page</p></body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newParser().Parse([]byte(tt.input), "https://example.com/feed.xml")
			if result.Title != "" {
				t.Errorf("result.Title = %q, want empty", result.Title)
			}
			if len(result.Items) != 0 {
				t.Errorf("len(result.Items) = %d, want 0", len(result.Items))
			}
		})
	}
}

func TestParse_SubscriptionGUIDInvariant(t *testing.T) {
	sourceURL := "https://example.com/feed.xml"
	result := newParser().Parse([]byte(rss20XML), sourceURL)

	wantGUID := guid.Hash16(sourceURL)
	for i, item := range result.Items {
		if item.SubscriptionGUID != wantGUID {
			t.Errorf("items[%d].SubscriptionGUID = %q, want %q", i, item.SubscriptionGUID, wantGUID)
		}
	}
}

func TestParse_ItemWithoutLinkUsesNativeID(t *testing.T) {
	const feedXML = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>No Links</title>
    <item>
      <guid>native-id-1</guid>
      <title>Linkless</title>
      <description>body</description>
    </item>
  </channel>
</rss>`

	result := newParser().Parse([]byte(feedXML), "https://example.com/feed.xml")
	if len(result.Items) != 1 {
		t.Fatalf("len(result.Items) = %d, want 1", len(result.Items))
	}
	if result.Items[0].GUID != guid.Hash16("native-id-1") {
		t.Errorf("GUID = %q, want hash of native ID", result.Items[0].GUID)
	}
}

func TestParse_MissingDateDefaultsToNow(t *testing.T) {
	const feedXML = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Undated</title>
    <item>
      <link>https://example.com/undated</link>
      <title>Undated Post</title>
    </item>
  </channel>
</rss>`

	before := time.Now().Add(-time.Minute)
	result := newParser().Parse([]byte(feedXML), "https://example.com/feed.xml")
	after := time.Now().Add(time.Minute)

	if len(result.Items) != 1 {
		t.Fatalf("len(result.Items) = %d, want 1", len(result.Items))
	}
	got := result.Items[0].PublishedAt
	if got.Before(before) || got.After(after) {
		t.Errorf("PublishedAt = %v, want roughly now", got)
	}
}

func TestIsValid(t *testing.T) {
	p := newParser()

	if !p.IsValid([]byte(rss20XML)) {
		t.Error("IsValid(rss) = false, want true")
	}
	if !p.IsValid([]byte(atomXML)) {
		t.Error("IsValid(atom) = false, want true")
	}
	if p.IsValid([]byte("garbage")) {
		t.Error("IsValid(garbage) = true, want false")
	}

	const emptyFeed = `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`
	if p.IsValid([]byte(emptyFeed)) {
		t.Error("IsValid(zero-item feed) = true, want false")
	}
}
