// ABOUTME: RSS/Atom feed parsing into the canonical item shape using gofeed
// ABOUTME: Tolerant entry point degrades malformed input to an empty result

package parse

import (
	"time"

	"github.com/mmcdole/gofeed"

	"lectern/internal/guid"
	"lectern/internal/sanitize"
)

// Result is the canonical outcome of parsing one feed document.
type Result struct {
	Title string
	Items []RawItem
}

// RawItem is a parsed, sanitized feed entry ready for persistence. GUID is
// derived from the item link, falling back to the feed-native ID when the
// item carries no link. SubscriptionGUID is derived from the source URL and
// is identical across all items of one parse call.
type RawItem struct {
	GUID             string
	SubscriptionGUID string
	Title            string
	Link             string
	Source           string
	Excerpt          string
	PublishedAt      time.Time
}

// Parser converts raw feed bytes into Results.
type Parser struct {
	sanitizer *sanitize.Sanitizer
}

// New returns a Parser using the given sanitizer for excerpts and fallback
// titles.
func New(sanitizer *sanitize.Sanitizer) *Parser {
	return &Parser{sanitizer: sanitizer}
}

// Parse converts feed bytes into a Result. Malformed or unrecognized input
// yields an empty Result, never an error; callers treat zero items uniformly.
func (p *Parser) Parse(content []byte, sourceURL string) Result {
	result, err := p.ParseStrict(content, sourceURL)
	if err != nil {
		return Result{}
	}
	return result
}

// ParseStrict is Parse with the underlying format error exposed, for callers
// that classify failures (the refresh orchestrator).
func (p *Parser) ParseStrict(content []byte, sourceURL string) (Result, error) {
	feed, err := gofeed.NewParser().ParseString(string(content))
	if err != nil {
		return Result{}, err
	}

	subscriptionGUID := guid.Hash16(sourceURL)
	source := feed.Title
	if source == "" {
		source = sourceURL
	}

	result := Result{
		Title: feed.Title,
		Items: make([]RawItem, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		key := item.Link
		if key == "" {
			key = item.GUID
		}
		if key == "" {
			// Nothing stable to address the item by.
			continue
		}

		excerpt := item.Description
		if excerpt == "" {
			excerpt = item.Content
		}
		excerpt = p.sanitizer.Clean(excerpt)

		title := item.Title
		if title == "" {
			title = p.sanitizer.TitleFromExcerpt(excerpt)
		}

		result.Items = append(result.Items, RawItem{
			GUID:             guid.Hash16(key),
			SubscriptionGUID: subscriptionGUID,
			Title:            title,
			Link:             item.Link,
			Source:           source,
			Excerpt:          excerpt,
			PublishedAt:      publishedAt(item, feed.FeedType),
		})
	}

	return result, nil
}

// IsValid reports whether content parses into at least one item. Used for
// pre-flight validation without persisting anything.
func (p *Parser) IsValid(content []byte) bool {
	return len(p.Parse(content, "").Items) > 0
}

// publishedAt picks the item timestamp. Atom entries prefer updated over
// published; RSS items use pubDate. Missing or unparseable dates fall back
// to the current time.
func publishedAt(item *gofeed.Item, feedType string) time.Time {
	first, second := item.PublishedParsed, item.UpdatedParsed
	if feedType == "atom" {
		first, second = item.UpdatedParsed, item.PublishedParsed
	}
	if first != nil {
		return *first
	}
	if second != nil {
		return *second
	}
	return time.Now()
}
