// ABOUTME: Refresh orchestrator driving fetch, parse, and persist per feed
// ABOUTME: Bounded worker pool with per-feed error isolation and classification

package feed

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"lectern/internal/fetch"
	"lectern/internal/models"
	"lectern/internal/parse"
	"lectern/internal/store"
)

// ErrInvalidFeed wraps parse failures so refresh outcomes can distinguish a
// feed that answered with garbage from one that never answered.
var ErrInvalidFeed = errors.New("invalid feed document")

// Orchestrator runs refresh cycles. One cycle fetches every distinct
// subscribed URL, parses what came back, and upserts the items. A failing
// feed is logged and stamped on its subscriptions; it never aborts the cycle.
type Orchestrator struct {
	client  *fetch.Client
	parser  *parse.Parser
	store   *store.Store
	workers int
	log     *logrus.Logger
}

// New builds an Orchestrator. workers bounds concurrent fetches; values
// below 1 are clamped to 1.
func New(client *fetch.Client, parser *parse.Parser, st *store.Store, workers int, log *logrus.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		client:  client,
		parser:  parser,
		store:   st,
		workers: workers,
		log:     log,
	}
}

// Outcome is one successful feed refresh: the feed's self-declared title
// and how many items were persisted. The title feeds subscription naming on
// first fetch.
type Outcome struct {
	Title string
	Items int
}

// RefreshAll refreshes every URL through the worker pool and returns the
// total number of items persisted across all feeds that succeeded.
func (o *Orchestrator) RefreshAll(ctx context.Context, urls []string) int {
	if len(urls) == 0 {
		return 0
	}

	jobs := make(chan string)
	results := make(chan int, len(urls))

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				outcome, err := o.RefreshFeed(ctx, url)
				if err != nil {
					o.log.WithFields(logrus.Fields{
						"url":   url,
						"error": err,
					}).Warn("feed refresh failed")
					continue
				}
				results <- outcome.Items
			}
		}()
	}

	for _, url := range urls {
		jobs <- url
	}
	close(jobs)
	wg.Wait()
	close(results)

	total := 0
	for count := range results {
		total += count
	}
	return total
}

// RefreshFeed fetches, parses, and persists one feed, then stamps the
// outcome on every subscription to its URL.
func (o *Orchestrator) RefreshFeed(ctx context.Context, url string) (Outcome, error) {
	start := time.Now()
	outcome, err := o.fetchAndPersist(ctx, url)
	duration := time.Since(start)

	status := classify(err)
	if stampErr := o.store.UpdateRefreshOutcome(url, status, duration); stampErr != nil {
		o.log.WithFields(logrus.Fields{
			"url":   url,
			"error": stampErr,
		}).Error("failed to record refresh outcome")
	}
	if err != nil {
		return Outcome{}, err
	}

	o.log.WithFields(logrus.Fields{
		"url":      url,
		"items":    outcome.Items,
		"duration": duration.Round(time.Millisecond),
	}).Debug("feed refreshed")
	return outcome, nil
}

func (o *Orchestrator) fetchAndPersist(ctx context.Context, url string) (Outcome, error) {
	content, err := o.client.Fetch(ctx, url)
	if err != nil {
		return Outcome{}, err
	}

	result, err := o.parser.ParseStrict(content, url)
	if err != nil {
		return Outcome{}, errors.Join(ErrInvalidFeed, err)
	}

	items := toFeedItems(result.Items)
	if err := o.store.UpsertItems(items); err != nil {
		return Outcome{}, err
	}
	return Outcome{Title: result.Title, Items: len(items)}, nil
}

// classify maps a refresh error to the subscription status it stamps.
func classify(err error) models.SubscriptionStatus {
	if err == nil {
		return models.StatusSuccess
	}
	if errors.Is(err, ErrInvalidFeed) {
		return models.StatusInvalid
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return models.StatusTimeout
	}
	return models.StatusUnreachable
}

func toFeedItems(raw []parse.RawItem) []models.FeedItem {
	items := make([]models.FeedItem, len(raw))
	for i, r := range raw {
		items[i] = models.FeedItem{
			GUID:             r.GUID,
			SubscriptionGUID: r.SubscriptionGUID,
			Title:            r.Title,
			Link:             r.Link,
			Source:           r.Source,
			Excerpt:          r.Excerpt,
			PublishedAt:      r.PublishedAt,
		}
	}
	return items
}
