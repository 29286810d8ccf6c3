// ABOUTME: Bulk subscription import with all-or-nothing validation
// ABOUTME: Reconciles a user's subscriptions against a YAML or OPML manifest

package importer

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"lectern/internal/guid"
	"lectern/internal/opml"
	"lectern/internal/store"
)

// Record is one feed in an import manifest.
type Record struct {
	URL    string   `yaml:"url"`
	Title  string   `yaml:"title,omitempty"`
	Folder []string `yaml:"folder,omitempty"`
}

// Result summarizes a reconcile run.
type Result struct {
	Added   int
	Kept    int
	Removed int
}

// Importer reconciles a user's subscriptions against a manifest. A manifest
// with any invalid entry is rejected whole; nothing is written until every
// record passes validation.
type Importer struct {
	store             *store.Store
	allowPrivateHosts bool
}

// New builds an Importer. allowPrivateHosts permits loopback and private
// network feed URLs, for self-hosted setups that subscribe to local services.
func New(st *store.Store, allowPrivateHosts bool) *Importer {
	return &Importer{store: st, allowPrivateHosts: allowPrivateHosts}
}

// ParseYAML decodes a YAML manifest, a list of records.
func ParseYAML(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return records, nil
}

// RecordsFromOPML converts a parsed OPML document into import records.
func RecordsFromOPML(doc *opml.Document) []Record {
	return lo.Map(doc.AllFeeds(), func(feed opml.Feed, _ int) Record {
		return Record{URL: feed.URL, Title: feed.Title, Folder: feed.Folder}
	})
}

// Validate checks every record and reports all failures at once. Each
// failure names the entry index and field so a large manifest is fixable in
// one pass.
func (im *Importer) Validate(records []Record) error {
	var problems []string
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		if err := im.validateURL(rec.URL); err != nil {
			problems = append(problems, fmt.Sprintf("entry %d: url: %v", i, err))
			continue
		}
		if prev, dup := seen[rec.URL]; dup {
			problems = append(problems, fmt.Sprintf("entry %d: url: duplicate of entry %d", i, prev))
			continue
		}
		seen[rec.URL] = i
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid manifest:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// Reconcile makes the user's subscriptions match the manifest exactly:
// missing feeds are added, present ones kept, and feeds absent from the
// manifest are removed along with their items when no other user still
// subscribes.
func (im *Importer) Reconcile(userID string, records []Record) (Result, error) {
	if err := im.Validate(records); err != nil {
		return Result{}, err
	}

	existing, err := im.store.ListSubscriptions(userID)
	if err != nil {
		return Result{}, fmt.Errorf("list subscriptions: %w", err)
	}

	var result Result
	wanted := make(map[string]struct{}, len(records))
	for _, rec := range records {
		feedGUID := guid.Hash16(rec.URL)
		wanted[feedGUID] = struct{}{}

		prior, err := im.store.GetSubscriptionByURL(userID, rec.URL)
		if err != nil {
			return result, err
		}
		if prior != nil {
			result.Kept++
			continue
		}

		name := rec.Title
		if name == "" {
			name = rec.URL
		}
		if _, err := im.store.AddSubscription(userID, rec.URL, name, feedGUID); err != nil {
			return result, err
		}
		if folder := strings.Join(rec.Folder, "/"); folder != "" {
			if err := im.store.UpdateSubscriptionFolder(userID, feedGUID, folder); err != nil {
				return result, err
			}
		}
		result.Added++
	}

	for _, sub := range existing {
		if _, keep := wanted[sub.GUID]; keep {
			continue
		}
		if err := im.removeWithItems(userID, sub.GUID, sub.URL); err != nil {
			return result, err
		}
		result.Removed++
	}
	return result, nil
}

// removeWithItems drops a subscription and, when no user remains subscribed
// to its URL, the feed's stored items too.
func (im *Importer) removeWithItems(userID, feedGUID, feedURL string) error {
	if err := im.store.RemoveSubscription(userID, feedGUID); err != nil {
		return err
	}
	urls, err := im.store.ListFeedURLs()
	if err != nil {
		return err
	}
	if lo.Contains(urls, feedURL) {
		return nil
	}
	return im.store.DeleteItemsBySubscription(feedGUID)
}

func (im *Importer) validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("missing")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("unparseable: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("missing host")
	}
	if im.allowPrivateHosts {
		return nil
	}
	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("blocked host %q", host)
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("blocked host %q", host)
		}
	}
	return nil
}
