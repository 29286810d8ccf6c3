// ABOUTME: Catch-all resolver: direct feed read, HTML link discovery, path probing
// ABOUTME: Always last in the chain; supports every URL

package resolve

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"lectern/internal/fetch"
	"lectern/internal/parse"
)

// Common feed paths to probe when link discovery fails.
var commonFeedPaths = []string{
	"/feed.xml",
	"/feed",
	"/rss.xml",
	"/rss",
	"/atom.xml",
	"/index.xml",
}

// GenericResolver handles any URL: it tries the URL as a feed directly,
// then looks for alternate link tags in the returned HTML, then probes
// common feed paths on the same host.
type GenericResolver struct {
	client *fetch.Client
	parser *parse.Parser
}

// NewGenericResolver returns the catch-all resolver.
func NewGenericResolver(client *fetch.Client, parser *parse.Parser) *GenericResolver {
	return &GenericResolver{client: client, parser: parser}
}

func (r *GenericResolver) Name() string { return "generic" }

// Supports always claims the URL; the generic resolver is the chain's floor.
func (r *GenericResolver) Supports(string) bool { return true }

// Resolve runs the three discovery strategies in order.
func (r *GenericResolver) Resolve(ctx context.Context, rawURL string) (*Resolution, error) {
	base, err := url.Parse(rawURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: missing scheme or host", ErrInvalidURL)
	}

	body, err := r.client.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if r.parser.IsValid(body) {
		return &Resolution{FeedURL: rawURL, Resolver: r.Name()}, nil
	}

	for _, candidate := range feedLinks(body, base) {
		candidateBody, err := r.client.Fetch(ctx, candidate)
		if err != nil {
			continue
		}
		if r.parser.IsValid(candidateBody) {
			return &Resolution{FeedURL: candidate, Resolver: r.Name()}, nil
		}
	}

	probeBase := &url.URL{Scheme: base.Scheme, Host: base.Host}
	for _, path := range commonFeedPaths {
		probeURL := probeBase.String() + path
		probeBody, err := r.client.Fetch(ctx, probeURL)
		if err != nil {
			continue
		}
		if r.parser.IsValid(probeBody) {
			return &Resolution{FeedURL: probeURL, Resolver: r.Name()}, nil
		}
	}

	return nil, ErrNoFeedFound
}

// feedLinks extracts alternate RSS/Atom link hrefs from an HTML document,
// resolved against the page URL.
func feedLinks(body []byte, base *url.URL) []string {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, linkType, href string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "rel":
					rel = attr.Val
				case "type":
					linkType = attr.Val
				case "href":
					href = attr.Val
				}
			}
			if rel == "alternate" && isFeedContentType(linkType) && href != "" {
				if ref, err := url.Parse(href); err == nil {
					links = append(links, base.ResolveReference(ref).String())
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func isFeedContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "rss") ||
		strings.Contains(contentType, "atom") ||
		strings.Contains(contentType, "xml")
}
