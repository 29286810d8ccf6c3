// ABOUTME: YouTube channel resolver extracting a channel ID from page markup
// ABOUTME: Tries RSS link tag, meta tag, data attribute, then inline JSON in that order

package resolve

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"lectern/internal/fetch"
)

const videoFeedTemplate = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

var (
	channelIDPattern     = regexp.MustCompile(`^UC[0-9A-Za-z_-]{22}$`)
	dataAttributePattern = regexp.MustCompile(`data-channel-external-id="(UC[0-9A-Za-z_-]{22})"`)
	inlineJSONPattern    = regexp.MustCompile(`"channelId"\s*:\s*"(UC[0-9A-Za-z_-]{22})"`)
)

// YouTubeResolver fetches one channel/user/video page and derives the
// canonical videos.xml feed URL for the channel it belongs to.
type YouTubeResolver struct {
	client *fetch.Client
}

// NewYouTubeResolver returns a resolver using the given HTTP client.
func NewYouTubeResolver(client *fetch.Client) *YouTubeResolver {
	return &YouTubeResolver{client: client}
}

func (r *YouTubeResolver) Name() string { return "youtube" }

// Supports claims youtube.com and youtu.be URLs.
func (r *YouTubeResolver) Supports(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtu.be"
}

// Resolve fetches the page and tries the extraction strategies in priority
// order, returning the first hit that matches the channel ID shape.
func (r *YouTubeResolver) Resolve(ctx context.Context, rawURL string) (*Resolution, error) {
	body, err := r.client.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch channel page: %w", err)
	}

	if feedURL := feedLinkFromHTML(body); feedURL != "" {
		return &Resolution{FeedURL: feedURL, Resolver: r.Name()}, nil
	}

	for _, extract := range []func([]byte) string{
		channelIDFromMeta,
		channelIDFromDataAttribute,
		channelIDFromInlineJSON,
	} {
		if id := extract(body); id != "" {
			return &Resolution{
				FeedURL:  fmt.Sprintf(videoFeedTemplate, id),
				Resolver: r.Name(),
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: no channel ID in page", ErrNoFeedFound)
}

// feedLinkFromHTML returns the href of an RSS alternate link tag, if any.
func feedLinkFromHTML(body []byte) string {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}

	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
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
			if rel == "alternate" && strings.Contains(linkType, "rss") && href != "" {
				found = href
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// channelIDFromMeta looks for the channel ID in itemprop or og:url meta tags.
func channelIDFromMeta(body []byte) string {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}

	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			var itemprop, property, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "itemprop":
					itemprop = attr.Val
				case "property":
					property = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if itemprop == "identifier" && channelIDPattern.MatchString(content) {
				found = content
				return
			}
			if property == "og:url" {
				if idx := strings.LastIndex(content, "/channel/"); idx >= 0 {
					id := content[idx+len("/channel/"):]
					if channelIDPattern.MatchString(id) {
						found = id
						return
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func channelIDFromDataAttribute(body []byte) string {
	if match := dataAttributePattern.FindSubmatch(body); match != nil {
		return string(match[1])
	}
	return ""
}

func channelIDFromInlineJSON(body []byte) string {
	if match := inlineJSONPattern.FindSubmatch(body); match != nil {
		return string(match[1])
	}
	return ""
}
