// ABOUTME: Subreddit URL rewriter producing .rss feed endpoints
// ABOUTME: Pure pattern rewrite, no network calls

package resolve

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var subredditPattern = regexp.MustCompile(`^/r/([A-Za-z0-9_]+)/?$`)

// RedditResolver maps subreddit pages to their .rss endpoints.
type RedditResolver struct{}

// NewRedditResolver returns the subreddit rewriter.
func NewRedditResolver() *RedditResolver {
	return &RedditResolver{}
}

func (r *RedditResolver) Name() string { return "reddit" }

// Supports claims reddit.com subreddit paths.
func (r *RedditResolver) Supports(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != "reddit.com" && !strings.HasSuffix(host, ".reddit.com") {
		return false
	}
	return subredditPattern.MatchString(u.Path)
}

// Resolve rewrites the subreddit path to its canonical .rss endpoint.
func (r *RedditResolver) Resolve(_ context.Context, rawURL string) (*Resolution, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	match := subredditPattern.FindStringSubmatch(u.Path)
	if match == nil {
		return nil, fmt.Errorf("%w: not a subreddit path", ErrInvalidURL)
	}
	return &Resolution{
		FeedURL:  fmt.Sprintf("https://www.reddit.com/r/%s/.rss", match[1]),
		Resolver: r.Name(),
	}, nil
}
