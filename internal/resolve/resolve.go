// ABOUTME: Resolver chain turning arbitrary user-supplied URLs into concrete feed URLs
// ABOUTME: Fixed priority order; the first supporting resolver answers, success or not

package resolve

import (
	"context"
	"errors"

	"lectern/internal/fetch"
	"lectern/internal/parse"
)

// Errors returned by resolvers and the chain.
var (
	ErrNoResolver  = errors.New("no resolver supports URL")
	ErrNoFeedFound = errors.New("no RSS/Atom feed found at URL")
	ErrInvalidURL  = errors.New("invalid URL")
)

// Resolution is the outcome of a successful resolve.
type Resolution struct {
	FeedURL  string
	Resolver string
}

// Resolver maps a family of URLs to feed URLs.
type Resolver interface {
	// Name identifies the resolver in resolutions and logs.
	Name() string

	// Supports reports whether this resolver claims the URL.
	Supports(rawURL string) bool

	// Resolve turns the URL into a feed URL. An error here is final for the
	// chain; it does not fall through to later resolvers.
	Resolve(ctx context.Context, rawURL string) (*Resolution, error)
}

// Chain tries resolvers in construction order and delegates to the first
// one whose Supports returns true, exactly once.
type Chain struct {
	resolvers []Resolver
}

// NewChain builds the default chain: platform rewriters first, the
// generic fetch-and-discover resolver as the catch-all.
func NewChain(client *fetch.Client, parser *parse.Parser) *Chain {
	return &Chain{
		resolvers: []Resolver{
			NewRedditResolver(),
			NewYouTubeResolver(client),
			NewGenericResolver(client, parser),
		},
	}
}

// NewChainWith builds a chain with an explicit resolver order.
func NewChainWith(resolvers ...Resolver) *Chain {
	return &Chain{resolvers: resolvers}
}

// Resolve runs the chain. The generic resolver supports every URL, so
// ErrNoResolver only happens with a custom chain missing a catch-all.
func (c *Chain) Resolve(ctx context.Context, rawURL string) (*Resolution, error) {
	for _, r := range c.resolvers {
		if r.Supports(rawURL) {
			return r.Resolve(ctx, rawURL)
		}
	}
	return nil, ErrNoResolver
}
