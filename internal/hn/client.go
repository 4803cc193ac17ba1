// Package hn is a client for the Hacker News item-tree API.
//
// The API addresses stories and comments individually with no bulk
// endpoint, so all batching here is client-side concurrency control
// over many single-item GETs.
package hn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/johnwakley/hn/internal/logging"
	"github.com/johnwakley/hn/internal/transport"
)

// DefaultBaseURL is the public Firebase endpoint.
const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// DefaultStoryLimit is used when a caller asks for a non-positive
// number of stories.
const DefaultStoryLimit = 20

// DefaultConcurrency caps in-flight item fetches per client.
const DefaultConcurrency = 8

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL       string
	Concurrency   int     // max in-flight fetches in a batch
	RatePerSecond float64 // 0 disables rate limiting
}

// Client fetches stories and comments. The concurrency limiter and
// rate limiter are its only state shared across calls; every fetch
// returns freshly owned values.
type Client struct {
	base        string
	get         transport.Getter
	concurrency int
	limiter     *rate.Limiter
}

// New creates a Client on top of the platform transport.
func New(g transport.Getter, opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), concurrency)
	}
	return &Client{
		base:        base,
		get:         g,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// TopStoryIDs returns up to limit story IDs in the source's ranking
// order. A list shorter than limit (or empty) is returned as-is; the
// client never re-ranks.
func (c *Client) TopStoryIDs(ctx context.Context, limit int) ([]int, error) {
	if limit <= 0 {
		limit = DefaultStoryLimit
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var ids []int
	if err := c.get.GetJSON(ctx, c.base+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// FetchStory fetches a single story by ID.
func (c *Client) FetchStory(ctx context.Context, id int) (Story, error) {
	raw, err := c.fetchItem(ctx, id)
	if err != nil {
		return Story{}, err
	}
	return raw.story(), nil
}

// FetchComment fetches a single comment by ID.
func (c *Client) FetchComment(ctx context.Context, id int) (Comment, error) {
	raw, err := c.fetchItem(ctx, id)
	if err != nil {
		return Comment{}, err
	}
	return raw.comment(), nil
}

// FetchMany fetches comments for all ids concurrently, bounded by the
// client's concurrency limit. The result holds exactly one outcome per
// distinct requested ID; one item's failure never cancels its
// siblings.
func (c *Client) FetchMany(ctx context.Context, ids []int) map[int]Result {
	out := make(map[int]Result, len(ids))
	if len(ids) == 0 {
		return out
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)

	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		g.Go(func() error {
			comment, err := c.FetchComment(ctx, id)
			mu.Lock()
			out[id] = Result{Comment: comment, Err: err}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return out
}

// TopStories fetches the ranked story list and resolves each entry,
// skipping items that fail to fetch. Rank order is preserved.
func (c *Client) TopStories(ctx context.Context, limit int) ([]Story, error) {
	ids, err := c.TopStoryIDs(ctx, limit)
	if err != nil {
		return nil, err
	}

	results := make([]*Story, len(ids))
	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			story, err := c.FetchStory(ctx, id)
			if err != nil {
				logging.Warn("Skipping story fetch failure", "id", id, "err", err)
				return nil
			}
			results[i] = &story
			return nil
		})
	}
	g.Wait()

	stories := make([]Story, 0, len(ids))
	for _, s := range results {
		if s != nil {
			stories = append(stories, *s)
		}
	}
	return stories, nil
}

// fetchItem GETs /item/{id}.json and classifies the outcome: a null
// body is ErrNotFound, a body that fails shape checks or decoding is
// ErrMalformed, and transport failures pass through unchanged.
func (c *Client) fetchItem(ctx context.Context, id int) (*rawItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/item/%d.json", c.base, id)
	var raw *rawItem
	if err := c.get.GetJSON(ctx, url, &raw); err != nil {
		var terr *transport.Error
		if errors.As(err, &terr) {
			switch {
			case terr.Kind == transport.KindStatus && terr.Status == 404:
				return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
			case terr.Kind == transport.KindDecode:
				return nil, fmt.Errorf("item %d: %w: %v", id, ErrMalformed, terr.Err)
			}
		}
		return nil, fmt.Errorf("item %d: %w", id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err := raw.validate(); err != nil {
		return nil, fmt.Errorf("item %d: %w", id, err)
	}
	return raw, nil
}
