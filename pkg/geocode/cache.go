package geocode

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// CachingClient memoizes successful responses of another Client.
// Concurrent calls for the same query and params share one upstream request.
type CachingClient struct {
	next  Client
	cache *expirable.LRU[string, *Response]
	group singleflight.Group
}

// NewCachingClient wraps next with an LRU of size entries that expire after ttl.
// A zero ttl keeps entries until they are evicted.
func NewCachingClient(next Client, size int, ttl time.Duration) *CachingClient {
	if size <= 0 {
		size = 256
	}
	return &CachingClient{
		next:  next,
		cache: expirable.NewLRU[string, *Response](size, nil, ttl),
	}
}

// Forward returns a cached response or asks the wrapped client.
// Errors are never cached.
func (c *CachingClient) Forward(ctx context.Context, query string, params Params) (*Response, error) {
	key := strings.ToLower(strings.TrimSpace(query)) + "|" + params.Key()

	if resp, ok := c.cache.Get(key); ok {
		log.Debugf("geocode cache hit: %q", query)
		return cloneResponse(resp), nil
	}

	// the shared request outlives any single caller; each caller still
	// stops waiting when its own ctx is done
	flight := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		resp, err := c.next.Forward(flight, query, params)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, resp)
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debugf("geocode request shared: %q", query)
		}
		return cloneResponse(res.Val.(*Response)), nil
	}
}

// Len returns the number of cached responses.
func (c *CachingClient) Len() int {
	return c.cache.Len()
}

// Purge drops every cached response.
func (c *CachingClient) Purge() {
	c.cache.Purge()
}

func cloneResponse(r *Response) *Response {
	out := &Response{Query: r.Query, Results: make([]Result, len(r.Results))}
	copy(out.Results, r.Results)
	return out
}
