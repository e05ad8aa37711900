// Package discovery collects email-format search results for
// facilities through the Serper API, caching per-facility responses so
// repeated runs only pay for facilities not yet seen.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/provider-outreach/internal/cache"
	"github.com/sells-group/provider-outreach/internal/facility"
	"github.com/sells-group/provider-outreach/internal/model"
	"github.com/sells-group/provider-outreach/internal/resilience"
	"github.com/sells-group/provider-outreach/pkg/serper"
)

// Collector fetches search results per facility with caching, rate
// limiting, and retries on transient API failures.
type Collector struct {
	serper  serper.Client
	cache   cache.Store
	limiter *rate.Limiter
	workers int
	retry   resilience.RetryConfig
}

// retryable classifies serper failures: rate-limit and server-side
// statuses retry, everything else fails the lookup.
func retryable(err error) bool {
	var se *serper.StatusError
	if errors.As(err, &se) {
		return resilience.IsTransientHTTPStatus(se.Code)
	}
	return resilience.IsTransient(err)
}

// NewCollector creates a Collector. rateLimit is queries per second;
// values <= 0 fall back to 1 qps. workers <= 0 falls back to 3.
func NewCollector(client serper.Client, store cache.Store, rateLimit float64, workers int) *Collector {
	if rateLimit <= 0 {
		rateLimit = 1
	}
	if workers <= 0 {
		workers = 3
	}
	retry := resilience.DefaultRetryConfig()
	retry.ShouldRetry = retryable
	retry.OnRetry = func(attempt int, err error) {
		zap.L().Warn("retrying search", zap.Int("attempt", attempt), zap.Error(err))
	}

	return &Collector{
		serper:  client,
		cache:   store,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		workers: workers,
		retry:   retry,
	}
}

// Collect gathers search results for each facility key. A failed query
// for one facility logs and skips it; the batch continues. The cache is
// flushed before returning, even on context cancellation, so whatever
// was fetched is kept.
func (c *Collector) Collect(ctx context.Context, facilities []string) (model.SearchResults, error) {
	log := zap.L().With(zap.String("phase", "search"))
	log.Info("collecting search results",
		zap.Int("facilities", len(facilities)),
		zap.Int("workers", c.workers),
	)

	var (
		mu        sync.Mutex
		results   = make(model.SearchResults, len(facilities))
		apiCalls  int
		cacheHits int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for _, key := range facilities {
		g.Go(func() error {
			resp, cached, err := c.lookup(gctx, key)
			if err != nil {
				log.Warn("search failed", zap.String("facility", key), zap.Error(err))
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if cached {
				cacheHits++
			} else {
				apiCalls++
			}
			results[key] = model.FacilityResults{
				AnswerBox: convertAnswerBox(resp.AnswerBox),
				Organic:   convertOrganic(resp.Organic),
			}
			return nil
		})
	}

	runErr := g.Wait()

	if err := c.cache.Flush(ctx); err != nil {
		log.Warn("cache flush failed", zap.Error(err))
	}

	log.Info("search collection complete",
		zap.Int("collected", len(results)),
		zap.Int("api_calls", apiCalls),
		zap.Int("cache_hits", cacheHits),
	)

	if runErr != nil {
		return results, eris.Wrap(runErr, "discovery: collect")
	}
	return results, nil
}

// lookup returns the search response for one facility key, consulting
// the cache first.
func (c *Collector) lookup(ctx context.Context, key string) (*serper.SearchResponse, bool, error) {
	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var resp serper.SearchResponse
		if err := json.Unmarshal(raw, &resp); err == nil {
			return &resp, true, nil
		}
		// Unreadable cache entry: fall through and re-query.
	}

	resp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*serper.SearchResponse, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "discovery: rate limit wait")
		}
		return c.serper.Search(ctx, Query(key))
	})
	if err != nil {
		return nil, false, err
	}

	if raw, err := json.Marshal(resp); err == nil {
		if err := c.cache.Put(ctx, key, raw); err != nil {
			zap.L().Warn("cache put failed", zap.String("facility", key), zap.Error(err))
		}
	}
	return resp, false, nil
}

// Query builds the search query for a facility key: the org, city, and
// state joined with an "email format" suffix. A key that does not split
// cleanly is queried as-is.
func Query(key string) string {
	org, city, state, ok := facility.SplitKey(key)
	if !ok {
		return key + " email format"
	}
	return org + " " + city + " " + state + " email format"
}

func convertAnswerBox(ab *serper.AnswerBox) *model.AnswerBox {
	if ab == nil {
		return nil
	}
	return &model.AnswerBox{Snippet: ab.Snippet, Link: ab.Link}
}

func convertOrganic(organic []serper.OrganicResult) []model.OrganicResult {
	if len(organic) == 0 {
		return nil
	}
	out := make([]model.OrganicResult, len(organic))
	for i, o := range organic {
		out[i] = model.OrganicResult{Link: o.Link, Snippet: o.Snippet}
	}
	return out
}
