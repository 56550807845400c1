package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/fxbridge/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves the current bridge-asset quotes from the upstream
// price source.
type Fetcher interface {
	FetchQuotes(ctx context.Context) ([]Quote, error)
}

// Cache holds the last derived rate table and refreshes it at most once per
// TTL window. Concurrent callers arriving at expiry share a single in-flight
// refresh instead of issuing duplicate upstream fetches.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger

	group singleflight.Group
	now   func() time.Time

	mu        sync.RWMutex
	table     Table
	expiresAt time.Time
}

// NewCache creates a rate cache with the given TTL.
func NewCache(fetcher Fetcher, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the current rate table, refreshing it first when the cache is
// empty or past its expiry instant. A failed refresh leaves the previous
// entry untouched and propagates the error.
func (c *Cache) Get(ctx context.Context) (Table, error) {
	if table, ok := c.fresh(); ok {
		c.metrics.CacheHitsTotal.Inc()
		return table, nil
	}

	result, err, _ := c.group.Do("refresh", func() (any, error) {
		// Another caller may have completed a refresh while this one was
		// waiting to enter the flight.
		if table, ok := c.fresh(); ok {
			return table, nil
		}
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(Table), nil
}

// fresh returns the cached table when it exists and has not expired.
func (c *Cache) fresh() (Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.table == nil || !c.now().Before(c.expiresAt) {
		return nil, false
	}
	return c.table, true
}

func (c *Cache) refresh(ctx context.Context) (Table, error) {
	c.logger.Debug("refreshing rate table")

	quotes, err := c.fetcher.FetchQuotes(ctx)
	if err != nil {
		c.metrics.CacheRefreshTotal.WithLabelValues("fetch_error").Inc()
		return nil, err
	}

	table, err := Build(quotes)
	if err != nil {
		c.metrics.CacheRefreshTotal.WithLabelValues("build_error").Inc()
		return nil, err
	}

	expiresAt := c.now().Add(c.ttl)
	c.mu.Lock()
	c.table = table
	c.expiresAt = expiresAt
	c.mu.Unlock()

	c.metrics.CacheRefreshTotal.WithLabelValues("success").Inc()
	c.logger.Info("rate table refreshed",
		"entries", len(table),
		"expires_at", expiresAt,
	)
	return table, nil
}
