package rates

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirasaad/fxbridge/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher counts fetches and can be switched to failure mode.
type stubFetcher struct {
	mu     sync.Mutex
	calls  int
	err    error
	quotes []Quote
	delay  time.Duration
}

func (s *stubFetcher) FetchQuotes(ctx context.Context) ([]Quote, error) {
	s.mu.Lock()
	s.calls++
	err := s.err
	quotes := s.quotes
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubFetcher) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func newTestCache(t *testing.T, fetcher Fetcher, ttl time.Duration) *Cache {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	return NewCache(fetcher, ttl, m, slog.Default())
}

func TestCacheGet_ServesCachedTableBeforeExpiry(t *testing.T) {
	fetcher := &stubFetcher{quotes: seedQuotes(t)}
	cache := newTestCache(t, fetcher, 5*time.Minute)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.callCount())

	second, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount(), "fresh cache must not refetch")
	assert.Equal(t, first, second, "cached table must be identical by value")
}

func TestCacheGet_RefreshesAfterExpiry(t *testing.T) {
	fetcher := &stubFetcher{quotes: seedQuotes(t)}
	cache := newTestCache(t, fetcher, 5*time.Minute)

	now := time.Now()
	cache.now = func() time.Time { return now }

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.callCount())

	// Just before expiry: still cached.
	now = now.Add(5*time.Minute - time.Second)
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	// Past expiry: exactly one new fetch-and-derive cycle.
	now = now.Add(2 * time.Second)
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestCacheGet_ConcurrentCallersShareOneRefresh(t *testing.T) {
	fetcher := &stubFetcher{quotes: seedQuotes(t), delay: 20 * time.Millisecond}
	cache := newTestCache(t, fetcher, 5*time.Minute)

	const callers = 16
	var failures atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Get(context.Background()); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures.Load())
	assert.Equal(t, 1, fetcher.callCount(),
		"concurrent callers at expiry must share a single upstream fetch")
}

func TestCacheGet_FailedFirstRefreshPropagates(t *testing.T) {
	fetchErr := errors.New("upstream down")
	fetcher := &stubFetcher{err: fetchErr}
	cache := newTestCache(t, fetcher, 5*time.Minute)

	_, err := cache.Get(context.Background())
	require.ErrorIs(t, err, fetchErr)

	// Recovery on the next call.
	fetcher.setErr(nil)
	fetcher.mu.Lock()
	fetcher.quotes = seedQuotes(t)
	fetcher.mu.Unlock()

	table, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, table)
}

func TestCacheGet_FailedRefreshLeavesValidCacheUntouched(t *testing.T) {
	fetcher := &stubFetcher{quotes: seedQuotes(t)}
	cache := newTestCache(t, fetcher, 5*time.Minute)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)

	// A broken upstream must not matter while the cache is still valid.
	fetcher.setErr(errors.New("upstream down"))
	second, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestCacheGet_FailedRefreshAfterExpiryPropagates(t *testing.T) {
	fetcher := &stubFetcher{quotes: seedQuotes(t)}
	cache := newTestCache(t, fetcher, 5*time.Minute)

	now := time.Now()
	cache.now = func() time.Time { return now }

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	fetchErr := errors.New("upstream down")
	fetcher.setErr(fetchErr)

	_, err = cache.Get(context.Background())
	require.ErrorIs(t, err, fetchErr, "no stale-data fallback on refresh failure")
}
