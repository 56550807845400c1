// Package binance fetches BTC prices against each supported fiat currency
// from the Binance spot ticker API.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/amirasaad/fxbridge/pkg/config"
	"github.com/amirasaad/fxbridge/pkg/currency"
	"github.com/amirasaad/fxbridge/pkg/domain"
	"github.com/amirasaad/fxbridge/pkg/metrics"
	"github.com/amirasaad/fxbridge/pkg/rates"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// bridgeSymbols maps each supported fiat to its Binance ticker symbol.
// The USDT quote stands in for USD.
var bridgeSymbols = []struct {
	Fiat   currency.Code
	Symbol string
}{
	{currency.USD, "BTCUSDT"},
	{currency.EUR, "BTCEUR"},
	{currency.GBP, "BTCGBP"},
}

// tickerResponse is the Binance /api/v3/ticker/price payload.
type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Client fetches bridge-asset quotes from the Binance ticker endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a Binance client from the exchange-rate configuration.
func New(cfg config.ExchangeRateConfig, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.ApiUrl,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		metrics: m,
		logger:  logger,
	}
}

// FetchQuotes retrieves the BTC price against every supported fiat, one
// request per symbol, issued concurrently. A single failed symbol fails the
// whole fetch; the error names the symbol. No retries.
func (c *Client) FetchQuotes(ctx context.Context) ([]rates.Quote, error) {
	quotes := make([]rates.Quote, len(bridgeSymbols))

	g, ctx := errgroup.WithContext(ctx)
	for i, sym := range bridgeSymbols {
		i, sym := i, sym
		g.Go(func() error {
			quote, err := c.fetchQuote(ctx, sym.Fiat, sym.Symbol)
			if err != nil {
				return err
			}
			quotes[i] = quote
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched bridge quotes", "count", len(quotes))
	return quotes, nil
}

func (c *Client) fetchQuote(ctx context.Context, fiat currency.Code, symbol string) (rates.Quote, error) {
	reqURL := fmt.Sprintf("%s?symbol=%s", c.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return rates.Quote{}, fmt.Errorf("building request for %s: %w", symbol, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamRequestDuration.WithLabelValues(symbol).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequestsTotal.WithLabelValues(symbol, "network_error").Inc()
		return rates.Quote{}, fmt.Errorf("fetching %s: %w: %w", symbol, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequestsTotal.WithLabelValues(symbol, "http_error").Inc()
		return rates.Quote{}, fmt.Errorf("fetching %s: status %d: %w",
			symbol, resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	var ticker tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		c.metrics.UpstreamRequestsTotal.WithLabelValues(symbol, "malformed").Inc()
		return rates.Quote{}, fmt.Errorf("decoding %s response: %w", symbol, domain.ErrMalformedResponse)
	}
	if ticker.Price == "" {
		c.metrics.UpstreamRequestsTotal.WithLabelValues(symbol, "malformed").Inc()
		return rates.Quote{}, fmt.Errorf("no price field for %s: %w", symbol, domain.ErrMalformedResponse)
	}

	price, err := decimal.NewFromString(ticker.Price)
	if err != nil || !price.IsPositive() {
		c.metrics.UpstreamRequestsTotal.WithLabelValues(symbol, "malformed").Inc()
		return rates.Quote{}, fmt.Errorf("invalid price %q for %s: %w",
			ticker.Price, symbol, domain.ErrMalformedResponse)
	}

	c.metrics.UpstreamRequestsTotal.WithLabelValues(symbol, "success").Inc()
	return rates.Quote{Symbol: symbol, Fiat: fiat, Price: price}, nil
}

// Ensure Client implements rates.Fetcher.
var _ rates.Fetcher = (*Client)(nil)
