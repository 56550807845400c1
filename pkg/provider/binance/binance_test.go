package binance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/fxbridge/pkg/config"
	"github.com/amirasaad/fxbridge/pkg/currency"
	"github.com/amirasaad/fxbridge/pkg/domain"
	"github.com/amirasaad/fxbridge/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"log/slog"
)

func newTestClient(t *testing.T, upstream http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	cfg := config.ExchangeRateConfig{
		ApiUrl:      server.URL,
		HTTPTimeout: 5 * time.Second,
	}
	return New(cfg, metrics.New(prometheus.NewRegistry()), slog.Default())
}

func tickerHandler(prices map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		price, ok := prices[symbol]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
			"symbol": symbol,
			"price":  price,
		})
	}
}

func TestFetchQuotes_AllSymbols(t *testing.T) {
	client := newTestClient(t, tickerHandler(map[string]string{
		"BTCUSDT": "100000.00",
		"BTCEUR":  "90000.00",
		"BTCGBP":  "80000.00",
	}))

	quotes, err := client.FetchQuotes(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	byFiat := make(map[currency.Code]decimal.Decimal, len(quotes))
	for _, q := range quotes {
		byFiat[q.Fiat] = q.Price
	}
	assert.True(t, byFiat[currency.USD].Equal(decimal.NewFromInt(100000)))
	assert.True(t, byFiat[currency.EUR].Equal(decimal.NewFromInt(90000)))
	assert.True(t, byFiat[currency.GBP].Equal(decimal.NewFromInt(80000)))
}

func TestFetchQuotes_NonSuccessStatusFailsWholeFetch(t *testing.T) {
	// BTCEUR is missing upstream, so its request returns 400.
	client := newTestClient(t, tickerHandler(map[string]string{
		"BTCUSDT": "100000.00",
		"BTCGBP":  "80000.00",
	}))

	_, err := client.FetchQuotes(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "BTCEUR", "error must identify the failing symbol")
}

func TestFetchQuotes_MissingPriceField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		json.NewEncoder(w).Encode(map[string]string{"symbol": symbol}) //nolint:errcheck
	})

	_, err := client.FetchQuotes(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestFetchQuotes_UnparseablePrice(t *testing.T) {
	client := newTestClient(t, tickerHandler(map[string]string{
		"BTCUSDT": "not-a-number",
		"BTCEUR":  "90000.00",
		"BTCGBP":  "80000.00",
	}))

	_, err := client.FetchQuotes(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "BTCUSDT")
}

func TestFetchQuotes_NonPositivePrice(t *testing.T) {
	client := newTestClient(t, tickerHandler(map[string]string{
		"BTCUSDT": "100000.00",
		"BTCEUR":  "0",
		"BTCGBP":  "80000.00",
	}))

	_, err := client.FetchQuotes(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "BTCEUR")
}
