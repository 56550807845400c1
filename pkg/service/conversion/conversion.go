// Package conversion resolves currency conversion requests against the
// cached rate table.
package conversion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/fxbridge/pkg/currency"
	"github.com/amirasaad/fxbridge/pkg/domain"
	"github.com/amirasaad/fxbridge/pkg/metrics"
	"github.com/amirasaad/fxbridge/pkg/rates"
	"github.com/shopspring/decimal"
)

// TableSource serves the current rate table, refreshing it when stale.
type TableSource interface {
	Get(ctx context.Context) (rates.Table, error)
}

// Result is a converted amount in the target currency, rounded to two
// decimal places.
type Result struct {
	Quantity decimal.Decimal
	Currency currency.Code
}

// TableSnapshot is the current rate table split into its raw bridge-price
// layer and its derived cross-rate layer, for diagnostics.
type TableSnapshot struct {
	BridgePrices map[string]decimal.Decimal
	CrossRates   map[string]decimal.Decimal
}

// Service converts amounts between supported fiat currencies.
type Service struct {
	source  TableSource
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a conversion service backed by the given table source.
func New(source TableSource, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		source:  source,
		metrics: m,
		logger:  logger,
	}
}

// Convert resolves a (from, to, quantity) request. Resolution order: identity
// pair, direct table entry, inverted reciprocal entry. Rounding (half-up at
// two decimal places) is applied once, to the final product, never to the
// rate itself. Reading the table refreshes the cache when it is stale, which
// is the only state-mutating effect of a conversion.
func (s *Service) Convert(ctx context.Context, from, to currency.Code, quantity decimal.Decimal) (*Result, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity %s: %w", quantity, domain.ErrNonPositiveQuantity)
	}

	table, err := s.source.Get(ctx)
	if err != nil {
		return nil, err
	}

	var rate decimal.Decimal
	switch {
	case from == to:
		rate = decimal.NewFromInt(1)
	default:
		var ok bool
		rate, ok = table.Lookup(from, to)
		if !ok {
			return nil, fmt.Errorf("%s: %w", rates.PairKey(from, to), domain.ErrUnsupportedPair)
		}
	}

	// Round is half away from zero, which is half-up for the positive
	// amounts this service deals in.
	converted := quantity.Mul(rate).Round(2)

	s.metrics.ConversionsTotal.WithLabelValues(from.String(), to.String()).Inc()
	s.logger.Debug("converted amount",
		"from", from,
		"to", to,
		"quantity", quantity,
		"result", converted,
	)

	return &Result{Quantity: converted, Currency: to}, nil
}

// RateTable returns the current flat rate table split into raw bridge prices
// and derived cross-rates. It runs the same cache-refresh path as Convert.
func (s *Service) RateTable(ctx context.Context) (*TableSnapshot, error) {
	table, err := s.source.Get(ctx)
	if err != nil {
		return nil, err
	}
	raw, derived := table.Split()
	return &TableSnapshot{BridgePrices: raw, CrossRates: derived}, nil
}
