// Package rates derives fiat-to-fiat exchange rates from bridge-asset quotes
// and caches the resulting table with a time-to-live.
package rates

import (
	"strings"

	"github.com/amirasaad/fxbridge/pkg/currency"
	"github.com/shopspring/decimal"
)

// bridgePrefix marks raw bridge-asset keys in the flat table (e.g. "BTCEUR").
const bridgePrefix = "BTC"

// Quote is a single bridge-asset price against one fiat currency, as fetched
// from the upstream source. Price is "units of Fiat per 1 bridge-asset unit".
type Quote struct {
	Symbol string
	Fiat   currency.Code
	Price  decimal.Decimal
}

// Table is a flat rate table holding both raw bridge-asset prices (keyed by
// upstream symbol) and derived fiat cross-rates (keyed by FROM+TO). A value
// under FROM+TO means "1 unit of FROM equals that many units of TO".
type Table map[string]decimal.Decimal

// PairKey builds the table key for a fiat currency pair.
func PairKey(from, to currency.Code) string {
	return from.String() + to.String()
}

// Lookup resolves the conversion rate for a pair: a direct entry is used
// as-is, otherwise the reciprocal entry is inverted. The boolean is false
// when neither direction is present.
func (t Table) Lookup(from, to currency.Code) (decimal.Decimal, bool) {
	if rate, ok := t[PairKey(from, to)]; ok {
		return rate, true
	}
	if inverse, ok := t[PairKey(to, from)]; ok {
		return decimal.NewFromInt(1).Div(inverse), true
	}
	return decimal.Decimal{}, false
}

// Split separates the table into its raw bridge-price layer and its derived
// cross-rate layer, for diagnostic output.
func (t Table) Split() (raw, derived map[string]decimal.Decimal) {
	raw = make(map[string]decimal.Decimal)
	derived = make(map[string]decimal.Decimal)
	for key, value := range t {
		if strings.HasPrefix(key, bridgePrefix) {
			raw[key] = value
		} else {
			derived[key] = value
		}
	}
	return raw, derived
}
