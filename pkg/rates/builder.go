package rates

import (
	"fmt"
	"sort"

	"github.com/amirasaad/fxbridge/pkg/currency"
	"github.com/amirasaad/fxbridge/pkg/domain"
	"github.com/shopspring/decimal"
)

// Build derives all fiat cross-rates from the fetched bridge quotes, using
// the reference fiat as the pivot, and merges them with the raw prices into
// one flat table.
//
// For every non-reference fiat F:
//
//	rate(F→REF) = P[REF] / P[F]
//	rate(REF→F) = P[F] / P[REF]
//
// and every unordered pair of non-reference fiats is composed through the
// reference, with its reciprocal stored explicitly. This enumerates all
// pairs for any fixed currency set sharing one bridge pivot.
func Build(quotes []Quote) (Table, error) {
	prices := make(map[currency.Code]decimal.Decimal, len(quotes))
	table := make(Table, 4*len(quotes))

	for _, q := range quotes {
		if !q.Price.IsPositive() {
			return nil, fmt.Errorf("bridge price for %s is not positive: %w",
				q.Symbol, domain.ErrMalformedResponse)
		}
		prices[q.Fiat] = q.Price
		table[q.Symbol] = q.Price
	}

	refPrice, ok := prices[currency.Reference]
	if !ok {
		return nil, fmt.Errorf("no %s bridge quote in fetched set: %w",
			currency.Reference, domain.ErrMissingReferencePrice)
	}

	others := make([]currency.Code, 0, len(prices)-1)
	for fiat := range prices {
		if fiat != currency.Reference {
			others = append(others, fiat)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })

	for _, fiat := range others {
		price := prices[fiat]
		table[PairKey(fiat, currency.Reference)] = refPrice.Div(price)
		table[PairKey(currency.Reference, fiat)] = price.Div(refPrice)
	}

	one := decimal.NewFromInt(1)
	for i, from := range others {
		for _, to := range others[i+1:] {
			cross := table[PairKey(from, currency.Reference)].
				Mul(table[PairKey(currency.Reference, to)])
			table[PairKey(from, to)] = cross
			table[PairKey(to, from)] = one.Div(cross)
		}
	}

	return table, nil
}
