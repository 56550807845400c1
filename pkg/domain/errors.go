package domain

import "errors"

// Domain errors for rate fetching, derivation and conversion.
var (
	// ErrUpstreamUnavailable is returned when the upstream price source
	// responds with a non-success status for a symbol.
	ErrUpstreamUnavailable = errors.New("upstream price source unavailable")
	// ErrMalformedResponse is returned when an upstream response is missing
	// the expected price field or carries an unparseable price.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrMissingReferencePrice is returned when the reference fiat's bridge
	// price is absent from a fetched price set.
	ErrMissingReferencePrice = errors.New("reference fiat price missing")
	// ErrUnsupportedPair is returned when a requested currency pair has
	// neither a direct nor a reciprocal entry in the rate table.
	ErrUnsupportedPair = errors.New("unsupported currency pair")
	// ErrNonPositiveQuantity is returned when a conversion is requested for
	// a zero or negative amount.
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
)
