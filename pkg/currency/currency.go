// Package currency defines the closed set of fiat currencies the service
// converts between. Extending the set means adding a code here and a bridge
// symbol in the provider; the cross-rate derivation is generic over this set.
package currency

import (
	"errors"
	"strings"
)

// Code represents an ISO 4217 fiat currency code.
type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
)

// Reference is the pivot fiat used when composing a cross-rate between two
// non-reference currencies.
const Reference = USD

// ErrUnknownCurrency is returned by Parse for codes outside the supported set.
var ErrUnknownCurrency = errors.New("unknown currency code")

// Supported returns the fixed set of supported fiat currencies.
func Supported() []Code {
	return []Code{USD, EUR, GBP}
}

// Parse normalizes a currency code string and validates it against the
// supported set.
func Parse(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsSupported() {
		return "", ErrUnknownCurrency
	}
	return c, nil
}

// IsSupported reports whether the code is a member of the supported set.
func (c Code) IsSupported() bool {
	switch c {
	case USD, EUR, GBP:
		return true
	}
	return false
}

func (c Code) String() string {
	return string(c)
}
