// Package valueobjects содержит неизменяемые значения без идентичности.
package valueobjects

import (
	"errors"
	"strings"
)

// Currency - код валюты ISO 4217 и число знаков дробной части.
type Currency struct {
	code     string
	decimals int
}

// Валюты, в которых выставляется membership.
var (
	INR = Currency{code: "INR", decimals: 2}
	USD = Currency{code: "USD", decimals: 2}
	EUR = Currency{code: "EUR", decimals: 2}
)

var supportedCurrencies = map[string]Currency{
	INR.code: INR,
	USD.code: USD,
	EUR.code: EUR,
}

// ErrInvalidCurrency is returned for an unsupported currency code.
var ErrInvalidCurrency = errors.New("invalid currency code")

// NewCurrency parses a code, case-insensitively.
func NewCurrency(code string) (Currency, error) {
	c, ok := supportedCurrencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, ErrInvalidCurrency
	}
	return c, nil
}

// Code returns the upper-case ISO code.
func (c Currency) Code() string { return c.code }

// Lower returns the code in the lower case used by payment providers.
func (c Currency) Lower() string { return strings.ToLower(c.code) }

// String implements fmt.Stringer.
func (c Currency) String() string { return c.code }

// IsZero reports whether c is the zero Currency.
func (c Currency) IsZero() bool { return c.code == "" }
