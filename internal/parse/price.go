package parse

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var ErrBadPrice = errors.New("unparseable price")

// Number parses a plain decimal string into a finite float.
func Number(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	return d.InexactFloat64(), nil
}

// EuroPrice parses storefront strings such as "485.00 €", "4 259,00 €" or
// "1 234,5". Whitespace (including non-breaking spaces) is ignored and a
// decimal comma is accepted. The currency is always EUR.
func EuroPrice(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSuffix(stripSpace(s), "€")
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	if cleaned == "" || strings.IndexFunc(cleaned, func(r rune) bool {
		return r != '.' && !unicode.IsDigit(r)
	}) >= 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	return d, nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
