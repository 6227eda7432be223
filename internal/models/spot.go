package models

import "time"

// TroyOunceGrams is the mass of one troy ounce in grams.
const TroyOunceGrams = 31.1034768

// SpotPoint is one spot price observation, keyed by (Currency, Timestamp).
type SpotPoint struct {
	Timestamp  time.Time `json:"ts_utc"`
	Currency   string    `json:"currency"`
	PricePerOz float64   `json:"price_per_oz"`
	PricePerG  float64   `json:"price_per_g"`
	Source     string    `json:"source,omitempty"`
}

// NewSpotPoint builds a point with the per-gram price derived from the ounce price.
func NewSpotPoint(ts time.Time, currency string, pricePerOz float64, source string) SpotPoint {
	return SpotPoint{
		Timestamp:  ts.UTC(),
		Currency:   currency,
		PricePerOz: pricePerOz,
		PricePerG:  pricePerOz / TroyOunceGrams,
		Source:     source,
	}
}

// Key identifies a point for de-duplication.
func (p SpotPoint) Key() SpotKey {
	return SpotKey{Currency: p.Currency, Timestamp: p.Timestamp.UTC().UnixNano()}
}

// SpotKey is the (currency, instant) identity of a SpotPoint.
type SpotKey struct {
	Currency  string
	Timestamp int64
}
