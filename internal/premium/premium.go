// Package premium computes melt value and premium over melt for a coin.
package premium

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kjannette/bullion-premium/internal/models"
)

// Compute returns the melt value of coin at spot and the premium of observed
// over it. spot and observed must be in the same currency; that is not
// checked here. PremiumPct is nil when the melt value is zero or not finite.
func Compute(spot models.SpotPoint, coin models.CoinSpec, observed float64) models.PremiumResult {
	melt := Melt(spot.PricePerOz, coin.FineWeightG)
	res := models.PremiumResult{MeltValue: melt}
	if melt != 0 && !math.IsInf(melt, 0) && !math.IsNaN(melt) {
		pct := observed/melt - 1
		res.PremiumPct = &pct
	}
	return res
}

// Melt is the metal value of fineWeightG grams at pricePerOz per troy ounce.
func Melt(pricePerOz, fineWeightG float64) float64 {
	return pricePerOz / models.TroyOunceGrams * fineWeightG
}

// Median of prices; even counts average the two central values. ok is false
// for an empty input.
func Median(prices []float64) (m float64, ok bool) {
	if len(prices) == 0 {
		return 0, false
	}
	a := append([]float64(nil), prices...)
	sort.Float64s(a)
	mid := len(a) / 2
	if len(a)%2 == 1 {
		return a[mid], true
	}
	return (a[mid-1] + a[mid]) / 2, true
}

// Round2 rounds half away from zero to 2 decimals, for money.
func Round2(v float64) float64 { return round(v, 2) }

// Round4 rounds to 4 decimals, for ratios.
func Round4(v float64) float64 { return round(v, 4) }

func round(v float64, places int32) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
