package models

// PremiumResult is derived per observation and never stored.
// PremiumPct is nil when the melt value is zero or not finite.
type PremiumResult struct {
	MeltValue  float64  `json:"melt_value"`
	PremiumPct *float64 `json:"premium_pct"`
}
