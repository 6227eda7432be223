package models

// CoinSpec is immutable reference data for one bullion coin.
type CoinSpec struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	FineWeightG float64 `json:"fine_weight_g"`
	Metal       string  `json:"metal,omitempty"`

	// Vendor linkage
	AOEAID string `json:"aoea_id,omitempty"`
}
