package models

import "time"

// Observation is one vendor's asking price for one coin at one instant.
type Observation struct {
	Timestamp time.Time `json:"ts_utc"`
	CoinID    string    `json:"coin_id"`
	Vendor    string    `json:"vendor"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	SrcURL    string    `json:"src_url,omitempty"`
	Condition string    `json:"condition,omitempty"`
	Title     string    `json:"title,omitempty"`
}
