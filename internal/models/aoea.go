package models

import "encoding/json"

// StorefrontItem is one product of the achat-or-et-argent best-sellers showcase.
type StorefrontItem struct {
	ItemID        string   `json:"id_item"`
	Name          string   `json:"nom"`
	PriceText     string   `json:"prixV"`
	Price         *float64 `json:"prixV_num"`
	Currency      string   `json:"currency"`
	FromPriceText string   `json:"prixApartir,omitempty"`
	FromPrice     *float64 `json:"prixApartir_num"`
	HasVolumes    bool     `json:"hasVolumes"`
	URL           string   `json:"urlItem,omitempty"`
	Image         string   `json:"image1,omitempty"`
}

// StorefrontSnapshot is the file written by the storefront snapshot tool.
type StorefrontSnapshot struct {
	FetchedAt string            `json:"fetched_at"`
	Date      string            `json:"date"`
	Source    string            `json:"source"`
	Rates     []json.RawMessage `json:"rates"`
	Items     []StorefrontItem  `json:"items"`
}
