package models

// QuotaState is the persisted monthly call counter. An empty Month means
// the counter has never been initialized.
type QuotaState struct {
	Month string `json:"month"`
	Calls int    `json:"calls"`
}
