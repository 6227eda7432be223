package repository

import (
	"encoding/json"
	"fmt"

	"github.com/kjannette/bullion-premium/internal/models"
)

const QuotaFile = "spot.api.quota.json"

// QuotaStore persists the monthly API call counter.
type QuotaStore struct {
	backend Backend
	name    string
}

func NewQuotaStore(b Backend) *QuotaStore {
	return &QuotaStore{backend: b, name: QuotaFile}
}

// Load returns the stored state. Absent or unreadable documents yield the
// zero state; the error is informational.
func (q *QuotaStore) Load() (models.QuotaState, error) {
	b, err := q.backend.Read(q.name)
	if err != nil {
		return models.QuotaState{}, err
	}
	var st models.QuotaState
	if err := json.Unmarshal(b, &st); err != nil {
		return models.QuotaState{}, fmt.Errorf("decode quota: %w", err)
	}
	if st.Calls < 0 {
		st.Calls = 0
	}
	return st, nil
}

func (q *QuotaStore) Save(st models.QuotaState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode quota: %w", err)
	}
	return q.backend.Write(q.name, b)
}
