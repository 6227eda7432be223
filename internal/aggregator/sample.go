package aggregator

import (
	"context"

	"github.com/kjannette/bullion-premium/internal/models"
)

// SampleSource serves the most recent bundled observation for a coin.
type SampleSource struct {
	obs []models.Observation
}

func NewSampleSource(obs []models.Observation) *SampleSource {
	return &SampleSource{obs: obs}
}

func (s *SampleSource) Name() string { return "sample" }

func (s *SampleSource) Fetch(_ context.Context, coin models.CoinSpec, currency string) ([]models.Observation, error) {
	var last *models.Observation
	for i := range s.obs {
		o := &s.obs[i]
		if o.CoinID != coin.ID || o.Currency != currency {
			continue
		}
		if last == nil || !o.Timestamp.Before(last.Timestamp) {
			last = o
		}
	}
	if last == nil {
		return nil, nil
	}
	return []models.Observation{*last}, nil
}
