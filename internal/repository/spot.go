package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/kjannette/bullion-premium/internal/models"
)

const (
	SpotTimeseriesFile = "spot.timeseries.json"
	SpotAugmentFile    = "spot.csv.augmented.json"
)

// SpotStore is a JSON array of SpotPoint persisted through a Backend.
// Read-modify-write cycles are serialized within the process.
type SpotStore struct {
	backend Backend
	name    string

	mu sync.Mutex
}

func NewSpotStore(b Backend, name string) *SpotStore {
	return &SpotStore{backend: b, name: name}
}

func (s *SpotStore) Name() string { return s.name }

// Load returns the stored points sorted by time. A missing document is an
// empty store; an unreadable or corrupt one is also empty and the cause is
// returned alongside so callers can log it.
func (s *SpotStore) Load() ([]models.SpotPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *SpotStore) load() ([]models.SpotPoint, error) {
	b, err := s.backend.Read(s.name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}
	var pts []models.SpotPoint
	if err := json.Unmarshal(b, &pts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.name, err)
	}
	for i := range pts {
		pts[i] = models.NewSpotPoint(pts[i].Timestamp, pts[i].Currency, pts[i].PricePerOz, pts[i].Source)
	}
	SortByTime(pts)
	return pts, nil
}

// Save replaces the stored points.
func (s *SpotStore) Save(pts []models.SpotPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(pts)
}

func (s *SpotStore) save(pts []models.SpotPoint) error {
	if pts == nil {
		pts = []models.SpotPoint{}
	}
	b, err := json.MarshalIndent(pts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.name, err)
	}
	if err := s.backend.Write(s.name, b); err != nil {
		return fmt.Errorf("write %s: %w", s.name, err)
	}
	return nil
}

// Upsert merges pts into the store keyed by (currency, ts_utc), later
// values winning, keeps the newest maxPoints (0 = unbounded), persists and
// returns the merged series. A corrupt document is replaced.
func (s *SpotStore) Upsert(pts []models.SpotPoint, maxPoints int) ([]models.SpotPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, _ := s.load()
	merged := Merge(existing, pts)
	if maxPoints > 0 && len(merged) > maxPoints {
		merged = merged[len(merged)-maxPoints:]
	}
	if err := s.save(merged); err != nil {
		return merged, err
	}
	return merged, nil
}

// Update applies fn to the stored points under the store lock and persists
// the result. A corrupt document is passed to fn as empty.
func (s *SpotStore) Update(fn func([]models.SpotPoint) []models.SpotPoint) ([]models.SpotPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, _ := s.load()
	out := fn(existing)
	SortByTime(out)
	return out, s.save(out)
}

// Merge unions series keyed by (currency, ts_utc); for duplicate keys the
// value appearing later in the argument order wins. Output is time-sorted.
func Merge(series ...[]models.SpotPoint) []models.SpotPoint {
	idx := make(map[models.SpotKey]int)
	var out []models.SpotPoint
	for _, pts := range series {
		for _, p := range pts {
			k := p.Key()
			if i, ok := idx[k]; ok {
				out[i] = p
				continue
			}
			idx[k] = len(out)
			out = append(out, p)
		}
	}
	SortByTime(out)
	return out
}

// SortByTime stable-sorts points ascending by timestamp.
func SortByTime(pts []models.SpotPoint) {
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Timestamp.Before(pts[j].Timestamp)
	})
}

// FilterCurrency returns the points quoted in currency, preserving order.
func FilterCurrency(pts []models.SpotPoint, currency string) []models.SpotPoint {
	var out []models.SpotPoint
	for _, p := range pts {
		if p.Currency == currency {
			out = append(out, p)
		}
	}
	return out
}
