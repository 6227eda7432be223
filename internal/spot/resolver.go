package spot

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/metrics"
	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/repository"
)

// Options configures a Resolver. Sample is required; the other sources are
// used according to Mode.
type Options struct {
	Mode       Mode
	Sample     []models.SpotPoint
	CSV        []models.SpotPoint
	Timeseries *repository.SpotStore
	Augment    *repository.SpotStore
	Gate       Gate
	Latest     LatestFetcher
	Historical HistoricalFetcher
	MaxPoints  int
	Logger     logrus.FieldLogger
}

type Resolver struct {
	mode       Mode
	sample     []models.SpotPoint
	csv        []models.SpotPoint
	timeseries *repository.SpotStore
	augment    *repository.SpotStore
	gate       Gate
	latest     LatestFetcher
	historical HistoricalFetcher
	maxPoints  int
	log        *logrus.Entry
}

func NewResolver(o Options) *Resolver {
	sample := append([]models.SpotPoint(nil), o.Sample...)
	repository.SortByTime(sample)
	csv := append([]models.SpotPoint(nil), o.CSV...)
	repository.SortByTime(csv)
	return &Resolver{
		mode:       o.Mode,
		sample:     sample,
		csv:        csv,
		timeseries: o.Timeseries,
		augment:    o.Augment,
		gate:       o.Gate,
		latest:     o.Latest,
		historical: o.Historical,
		maxPoints:  o.MaxPoints,
		log:        logging.Component(o.Logger, "spot"),
	}
}

func (r *Resolver) Mode() Mode { return r.mode }

// HasLiveProvider reports whether a live fetcher is wired.
func (r *Resolver) HasLiveProvider() bool { return r.latest != nil }

// ResolveLatest returns the most recent spot point for currency, or nil when
// no source has one. In API mode the cached tail is served unless empty.
func (r *Resolver) ResolveLatest(ctx context.Context, currency string) *models.SpotPoint {
	return r.resolveLatest(ctx, currency, false)
}

// Refresh is ResolveLatest forcing a live fetch in API mode, within quota.
func (r *Resolver) Refresh(ctx context.Context, currency string) *models.SpotPoint {
	return r.resolveLatest(ctx, currency, true)
}

func (r *Resolver) resolveLatest(ctx context.Context, currency string, refresh bool) *models.SpotPoint {
	switch r.mode {
	case ModeCSV:
		p := Latest(r.csvUnion(), currency)
		r.record("csv", p)
		return p
	case ModeAPI:
		return r.apiLatest(ctx, currency, refresh)
	default:
		p := Latest(r.sample, currency)
		r.record("sample", p)
		return p
	}
}

func (r *Resolver) apiLatest(ctx context.Context, currency string, refresh bool) *models.SpotPoint {
	tail := Latest(r.cached(), currency)
	if tail != nil && !refresh {
		metrics.RecordSpot(string(r.mode), "cache")
		return tail
	}

	p, err := r.fetchLatest(ctx, currency)
	if err == nil {
		if r.timeseries != nil {
			if _, err := r.timeseries.Upsert([]models.SpotPoint{p}, r.maxPoints); err != nil {
				r.log.WithError(err).Warn("persist spot timeseries")
			}
		}
		metrics.RecordSpot(string(r.mode), "live")
		return &p
	}
	r.log.WithError(err).WithField("currency", currency).Warn("spot refresh failed")

	if tail != nil {
		metrics.RecordSpot(string(r.mode), "cache")
		return tail
	}
	p2 := Latest(r.sample, currency)
	r.record("sample", p2)
	return p2
}

func (r *Resolver) fetchLatest(ctx context.Context, currency string) (models.SpotPoint, error) {
	if r.latest == nil {
		return models.SpotPoint{}, ErrNoProvider
	}
	if r.gate == nil || !r.gate.MayCall() {
		return models.SpotPoint{}, ErrQuotaExhausted
	}
	p, err := r.latest.FetchLatest(ctx, currency)
	if err != nil {
		return models.SpotPoint{}, fmt.Errorf("fetch latest spot: %w", err)
	}
	if !validPrice(p.PricePerOz) {
		return models.SpotPoint{}, fmt.Errorf("fetch latest spot: invalid price %v", p.PricePerOz)
	}
	return models.NewSpotPoint(p.Timestamp, currency, p.PricePerOz, p.Source), nil
}

// ResolveForDay returns the point stamped at 00:00:00Z of ts's UTC day. A
// missing day is fetched from the historical provider within quota and
// recorded in the augmentation cache; otherwise the nearest point is used.
func (r *Resolver) ResolveForDay(ctx context.Context, ts time.Time, currency string) *models.SpotPoint {
	day := repository.DayStart(ts)
	all := repository.FilterCurrency(r.AllPoints(), currency)
	for i := range all {
		if all[i].Timestamp.Equal(day) {
			p := all[i]
			return &p
		}
	}

	if r.historical != nil {
		p, err := r.fetchDay(ctx, currency, day)
		if err == nil {
			if r.augment != nil {
				if _, err := r.augment.Upsert([]models.SpotPoint{p}, 0); err != nil {
					r.log.WithError(err).Warn("persist spot augmentation")
				}
			}
			metrics.RecordSpot(string(r.mode), "historical")
			return &p
		}
		r.log.WithError(err).WithFields(logrus.Fields{
			"currency": currency,
			"day":      repository.UTCDay(day),
		}).Warn("historical spot backfill failed")
	}

	p := NearestSpot(all, ts, currency)
	r.record("nearest", p)
	return p
}

func (r *Resolver) fetchDay(ctx context.Context, currency string, day time.Time) (models.SpotPoint, error) {
	if r.gate == nil || !r.gate.MayCall() {
		return models.SpotPoint{}, ErrQuotaExhausted
	}
	p, err := r.historical.FetchDay(ctx, currency, day)
	if err != nil {
		return models.SpotPoint{}, fmt.Errorf("fetch spot for %s: %w", repository.UTCDay(day), err)
	}
	if !validPrice(p.PricePerOz) {
		return models.SpotPoint{}, fmt.Errorf("fetch spot for %s: invalid price %v", repository.UTCDay(day), p.PricePerOz)
	}
	return models.NewSpotPoint(day, currency, p.PricePerOz, p.Source), nil
}

// ForObservation picks the spot point used to price a vendor observation at
// ts: the nearest point in all, replaced in CSV mode by the exact (possibly
// backfilled) day, then the latest point as a last resort.
func (r *Resolver) ForObservation(ctx context.Context, all []models.SpotPoint, ts time.Time, currency string) *models.SpotPoint {
	p := NearestSpot(all, ts, currency)
	if r.mode == ModeCSV {
		if d := r.ResolveForDay(ctx, ts, currency); d != nil {
			p = d
		}
	}
	if p == nil {
		p = r.ResolveLatest(ctx, currency)
	}
	return p
}

// Series returns the time-sorted points in currency for the active mode.
// In API mode a refresh, or an empty cache, first attempts a live fetch.
func (r *Resolver) Series(ctx context.Context, currency string, refresh bool) []models.SpotPoint {
	if r.mode == ModeAPI && (refresh || len(r.cached()) == 0) {
		r.Refresh(ctx, currency)
	}
	return repository.FilterCurrency(r.AllPoints(), currency)
}

// AllPoints returns every point of the active mode's dataset, time-sorted.
// In API mode an empty cache falls back to the bundled sample.
func (r *Resolver) AllPoints() []models.SpotPoint {
	switch r.mode {
	case ModeCSV:
		return r.csvUnion()
	case ModeAPI:
		if pts := r.cached(); len(pts) > 0 {
			return pts
		}
		return append([]models.SpotPoint(nil), r.sample...)
	default:
		return append([]models.SpotPoint(nil), r.sample...)
	}
}

// csvUnion merges the CSV rows with backfilled days; backfilled values win.
func (r *Resolver) csvUnion() []models.SpotPoint {
	var extra []models.SpotPoint
	if r.augment != nil {
		var err error
		if extra, err = r.augment.Load(); err != nil {
			r.log.WithError(err).Warn("spot augmentation unreadable, ignoring")
		}
	}
	return repository.Merge(r.csv, extra)
}

func (r *Resolver) cached() []models.SpotPoint {
	if r.timeseries == nil {
		return nil
	}
	pts, err := r.timeseries.Load()
	if err != nil {
		r.log.WithError(err).Warn("spot timeseries unreadable, treating as empty")
	}
	return pts
}

func (r *Resolver) record(path string, p *models.SpotPoint) {
	if p != nil {
		metrics.RecordSpot(string(r.mode), path)
	}
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
