// Package backfill fills the spot timeseries cache with one historical
// price per UTC day.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/repository"
	"github.com/kjannette/bullion-premium/internal/spot"
)

type Options struct {
	Currency string
	From     time.Time
	To       time.Time
	// Delay between upstream requests; zero means unpaced.
	Delay   time.Duration
	Fetcher spot.HistoricalFetcher
	Store   *repository.SpotStore
	Logger  logrus.FieldLogger
}

// DayError records a day that could not be fetched.
type DayError struct {
	Day string
	Err error
}

type Result struct {
	Days     int
	Cached   int
	Fetched  int
	Failures []DayError
	Total    int
}

// Run fetches every day in [From, To] not already cached for Currency, one
// request at a time. A failing day is recorded and skipped. Fetched days
// replace any cached point of the same (currency, day).
func Run(ctx context.Context, o Options) (Result, error) {
	if o.Fetcher == nil || o.Store == nil {
		return Result{}, errors.New("backfill: fetcher and store required")
	}
	log := logging.Component(o.Logger, "backfill")

	days := ListDays(o.From, o.To)
	res := Result{Days: len(days)}

	existing, err := o.Store.Load()
	if err != nil {
		log.WithError(err).Warn("existing cache unreadable, starting empty")
	}
	have := make(map[string]bool)
	for _, p := range existing {
		if p.Currency == o.Currency {
			have[repository.UTCDay(p.Timestamp)] = true
		}
	}

	var todo []time.Time
	for _, d := range days {
		if have[repository.UTCDay(d)] {
			res.Cached++
			continue
		}
		todo = append(todo, d)
	}
	if len(todo) == 0 {
		log.Info("no missing days, nothing to do")
		res.Total = len(existing)
		return res, nil
	}
	log.WithFields(logrus.Fields{
		"currency": o.Currency,
		"missing":  len(todo),
		"cached":   res.Cached,
	}).Info("fetching missing days")

	limit := rate.Inf
	if o.Delay > 0 {
		limit = rate.Every(o.Delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	var fetched []models.SpotPoint
	for i, d := range todo {
		if err := limiter.Wait(ctx); err != nil {
			log.WithError(err).Warn("interrupted, writing what was fetched")
			break
		}
		p, err := o.Fetcher.FetchDay(ctx, o.Currency, d)
		if err != nil {
			res.Failures = append(res.Failures, DayError{Day: repository.UTCDay(d), Err: err})
			log.WithError(err).WithField("day", repository.UTCDay(d)).Warn("day failed")
			continue
		}
		fetched = append(fetched, models.NewSpotPoint(d, o.Currency, p.PricePerOz, p.Source))
		if (i+1)%50 == 0 {
			log.Infof("%d/%d", i+1, len(todo))
		}
	}
	res.Fetched = len(fetched)

	out, err := o.Store.Update(func(cur []models.SpotPoint) []models.SpotPoint {
		return MergeByDay(cur, fetched)
	})
	if err != nil {
		return res, fmt.Errorf("write %s: %w", o.Store.Name(), err)
	}
	res.Total = len(out)
	return res, nil
}

// ListDays returns 00:00:00Z of every UTC day from from to to, inclusive.
func ListDays(from, to time.Time) []time.Time {
	var out []time.Time
	end := repository.DayStart(to)
	for d := repository.DayStart(from); !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// MergeByDay keeps one point per (currency, UTC day); later series win.
func MergeByDay(series ...[]models.SpotPoint) []models.SpotPoint {
	type key struct{ currency, day string }
	idx := make(map[key]int)
	var out []models.SpotPoint
	for _, pts := range series {
		for _, p := range pts {
			k := key{p.Currency, repository.UTCDay(p.Timestamp)}
			if i, ok := idx[k]; ok {
				out[i] = p
				continue
			}
			idx[k] = len(out)
			out = append(out, p)
		}
	}
	repository.SortByTime(out)
	return out
}
