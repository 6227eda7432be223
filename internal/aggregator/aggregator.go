// Package aggregator picks a representative market price for a coin from
// an ordered list of vendor sources.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/premium"
)

//go:generate mockgen -package=aggregator_test -destination=mock_source_test.go -source=aggregator.go Source

// ErrNoPrice means no source produced a usable observation.
var ErrNoPrice = errors.New("no prices available")

// Source yields current vendor observations for a coin in a currency.
type Source interface {
	Name() string
	Fetch(ctx context.Context, coin models.CoinSpec, currency string) ([]models.Observation, error)
}

// Quote is the representative price for one coin.
type Quote struct {
	Price        float64
	Vendor       string
	Timestamp    time.Time
	Source       string
	Observations []models.Observation
}

type Aggregator struct {
	sources []Source
	now     func() time.Time
	log     *logrus.Entry
}

// New tries sources in order and stops at the first that yields a usable
// observation.
func New(log logrus.FieldLogger, sources ...Source) *Aggregator {
	return &Aggregator{
		sources: sources,
		now:     time.Now,
		log:     logging.Component(log, "aggregator"),
	}
}

// WithClock overrides the time stamped on multi-observation quotes.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

func (a *Aggregator) Sources() []Source { return a.sources }

// Collect returns the median of the first source with usable observations.
// Source errors are logged and the next source is tried.
func (a *Aggregator) Collect(ctx context.Context, coin models.CoinSpec, currency string) (Quote, error) {
	for _, src := range a.sources {
		obs, err := src.Fetch(ctx, coin, currency)
		if err != nil {
			a.log.WithError(err).WithFields(logrus.Fields{
				"source": src.Name(),
				"coin":   coin.ID,
			}).Warn("vendor source unavailable")
			continue
		}
		usable := Usable(obs, coin.ID, currency)
		if len(usable) == 0 {
			continue
		}
		return a.quote(src.Name(), usable), nil
	}
	return Quote{}, fmt.Errorf("%s in %s: %w", coin.ID, currency, ErrNoPrice)
}

func (a *Aggregator) quote(source string, obs []models.Observation) Quote {
	prices := make([]float64, len(obs))
	for i, o := range obs {
		prices[i] = o.Price
	}
	med, _ := premium.Median(prices)

	q := Quote{Price: med, Source: source, Observations: obs}
	if len(obs) == 1 {
		q.Vendor = obs[0].Vendor
		if q.Vendor == "" {
			q.Vendor = "unknown"
		}
		q.Timestamp = obs[0].Timestamp
	} else {
		q.Vendor = fmt.Sprintf("%s median of %d", source, len(obs))
		q.Timestamp = a.now().UTC()
	}
	return q
}

// Usable keeps observations for coinID in currency with a positive finite price.
func Usable(obs []models.Observation, coinID, currency string) []models.Observation {
	var out []models.Observation
	for _, o := range obs {
		if o.CoinID != coinID || o.Currency != currency {
			continue
		}
		if o.Price <= 0 || math.IsInf(o.Price, 0) || math.IsNaN(o.Price) {
			continue
		}
		out = append(out, o)
	}
	return out
}
