// Package spot resolves gold spot prices from the bundled sample, a local
// OHLC CSV, or the paid live APIs, and backfills missing historical days.
package spot

import (
	"context"
	"errors"
	"time"

	"github.com/kjannette/bullion-premium/internal/models"
)

// Mode is the spot source chosen once at startup.
type Mode string

const (
	ModeSample Mode = "sample"
	ModeCSV    Mode = "csv"
	ModeAPI    Mode = "api"
)

func (m Mode) String() string { return string(m) }

var (
	ErrQuotaExhausted = errors.New("monthly spot API quota exhausted")
	ErrNoProvider     = errors.New("no spot API provider configured")
)

// LatestFetcher returns the current spot price for a currency.
type LatestFetcher interface {
	FetchLatest(ctx context.Context, currency string) (models.SpotPoint, error)
}

// HistoricalFetcher returns the spot price for one UTC calendar day.
type HistoricalFetcher interface {
	FetchDay(ctx context.Context, currency string, day time.Time) (models.SpotPoint, error)
}

//go:generate mockgen -package=spot_test -destination=mock_spot_test.go -source=mode.go

// Gate grants permission for one paid API call and consumes it.
type Gate interface {
	MayCall() bool
}
