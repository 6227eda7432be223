package spot

import (
	"time"

	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/repository"
)

// NearestSpot returns the last point in currency at or before ts. If every
// point is later than ts it returns the earliest one; it never looks forward
// once an earlier candidate exists. Nil when currency has no points.
func NearestSpot(points []models.SpotPoint, ts time.Time, currency string) *models.SpotPoint {
	rows := repository.FilterCurrency(points, currency)
	if len(rows) == 0 {
		return nil
	}
	repository.SortByTime(rows)

	var best *models.SpotPoint
	for i := range rows {
		if rows[i].Timestamp.After(ts) {
			break
		}
		best = &rows[i]
	}
	if best == nil {
		best = &rows[0]
	}
	p := *best
	return &p
}

// Latest returns the newest point in currency, or nil.
func Latest(points []models.SpotPoint, currency string) *models.SpotPoint {
	var best *models.SpotPoint
	for i := range points {
		p := &points[i]
		if p.Currency != currency {
			continue
		}
		if best == nil || !p.Timestamp.Before(best.Timestamp) {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}
