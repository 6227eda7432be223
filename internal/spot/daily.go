package spot

import (
	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/repository"
)

// AggregateDaily reduces points to one per (currency, UTC day), keeping the
// last observation of each day and stamping it at 00:00:00Z.
func AggregateDaily(points []models.SpotPoint) []models.SpotPoint {
	sorted := make([]models.SpotPoint, len(points))
	copy(sorted, points)
	repository.SortByTime(sorted)

	type key struct {
		currency string
		day      string
	}
	idx := make(map[key]int)
	var out []models.SpotPoint
	for _, p := range sorted {
		k := key{p.Currency, repository.UTCDay(p.Timestamp)}
		d := models.NewSpotPoint(repository.DayStart(p.Timestamp), p.Currency, p.PricePerOz, p.Source)
		if i, ok := idx[k]; ok {
			out[i] = d
			continue
		}
		idx[k] = len(out)
		out = append(out, d)
	}
	repository.SortByTime(out)
	return out
}
