package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/parse"
)

// window is an inclusive [from, to] time filter; zero bounds are open.
type window struct {
	from, to time.Time
}

// parseWindow reads the from and to query parameters. Both accept a
// YYYY-MM-DD day or an ISO-8601 timestamp; a bare day as the upper bound
// covers the whole day.
func parseWindow(r *http.Request) (window, error) {
	var w window
	q := r.URL.Query()
	for _, name := range []string{"from", "to"} {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			continue
		}
		dayOnly := len(v) == len("2006-01-02")
		if dayOnly && !validateDate(v) {
			return w, fmt.Errorf("invalid %s date, expected YYYY-MM-DD", name)
		}
		ts, err := parse.Timestamp(v)
		if err != nil {
			return w, fmt.Errorf("invalid %s timestamp", name)
		}
		if name == "from" {
			w.from = ts
		} else {
			if dayOnly {
				ts = ts.Add(24*time.Hour - time.Nanosecond)
			}
			w.to = ts
		}
	}
	return w, nil
}

func (w window) contains(ts time.Time) bool {
	if !w.from.IsZero() && ts.Before(w.from) {
		return false
	}
	if !w.to.IsZero() && ts.After(w.to) {
		return false
	}
	return true
}

func filterSpot(points []models.SpotPoint, w window) []models.SpotPoint {
	out := make([]models.SpotPoint, 0, len(points))
	for _, p := range points {
		if w.contains(p.Timestamp) {
			out = append(out, p)
		}
	}
	return out
}

// filterObservations applies the optional coin_id, vendor, from and to filters.
func filterObservations(obs []models.Observation, coinID, vendor string, w window) []models.Observation {
	out := make([]models.Observation, 0, len(obs))
	for _, o := range obs {
		if coinID != "" && o.CoinID != coinID {
			continue
		}
		if vendor != "" && o.Vendor != vendor {
			continue
		}
		if !w.contains(o.Timestamp) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func currencyParam(r *http.Request, fallback string) string {
	if c := strings.TrimSpace(r.URL.Query().Get("currency")); c != "" {
		return strings.ToUpper(c)
	}
	return fallback
}
