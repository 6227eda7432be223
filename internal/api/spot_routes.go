package api

import (
	"net/http"
	"strings"

	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/spot"
)

func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	coins := s.deps.Catalog.Coins
	if coins == nil {
		coins = []models.CoinSpec{}
	}
	writeJSON(w, http.StatusOK, coins)
}

// handleSpot serves the spot series of one currency. refresh=1 asks for a
// live fetch in API mode; group=day collapses the series to one point per
// UTC day.
func (s *Server) handleSpot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	currency := currencyParam(r, s.deps.DefaultCurrency)
	refresh := parseBool(q.Get("refresh"))

	group := q.Get("group")
	if group == "" {
		group = q.Get("granularity")
	}
	group = strings.ToLower(group)

	win, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := filterSpot(s.deps.Spot.Series(r.Context(), currency, refresh), win)
	if group == "day" || group == "daily" {
		rows = spot.AggregateDaily(rows)
	}
	if rows == nil {
		rows = []models.SpotPoint{}
	}
	writeJSON(w, http.StatusOK, rows)
}
