package api

import (
	"net/http"
	"strings"

	"github.com/kjannette/bullion-premium/internal/models"
)

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	win, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	rows := filterObservations(s.deps.Catalog.Observations, q.Get("coin_id"), q.Get("vendor"), win)
	writeJSON(w, http.StatusOK, rows)
}

// handleLivePrices queries one vendor connector on demand.
func (s *Server) handleLivePrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	log := s.logFor(r)

	switch strings.ToLower(q.Get("provider")) {
	case "goldde":
		if s.deps.GoldDe == nil {
			writeError(w, http.StatusBadRequest, "gold.de connector disabled")
			return
		}
		rows, err := s.deps.GoldDe.Listings(r.Context())
		if err != nil {
			log.WithError(err).Warn("gold.de listings failed")
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(rows))

	case "ebay":
		if s.deps.Ebay == nil {
			writeError(w, http.StatusBadRequest, "eBay connector disabled")
			return
		}
		coinID := q.Get("coin_id")
		if coinID == "" {
			writeError(w, http.StatusBadRequest, "coin_id required")
			return
		}
		market := q.Get("market")
		if market == "" {
			market = s.deps.Ebay.Marketplace()
		}
		currency := currencyParam(r, s.deps.DefaultCurrency)
		rows, err := s.deps.Ebay.Search(r.Context(), coinID, market, currency, parseLimit(r, defaultLiveLimit))
		if err != nil {
			log.WithError(err).Warn("eBay search failed")
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		out := make([]models.Observation, 0, len(rows))
		for _, o := range rows {
			if o.Currency == currency {
				out = append(out, o)
			}
		}
		writeJSON(w, http.StatusOK, out)

	case "aoea":
		if s.deps.AOEA == nil {
			writeError(w, http.StatusBadRequest, "achat-or-et-argent connector disabled")
			return
		}
		items, err := s.deps.AOEA.Storefront(r.Context())
		if err != nil {
			log.WithError(err).Warn("achat-or-et-argent storefront failed")
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		if items == nil {
			items = []models.StorefrontItem{}
		}
		writeJSON(w, http.StatusOK, items)

	default:
		writeError(w, http.StatusBadRequest, "unknown provider (use provider=goldde|ebay|aoea)")
	}
}

func orEmpty(obs []models.Observation) []models.Observation {
	if obs == nil {
		return []models.Observation{}
	}
	return obs
}
