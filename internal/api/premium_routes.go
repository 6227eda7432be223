package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kjannette/bullion-premium/internal/aggregator"
	"github.com/kjannette/bullion-premium/internal/external"
	"github.com/kjannette/bullion-premium/internal/premium"
)

type nowResponse struct {
	CoinID         string    `json:"coin_id"`
	Currency       string    `json:"currency"`
	PriceNow       float64   `json:"price_now"`
	MeltNow        float64   `json:"melt_now"`
	PremiumNowPct  *float64  `json:"premium_now_pct"`
	SpotTimestamp  time.Time `json:"spot_ts_utc"`
	PriceTimestamp time.Time `json:"price_ts_utc"`
	Vendor         string    `json:"vendor"`
	SpotSource     string    `json:"spot_source"`
}

type premiumRow struct {
	Timestamp  time.Time `json:"ts_utc"`
	CoinID     string    `json:"coin_id"`
	Vendor     string    `json:"vendor"`
	Currency   string    `json:"currency"`
	Price      float64   `json:"price"`
	MeltValue  float64   `json:"melt_value"`
	PremiumPct *float64  `json:"premium_pct"`
	SrcURL     string    `json:"src_url"`
	Condition  string    `json:"condition"`
}

// handleNow prices one coin right now: latest spot, then the first vendor
// source with usable observations.
func (s *Server) handleNow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coinID := q.Get("coin_id")
	if coinID == "" {
		writeError(w, http.StatusBadRequest, "coin_id required")
		return
	}
	currency := currencyParam(r, s.deps.DefaultCurrency)

	coin, ok := s.deps.Catalog.Coin(coinID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown coin_id")
		return
	}

	ctx := r.Context()
	spotNow := s.deps.Spot.ResolveLatest(ctx, currency)
	if spotNow == nil {
		writeError(w, http.StatusServiceUnavailable, "spot unavailable")
		return
	}

	quote, err := s.deps.Quotes.Collect(external.WithMarket(ctx, q.Get("market")), coin, currency)
	if errors.Is(err, aggregator.ErrNoPrice) {
		writeError(w, http.StatusNotFound, "no prices available")
		return
	}
	if err != nil {
		s.logFor(r).WithError(err).Error("price aggregation failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch prices")
		return
	}

	res := premium.Compute(*spotNow, coin, quote.Price)
	writeJSON(w, http.StatusOK, nowResponse{
		CoinID:         coin.ID,
		Currency:       currency,
		PriceNow:       premium.Round2(quote.Price),
		MeltNow:        premium.Round2(res.MeltValue),
		PremiumNowPct:  roundPct(res.PremiumPct),
		SpotTimestamp:  spotNow.Timestamp,
		PriceTimestamp: quote.Timestamp,
		Vendor:         quote.Vendor,
		SpotSource:     s.deps.Spot.Mode().String(),
	})
}

// handlePremium prices every matching sample observation against the spot
// point nearest to it. currency=AUTO keeps each observation's own currency.
// Rows for unknown coins or without any spot are skipped.
func (s *Server) handlePremium(w http.ResponseWriter, r *http.Request) {
	win, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	currency := currencyParam(r, s.deps.DefaultCurrency)
	auto := strings.EqualFold(currency, "AUTO")

	ctx := r.Context()
	all := s.deps.Spot.AllPoints()
	rows := filterObservations(s.deps.Catalog.Observations, q.Get("coin_id"), q.Get("vendor"), win)

	out := make([]premiumRow, 0, len(rows))
	for _, o := range rows {
		coin, ok := s.deps.Catalog.Coin(o.CoinID)
		if !ok {
			continue
		}
		cur := currency
		if auto {
			cur = o.Currency
			if cur == "" {
				cur = s.deps.DefaultCurrency
			}
		}
		sp := s.deps.Spot.ForObservation(ctx, all, o.Timestamp, cur)
		if sp == nil {
			continue
		}
		res := premium.Compute(*sp, coin, o.Price)
		out = append(out, premiumRow{
			Timestamp:  o.Timestamp,
			CoinID:     o.CoinID,
			Vendor:     o.Vendor,
			Currency:   cur,
			Price:      o.Price,
			MeltValue:  premium.Round2(res.MeltValue),
			PremiumPct: roundPct(res.PremiumPct),
			SrcURL:     o.SrcURL,
			Condition:  o.Condition,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func roundPct(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := premium.Round4(*p)
	return &v
}
