package api

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/kjannette/bullion-premium/internal/spot"
)

type providerStatus struct {
	Key        string       `json:"key"`
	Name       string       `json:"name"`
	Enabled    bool         `json:"enabled"`
	Configured bool         `json:"configured"`
	OK         bool         `json:"ok"`
	LastError  *string      `json:"last_error"`
	Quota      *quotaStatus `json:"quota,omitempty"`
}

type quotaStatus struct {
	Month string `json:"month"`
	Calls int    `json:"calls"`
	Limit int    `json:"limit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleProviders probes every connector concurrently. Probe failures are
// reported in the body; the endpoint itself always answers 200.
func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	statuses := make([]providerStatus, 4)
	var g errgroup.Group
	g.Go(func() error { statuses[0] = s.spotStatus(ctx); return nil })
	g.Go(func() error {
		statuses[1] = probe(ctx, "goldde", "Gold.de", s.deps.GoldDe != nil, func(ctx context.Context) error {
			return s.deps.GoldDe.Health(ctx)
		})
		return nil
	})
	g.Go(func() error { statuses[2] = s.ebayStatus(); return nil })
	g.Go(func() error {
		statuses[3] = probe(ctx, "aoea", "achat-or-et-argent", s.deps.AOEA != nil, func(ctx context.Context) error {
			return s.deps.AOEA.Health(ctx)
		})
		return nil
	})
	g.Wait()

	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) spotStatus(ctx context.Context) providerStatus {
	mode := s.deps.Spot.Mode()
	st := providerStatus{
		Key:        "spot",
		Name:       fmt.Sprintf("Spot (%s)", mode),
		Enabled:    mode != spot.ModeSample,
		Configured: mode != spot.ModeSample,
	}
	if g := s.deps.Quota; g != nil {
		state := g.State()
		st.Quota = &quotaStatus{Month: state.Month, Calls: state.Calls, Limit: g.Limit()}
	}
	if p := s.deps.Spot.ResolveLatest(ctx, s.deps.DefaultCurrency); p != nil {
		st.OK = true
	} else {
		st.LastError = strPtr("no data")
	}
	return st
}

// ebayStatus makes no live call.
func (s *Server) ebayStatus() providerStatus {
	st := providerStatus{Key: "ebay", Name: "eBay", Enabled: s.deps.Ebay != nil}
	if !st.Enabled {
		st.LastError = strPtr("disabled")
		return st
	}
	st.Configured = s.deps.Ebay.Configured()
	st.LastError = strPtr("not checked")
	return st
}

func probe(ctx context.Context, key, name string, enabled bool, check func(context.Context) error) providerStatus {
	st := providerStatus{Key: key, Name: name, Enabled: enabled, Configured: enabled}
	if !enabled {
		st.LastError = strPtr("disabled")
		return st
	}
	if err := check(ctx); err != nil {
		st.LastError = strPtr(err.Error())
		return st
	}
	st.OK = true
	return st
}

func strPtr(s string) *string { return &s }
