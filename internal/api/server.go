package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/aggregator"
	"github.com/kjannette/bullion-premium/internal/external"
	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/metrics"
	"github.com/kjannette/bullion-premium/internal/quota"
	"github.com/kjannette/bullion-premium/internal/refdata"
	"github.com/kjannette/bullion-premium/internal/spot"
)

const (
	maxQueryLimit = 200

	defaultLiveLimit = 20
	probeTimeout     = 10 * time.Second
)

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Deps are the collaborators of the HTTP API. Nil connectors are disabled.
type Deps struct {
	Catalog *refdata.Catalog
	Spot    *spot.Resolver
	Quotes  *aggregator.Aggregator
	Quota   *quota.Gate

	GoldDe *external.GoldDeClient
	Ebay   *external.EbayClient
	AOEA   *external.AOEAClient

	DefaultCurrency string
	WebDir          string
	Logger          logrus.FieldLogger
}

type Server struct {
	deps       Deps
	log        *logrus.Entry
	router     *mux.Router
	httpServer *http.Server
}

func NewServer(deps Deps, port int) *Server {
	if deps.DefaultCurrency == "" {
		deps.DefaultCurrency = "USD"
	}
	s := &Server{
		deps: deps,
		log:  logging.Component(deps.Logger, "api"),
	}

	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/coins", s.handleCoins).Methods(http.MethodGet)
	r.HandleFunc("/spot", s.handleSpot).Methods(http.MethodGet)
	r.HandleFunc("/prices", s.handlePrices).Methods(http.MethodGet)
	r.HandleFunc("/prices/live", s.handleLivePrices).Methods(http.MethodGet)
	r.HandleFunc("/now", s.handleNow).Methods(http.MethodGet)
	r.HandleFunc("/premium", s.handlePremium).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/providers", s.handleProviders).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	if deps.WebDir != "" {
		files := http.FileServer(http.Dir(deps.WebDir))
		r.PathPrefix("/web/").Handler(http.StripPrefix("/web/", files))
		r.Path("/").Handler(files)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	s.router = r

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

// Handler is the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.requestIDMiddleware(s.router), "*")
}

func (s *Server) Start() error {
	s.log.WithFields(logrus.Fields{
		"addr":      s.httpServer.Addr,
		"spot_mode": s.deps.Spot.Mode(),
	}).Info("REST API server started")
	if s.deps.WebDir != "" {
		s.log.WithField("web_dir", s.deps.WebDir).Info("serving static front-end")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

type ctxKey int

const loggerKey ctxKey = 0

// requestIDMiddleware tags every request with an X-Request-ID, reusing the
// caller's when present, and stores a request-scoped logger in the context.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		entry := s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		ctx := context.WithValue(r.Context(), loggerKey, entry)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logFor(r *http.Request) logrus.FieldLogger {
	if l, ok := r.Context().Value(loggerKey).(logrus.FieldLogger); ok {
		return l
	}
	return s.log
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

func parseBool(v string) bool {
	return v == "1" || v == "true"
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
