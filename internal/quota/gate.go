// Package quota enforces the monthly call budget of the paid spot APIs.
package quota

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/metrics"
	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/repository"
)

// DefaultMonthlyLimit is the call budget per UTC calendar month.
const DefaultMonthlyLimit = 200

// Gate grants and consumes permission for one outbound spot API call.
// The counter resets when the stored month differs from the current UTC month.
type Gate struct {
	store *repository.QuotaStore
	limit int
	now   func() time.Time
	log   *logrus.Entry

	onExhausted func(month string, limit int)

	mu      sync.Mutex
	alerted string
}

type Option func(*Gate)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithOnExhausted registers a hook called once per month, on the first denial.
func WithOnExhausted(fn func(month string, limit int)) Option {
	return func(g *Gate) { g.onExhausted = fn }
}

func New(store *repository.QuotaStore, limit int, log logrus.FieldLogger, opts ...Option) *Gate {
	g := &Gate{
		store: store,
		limit: limit,
		now:   time.Now,
		log:   logging.Component(log, "quota"),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Gate) Limit() int { return g.limit }

// MayCall reports whether a call is permitted and, if so, counts it.
// An unreadable state file is treated as a fresh month.
func (g *Gate) MayCall() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.current()
	if st.Calls >= g.limit {
		metrics.RecordQuota(false)
		g.log.WithFields(logrus.Fields{"month": st.Month, "calls": st.Calls, "limit": g.limit}).
			Warn("monthly spot API quota exhausted")
		if g.onExhausted != nil && g.alerted != st.Month {
			g.alerted = st.Month
			g.onExhausted(st.Month, g.limit)
		}
		return false
	}

	st.Calls++
	if err := g.store.Save(st); err != nil {
		g.log.WithError(err).Warn("persist quota state")
	}
	metrics.RecordQuota(true)
	return true
}

// State returns the counter as it applies to the current month without
// consuming a call.
func (g *Gate) State() models.QuotaState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current()
}

func (g *Gate) current() models.QuotaState {
	st, err := g.store.Load()
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		g.log.WithError(err).Warn("unreadable quota state, starting fresh")
	}
	month := repository.MonthKey(g.now())
	if st.Month != month {
		st = models.QuotaState{Month: month}
	}
	return st
}
