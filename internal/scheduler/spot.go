package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/models"
)

// Refresher forces a live spot fetch within quota.
type Refresher interface {
	Refresh(ctx context.Context, currency string) *models.SpotPoint
}

type SpotSchedulerConfig struct {
	Schedule   string   // standard 5-field cron, UTC
	Currencies []string // e.g. USD, EUR
	Timeout    time.Duration
	OnRefresh  func(p models.SpotPoint)
}

// SpotScheduler refreshes the cached latest spot price on a cron schedule.
// Every run consumes quota, so schedules should stay well under the
// monthly limit.
type SpotScheduler struct {
	refresher Refresher
	cfg       SpotSchedulerConfig
	log       *logrus.Entry

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewSpotScheduler(r Refresher, cfg SpotSchedulerConfig, log logrus.FieldLogger) (*SpotScheduler, error) {
	if cfg.Schedule == "" {
		return nil, errors.New("empty schedule")
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = []string{"USD"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SpotScheduler{
		refresher: r,
		cfg:       cfg,
		log:       logging.Component(log, "spot-scheduler"),
	}, nil
}

func (s *SpotScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.log.Info("already running")
		return
	}

	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(s.cfg.Schedule, s.run); err != nil {
		s.log.WithError(err).Error("schedule rejected")
		return
	}
	c.Start()
	s.cron = c
	s.running = true

	s.log.WithFields(logrus.Fields{
		"schedule":   s.cfg.Schedule,
		"currencies": s.cfg.Currencies,
		"next":       c.Entries()[0].Next,
	}).Info("started")
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *SpotScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	c := s.cron
	s.running = false
	s.cron = nil
	s.mu.Unlock()

	<-c.Stop().Done()
	s.log.Info("stopped")
}

func (s *SpotScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// FetchNow refreshes every configured currency outside the schedule and
// returns how many produced a point.
func (s *SpotScheduler) FetchNow(ctx context.Context) int {
	s.log.Info("manual spot refresh triggered")
	return s.refreshAll(ctx)
}

func (s *SpotScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	s.refreshAll(ctx)
}

func (s *SpotScheduler) refreshAll(ctx context.Context) int {
	n := 0
	for _, cur := range s.cfg.Currencies {
		p := s.refresher.Refresh(ctx, cur)
		if p == nil {
			s.log.WithField("currency", cur).Warn("no spot price after refresh")
			continue
		}
		n++
		s.log.WithFields(logrus.Fields{
			"currency": cur,
			"price":    p.PricePerOz,
			"ts":       p.Timestamp,
			"source":   p.Source,
		}).Info("spot refreshed")
		if s.cfg.OnRefresh != nil {
			s.cfg.OnRefresh(*p)
		}
	}
	return n
}
