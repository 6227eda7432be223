package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/aggregator"
	"github.com/kjannette/bullion-premium/internal/api"
	"github.com/kjannette/bullion-premium/internal/config"
	"github.com/kjannette/bullion-premium/internal/external"
	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/notifications"
	"github.com/kjannette/bullion-premium/internal/parse"
	"github.com/kjannette/bullion-premium/internal/quota"
	"github.com/kjannette/bullion-premium/internal/refdata"
	"github.com/kjannette/bullion-premium/internal/repository"
	"github.com/kjannette/bullion-premium/internal/scheduler"
	"github.com/kjannette/bullion-premium/internal/spot"
)

const banner = `
╔══════════════════════════════════════╗
║     Bullion Premium API v0.1         ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	if err := cfg.Validate(log); err != nil {
		log.Fatal(err)
	}
	cfg.Print(log)

	// Reference data
	catalog, err := refdata.Load(cfg.DataDir, cfg.DefaultCurrency)
	if err != nil {
		log.WithError(err).Fatal("reference data unreadable")
	}

	mode := cfg.SpotSourceMode()
	var csvPoints []models.SpotPoint
	if mode == spot.ModeCSV {
		if csvPoints, err = loadSpotCSV(cfg.SpotCSVPath, cfg.SpotCSVCurrency); err != nil {
			log.WithError(err).Fatal("spot CSV unreadable")
		}
		log.WithFields(logrus.Fields{"path": cfg.SpotCSVPath, "points": len(csvPoints)}).Info("spot CSV loaded")
	}

	// Stores and quota
	backend := repository.NewFileBackend(cfg.DataDir)
	notify := notifications.NewSender(cfg.QuotaWebhookURL, cfg.BotName, log)
	gate := quota.New(repository.NewQuotaStore(backend), cfg.SpotMonthlyLimit, log,
		quota.WithOnExhausted(notify.QuotaExhausted))

	// Spot providers: GoldAPI wins when both keys are set; only it serves history.
	opts := external.Options{
		Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		Logger:  log,
	}
	var (
		latest     spot.LatestFetcher
		historical spot.HistoricalFetcher
	)
	switch {
	case cfg.GoldAPIKey != "":
		g := external.NewGoldAPIClient(cfg.GoldAPIKey, opts)
		latest, historical = g, g
	case cfg.MetalsAPIKey != "":
		latest = external.NewMetalsAPIClient(cfg.MetalsAPIKey, opts)
	}

	resolver := spot.NewResolver(spot.Options{
		Mode:       mode,
		Sample:     catalog.SpotSample,
		CSV:        csvPoints,
		Timeseries: repository.NewSpotStore(backend, repository.SpotTimeseriesFile),
		Augment:    repository.NewSpotStore(backend, repository.SpotAugmentFile),
		Gate:       gate,
		Latest:     latest,
		Historical: historical,
		MaxPoints:  cfg.SpotCacheMaxPoints,
		Logger:     log,
	})

	// Vendor sources, in priority order
	var (
		sources []aggregator.Source
		goldde  *external.GoldDeClient
		ebay    *external.EbayClient
	)
	if cfg.GoldDeEnabled {
		goldde = external.NewGoldDeClient(cfg.GoldDeSource, cfg.GoldDeFilePath, opts)
		sources = append(sources, goldde)
	}
	if cfg.EbayEnabled {
		ebay = external.NewEbayClient(cfg.EbayOAuthToken, cfg.EbayMarketplace, external.Queries(catalog.Queries), opts)
		sources = append(sources, ebay)
	}
	sources = append(sources, aggregator.NewSampleSource(catalog.Observations))
	quotes := aggregator.New(log, sources...)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. API server
	srv := api.NewServer(api.Deps{
		Catalog:         catalog,
		Spot:            resolver,
		Quotes:          quotes,
		Quota:           gate,
		GoldDe:          goldde,
		Ebay:            ebay,
		AOEA:            external.NewAOEAClient(opts),
		DefaultCurrency: cfg.DefaultCurrency,
		WebDir:          cfg.WebDir,
		Logger:          log,
	}, cfg.Port)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("API server error")
		}
	}()

	// 2. Spot refresh schedule
	var sched *scheduler.SpotScheduler
	if cfg.SpotRefreshCron != "" && mode == spot.ModeAPI {
		sched, err = scheduler.NewSpotScheduler(resolver, scheduler.SpotSchedulerConfig{
			Schedule:   cfg.SpotRefreshCron,
			Currencies: []string{cfg.DefaultCurrency},
			Timeout:    opts.Timeout,
		}, log)
		if err != nil {
			log.WithError(err).Fatal("spot scheduler")
		}
		sched.Start()
	} else {
		log.Info("spot scheduler skipped")
	}

	log.Info("all services started")

	<-ctx.Done()
	log.Info("shutting down gracefully")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("API shutdown error")
	}
	notify.Wait()
	log.Info("shutdown complete")
}

func loadSpotCSV(path, currency string) ([]models.SpotPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse.SpotOHLC(f, currency)
}
