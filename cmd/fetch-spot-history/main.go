// Command fetch-spot-history fills the spot timeseries cache with one GoldAPI
// historical price per UTC day.
//
//	fetch-spot-history --from 2022-06-01 --currency EUR
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/backfill"
	"github.com/kjannette/bullion-premium/internal/config"
	"github.com/kjannette/bullion-premium/internal/external"
	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logging.New(cfg.LogLevel)

	now := time.Now().UTC()
	var fromStr, currency string
	flag.StringVar(&fromStr, "from", now.AddDate(-1, 0, 0).Format("2006-01-02"), "first UTC day to fetch (YYYY-MM-DD)")
	flag.StringVar(&currency, "currency", cfg.DefaultCurrency, "quote currency")
	flag.Parse()

	if cfg.GoldAPIKey == "" {
		log.Error("GOLDAPI_KEY missing (set it in .env)")
		os.Exit(1)
	}
	from, err := repository.ParseDay(fromStr)
	if err != nil {
		log.WithError(err).Error("invalid --from")
		os.Exit(1)
	}
	currency = strings.ToUpper(currency)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := external.NewGoldAPIClient(cfg.GoldAPIKey, external.Options{
		Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		Logger:  log,
	})
	store := repository.NewSpotStore(repository.NewFileBackend(cfg.DataDir), repository.SpotTimeseriesFile)

	log.WithFields(logrus.Fields{
		"from":     repository.UTCDay(from),
		"to":       repository.UTCDay(now),
		"currency": currency,
		"delay_ms": cfg.SpotHistoryDelayMs,
	}).Info("fetching spot history")

	res, err := backfill.Run(ctx, backfill.Options{
		Currency: currency,
		From:     from,
		To:       now,
		Delay:    time.Duration(cfg.SpotHistoryDelayMs) * time.Millisecond,
		Fetcher:  client,
		Store:    store,
		Logger:   log,
	})
	if err != nil {
		log.WithError(err).Error("backfill failed")
		os.Exit(1)
	}

	for _, f := range res.Failures {
		log.WithError(f.Err).WithField("day", f.Day).Warn("not fetched")
	}
	log.WithFields(logrus.Fields{
		"days":     res.Days,
		"cached":   res.Cached,
		"fetched":  res.Fetched,
		"failures": len(res.Failures),
		"total":    res.Total,
		"file":     store.Name(),
	}).Info("spot history written")
}
