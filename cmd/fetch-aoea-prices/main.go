// Command fetch-aoea-prices snapshots the achat-or-et-argent metal rates and
// best-sellers showcase into DATA_DIR/aoea-prices-YYYY-MM-DD.json.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/config"
	"github.com/kjannette/bullion-premium/internal/external"
	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logging.New(cfg.LogLevel)

	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), 4*timeout)
	defer cancel()

	client := external.NewAOEAClient(external.Options{Timeout: timeout, Logger: log})
	now := time.Now()

	log.Info("fetching metal rates")
	rates, err := client.Rates(ctx)
	if err != nil {
		log.WithError(err).Fatal("rates")
	}
	log.Info("fetching storefront")
	items, err := client.Storefront(ctx)
	if err != nil {
		log.WithError(err).Fatal("storefront")
	}

	snap := models.StorefrontSnapshot{
		FetchedAt: now.UTC().Format(time.RFC3339),
		Date:      now.Format("2006-01-02"),
		Source:    client.SiteURL(),
		Items:     items,
	}
	var preview []string
	for _, r := range rates {
		snap.Rates = append(snap.Rates, json.RawMessage(r.Raw))
		preview = append(preview, fmt.Sprintf("%s %s", r.Get("label").String(), r.Get("value").String()))
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("encode snapshot")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.WithError(err).Fatal("create data dir")
	}
	path := filepath.Join(cfg.DataDir, fmt.Sprintf("aoea-prices-%s.json", snap.Date))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.WithError(err).Fatal("write snapshot")
	}

	log.WithFields(logrus.Fields{
		"file":  path,
		"rates": len(rates),
		"items": len(items),
	}).Info("snapshot saved")
	log.Infof("rates: %s", strings.Join(preview, " | "))
	for i, it := range items {
		if i == 3 {
			break
		}
		line := fmt.Sprintf("%s: %s", it.Name, it.PriceText)
		if it.FromPriceText != "" {
			line += fmt.Sprintf(" (from %s)", it.FromPriceText)
		}
		log.Info(line)
	}
}
