package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/spot"
)

type Config struct {
	// Server
	Port              int
	DataDir           string
	WebDir            string
	RequestTimeoutSec int
	LogLevel          string
	DefaultCurrency   string

	// Spot providers (secrets from .env)
	GoldAPIKey   string
	MetalsAPIKey string

	// Spot CSV
	SpotCSVPath     string
	SpotCSVCurrency string

	// Spot quota and caches
	SpotMonthlyLimit   int
	SpotCacheMaxPoints int
	SpotHistoryDelayMs int
	SpotRefreshCron    string

	// Vendor connectors
	EbayEnabled     bool
	EbayOAuthToken  string
	EbayMarketplace string
	GoldDeEnabled   bool
	GoldDeSource    string
	GoldDeFilePath  string

	// Notifications
	QuotaWebhookURL string
	BotName         string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := envStr("DATA_DIR", "data")

	cfg := &Config{
		Port:              envInt("PORT", 8787),
		DataDir:           dataDir,
		WebDir:            envStr("WEB_DIR", ""),
		RequestTimeoutSec: envInt("REQUEST_TIMEOUT_SEC", 15),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		DefaultCurrency:   strings.ToUpper(envStr("DEFAULT_CURRENCY", "USD")),

		GoldAPIKey:   envStr("GOLDAPI_KEY", ""),
		MetalsAPIKey: envStr("METALS_API_KEY", ""),

		SpotCSVPath:     envStr("SPOT_CSV_PATH", "xauusd_d.csv"),
		SpotCSVCurrency: strings.ToUpper(envStr("SPOT_CSV_CURRENCY", "USD")),

		SpotMonthlyLimit:   envInt("SPOT_MONTHLY_LIMIT", 200),
		SpotCacheMaxPoints: envInt("SPOT_CACHE_MAX_POINTS", 200000),
		SpotHistoryDelayMs: envInt("SPOT_HISTORY_DELAY_MS", 250),
		SpotRefreshCron:    envStr("SPOT_REFRESH_CRON", ""),

		EbayEnabled:     envBool("EBAY_ENABLED", false),
		EbayOAuthToken:  envStr("EBAY_OAUTH_TOKEN", ""),
		EbayMarketplace: envStr("EBAY_MARKETPLACE", "EBAY_FR"),
		GoldDeEnabled:   envBool("GOLDDE_ENABLED", true),
		GoldDeSource:    strings.ToLower(envStr("GOLDDE_SOURCE", "remote")),
		GoldDeFilePath:  envStr("GOLDDE_FILE_PATH", filepath.Join(dataDir, "goldde_prices.sample.csv")),

		QuotaWebhookURL: envStr("QUOTA_WEBHOOK_URL", ""),
		BotName:         envStr("BOT_NAME", "BullionPremium"),
	}

	return cfg, nil
}

func (c *Config) Validate(log logrus.FieldLogger) error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT must be in 1..65535, got %d", c.Port))
	}
	if c.SpotMonthlyLimit < 0 {
		errs = append(errs, "SPOT_MONTHLY_LIMIT must not be negative")
	}
	if c.SpotCacheMaxPoints <= 0 {
		errs = append(errs, "SPOT_CACHE_MAX_POINTS must be positive")
	}
	if c.SpotHistoryDelayMs < 0 {
		errs = append(errs, "SPOT_HISTORY_DELAY_MS must not be negative")
	}
	if c.DefaultCurrency == "" {
		errs = append(errs, "DEFAULT_CURRENCY must not be empty")
	}
	if c.GoldDeSource != "remote" && c.GoldDeSource != "file" {
		errs = append(errs, fmt.Sprintf("GOLDDE_SOURCE must be remote or file, got %q", c.GoldDeSource))
	}
	if c.SpotRefreshCron != "" {
		if _, err := cron.ParseStandard(c.SpotRefreshCron); err != nil {
			errs = append(errs, fmt.Sprintf("SPOT_REFRESH_CRON invalid: %v", err))
		}
	}

	if log != nil {
		if c.EbayEnabled && c.EbayOAuthToken == "" {
			log.Warn("EBAY_ENABLED=true but EBAY_OAUTH_TOKEN not set; eBay searches will fail")
		}
		if c.GoldAPIKey == "" && c.MetalsAPIKey == "" {
			log.Warn("no GOLDAPI_KEY or METALS_API_KEY set; spot falls back to CSV or bundled sample")
		}
		if c.SpotRefreshCron != "" && c.SpotSourceMode() != spot.ModeAPI {
			log.Warn("SPOT_REFRESH_CRON set but spot mode is not api; scheduled refresh disabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// SpotSourceMode resolves the spot source once: a local CSV file wins,
// then any configured API key, then the bundled sample.
func (c *Config) SpotSourceMode() spot.Mode {
	if c.SpotCSVPath != "" {
		if st, err := os.Stat(c.SpotCSVPath); err == nil && !st.IsDir() {
			return spot.ModeCSV
		}
	}
	if c.GoldAPIKey != "" || c.MetalsAPIKey != "" {
		return spot.ModeAPI
	}
	return spot.ModeSample
}

func (c *Config) Print(log logrus.FieldLogger) {
	log.WithFields(logrus.Fields{
		"port":             c.Port,
		"data_dir":         c.DataDir,
		"default_currency": c.DefaultCurrency,
		"spot_mode":        c.SpotSourceMode(),
		"goldapi":          boolLabel(c.GoldAPIKey != "", "configured", "not set"),
		"metals_api":       boolLabel(c.MetalsAPIKey != "", "configured", "not set"),
		"monthly_limit":    c.SpotMonthlyLimit,
		"cache_max_points": c.SpotCacheMaxPoints,
		"refresh_cron":     boolLabel(c.SpotRefreshCron != "", c.SpotRefreshCron, "off"),
	}).Info("spot configuration")
	log.WithFields(logrus.Fields{
		"goldde":          boolLabel(c.GoldDeEnabled, c.GoldDeSource, "disabled"),
		"ebay":            boolLabel(c.EbayEnabled, c.EbayMarketplace, "disabled"),
		"ebay_token":      maskSecret(c.EbayOAuthToken),
		"quota_webhook":   boolLabel(c.QuotaWebhookURL != "", "configured", "not set"),
		"request_timeout": c.RequestTimeoutSec,
	}).Info("vendor configuration")
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func maskSecret(s string) string {
	if s == "" {
		return "not set"
	}
	if len(s) <= 6 {
		return "***"
	}
	return s[:3] + "..." + s[len(s)-3:]
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
