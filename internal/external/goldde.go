package external

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/parse"
)

const (
	goldDeURL    = "https://www.gold.de/"
	goldDeVendor = "GOLD.DE"

	GoldDeRemote = "remote"
	GoldDeFile   = "file"
)

// GoldDeClient serves gold.de dealer prices. The "file" source reads a local
// CSV export; the "remote" source has no price feed yet and only supports
// the health probe.
type GoldDeClient struct {
	base
	source   string
	filePath string
	homeURL  string
}

func NewGoldDeClient(source, filePath string, o Options) *GoldDeClient {
	return &GoldDeClient{
		base:     newBase("goldde", o, vendorRetry),
		source:   strings.ToLower(orDefault(source, GoldDeRemote)),
		filePath: filePath,
		homeURL:  orDefault(o.BaseURL, goldDeURL),
	}
}

func (c *GoldDeClient) Name() string { return "goldde" }

// Listings returns every current gold.de observation.
func (c *GoldDeClient) Listings(ctx context.Context) ([]models.Observation, error) {
	if c.source != GoldDeFile {
		return nil, fmt.Errorf("goldde %s fetch: %w", c.source, ErrNotImplemented)
	}
	f, err := os.Open(c.filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("goldde: open sample: %w", err)
	}
	defer f.Close()

	obs, err := parse.Observations(f, goldDeVendor, "EUR")
	if err != nil {
		return nil, fmt.Errorf("goldde: %w", err)
	}
	return obs, nil
}

// Fetch implements aggregator.Source.
func (c *GoldDeClient) Fetch(ctx context.Context, coin models.CoinSpec, currency string) ([]models.Observation, error) {
	all, err := c.Listings(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Observation
	for _, o := range all {
		if o.CoinID == coin.ID && o.Currency == currency {
			out = append(out, o)
		}
	}
	return out, nil
}

// Health probes the gold.de home page.
func (c *GoldDeClient) Health(ctx context.Context) error {
	_, err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.homeURL, nil)
	})
	return err
}

