package external

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/parse"
)

const (
	aoeaURL    = "https://www.achat-or-et-argent.fr"
	aoeaVendor = "achat-or-et-argent"
)

// AOEAClient talks to the achat-or-et-argent.fr worker API, a form-encoded
// POST endpoint returning JSON.
type AOEAClient struct {
	base
	baseURL string
	now     func() time.Time
}

func NewAOEAClient(o Options) *AOEAClient {
	return &AOEAClient{
		base:    newBase("aoea", o, vendorRetry),
		baseURL: strings.TrimRight(orDefault(o.BaseURL, aoeaURL), "/"),
		now:     time.Now,
	}
}

func (c *AOEAClient) Name() string { return "aoea" }

func (c *AOEAClient) SiteURL() string { return c.baseURL }

// Storefront returns the best-sellers showcase with parsed euro prices.
func (c *AOEAClient) Storefront(ctx context.Context) ([]models.StorefrontItem, error) {
	body, err := c.post(ctx, "getProductsVitrine")
	if err != nil {
		return nil, err
	}
	return parse.StorefrontItems(body)
}

// Rates returns the metal rate entries as published by the site.
func (c *AOEAClient) Rates(ctx context.Context) ([]gjson.Result, error) {
	body, err := c.post(ctx, "getCours")
	if err != nil {
		return nil, err
	}
	return parse.StorefrontRates(body)
}

func (c *AOEAClient) Health(ctx context.Context) error {
	_, err := c.post(ctx, "getCours")
	return err
}

// Fetch implements aggregator.Source for coins linked by aoea_id. The site
// only prices in EUR.
func (c *AOEAClient) Fetch(ctx context.Context, coin models.CoinSpec, currency string) ([]models.Observation, error) {
	if coin.AOEAID == "" || currency != "EUR" {
		return nil, nil
	}
	items, err := c.Storefront(ctx)
	if err != nil {
		return nil, err
	}
	now := c.now().UTC()
	var out []models.Observation
	for _, it := range items {
		if it.ItemID != coin.AOEAID || it.Price == nil {
			continue
		}
		out = append(out, models.Observation{
			Timestamp: now,
			CoinID:    coin.ID,
			Vendor:    aoeaVendor,
			Price:     *it.Price,
			Currency:  it.Currency,
			SrcURL:    c.itemURL(it.URL),
			Title:     it.Name,
		})
	}
	return out, nil
}

func (c *AOEAClient) itemURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *AOEAClient) post(ctx context.Context, method string) ([]byte, error) {
	form := url.Values{"methode": {method}}.Encode()
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/workerApi", strings.NewReader(form))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", userAgent)
		return req, nil
	})
}
