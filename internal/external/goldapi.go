package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kjannette/bullion-premium/internal/httputil"
	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/parse"
	"github.com/kjannette/bullion-premium/internal/repository"
)

const goldAPIURL = "https://www.goldapi.io/api"

// GoldAPIClient reads XAU tickers from goldapi.io. Each call counts against
// the monthly quota, so requests are never retried.
type GoldAPIClient struct {
	base
	key     string
	baseURL string
	now     func() time.Time
}

func NewGoldAPIClient(key string, o Options) *GoldAPIClient {
	return &GoldAPIClient{
		base:    newBase("goldapi", o, httputil.Once),
		key:     key,
		baseURL: strings.TrimRight(orDefault(o.BaseURL, goldAPIURL), "/"),
		now:     time.Now,
	}
}

// FetchLatest returns the current ounce price in currency.
func (c *GoldAPIClient) FetchLatest(ctx context.Context, currency string) (models.SpotPoint, error) {
	cur := strings.ToUpper(currency)
	return c.get(ctx, fmt.Sprintf("%s/XAU/%s", c.baseURL, url.PathEscape(cur)), cur)
}

// FetchDay returns the ounce price for the UTC day of day.
func (c *GoldAPIClient) FetchDay(ctx context.Context, currency string, day time.Time) (models.SpotPoint, error) {
	cur := strings.ToUpper(currency)
	u := fmt.Sprintf("%s/XAU/%s/%s", c.baseURL, url.PathEscape(cur), repository.CompactDay(day))
	return c.get(ctx, u, cur)
}

func (c *GoldAPIClient) get(ctx context.Context, u, currency string) (models.SpotPoint, error) {
	if c.key == "" {
		return models.SpotPoint{}, fmt.Errorf("goldapi: %w", ErrNotConfigured)
	}
	body, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-access-token", c.key)
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return models.SpotPoint{}, err
	}
	return parse.GoldAPISpot(body, currency, c.now())
}
