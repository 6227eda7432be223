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
)

const metalsAPIURL = "https://metals-api.com/api"

// MetalsAPIClient reads the XAU-based latest rates from metals-api.com.
type MetalsAPIClient struct {
	base
	key     string
	baseURL string
	now     func() time.Time
}

func NewMetalsAPIClient(key string, o Options) *MetalsAPIClient {
	return &MetalsAPIClient{
		base:    newBase("metals-api", o, httputil.Once),
		key:     key,
		baseURL: strings.TrimRight(orDefault(o.BaseURL, metalsAPIURL), "/"),
		now:     time.Now,
	}
}

func (c *MetalsAPIClient) FetchLatest(ctx context.Context, currency string) (models.SpotPoint, error) {
	if c.key == "" {
		return models.SpotPoint{}, fmt.Errorf("metals-api: %w", ErrNotConfigured)
	}
	symbols := "USD,EUR"
	if cur := strings.ToUpper(currency); cur != "USD" && cur != "EUR" {
		symbols += "," + cur
	}
	q := url.Values{}
	q.Set("access_key", c.key)
	q.Set("base", "XAU")
	q.Set("symbols", symbols)
	u := c.baseURL + "/latest?" + q.Encode()

	body, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return models.SpotPoint{}, err
	}
	return parse.MetalsAPISpot(body, currency, c.now())
}
