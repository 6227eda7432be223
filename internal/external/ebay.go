package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/parse"
)

const (
	ebayBrowseURL = "https://api.ebay.com/buy/browse/v1"

	DefaultEbayLimit = 24
)

// Queries maps coin id to marketplace id to search phrases.
type Queries map[string]map[string][]string

// EbayClient searches active listings with the Browse API.
type EbayClient struct {
	base
	token       string
	marketplace string
	queries     Queries
	baseURL     string
	now         func() time.Time
}

func NewEbayClient(token, marketplace string, queries Queries, o Options) *EbayClient {
	return &EbayClient{
		base:        newBase("ebay", o, vendorRetry),
		token:       token,
		marketplace: orDefault(marketplace, "EBAY_FR"),
		queries:     queries,
		baseURL:     strings.TrimRight(orDefault(o.BaseURL, ebayBrowseURL), "/"),
		now:         time.Now,
	}
}

func (c *EbayClient) Name() string { return "ebay" }

func (c *EbayClient) Configured() bool { return c.token != "" }

type marketKey struct{}

// WithMarket scopes ctx to an eBay marketplace id such as EBAY_DE.
func WithMarket(ctx context.Context, market string) context.Context {
	if market == "" {
		return ctx
	}
	return context.WithValue(ctx, marketKey{}, market)
}

// Fetch implements aggregator.Source on the marketplace carried by ctx,
// else the default one.
func (c *EbayClient) Fetch(ctx context.Context, coin models.CoinSpec, currency string) ([]models.Observation, error) {
	market, _ := ctx.Value(marketKey{}).(string)
	return c.Search(ctx, coin.ID, orDefault(market, c.marketplace), currency, DefaultEbayLimit)
}

// Marketplace is the default marketplace id.
func (c *EbayClient) Marketplace() string { return c.marketplace }

// Search runs every configured phrase for coinID on market, de-duplicates
// items across phrases and returns them cheapest first. A failing phrase is
// logged and skipped.
func (c *EbayClient) Search(ctx context.Context, coinID, market, currency string, limit int) ([]models.Observation, error) {
	if c.token == "" {
		return nil, fmt.Errorf("ebay: missing OAuth token: %w", ErrNotConfigured)
	}
	market = orDefault(market, c.marketplace)
	phrases := c.queries[coinID][market]
	if len(phrases) == 0 {
		return nil, fmt.Errorf("ebay: no queries for coin %s on %s", coinID, market)
	}
	if limit <= 0 {
		limit = DefaultEbayLimit
	}

	seen := make(map[string]bool)
	var out []models.Observation
	for _, phrase := range phrases {
		u := c.searchURL(phrase, limit, currency)
		body, err := c.do(ctx, func() (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+c.token)
			req.Header.Set("Accept", "application/json")
			req.Header.Set("X-EBAY-C-MARKETPLACE-ID", market)
			return req, nil
		})
		if err != nil {
			c.log.WithError(err).WithField("query", phrase).Warn("ebay query failed")
			continue
		}
		listings, err := parse.EbayListings(body, coinID, c.now())
		if err != nil {
			c.log.WithError(err).WithField("query", phrase).Warn("ebay response unreadable")
			continue
		}
		for _, l := range listings {
			if seen[l.ItemID] {
				continue
			}
			seen[l.ItemID] = true
			out = append(out, l.Observation)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (c *EbayClient) searchURL(phrase string, limit int, currency string) string {
	q := url.Values{}
	q.Set("q", phrase)
	q.Set("limit", strconv.Itoa(limit))
	if currency != "" {
		q.Set("filter", "priceCurrency:"+strings.ToUpper(currency))
	}
	return c.baseURL + "/item_summary/search?" + q.Encode()
}
