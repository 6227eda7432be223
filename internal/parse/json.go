package parse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kjannette/bullion-premium/internal/models"
)

var ErrMalformed = errors.New("malformed provider response")

// GoldAPISpot reads a GoldAPI ticker. The instant comes from "timestamp",
// then "updated_at", then now.
func GoldAPISpot(body []byte, currency string, now time.Time) (models.SpotPoint, error) {
	if !gjson.ValidBytes(body) {
		return models.SpotPoint{}, fmt.Errorf("goldapi: %w", ErrMalformed)
	}
	res := gjson.ParseBytes(body)
	price := res.Get("price")
	if price.Type != gjson.Number || price.Float() <= 0 {
		if msg := res.Get("error").String(); msg != "" {
			return models.SpotPoint{}, fmt.Errorf("goldapi: %w: %s", ErrMalformed, msg)
		}
		return models.SpotPoint{}, fmt.Errorf("goldapi: %w: no price", ErrMalformed)
	}
	ts := instant(res.Get("timestamp"))
	if ts.IsZero() {
		ts = instant(res.Get("updated_at"))
	}
	if ts.IsZero() {
		ts = now
	}
	return models.NewSpotPoint(ts, strings.ToUpper(currency), price.Float(), "goldapi"), nil
}

// MetalsAPISpot reads a Metals-API "latest" response with base XAU, taking
// rates[currency] as the ounce price.
func MetalsAPISpot(body []byte, currency string, now time.Time) (models.SpotPoint, error) {
	if !gjson.ValidBytes(body) {
		return models.SpotPoint{}, fmt.Errorf("metals-api: %w", ErrMalformed)
	}
	res := gjson.ParseBytes(body)
	if s := res.Get("success"); s.Exists() && !s.Bool() {
		return models.SpotPoint{}, fmt.Errorf("metals-api: %w: %s", ErrMalformed, res.Get("error.info").String())
	}
	cur := strings.ToUpper(currency)
	rate := res.Get("rates." + cur)
	if rate.Type != gjson.Number || rate.Float() <= 0 {
		return models.SpotPoint{}, fmt.Errorf("metals-api: %w: no rate for %s", ErrMalformed, cur)
	}
	ts := instant(res.Get("timestamp"))
	if ts.IsZero() {
		ts = now
	}
	return models.NewSpotPoint(ts, cur, rate.Float(), "metals"), nil
}

// Listing is one marketplace search hit with its stable item id.
type Listing struct {
	ItemID      string
	Observation models.Observation
}

// EbayListings reads a Browse API item_summary search page. Items without a
// positive price or a currency are dropped.
func EbayListings(body []byte, coinID string, now time.Time) ([]Listing, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("ebay: %w", ErrMalformed)
	}
	var out []Listing
	gjson.GetBytes(body, "itemSummaries").ForEach(func(_, it gjson.Result) bool {
		id := firstString(it, "itemId", "legacyItemId", "title")
		if id == "" {
			return true
		}
		price, err := Number(it.Get("price.value").String())
		cur := it.Get("price.currency").String()
		if err != nil || price <= 0 || cur == "" {
			return true
		}
		seller := it.Get("seller.username").String()
		if seller == "" {
			seller = "eBay"
		}
		out = append(out, Listing{
			ItemID: id,
			Observation: models.Observation{
				Timestamp: now.UTC(),
				CoinID:    coinID,
				Vendor:    "eBay:" + seller,
				Price:     price,
				Currency:  strings.ToUpper(cur),
				SrcURL:    firstString(it, "itemWebUrl", "itemAffiliateWebUrl"),
				Condition: it.Get("condition").String(),
				Title:     it.Get("title").String(),
			},
		})
		return true
	})
	return out, nil
}

// StorefrontItems reads the achat-or-et-argent "vitrine" payload.
func StorefrontItems(body []byte) ([]models.StorefrontItem, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("aoea: %w", ErrMalformed)
	}
	var out []models.StorefrontItem
	gjson.GetBytes(body, "vitrine").ForEach(func(_, p gjson.Result) bool {
		item := models.StorefrontItem{
			ItemID:        p.Get("id_item").String(),
			Name:          p.Get("nom").String(),
			PriceText:     p.Get("prixV").String(),
			Currency:      "EUR",
			FromPriceText: p.Get("prixApartir").String(),
			HasVolumes:    p.Get("hasVolumes").Bool(),
			URL:           p.Get("urlItem").String(),
			Image:         p.Get("image1").String(),
		}
		if d, err := EuroPrice(item.PriceText); err == nil {
			v := d.InexactFloat64()
			item.Price = &v
		}
		if d, err := EuroPrice(item.FromPriceText); err == nil {
			v := d.InexactFloat64()
			item.FromPrice = &v
		}
		out = append(out, item)
		return true
	})
	return out, nil
}

// StorefrontRates returns the raw metal rate entries of a "getCours" payload.
func StorefrontRates(body []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("aoea: %w", ErrMalformed)
	}
	return gjson.GetBytes(body, "values").Array(), nil
}

// instant reads unix seconds or an RFC 3339 string; zero when absent.
func instant(r gjson.Result) time.Time {
	switch r.Type {
	case gjson.Number:
		if r.Int() > 0 {
			return time.Unix(r.Int(), 0).UTC()
		}
	case gjson.String:
		if t, err := Timestamp(r.String()); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p).String(); v != "" {
			return v
		}
	}
	return ""
}
