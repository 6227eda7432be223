package parse

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpotOHLC(t *testing.T) {
	in := "Date,Open,High,Low,Close\n" +
		"2024-03-02,2080,2090,2070, 2 085.5\n" +
		"2024-03-01,2040,2060,2030,2050\n" +
		"bad-date,1,1,1,1\n" +
		"2024-03-03,1,1,1,\n" +
		"\n"

	pts, err := SpotOHLC(strings.NewReader(in), "USD")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), pts[0].Timestamp)
	assert.Equal(t, 2085.5, pts[1].PricePerOz)
	assert.Equal(t, "csv", pts[1].Source)
	assert.Equal(t, "USD", pts[1].Currency)
}

func TestSpotOHLC_LowercaseHeaders(t *testing.T) {
	pts, err := SpotOHLC(strings.NewReader("date,open,high,low,close\n2024-01-02,1,1,1,2063.4\n"), "EUR")
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, "EUR", pts[0].Currency)
}

func TestSpotSample(t *testing.T) {
	in := "ts_utc,currency,price_per_oz\n" +
		"2024-01-02T00:00:00Z,usd,2063.4\n" +
		"2024-01-01T00:00:00Z,EUR,1870\n" +
		"2024-01-03T00:00:00Z,USD,-1\n"

	pts, err := SpotSample(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, "EUR", pts[0].Currency)
	assert.Equal(t, "USD", pts[1].Currency)
}

func TestObservations(t *testing.T) {
	in := "ts_utc,coin_id,vendor,price,currency,src_url,condition\n" +
		"2024-01-02T10:00:00Z,krugerrand-1oz,ShopA,2150.5,USD,https://a.example/k,BU\n" +
		"2024-01-03T10:00:00Z,vreneli-20chf,ShopB,430,,,\n" +
		"oops,vreneli-20chf,ShopB,430,EUR,,\n"

	obs, err := Observations(strings.NewReader(in), "", "EUR")
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, "ShopA", obs[0].Vendor)
	assert.Equal(t, "BU", obs[0].Condition)
	assert.Equal(t, "EUR", obs[1].Currency)

	obs, err = Observations(strings.NewReader(in), "GOLD.DE", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "GOLD.DE", obs[1].Vendor)
}

func TestEuroPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"485.00 €", "485"},
		{"4 259,00 €", "4259"},
		{"4 259,50 €", "4259.5"},
		{"4 259.00 €", "4259"},
		{"1234,5", "1234.5"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := EuroPrice(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	for _, bad := range []string{"", "€", "sur demande", "12,34,56", "-5 €"} {
		_, err := EuroPrice(bad)
		assert.True(t, errors.Is(err, ErrBadPrice), "input %q", bad)
	}
}

func TestGoldAPISpot(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	p, err := GoldAPISpot([]byte(`{"metal":"XAU","currency":"USD","price":2301.25,"timestamp":1714560000}`), "usd", now)
	require.NoError(t, err)
	assert.Equal(t, 2301.25, p.PricePerOz)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, time.Unix(1714560000, 0).UTC(), p.Timestamp)
	assert.Equal(t, "goldapi", p.Source)

	p, err = GoldAPISpot([]byte(`{"price":2300,"updated_at":"2024-05-01T08:00:00Z"}`), "USD", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), p.Timestamp)

	p, err = GoldAPISpot([]byte(`{"price":2300}`), "USD", now)
	require.NoError(t, err)
	assert.Equal(t, now, p.Timestamp)

	_, err = GoldAPISpot([]byte(`{"error":"Invalid API Key"}`), "USD", now)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "Invalid API Key")

	_, err = GoldAPISpot([]byte(`<html>`), "USD", now)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestMetalsAPISpot(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"success":true,"timestamp":1714560000,"base":"XAU","rates":{"USD":2301.5,"EUR":2150.25}}`)

	p, err := MetalsAPISpot(body, "EUR", now)
	require.NoError(t, err)
	assert.Equal(t, 2150.25, p.PricePerOz)
	assert.Equal(t, "metals", p.Source)

	_, err = MetalsAPISpot(body, "GBP", now)
	require.ErrorIs(t, err, ErrMalformed)

	_, err = MetalsAPISpot([]byte(`{"success":false,"error":{"info":"quota reached"}}`), "USD", now)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "quota reached")
}

func TestEbayListings(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"itemSummaries":[
		{"itemId":"v1|1","title":"Krugerrand 1oz","price":{"value":"2210.00","currency":"EUR"},"seller":{"username":"coinshop"},"itemWebUrl":"https://ebay.example/1","condition":"Neuf"},
		{"itemId":"v1|2","title":"No price"},
		{"legacyItemId":"333","title":"Krugerrand","price":{"value":"2199.5","currency":"EUR"}}
	]}`)

	got, err := EbayListings(body, "krugerrand-1oz", now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "v1|1", got[0].ItemID)
	assert.Equal(t, "eBay:coinshop", got[0].Observation.Vendor)
	assert.Equal(t, "https://ebay.example/1", got[0].Observation.SrcURL)
	assert.Equal(t, "333", got[1].ItemID)
	assert.Equal(t, "eBay:eBay", got[1].Observation.Vendor)
	assert.Equal(t, 2199.5, got[1].Observation.Price)
}

func TestStorefrontItems(t *testing.T) {
	body := []byte(`{"vitrine":[
		{"id_item":42,"nom":"Napoléon 20 Francs","prixV":"485,00 €","prixApartir":"479,00 €","hasVolumes":1,"urlItem":"/napoleon"},
		{"id_item":"7","nom":"Lingot 1kg","prixV":"sur demande"}
	]}`)

	items, err := StorefrontItems(body)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "42", items[0].ItemID)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 485.0, *items[0].Price)
	assert.Equal(t, 479.0, *items[0].FromPrice)
	assert.True(t, items[0].HasVolumes)
	assert.Nil(t, items[1].Price)

	rates, err := StorefrontRates([]byte(`{"values":[{"label":"Or","value":"68 000 €"},{"label":"Argent","value":"850 €"}]}`))
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "Or", rates[0].Get("label").String())
}
