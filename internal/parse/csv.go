// Package parse turns CSV rows, scraped price strings and provider JSON
// into canonical spot points and vendor observations.
package parse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/repository"
)

// Rows reads a headed CSV into one map per row keyed by the lower-cased
// header. Short rows yield empty strings for the missing columns.
func Rows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var out []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("read csv row: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// SpotOHLC reads a Date,Open,High,Low,Close daily series and returns the
// close of each day at 00:00:00Z in currency. Rows without a date or a
// numeric close are skipped.
func SpotOHLC(r io.Reader, currency string) ([]models.SpotPoint, error) {
	rows, err := Rows(r)
	if err != nil {
		return nil, err
	}
	var out []models.SpotPoint
	for _, row := range rows {
		day, err := repository.ParseDay(row["date"])
		if err != nil {
			continue
		}
		price, err := Number(stripSpace(row["close"]))
		if err != nil || price <= 0 {
			continue
		}
		out = append(out, models.NewSpotPoint(day, currency, price, "csv"))
	}
	repository.SortByTime(out)
	return out, nil
}

// SpotSample reads ts_utc,currency,price_per_oz rows.
func SpotSample(r io.Reader) ([]models.SpotPoint, error) {
	rows, err := Rows(r)
	if err != nil {
		return nil, err
	}
	var out []models.SpotPoint
	for _, row := range rows {
		ts, err := Timestamp(row["ts_utc"])
		if err != nil {
			continue
		}
		price, err := Number(row["price_per_oz"])
		if err != nil || price <= 0 {
			continue
		}
		out = append(out, models.NewSpotPoint(ts, strings.ToUpper(row["currency"]), price, "sample"))
	}
	repository.SortByTime(out)
	return out, nil
}

// Observations reads ts_utc,coin_id,vendor,price,currency,src_url,condition
// rows. A non-empty vendor replaces the vendor column; currency defaults to
// defaultCurrency when the column is blank.
func Observations(r io.Reader, vendor, defaultCurrency string) ([]models.Observation, error) {
	rows, err := Rows(r)
	if err != nil {
		return nil, err
	}
	var out []models.Observation
	for _, row := range rows {
		ts, err := Timestamp(row["ts_utc"])
		if err != nil {
			continue
		}
		price, err := Number(row["price"])
		if err != nil {
			continue
		}
		o := models.Observation{
			Timestamp: ts,
			CoinID:    row["coin_id"],
			Vendor:    row["vendor"],
			Price:     price,
			Currency:  strings.ToUpper(row["currency"]),
			SrcURL:    row["src_url"],
			Condition: row["condition"],
		}
		if vendor != "" {
			o.Vendor = vendor
		}
		if o.Currency == "" {
			o.Currency = defaultCurrency
		}
		out = append(out, o)
	}
	return out, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp parses an ISO-8601 instant; values without a zone are UTC.
func Timestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
