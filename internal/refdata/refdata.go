// Package refdata loads the coin catalogue and the bundled sample series.
// Files present in the data directory override the embedded copies.
package refdata

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/kjannette/bullion-premium/internal/models"
	"github.com/kjannette/bullion-premium/internal/parse"
)

//go:embed data/*
var embedded embed.FS

const (
	CoinsFile      = "coins.json"
	SpotSampleFile = "spot.sample.csv"
	CoinPricesFile = "coin_prices.sample.csv"
	QueriesFile    = "coin_queries.json"
)

// Catalog is the immutable reference data of one process.
type Catalog struct {
	Coins        []models.CoinSpec
	SpotSample   []models.SpotPoint
	Observations []models.Observation
	Queries      map[string]map[string][]string

	byID map[string]models.CoinSpec
}

// Load reads the catalogue from dir, falling back to the embedded files.
// defaultCurrency fills observations without a currency column.
func Load(dir, defaultCurrency string) (*Catalog, error) {
	c := &Catalog{}

	b, err := read(dir, CoinsFile)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &c.Coins); err != nil {
		return nil, fmt.Errorf("decode %s: %w", CoinsFile, err)
	}
	c.byID = make(map[string]models.CoinSpec, len(c.Coins))
	for i, coin := range c.Coins {
		if coin.ID == "" || coin.FineWeightG <= 0 {
			return nil, fmt.Errorf("%s: coin %d: id and positive fine_weight_g required", CoinsFile, i)
		}
		if coin.Metal == "" {
			c.Coins[i].Metal = "XAU"
		}
		c.byID[coin.ID] = c.Coins[i]
	}

	if b, err = read(dir, SpotSampleFile); err != nil {
		return nil, err
	}
	if c.SpotSample, err = parse.SpotSample(bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("%s: %w", SpotSampleFile, err)
	}

	if b, err = read(dir, CoinPricesFile); err != nil {
		return nil, err
	}
	if c.Observations, err = parse.Observations(bytes.NewReader(b), "", defaultCurrency); err != nil {
		return nil, fmt.Errorf("%s: %w", CoinPricesFile, err)
	}
	sort.SliceStable(c.Observations, func(i, j int) bool {
		return c.Observations[i].Timestamp.Before(c.Observations[j].Timestamp)
	})

	if b, err = read(dir, QueriesFile); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &c.Queries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", QueriesFile, err)
	}

	return c, nil
}

// Coin looks up a coin by id.
func (c *Catalog) Coin(id string) (models.CoinSpec, bool) {
	coin, ok := c.byID[id]
	return coin, ok
}

func read(dir, name string) ([]byte, error) {
	if dir != "" {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	b, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s: %w", name, err)
	}
	return b, nil
}
