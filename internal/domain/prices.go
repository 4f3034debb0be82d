package domain

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCost is charged for court categories missing from the price table.
// It matches the soccer tier.
const DefaultCost int64 = 50

// PriceTable maps a court category, in every spelling callers use, to its cost in credits.
type PriceTable struct {
	Prices  map[string]int64 `yaml:"prices"`
	Default int64            `yaml:"default"`
}

// DefaultPrices is the built-in tariff.
func DefaultPrices() *PriceTable {
	return &PriceTable{
		Prices: map[string]int64{
			"fútbol":     50,
			"futbol":     50,
			"fútbol 5":   50,
			"fútbol 7":   50,
			"tenis":      30,
			"básquet":    40,
			"basquet":    40,
			"basketball": 40,
			"paddle":     35,
			"padel":      35,
		},
		Default: DefaultCost,
	}
}

// Cost returns the price of a category, case- and whitespace-insensitive.
func (p *PriceTable) Cost(category string) int64 {
	if c, ok := p.Prices[strings.ToLower(strings.TrimSpace(category))]; ok {
		return c
	}
	return p.Default
}

// LoadPriceTable reads a YAML tariff. Keys are lower-cased; a missing default keeps DefaultCost.
//
//	default: 50
//	prices:
//	  tenis: 30
//	  padel: 35
func LoadPriceTable(path string) (*PriceTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price table: %w", err)
	}
	var raw PriceTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse price table: %w", err)
	}
	if len(raw.Prices) == 0 {
		return nil, fmt.Errorf("price table %s has no prices", path)
	}

	pt := &PriceTable{Prices: make(map[string]int64, len(raw.Prices)), Default: raw.Default}
	for k, v := range raw.Prices {
		if v < 0 {
			return nil, fmt.Errorf("price for %q is negative", k)
		}
		pt.Prices[strings.ToLower(strings.TrimSpace(k))] = v
	}
	if pt.Default <= 0 {
		pt.Default = DefaultCost
	}
	return pt, nil
}
