// Package seasonal answers "what is in season right now" from a static
// regional configuration table. It is a pure lookup layer: all data
// comes from the YAML table loaded once at startup.
package seasonal

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// seasonOrder fixes the traversal order for month lookups. Overlapping
// month claims resolve to the first season in this order.
var seasonOrder = []string{"spring", "summer", "fall", "winter"}

// ProduceItem is a produce entry with its own active months. An item may
// appear under more than one season (apples in late summer and fall).
type ProduceItem struct {
	Name   string `mapstructure:"name"`
	Months []int  `mapstructure:"months"`
	Notes  string `mapstructure:"notes"`
}

// SeasonConfig describes one season's month claims and produce catalog.
type SeasonConfig struct {
	Months      []int         `mapstructure:"months"`
	PeakProduce []ProduceItem `mapstructure:"peak_produce"`
	Notes       string        `mapstructure:"notes"`
}

// Config is the full seasonal table.
type Config struct {
	Region          string                  `mapstructure:"region"`
	Timezone        string                  `mapstructure:"timezone"`
	Seasons         map[string]SeasonConfig `mapstructure:"seasons"`
	MealSuggestions map[string][]string     `mapstructure:"seasonal_meal_suggestions"`
}

// Context is the full seasonal picture for a date, consumed by the
// ranker and the presentation layer.
type Context struct {
	Season           string
	Month            string
	PeakProduce      []ProduceItem
	PeakProduceNames []string
	MealSuggestions  []string
	Notes            string
}

// Provider answers seasonal queries from the loaded table.
type Provider struct {
	cfg Config
}

// NewProvider loads and validates the seasonal table. A malformed or
// missing table is an error here, which callers treat as fatal at
// startup rather than a per-call condition.
func NewProvider(configPath string) (*Provider, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read seasonal config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode seasonal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid seasonal config %s: %w", configPath, err)
	}

	return &Provider{cfg: cfg}, nil
}

func validate(cfg Config) error {
	if len(cfg.Seasons) == 0 {
		return fmt.Errorf("no seasons defined")
	}
	claimed := make(map[int]bool)
	for name, season := range cfg.Seasons {
		if len(season.Months) == 0 {
			return fmt.Errorf("season %q claims no months", name)
		}
		for _, m := range season.Months {
			if m < 1 || m > 12 {
				return fmt.Errorf("season %q claims invalid month %d", name, m)
			}
			claimed[m] = true
		}
		for _, item := range season.PeakProduce {
			if item.Name == "" {
				return fmt.Errorf("season %q has a peak produce entry without a name", name)
			}
			for _, m := range item.Months {
				if m < 1 || m > 12 {
					return fmt.Errorf("produce %q has invalid month %d", item.Name, m)
				}
			}
		}
	}
	for m := 1; m <= 12; m++ {
		if !claimed[m] {
			return fmt.Errorf("month %d is claimed by no season", m)
		}
	}
	return nil
}

// CurrentSeason returns the season owning the date's month. With a
// well-formed table every month is claimed; winter is the fallback.
func (p *Provider) CurrentSeason(date time.Time) string {
	month := int(date.Month())
	for _, name := range seasonOrder {
		season, ok := p.cfg.Seasons[name]
		if !ok {
			continue
		}
		for _, m := range season.Months {
			if m == month {
				return name
			}
		}
	}
	return "winter"
}

// PeakProduce returns the season's produce whose own month list includes
// the date's month.
func (p *Provider) PeakProduce(date time.Time) []ProduceItem {
	month := int(date.Month())
	season := p.cfg.Seasons[p.CurrentSeason(date)]

	var peak []ProduceItem
	for _, item := range season.PeakProduce {
		for _, m := range item.Months {
			if m == month {
				peak = append(peak, item)
				break
			}
		}
	}
	return peak
}

// PeakProduceNames returns just the names of produce at peak.
func (p *Provider) PeakProduceNames(date time.Time) []string {
	items := p.PeakProduce(date)
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

// MealSuggestions returns the configured suggestion texts for the
// date's season.
func (p *Provider) MealSuggestions(date time.Time) []string {
	return p.cfg.MealSuggestions[p.CurrentSeason(date)]
}

// SeasonalContext assembles the full seasonal picture for a date.
func (p *Provider) SeasonalContext(date time.Time) Context {
	season := p.CurrentSeason(date)
	peak := p.PeakProduce(date)

	return Context{
		Season:           season,
		Month:            date.Month().String(),
		PeakProduce:      peak,
		PeakProduceNames: namesOf(peak),
		MealSuggestions:  p.cfg.MealSuggestions[season],
		Notes:            p.cfg.Seasons[season].Notes,
	}
}

func namesOf(items []ProduceItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
