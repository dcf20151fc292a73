package grocery

import (
	"fmt"

	"github.com/spf13/viper"

	"menu-bot/internal/recipe"
)

// BulkThresholds are the quantity cutoffs above which a category is
// cheaper to buy at the bulk store.
type BulkThresholds struct {
	MeatLbs     float64 `mapstructure:"meat_lbs"`
	CheeseLbs   float64 `mapstructure:"cheese_lbs"`
	PantryItems float64 `mapstructure:"pantry_items"`
}

// Store describes one retailer. Declaration order in the config file is
// the preferred traversal order for routing and display.
type Store struct {
	ID                 string          `mapstructure:"id"`
	Name               string          `mapstructure:"name"`
	PriorityCategories []string        `mapstructure:"priority_categories"`
	BulkThresholds     *BulkThresholds `mapstructure:"bulk_thresholds"`
}

// CategoryRule configures routing for one ingredient category.
type CategoryRule struct {
	Items          []string `mapstructure:"items"`
	PreferredStore string   `mapstructure:"preferred_store"`
	BulkStore      string   `mapstructure:"bulk_store"`
}

// Config is the full store/category routing table.
type Config struct {
	DefaultStore string                  `mapstructure:"default_store"`
	BulkStore    string                  `mapstructure:"bulk_store"`
	Stores       []Store                 `mapstructure:"stores"`
	Categories   map[string]CategoryRule `mapstructure:"ingredient_categories"`
}

// categoryOrder fixes a deterministic traversal order for category
// keyword scans, since the YAML mapping carries no order of its own.
var categoryOrder = []recipe.Category{
	recipe.CategoryProduce,
	recipe.CategoryFreshHerbs,
	recipe.CategoryMeat,
	recipe.CategorySeafood,
	recipe.CategoryDairy,
	recipe.CategoryCheese,
	recipe.CategorySpices,
	recipe.CategoryBread,
	recipe.CategorySpecialty,
	recipe.CategoryPantry,
}

// LoadConfig loads and validates the store routing table. Any defect in
// the table is an error here; callers treat it as fatal at startup so a
// malformed entry can never silently default mid-computation.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read stores config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode stores config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid stores config %s: %w", configPath, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Stores) == 0 {
		return fmt.Errorf("no stores defined")
	}
	seen := make(map[string]bool)
	for i, s := range c.Stores {
		if s.ID == "" {
			return fmt.Errorf("store %d has no id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate store id %q", s.ID)
		}
		seen[s.ID] = true
	}
	for name, rule := range c.Categories {
		if rule.PreferredStore != "" && !seen[rule.PreferredStore] {
			return fmt.Errorf("category %q prefers unknown store %q", name, rule.PreferredStore)
		}
		if rule.BulkStore != "" && !seen[rule.BulkStore] {
			return fmt.Errorf("category %q bulk store %q is unknown", name, rule.BulkStore)
		}
	}
	if c.DefaultStore != "" && !seen[c.DefaultStore] {
		return fmt.Errorf("default store %q is unknown", c.DefaultStore)
	}
	if c.BulkStore != "" && !seen[c.BulkStore] {
		return fmt.Errorf("bulk store %q is unknown", c.BulkStore)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DefaultStore == "" {
		c.DefaultStore = "meijer"
	}
	if c.BulkStore == "" {
		c.BulkStore = "costco"
	}
}

// thresholds returns the bulk store's thresholds with the documented
// defaults filled in.
func (c *Config) thresholds() BulkThresholds {
	t := BulkThresholds{MeatLbs: 2.0, CheeseLbs: 1.0, PantryItems: 3}
	for _, s := range c.Stores {
		if s.ID == c.BulkStore && s.BulkThresholds != nil {
			if s.BulkThresholds.MeatLbs > 0 {
				t.MeatLbs = s.BulkThresholds.MeatLbs
			}
			if s.BulkThresholds.CheeseLbs > 0 {
				t.CheeseLbs = s.BulkThresholds.CheeseLbs
			}
			if s.BulkThresholds.PantryItems > 0 {
				t.PantryItems = s.BulkThresholds.PantryItems
			}
		}
	}
	return t
}

// StoreRank is the store's position in the preferred traversal order.
// Unlisted stores sort last.
func (c *Config) StoreRank(storeID string) int {
	for i, s := range c.Stores {
		if s.ID == storeID {
			return i
		}
	}
	return len(c.Stores) + 1
}

// StoreName returns the display name for a store id, falling back to the
// id itself.
func (c *Config) StoreName(storeID string) string {
	for _, s := range c.Stores {
		if s.ID == storeID {
			return s.Name
		}
	}
	return storeID
}
