package grocery

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"menu-bot/internal/planner"
	"menu-bot/internal/recipe"
)

// ErrEmptyPlan is returned when a grocery list is requested for a meal
// plan with no meals.
var ErrEmptyPlan = errors.New("the meal plan has no meals to shop for")

// RecipeResolver resolves meal plan recipe references to full recipes.
// IDs that no longer exist are skipped, not errors.
type RecipeResolver interface {
	GetByIDs(ctx context.Context, ids []string) ([]recipe.Recipe, error)
}

// Optimizer turns a meal plan into a store-routed grocery list.
type Optimizer struct {
	cfg  *Config
	norm *Normalizer
	log  *zap.Logger
}

// NewOptimizer creates an Optimizer over a validated routing table.
func NewOptimizer(cfg *Config, log *zap.Logger) *Optimizer {
	return &Optimizer{
		cfg:  cfg,
		norm: NewNormalizer(cfg, log),
		log:  log,
	}
}

// Normalizer exposes the optimizer's ingredient normalizer.
func (o *Optimizer) Normalizer() *Normalizer {
	return o.norm
}

// itemKey is the aggregation key: normalized name and unit.
type itemKey struct {
	Name string
	Unit string
}

// itemTotal is the running state for one aggregation key. The
// accumulator is owned by a single GenerateGroceryList call and is
// discarded before the immutable items are returned.
type itemTotal struct {
	Quantity float64
	Sources  []string
	Category recipe.Category
}

type accumulator map[itemKey]*itemTotal

func (a accumulator) add(key itemKey, ing recipe.Ingredient, recipeName string, category recipe.Category) {
	entry, ok := a[key]
	if !ok {
		entry = &itemTotal{Category: recipe.CategoryGeneral}
		a[key] = entry
	}
	entry.Quantity += ing.Quantity
	if !containsString(entry.Sources, recipeName) {
		entry.Sources = append(entry.Sources, recipeName)
	}
	// Last writer wins when recipes disagree on a category. Accepted
	// policy, not a bug.
	entry.Category = category
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GenerateGroceryList aggregates every ingredient of every recipe in
// the plan into consolidated, store-routed items. The resulting list is
// always pending approval: grocery lists require parent sign-off before
// shopping.
func (o *Optimizer) GenerateGroceryList(ctx context.Context, plan *planner.MealPlan, resolver RecipeResolver) (*List, error) {
	if len(plan.Meals) == 0 {
		return nil, ErrEmptyPlan
	}

	ids := make([]string, 0, len(plan.Meals))
	seen := make(map[string]bool)
	for _, meal := range plan.Meals {
		if !seen[meal.RecipeID] {
			seen[meal.RecipeID] = true
			ids = append(ids, meal.RecipeID)
		}
	}

	recipes, err := resolver.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan recipes: %w", err)
	}
	if len(recipes) < len(ids) {
		o.log.Warn("some plan recipes could not be resolved",
			zap.Int("referenced", len(ids)),
			zap.Int("resolved", len(recipes)),
		)
	}

	totals := o.aggregate(recipes)

	items := make([]Item, 0, len(totals))
	for key, total := range totals {
		items = append(items, Item{
			Name:          key.Name,
			Quantity:      total.Quantity,
			Unit:          key.Unit,
			Store:         o.AssignStore(total.Category, total.Quantity),
			Category:      total.Category,
			RecipeSources: total.Sources,
			Checked:       false,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		ri, rj := o.cfg.StoreRank(items[i].Store), o.cfg.StoreRank(items[j].Store)
		if ri != rj {
			return ri < rj
		}
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})

	return &List{
		MealPlanID: plan.ID,
		WeekStart:  plan.WeekStart,
		Items:      items,
		Status:     StatusPendingApproval,
	}, nil
}

func (o *Optimizer) aggregate(recipes []recipe.Recipe) accumulator {
	totals := make(accumulator)
	for _, rec := range recipes {
		for _, ing := range rec.Ingredients {
			key := itemKey{
				Name: o.norm.NormalizeName(ing.Name),
				Unit: o.norm.NormalizeUnit(ing.Unit),
			}

			category := ing.Category
			if category == "" || category == recipe.CategoryGeneral {
				category = o.norm.InferCategory(key.Name)
			}

			if existing, ok := totals[key]; ok {
				o.log.Debug("merging ingredient across recipes",
					zap.String("name", key.Name),
					zap.String("unit", key.Unit),
					zap.Strings("sources", existing.Sources),
					zap.String("recipe", rec.Name),
				)
			}
			totals.add(key, ing, rec.Name, category)
		}
	}
	return totals
}

// AssignStore routes a category/quantity pair to a store. Precedence:
// bulk-quantity thresholds, then the category's preferred store, then
// the first store whose priority categories include the category, then
// the default store. Bulk-buy economics deliberately override general
// category preference.
func (o *Optimizer) AssignStore(category recipe.Category, quantity float64) string {
	rule := o.cfg.Categories[string(category)]
	t := o.cfg.thresholds()

	switch category {
	case recipe.CategoryMeat:
		if quantity >= t.MeatLbs {
			return o.cfg.BulkStore
		}
	case recipe.CategoryCheese:
		if quantity >= t.CheeseLbs {
			return o.cfg.BulkStore
		}
	case recipe.CategoryPantry:
		if quantity >= t.PantryItems {
			if rule.BulkStore != "" {
				return rule.BulkStore
			}
			return o.cfg.BulkStore
		}
	}

	if rule.PreferredStore != "" {
		return rule.PreferredStore
	}

	for _, store := range o.cfg.Stores {
		for _, cat := range store.PriorityCategories {
			if cat == string(category) {
				return store.ID
			}
		}
	}

	return o.cfg.DefaultStore
}
