package grocery

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"menu-bot/internal/planner"
	"menu-bot/internal/recipe"
)

type mockResolver struct {
	recipes []recipe.Recipe
}

func (m *mockResolver) GetByIDs(_ context.Context, ids []string) ([]recipe.Recipe, error) {
	var out []recipe.Recipe
	for _, id := range ids {
		for _, r := range m.recipes {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func testPlan(recipeIDs ...string) *planner.MealPlan {
	plan := &planner.MealPlan{ID: "plan-1", WeekStart: "2026-09-07"}
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	for i, id := range recipeIDs {
		plan.Meals = append(plan.Meals, planner.MealPlanEntry{
			Date:       "2026-09-07",
			DayOfWeek:  days[i%len(days)],
			RecipeID:   id,
			RecipeName: "Recipe " + id,
		})
	}
	return plan
}

func TestGenerateGroceryListAggregates(t *testing.T) {
	o := NewOptimizer(testConfig(), zap.NewNop())

	resolver := &mockResolver{recipes: []recipe.Recipe{
		{
			ID: "r1", Name: "Tacos",
			Ingredients: []recipe.Ingredient{
				{Name: "Ground Beef", Quantity: 1, Unit: "lb"},
				{Name: "diced onions", Quantity: 1, Unit: ""},
			},
		},
		{
			ID: "r2", Name: "Spaghetti",
			Ingredients: []recipe.Ingredient{
				{Name: "ground beef", Quantity: 1.5, Unit: "pounds"},
				{Name: "onions", Quantity: 2, Unit: ""},
			},
		},
	}}

	list, err := o.GenerateGroceryList(context.Background(), testPlan("r1", "r2"), resolver)
	if err != nil {
		t.Fatalf("GenerateGroceryList failed: %v", err)
	}

	var beef, onion *Item
	for i := range list.Items {
		switch list.Items[i].Name {
		case "ground beef":
			beef = &list.Items[i]
		case "onion":
			onion = &list.Items[i]
		}
	}

	if beef == nil {
		t.Fatal("expected a consolidated 'ground beef' item")
	}
	if beef.Quantity != 2.5 || beef.Unit != "lb" {
		t.Errorf("ground beef = %v %s, want 2.5 lb", beef.Quantity, beef.Unit)
	}
	if beef.Store != "costco" {
		t.Errorf("2.5 lb of meat routed to %s, want costco", beef.Store)
	}
	if len(beef.RecipeSources) != 2 {
		t.Errorf("ground beef sources = %v, want both recipes", beef.RecipeSources)
	}

	if onion == nil {
		t.Fatal("expected a consolidated 'onion' item")
	}
	if onion.Quantity != 3 || onion.Unit != "each" {
		t.Errorf("onion = %v %s, want 3 each", onion.Quantity, onion.Unit)
	}

	if list.Status != StatusPendingApproval {
		t.Errorf("list status = %s, want %s", list.Status, StatusPendingApproval)
	}
}

func TestGenerateGroceryListUniqueItems(t *testing.T) {
	o := NewOptimizer(testConfig(), zap.NewNop())

	resolver := &mockResolver{recipes: []recipe.Recipe{
		{ID: "r1", Name: "A", Ingredients: []recipe.Ingredient{
			{Name: "garlic cloves", Quantity: 2, Unit: "cloves"},
			{Name: "rice", Quantity: 1, Unit: "cup"},
		}},
		{ID: "r2", Name: "B", Ingredients: []recipe.Ingredient{
			{Name: "fresh garlic", Quantity: 3, Unit: "cloves"},
			{Name: "rice", Quantity: 2, Unit: "cups"},
		}},
	}}

	list, err := o.GenerateGroceryList(context.Background(), testPlan("r1", "r2"), resolver)
	if err != nil {
		t.Fatalf("GenerateGroceryList failed: %v", err)
	}

	seen := make(map[itemKey]bool)
	for _, item := range list.Items {
		key := itemKey{Name: item.Name, Unit: item.Unit}
		if seen[key] {
			t.Errorf("duplicate item %v in list", key)
		}
		seen[key] = true
	}
	if len(list.Items) != 2 {
		t.Errorf("got %d items, want 2 (garlic, rice)", len(list.Items))
	}
}

func TestGenerateGroceryListEmptyPlan(t *testing.T) {
	o := NewOptimizer(testConfig(), zap.NewNop())

	_, err := o.GenerateGroceryList(context.Background(), &planner.MealPlan{ID: "p"}, &mockResolver{})
	if !errors.Is(err, ErrEmptyPlan) {
		t.Fatalf("err = %v, want ErrEmptyPlan", err)
	}
}

func TestAssignStore(t *testing.T) {
	o := NewOptimizer(testConfig(), zap.NewNop())

	cases := []struct {
		category recipe.Category
		quantity float64
		want     string
	}{
		{recipe.CategoryMeat, 1.5, "meijer"},  // small quantity falls through to default
		{recipe.CategoryMeat, 3.0, "costco"},  // over the bulk threshold
		{recipe.CategoryMeat, 2.0, "costco"},  // threshold is inclusive
		{recipe.CategoryCheese, 0.5, "trader_joes"},
		{recipe.CategoryCheese, 1.5, "costco"},
		{recipe.CategoryPantry, 2, "meijer"},
		{recipe.CategoryPantry, 4, "costco"},
		{recipe.CategoryProduce, 10, "trader_joes"}, // no bulk rule for produce
		{recipe.CategoryGeneral, 1, "meijer"},       // unknown category, default store
	}
	for _, c := range cases {
		if got := o.AssignStore(c.category, c.quantity); got != c.want {
			t.Errorf("AssignStore(%s, %v) = %s, want %s", c.category, c.quantity, got, c.want)
		}
	}
}

func TestItemsSortedByStoreOrder(t *testing.T) {
	o := NewOptimizer(testConfig(), zap.NewNop())

	resolver := &mockResolver{recipes: []recipe.Recipe{
		{ID: "r1", Name: "Dinner", Ingredients: []recipe.Ingredient{
			{Name: "milk", Quantity: 1, Unit: "cup"},
			{Name: "tomatoes", Quantity: 3, Unit: ""},
			{Name: "chicken", Quantity: 3, Unit: "lbs"},
		}},
	}}

	list, err := o.GenerateGroceryList(context.Background(), testPlan("r1"), resolver)
	if err != nil {
		t.Fatalf("GenerateGroceryList failed: %v", err)
	}

	lastRank := -1
	for _, item := range list.Items {
		rank := o.cfg.StoreRank(item.Store)
		if rank < lastRank {
			t.Fatalf("items out of store order: %v", list.Items)
		}
		lastRank = rank
	}
}
