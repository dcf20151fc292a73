package planner

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"menu-bot/internal/family"
	"menu-bot/internal/rating"
	"menu-bot/internal/recipe"
	"menu-bot/internal/seasonal"
)

type mockSource struct {
	recipes []recipe.Recipe
	scores  map[string]rating.Score
	recent  map[string]bool
	prefs   family.Preferences
}

func (m *mockSource) GetApprovedRecipes(_ context.Context) ([]recipe.Recipe, error) {
	return m.recipes, nil
}

func (m *mockSource) GetRecipeRatingScores(_ context.Context) (map[string]rating.Score, error) {
	return m.scores, nil
}

func (m *mockSource) GetRecentlyUsedRecipeIDs(_ context.Context, _ int) (map[string]bool, error) {
	return m.recent, nil
}

func (m *mockSource) GetPreferences(_ context.Context) (family.Preferences, error) {
	return m.prefs, nil
}

const schedulerTestYAML = `
seasons:
  spring:
    months: [3, 4, 5]
  summer:
    months: [6, 7, 8]
    peak_produce:
      - name: tomato
        months: [7, 8]
  fall:
    months: [9, 10, 11]
    peak_produce:
      - name: apple
        months: [9, 10]
  winter:
    months: [12, 1, 2]
`

func testSeasons(t *testing.T) *seasonal.Provider {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seasonal.yaml")
	if err := os.WriteFile(path, []byte(schedulerTestYAML), 0o644); err != nil {
		t.Fatalf("failed to write seasonal config: %v", err)
	}
	p, err := seasonal.NewProvider(path)
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	return p
}

func testRecipes(n int) []recipe.Recipe {
	recipes := make([]recipe.Recipe, 0, n)
	for i := 0; i < n; i++ {
		recipes = append(recipes, recipe.Recipe{
			ID:   fmt.Sprintf("r%d", i),
			Name: fmt.Sprintf("Recipe %d", i),
		})
	}
	return recipes
}

func newTestScheduler(t *testing.T, source RecipeSource) *Scheduler {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	return NewScheduler(source, testSeasons(t), rng, zap.NewNop())
}

func TestGenerateWeeklyPlan(t *testing.T) {
	source := &mockSource{recipes: testRecipes(10)}
	s := newTestScheduler(t, source)

	weekStart := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC) // a Monday
	plan, err := s.GenerateWeeklyPlan(context.Background(), weekStart, 7)
	if err != nil {
		t.Fatalf("GenerateWeeklyPlan failed: %v", err)
	}

	if plan.WeekStart != "2026-09-07" {
		t.Errorf("week start = %s, want 2026-09-07", plan.WeekStart)
	}
	if plan.Status != StatusPendingApproval {
		t.Errorf("status = %s, want %s", plan.Status, StatusPendingApproval)
	}
	if len(plan.Meals) != 7 {
		t.Fatalf("got %d meals, want 7", len(plan.Meals))
	}

	seen := make(map[string]bool)
	for i, meal := range plan.Meals {
		if seen[meal.RecipeID] {
			t.Errorf("recipe %s repeated within the week", meal.RecipeID)
		}
		seen[meal.RecipeID] = true

		wantDate := weekStart.AddDate(0, 0, i)
		if meal.Date != wantDate.Format("2006-01-02") {
			t.Errorf("meal %d date = %s, want %s", i, meal.Date, wantDate.Format("2006-01-02"))
		}
		if meal.DayOfWeek != wantDate.Weekday().String() {
			t.Errorf("meal %d day = %s, want %s", i, meal.DayOfWeek, wantDate.Weekday())
		}
	}
}

func TestGenerateWeeklyPlanNoRecipes(t *testing.T) {
	s := newTestScheduler(t, &mockSource{})

	_, err := s.GenerateWeeklyPlan(context.Background(), time.Time{}, 7)
	if err != ErrNoApprovedRecipes {
		t.Fatalf("err = %v, want ErrNoApprovedRecipes", err)
	}
}

func TestGenerateWeeklyPlanSkipsDaysWhenPoolExhausted(t *testing.T) {
	source := &mockSource{recipes: testRecipes(3)}
	s := newTestScheduler(t, source)

	weekStart := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	plan, err := s.GenerateWeeklyPlan(context.Background(), weekStart, 7)
	if err != nil {
		t.Fatalf("GenerateWeeklyPlan failed: %v", err)
	}
	if len(plan.Meals) != 3 {
		t.Errorf("got %d meals, want 3 (one per available recipe)", len(plan.Meals))
	}
}

func TestGenerateWeeklyPlanExcludesRecentlyUsed(t *testing.T) {
	source := &mockSource{
		recipes: testRecipes(10),
		recent:  map[string]bool{"r0": true, "r1": true},
	}
	s := newTestScheduler(t, source)

	weekStart := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	plan, err := s.GenerateWeeklyPlan(context.Background(), weekStart, 7)
	if err != nil {
		t.Fatalf("GenerateWeeklyPlan failed: %v", err)
	}
	for _, meal := range plan.Meals {
		if meal.RecipeID == "r0" || meal.RecipeID == "r1" {
			t.Errorf("recently used recipe %s selected", meal.RecipeID)
		}
	}
}

func TestFridayPrefersQuickAndKidFriendly(t *testing.T) {
	recipes := testRecipes(9)
	recipes[3].Tags = []string{"quick"}
	recipes[7].Tags = []string{"kid-friendly"}
	s := newTestScheduler(t, &mockSource{recipes: recipes})

	ranked := RankRecipes(recipes, nil, nil, seasonal.Context{}, family.Preferences{})

	// With tagged recipes available, the Friday pool is only them.
	for i := 0; i < 25; i++ {
		selected := s.selectRecipe(ranked, map[string]bool{}, "Friday")
		if selected == nil {
			t.Fatal("selectRecipe returned nil")
		}
		if selected.ID != "r3" && selected.ID != "r7" {
			t.Fatalf("Friday selected %s, want one of the tagged recipes", selected.ID)
		}
	}

	// With both tagged recipes used, Friday falls back to the rest.
	used := map[string]bool{"r3": true, "r7": true}
	if selected := s.selectRecipe(ranked, used, "Friday"); selected == nil {
		t.Fatal("expected a fallback selection")
	}
}

func TestRegenerateMeal(t *testing.T) {
	source := &mockSource{recipes: testRecipes(10)}
	s := newTestScheduler(t, source)

	plan := &MealPlan{
		ID:        "p1",
		WeekStart: "2026-09-07",
		Meals: []MealPlanEntry{
			{Date: "2026-09-07", DayOfWeek: "Monday", RecipeID: "r0", RecipeName: "Recipe 0"},
			{Date: "2026-09-08", DayOfWeek: "Tuesday", RecipeID: "r1", RecipeName: "Recipe 1"},
			{Date: "2026-09-09", DayOfWeek: "Wednesday", RecipeID: "r2", RecipeName: "Recipe 2"},
		},
	}

	updated, err := s.RegenerateMeal(context.Background(), plan, "Tuesday")
	if err != nil {
		t.Fatalf("RegenerateMeal failed: %v", err)
	}

	if updated.Meals[1].RecipeID == "r0" || updated.Meals[1].RecipeID == "r2" {
		t.Errorf("replacement %s collides with another day", updated.Meals[1].RecipeID)
	}
	if updated.Meals[1].Date != "2026-09-08" || updated.Meals[1].DayOfWeek != "Tuesday" {
		t.Errorf("replacement entry moved: %+v", updated.Meals[1])
	}
	if updated.Meals[0].RecipeID != "r0" || updated.Meals[2].RecipeID != "r2" {
		t.Error("other days were modified")
	}
}

func TestRegenerateMealUnknownDay(t *testing.T) {
	source := &mockSource{recipes: testRecipes(5)}
	s := newTestScheduler(t, source)

	plan := &MealPlan{
		Meals: []MealPlanEntry{
			{Date: "2026-09-07", DayOfWeek: "Monday", RecipeID: "r0"},
		},
	}
	updated, err := s.RegenerateMeal(context.Background(), plan, "Sunday")
	if err != nil {
		t.Fatalf("RegenerateMeal failed: %v", err)
	}
	if updated.Meals[0].RecipeID != "r0" {
		t.Error("plan changed for a day it does not contain")
	}
}

func TestNextMonday(t *testing.T) {
	cases := []struct {
		from time.Time
		want string
	}{
		// Wednesday advances to the coming Monday.
		{time.Date(2026, time.September, 2, 15, 0, 0, 0, time.UTC), "2026-09-07"},
		// A Monday skips to the following week, never the same day.
		{time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC), "2026-09-14"},
		// Sunday advances a single day.
		{time.Date(2026, time.September, 6, 23, 0, 0, 0, time.UTC), "2026-09-07"},
	}
	for _, c := range cases {
		if got := nextMonday(c.from).Format("2006-01-02"); got != c.want {
			t.Errorf("nextMonday(%s) = %s, want %s", c.from.Format("2006-01-02"), got, c.want)
		}
	}
}
