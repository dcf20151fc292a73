package planner

import (
	"testing"

	"menu-bot/internal/family"
	"menu-bot/internal/rating"
	"menu-bot/internal/recipe"
	"menu-bot/internal/seasonal"
)

func TestRankRecipesExcludesRecentlyUsed(t *testing.T) {
	recipes := []recipe.Recipe{
		{ID: "a", Name: "Tacos"},
		{ID: "b", Name: "Stir Fry"},
	}
	recentlyUsed := map[string]bool{"a": true}

	ranked := RankRecipes(recipes, nil, recentlyUsed, seasonal.Context{}, family.Preferences{})
	if len(ranked) != 1 {
		t.Fatalf("got %d ranked recipes, want 1", len(ranked))
	}
	if ranked[0].Recipe.ID != "b" {
		t.Errorf("ranked[0] = %s, want b", ranked[0].Recipe.ID)
	}
}

func TestRankRecipesScoring(t *testing.T) {
	recipes := []recipe.Recipe{
		{ID: "plain", Name: "Plain"},
		{ID: "kid", Name: "Kid Favorite", KidFriendlyScore: 1.0},
		{ID: "rated", Name: "Well Rated"},
	}
	scores := map[string]rating.Score{
		"rated": {Weighted: 5.0, TotalRatings: 3},
	}

	ranked := RankRecipes(recipes, scores, nil, seasonal.Context{}, family.Preferences{})

	byID := make(map[string]float64)
	for _, sr := range ranked {
		byID[sr.Recipe.ID] = sr.Score
	}

	// Unrated recipes start from the neutral base of 3.0.
	if byID["plain"] != 3.0 {
		t.Errorf("plain score = %v, want 3.0", byID["plain"])
	}
	// Kid-friendly adds score * 1.5 on top of the base.
	if byID["kid"] != 4.5 {
		t.Errorf("kid score = %v, want 4.5", byID["kid"])
	}
	if byID["rated"] != 5.0 {
		t.Errorf("rated score = %v, want 5.0", byID["rated"])
	}

	if ranked[0].Recipe.ID != "rated" {
		t.Errorf("top recipe = %s, want rated", ranked[0].Recipe.ID)
	}
}

func TestRankRecipesSeasonalBonusCapped(t *testing.T) {
	sctx := seasonal.Context{
		PeakProduceNames: []string{"tomato", "zucchini", "corn", "squash", "apple"},
	}
	recipes := []recipe.Recipe{
		{ID: "seasonal", Name: "Garden Bake",
			SeasonalIngredients: []string{"tomato", "zucchini", "corn", "squash", "apple"}},
	}

	ranked := RankRecipes(recipes, nil, nil, sctx, family.Preferences{})
	// Five matches at 0.3 apiece would be 1.5; the bonus caps at 1.0.
	if got := ranked[0].Score; got != 4.0 {
		t.Errorf("score = %v, want 4.0 (base 3.0 + capped seasonal 1.0)", got)
	}
}

func TestRankRecipesPreferredBonus(t *testing.T) {
	recipes := []recipe.Recipe{
		{ID: "fav", Name: "Family Favorite"},
		{ID: "other", Name: "Other"},
	}
	prefs := family.Preferences{PreferredMealIDs: []string{"fav"}}

	ranked := RankRecipes(recipes, nil, nil, seasonal.Context{}, prefs)
	if ranked[0].Recipe.ID != "fav" {
		t.Errorf("top recipe = %s, want fav", ranked[0].Recipe.ID)
	}
	if ranked[0].Score-ranked[1].Score != 1.0 {
		t.Errorf("preferred bonus = %v, want 1.0", ranked[0].Score-ranked[1].Score)
	}
}
