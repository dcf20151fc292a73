package planner

import (
	"sort"
	"strings"

	"menu-bot/internal/family"
	"menu-bot/internal/rating"
	"menu-bot/internal/recipe"
	"menu-bot/internal/seasonal"
)

// Ranking weights. Kids' preferences deliberately dominate adult
// ratings and health; the product exists to keep picky eaters happy.
const (
	neutralBaseScore   = 3.0
	kidBonusWeight     = 1.5
	healthBonusWeight  = 0.5
	seasonalPerMatch   = 0.3
	seasonalBonusCap   = 1.0
	preferredMealBonus = 1.0
)

// ScoredRecipe pairs a recipe with its composite ranking score.
type ScoredRecipe struct {
	Recipe recipe.Recipe
	Score  float64
}

// RankRecipes scores every eligible recipe and returns them sorted by
// score descending. Recipes whose id appears in recentlyUsed are
// excluded entirely, not down-weighted.
func RankRecipes(
	recipes []recipe.Recipe,
	scores map[string]rating.Score,
	recentlyUsed map[string]bool,
	sctx seasonal.Context,
	prefs family.Preferences,
) []ScoredRecipe {
	peak := make(map[string]bool, len(sctx.PeakProduceNames))
	for _, name := range sctx.PeakProduceNames {
		peak[strings.ToLower(name)] = true
	}

	ranked := make([]ScoredRecipe, 0, len(recipes))
	for _, rec := range recipes {
		if recentlyUsed[rec.ID] {
			continue
		}

		baseScore := neutralBaseScore
		if s, ok := scores[rec.ID]; ok {
			baseScore = s.Weighted
		}

		kidBonus := rec.KidFriendlyScore * kidBonusWeight
		healthBonus := rec.HealthScore * healthBonusWeight

		seasonalBonus := 0.0
		for _, ing := range rec.SeasonalIngredients {
			if matchesPeak(ing, peak) {
				seasonalBonus += seasonalPerMatch
			}
		}
		if seasonalBonus > seasonalBonusCap {
			seasonalBonus = seasonalBonusCap
		}

		preferredBonus := 0.0
		if prefs.IsPreferred(rec.ID) {
			preferredBonus = preferredMealBonus
		}

		ranked = append(ranked, ScoredRecipe{
			Recipe: rec,
			Score:  baseScore + kidBonus + healthBonus + seasonalBonus + preferredBonus,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// matchesPeak checks a seasonal ingredient against the current peak
// produce, case-insensitive, allowing substring matches either way.
func matchesPeak(ingredient string, peak map[string]bool) bool {
	lower := strings.ToLower(ingredient)
	if peak[lower] {
		return true
	}
	for name := range peak {
		if strings.Contains(lower, name) || strings.Contains(name, lower) {
			return true
		}
	}
	return false
}
