package planner

import (
	"fmt"
	"strings"
	"time"

	"menu-bot/internal/recipe"
)

// Summary aggregates the headline numbers for a weekly plan.
type Summary struct {
	TotalMeals     int
	AvgPrepTimeMin float64
	AvgCookTimeMin float64
	KidFriendly    int
	Healthy        int
	QuickMeals     int
}

// Summarize computes plan statistics from the resolved recipes. Meals
// whose recipe is missing from the map still count toward TotalMeals.
func Summarize(plan *MealPlan, recipes map[string]recipe.Recipe) Summary {
	s := Summary{TotalMeals: len(plan.Meals)}

	var prepTotal, cookTotal, resolved int
	for _, meal := range plan.Meals {
		rec, ok := recipes[meal.RecipeID]
		if !ok {
			continue
		}
		resolved++
		prepTotal += rec.PrepTimeMin
		cookTotal += rec.CookTimeMin
		if rec.HasTag("kid-friendly") || rec.KidFriendlyScore >= 0.7 {
			s.KidFriendly++
		}
		if rec.HealthScore >= 0.7 {
			s.Healthy++
		}
		if rec.HasTag("quick") || rec.PrepTimeMin+rec.CookTimeMin <= 30 {
			s.QuickMeals++
		}
	}
	if resolved > 0 {
		s.AvgPrepTimeMin = float64(prepTotal) / float64(resolved)
		s.AvgCookTimeMin = float64(cookTotal) / float64(resolved)
	}
	return s
}

// FormatPlan renders a plan as human-readable text for chat delivery.
func FormatPlan(plan *MealPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meal plan for week of %s\n", plan.WeekStart)
	for _, meal := range plan.Meals {
		day := meal.DayOfWeek
		if day == "" {
			if t, err := time.Parse(dateLayout, meal.Date); err == nil {
				day = t.Weekday().String()
			}
		}
		fmt.Fprintf(&b, "%s (%s): %s\n", day, meal.Date, meal.RecipeName)
	}
	return b.String()
}
