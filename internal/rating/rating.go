// Package rating stores meal ratings and aggregates them into the
// weighted scores consumed by recipe ranking. Ratings are immutable:
// corrections are additive new ratings, never updates.
package rating

import (
	"time"

	"menu-bot/internal/family"
)

// kidWeight is how much more a kid's rating counts than an adult's.
// Keeping picky eaters happy outranks generic nutrition scoring.
const kidWeight = 1.5

// Rating is one family member's verdict on a cooked meal.
type Rating struct {
	ID          string             `json:"id,omitempty"`
	RecipeID    string             `json:"recipe_id"`
	UserID      string             `json:"user_id"`
	UserName    string             `json:"user_name,omitempty"`
	UserClass   family.MemberClass `json:"user_class"`
	Score       int                `json:"score"` // 1-5 for adults, emoji-mapped for kids
	WouldRepeat *bool              `json:"would_repeat,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	MealPlanID  string             `json:"meal_plan_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at,omitempty"`
}

// Score is the aggregated rating signal for one recipe.
type Score struct {
	Weighted     float64
	TotalRatings int
}

// Averages breaks a recipe's ratings down by rater class.
type Averages struct {
	AdultAvg       float64
	KidAvg         float64
	AdultCount     int
	KidCount       int
	WouldRepeatPct float64
}

// WeightedScore aggregates a recipe's ratings with kid ratings weighted
// above adult ones. With zero ratings the score extrapolates from the
// recipe's kid-friendly score instead of averaging.
func WeightedScore(ratings []Rating, kidFriendlyScore float64) Score {
	if len(ratings) == 0 {
		return Score{Weighted: kidFriendlyScore * 3, TotalRatings: 0}
	}

	var weightedSum, weightTotal float64
	for _, r := range ratings {
		weight := 1.0
		if r.UserClass == family.ClassKid {
			weight = kidWeight
		}
		weightedSum += float64(r.Score) * weight
		weightTotal += weight
	}

	weighted := 3.0
	if weightTotal > 0 {
		weighted = weightedSum / weightTotal
	}
	return Score{Weighted: weighted, TotalRatings: len(ratings)}
}

// Average computes per-class averages and the would-repeat share.
func Average(ratings []Rating) Averages {
	var avg Averages
	var adultSum, kidSum, repeatCount int

	for _, r := range ratings {
		switch r.UserClass {
		case family.ClassKid:
			kidSum += r.Score
			avg.KidCount++
		default:
			adultSum += r.Score
			avg.AdultCount++
		}
		if r.WouldRepeat != nil && *r.WouldRepeat {
			repeatCount++
		}
	}

	if avg.AdultCount > 0 {
		avg.AdultAvg = float64(adultSum) / float64(avg.AdultCount)
	}
	if avg.KidCount > 0 {
		avg.KidAvg = float64(kidSum) / float64(avg.KidCount)
	}
	if len(ratings) > 0 {
		avg.WouldRepeatPct = float64(repeatCount) / float64(len(ratings))
	}
	return avg
}
