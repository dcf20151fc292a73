package planner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"menu-bot/internal/family"
	"menu-bot/internal/rating"
	"menu-bot/internal/recipe"
	"menu-bot/internal/seasonal"
)

// ErrNoApprovedRecipes signals that planning has nothing to work with.
// It is a user-actionable condition, not a crash.
var ErrNoApprovedRecipes = errors.New("no approved recipes available for meal planning")

// Candidate pool sizes by day type. Weekends allow more variety,
// Fridays narrow to quick or kid-favorite meals.
const (
	weekendPoolSize = 10
	fridayPoolSize  = 5
	weekdayPoolSize = 7
	fridayTagBonus  = 1.0
)

// RecipeSource is the repository contract consumed by the scheduler.
// The scheduler never talks to a storage technology directly.
type RecipeSource interface {
	GetApprovedRecipes(ctx context.Context) ([]recipe.Recipe, error)
	GetRecipeRatingScores(ctx context.Context) (map[string]rating.Score, error)
	GetRecentlyUsedRecipeIDs(ctx context.Context, days int) (map[string]bool, error)
	GetPreferences(ctx context.Context) (family.Preferences, error)
}

// Scheduler generates and adjusts weekly meal plans.
type Scheduler struct {
	source  RecipeSource
	seasons *seasonal.Provider
	rng     *rand.Rand
	log     *zap.Logger
	now     func() time.Time
}

// NewScheduler creates a Scheduler. The random source is injectable so
// tests can seed it; a nil rng gets a time-seeded one.
func NewScheduler(source RecipeSource, seasons *seasonal.Provider, rng *rand.Rand, log *zap.Logger) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{
		source:  source,
		seasons: seasons,
		rng:     rng,
		log:     log,
		now:     time.Now,
	}
}

// GenerateWeeklyPlan assigns one recipe per calendar day starting at
// weekStart. A zero weekStart defaults to the next Monday strictly
// after today. The returned plan is always pending parent approval.
func (s *Scheduler) GenerateWeeklyPlan(ctx context.Context, weekStart time.Time, numDays int) (*MealPlan, error) {
	if numDays <= 0 {
		numDays = 7
	}
	if weekStart.IsZero() {
		weekStart = nextMonday(s.now())
	}
	weekStart = truncateToDay(weekStart)

	recipes, err := s.source.GetApprovedRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil, ErrNoApprovedRecipes
	}

	prefs, err := s.source.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	recentlyUsed, err := s.source.GetRecentlyUsedRecipeIDs(ctx, prefs.MealRepeatBufferDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load recently used recipes: %w", err)
	}

	scores, err := s.source.GetRecipeRatingScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe scores: %w", err)
	}

	sctx := s.seasons.SeasonalContext(weekStart)
	ranked := RankRecipes(recipes, scores, recentlyUsed, sctx, prefs)

	meals := make([]MealPlanEntry, 0, numDays)
	usedThisWeek := make(map[string]bool)

	for i := 0; i < numDays; i++ {
		mealDate := weekStart.AddDate(0, 0, i)
		dayName := mealDate.Weekday().String()

		selected := s.selectRecipe(ranked, usedThisWeek, dayName)
		if selected == nil {
			// Pool exhausted: the rest of the week gets fewer meals
			// rather than failing the whole plan.
			s.log.Warn("recipe pool exhausted, skipping day",
				zap.String("day", dayName),
				zap.String("date", mealDate.Format(dateLayout)),
			)
			continue
		}

		usedThisWeek[selected.ID] = true
		meals = append(meals, MealPlanEntry{
			Date:       mealDate.Format(dateLayout),
			DayOfWeek:  dayName,
			RecipeID:   selected.ID,
			RecipeName: selected.Name,
		})
	}

	return &MealPlan{
		WeekStart: weekStart.Format(dateLayout),
		Meals:     meals,
		Status:    StatusPendingApproval,
	}, nil
}

// RegenerateMeal replaces a single day's meal in place. The recipe
// currently holding the day stays eligible for re-selection; every
// other recipe in the plan, and anything recently used, is excluded.
// An unknown day or an empty candidate pool leaves the plan unchanged.
func (s *Scheduler) RegenerateMeal(ctx context.Context, plan *MealPlan, dayToReplace string) (*MealPlan, error) {
	recipes, err := s.source.GetApprovedRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved recipes: %w", err)
	}

	prefs, err := s.source.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	recentlyUsed, err := s.source.GetRecentlyUsedRecipeIDs(ctx, prefs.MealRepeatBufferDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load recently used recipes: %w", err)
	}

	scores, err := s.source.GetRecipeRatingScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe scores: %w", err)
	}

	usedInPlan := make(map[string]bool, len(plan.Meals))
	for _, m := range plan.Meals {
		usedInPlan[m.RecipeID] = true
	}

	excluded := make(map[string]bool, len(usedInPlan)+len(recentlyUsed))
	for id := range usedInPlan {
		excluded[id] = true
	}
	for id := range recentlyUsed {
		excluded[id] = true
	}

	mealIndex := -1
	var mealDate time.Time
	for i, m := range plan.Meals {
		if m.DayOfWeek == dayToReplace {
			mealIndex = i
			parsed, err := time.Parse(dateLayout, m.Date)
			if err != nil {
				return nil, fmt.Errorf("plan entry for %s has invalid date %q: %w", dayToReplace, m.Date, err)
			}
			mealDate = parsed
			// The incumbent stays eligible, though unlikely to win.
			delete(excluded, m.RecipeID)
			break
		}
	}
	if mealIndex == -1 {
		s.log.Info("regenerate target day not in plan, leaving plan unchanged",
			zap.String("day", dayToReplace))
		return plan, nil
	}

	sctx := s.seasons.SeasonalContext(mealDate)
	ranked := RankRecipes(recipes, scores, excluded, sctx, prefs)

	selected := s.selectRecipe(ranked, usedInPlan, dayToReplace)
	if selected == nil {
		return plan, nil
	}

	plan.Meals[mealIndex] = MealPlanEntry{
		Date:       plan.Meals[mealIndex].Date,
		DayOfWeek:  dayToReplace,
		RecipeID:   selected.ID,
		RecipeName: selected.Name,
	}
	return plan, nil
}

// selectRecipe picks one recipe for a day from the ranked list,
// excluding anything already used this week, by weighted random draw
// over the day type's candidate pool.
func (s *Scheduler) selectRecipe(ranked []ScoredRecipe, usedThisWeek map[string]bool, dayName string) *recipe.Recipe {
	available := make([]ScoredRecipe, 0, len(ranked))
	for _, sr := range ranked {
		if !usedThisWeek[sr.Recipe.ID] {
			available = append(available, sr)
		}
	}
	if len(available) == 0 {
		return nil
	}

	var topN int
	switch dayName {
	case "Saturday", "Sunday":
		topN = weekendPoolSize
	case "Friday":
		// Friday is the easy night: quick and kid-favorite recipes get
		// a bonus and, when any exist, own the pool outright.
		var quick []ScoredRecipe
		for _, sr := range available {
			if sr.Recipe.HasTag("quick") || sr.Recipe.HasTag("kid-friendly") {
				quick = append(quick, ScoredRecipe{Recipe: sr.Recipe, Score: sr.Score + fridayTagBonus})
			}
		}
		if len(quick) > 0 {
			available = quick
		}
		topN = fridayPoolSize
	default:
		topN = weekdayPoolSize
	}
	if topN > len(available) {
		topN = len(available)
	}
	candidates := available[:topN]

	if len(candidates) == 1 {
		return &candidates[0].Recipe
	}

	var totalScore float64
	for _, c := range candidates {
		totalScore += c.Score
	}
	if totalScore <= 0 {
		return &candidates[s.rng.Intn(len(candidates))].Recipe
	}

	r := s.rng.Float64() * totalScore
	cumulative := 0.0
	for i := range candidates {
		cumulative += candidates[i].Score
		if r <= cumulative {
			return &candidates[i].Recipe
		}
	}
	return &candidates[len(candidates)-1].Recipe
}

// nextMonday returns the Monday strictly after t. A Monday today skips
// to the following Monday, never the same day.
func nextMonday(t time.Time) time.Time {
	daysUntil := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if daysUntil == 0 {
		daysUntil = 7
	}
	return truncateToDay(t.AddDate(0, 0, daysUntil))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
