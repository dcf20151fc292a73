package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"menu-bot/internal/family"
	"menu-bot/internal/grocery"
	"menu-bot/internal/planner"
	"menu-bot/internal/rating"
	"menu-bot/internal/recipe"
	"menu-bot/internal/tasks"
)

// NotEnoughRecipesError reports that the approved recipe pool is too
// small to plan a varied week. The message tells the user what to do
// about it.
type NotEnoughRecipesError struct {
	Have   int
	Needed int
}

func (e *NotEnoughRecipesError) Error() string {
	return fmt.Sprintf(
		"only %d approved recipes available, need at least %d; add recipes with /addrecipe and approve them before planning",
		e.Have, e.Needed)
}

// ErrNotParent is returned when a kid attempts a parent-only action.
var ErrNotParent = fmt.Errorf("this action requires a parent account")

func (a *App) requireParent(ctx context.Context, userID string) error {
	isParent, err := a.Family.IsParent(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check parent status: %w", err)
	}
	if !isParent {
		return ErrNotParent
	}
	return nil
}

// GenerateWeeklyPlan plans a week of dinners and stores the result as
// pending approval. A zero weekStart plans the upcoming week.
func (a *App) GenerateWeeklyPlan(ctx context.Context, weekStart time.Time, numDays int) (*planner.MealPlan, error) {
	count, err := a.Recipes.CountApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count approved recipes: %w", err)
	}
	if count < family.MinApprovedRecipes {
		return nil, &NotEnoughRecipesError{Have: count, Needed: family.MinApprovedRecipes}
	}

	plan, err := a.Scheduler.GenerateWeeklyPlan(ctx, weekStart, numDays)
	if err != nil {
		return nil, err
	}
	if _, err := a.Plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	a.log.Info("generated weekly plan",
		zap.String("plan_id", plan.ID), zap.String("week_start", plan.WeekStart))
	return plan, nil
}

// ApprovePlan activates a pending plan. The previously active plan, if
// any, is marked completed so feedback collection can pick it up.
func (a *App) ApprovePlan(ctx context.Context, planID, userID string) error {
	if err := a.requireParent(ctx, userID); err != nil {
		return err
	}

	current, err := a.Plans.GetCurrent(ctx)
	if err != nil {
		return err
	}
	if current != nil && current.ID != planID {
		current.Status = planner.StatusCompleted
		if _, err := a.Plans.Save(ctx, current); err != nil {
			return fmt.Errorf("failed to retire previous plan: %w", err)
		}
	}
	return a.Plans.Approve(ctx, planID, userID)
}

// RegenerateDay swaps one day's meal for a fresh pick and saves the
// plan.
func (a *App) RegenerateDay(ctx context.Context, planID, day string) (*planner.MealPlan, error) {
	plan, err := a.Plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("meal plan %s not found", planID)
	}
	plan, err = a.Scheduler.RegenerateMeal(ctx, plan, day)
	if err != nil {
		return nil, err
	}
	if _, err := a.Plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GenerateGroceryList builds the consolidated, store-routed grocery
// list for a plan and stores it pending approval. An existing list for
// the plan is replaced.
func (a *App) GenerateGroceryList(ctx context.Context, planID string) (*grocery.List, error) {
	plan, err := a.Plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("meal plan %s not found", planID)
	}

	list, err := a.Optimizer.GenerateGroceryList(ctx, plan, a.Recipes)
	if err != nil {
		return nil, err
	}

	if existing, err := a.Lists.GetForPlan(ctx, planID); err == nil && existing != nil {
		list.ID = existing.ID
	}
	if _, err := a.Lists.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ApproveGroceryList marks a list ready for shopping. Parent only.
func (a *App) ApproveGroceryList(ctx context.Context, listID, userID string) error {
	if err := a.requireParent(ctx, userID); err != nil {
		return err
	}
	return a.Lists.Approve(ctx, listID, userID)
}

// CheckGroceryItem toggles an item's checked state while shopping.
func (a *App) CheckGroceryItem(ctx context.Context, listID, itemName string, checked bool) error {
	found, err := a.Lists.SetItemChecked(ctx, listID, itemName, checked)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("item %q not found on grocery list", itemName)
	}
	return nil
}

// MoveGroceryItem reassigns an item to a different store.
func (a *App) MoveGroceryItem(ctx context.Context, listID, itemName, storeID string) error {
	if a.GroceryCfg.StoreRank(storeID) > len(a.GroceryCfg.Stores) {
		return fmt.Errorf("unknown store %q", storeID)
	}
	list, err := a.Lists.Get(ctx, listID)
	if err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("grocery list %s not found", listID)
	}
	a.Optimizer.UpdateItemStore(list, itemName, storeID)
	_, err = a.Lists.Save(ctx, list)
	return err
}

// IngestRecipeFromURL scrapes a recipe page and extracts a structured
// recipe from it. The recipe is stored unapproved.
func (a *App) IngestRecipeFromURL(ctx context.Context, url, createdBy string) (*recipe.Recipe, error) {
	text, err := a.Scraper.FetchRecipeText(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipe page: %w", err)
	}
	return a.ingest(ctx, text, "web", url, createdBy)
}

// IngestRecipeFromText extracts a structured recipe from pasted text.
func (a *App) IngestRecipeFromText(ctx context.Context, text, createdBy string) (*recipe.Recipe, error) {
	return a.ingest(ctx, text, "manual", "", createdBy)
}

func (a *App) ingest(ctx context.Context, text, source, sourceURL, createdBy string) (*recipe.Recipe, error) {
	rec, err := a.Extractor.ExtractFromText(ctx, text, source, sourceURL)
	if err != nil {
		return nil, err
	}
	rec.CreatedBy = createdBy
	if _, err := a.Recipes.Save(ctx, rec); err != nil {
		return nil, err
	}
	a.log.Info("ingested recipe",
		zap.String("recipe_id", rec.ID), zap.String("name", rec.Name))
	return rec, nil
}

// ApproveRecipe admits a recipe into the planning pool. Parent only.
func (a *App) ApproveRecipe(ctx context.Context, recipeID, userID string) error {
	if err := a.requireParent(ctx, userID); err != nil {
		return err
	}
	return a.Recipes.Approve(ctx, recipeID, userID)
}

// RecordRating stores a meal rating. The rater's class is resolved from
// the family roster so kid ratings get their planning weight. A strong
// rating with a repeat vote promotes the recipe to the preferred list.
func (a *App) RecordRating(ctx context.Context, rt *rating.Rating) error {
	member, err := a.Family.GetMember(ctx, rt.UserID)
	if err != nil {
		return err
	}
	if member != nil {
		rt.UserName = member.Name
		rt.UserClass = member.Class
	}
	if _, err := a.Ratings.Save(ctx, rt); err != nil {
		return err
	}

	if rt.Score >= 4 && rt.WouldRepeat != nil && *rt.WouldRepeat {
		if err := a.Family.AddPreferredMeal(ctx, rt.RecipeID); err != nil {
			a.log.Warn("failed to record preferred meal",
				zap.String("recipe_id", rt.RecipeID), zap.Error(err))
		}
	}
	return nil
}

// PlansAwaitingFeedback returns completed plans whose meals still need
// ratings.
func (a *App) PlansAwaitingFeedback(ctx context.Context) ([]planner.MealPlan, error) {
	return a.Plans.GetPlansForFeedback(ctx)
}

// MarkFeedbackCollected closes the feedback loop for a plan.
func (a *App) MarkFeedbackCollected(ctx context.Context, planID string) error {
	return a.Plans.MarkFeedbackCollected(ctx, planID)
}

// PlanSummary resolves a plan's recipes and computes its statistics.
func (a *App) PlanSummary(ctx context.Context, plan *planner.MealPlan) (planner.Summary, error) {
	recipes, err := a.Recipes.GetByIDs(ctx, plan.RecipeIDs())
	if err != nil {
		return planner.Summary{}, err
	}
	byID := make(map[string]recipe.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	return planner.Summarize(plan, byID), nil
}

// ExplainPlan asks the language model for a short family-facing note on
// why this week's meals were chosen.
func (a *App) ExplainPlan(ctx context.Context, plan *planner.MealPlan) (string, error) {
	weekStart, err := time.Parse("2006-01-02", plan.WeekStart)
	if err != nil {
		weekStart = time.Now()
	}
	sctx := a.Seasons.SeasonalContext(weekStart)

	var meals []string
	for _, m := range plan.Meals {
		meals = append(meals, fmt.Sprintf("%s: %s", m.DayOfWeek, m.RecipeName))
	}
	prompt := fmt.Sprintf(`You are a friendly family meal planning assistant.
The plan for the week of %s:
%s

It is %s, and these ingredients are at their peak: %s.

Write 2-3 sentences for the family explaining what is good about this
week's lineup. Mention seasonality where it applies. Plain text only.`,
		plan.WeekStart,
		strings.Join(meals, "\n"),
		sctx.Season,
		strings.Join(sctx.PeakProduceNames, ", "))

	return a.LLM.GenerateContent(ctx, prompt)
}

// SyncGroceryList pushes an approved list to Google Tasks for every
// family member with a linked account.
func (a *App) SyncGroceryList(ctx context.Context, listID string) ([]tasks.SyncResult, error) {
	if a.TasksSync == nil {
		return nil, fmt.Errorf("google tasks sync is not configured")
	}
	list, err := a.Lists.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("grocery list %s not found", listID)
	}

	members, err := a.Family.GetAllMembers(ctx)
	if err != nil {
		return nil, err
	}

	var results []tasks.SyncResult
	for _, m := range members {
		if !m.TasksLinked || m.TasksRefreshToken == "" {
			continue
		}
		chatID, _ := parseChatID(m.ChatUserID)
		res, err := a.TasksSync.SyncList(ctx, chatID, m.TasksRefreshToken, list, a.GroceryCfg)
		if err != nil {
			a.log.Warn("tasks sync failed for member",
				zap.String("member", m.Name), zap.Error(err))
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

func parseChatID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
