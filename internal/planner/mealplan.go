package planner

import "time"

// dateLayout is the ISO calendar date format used throughout plans.
const dateLayout = "2006-01-02"

// PlanStatus is the lifecycle state of a meal plan. Transitions are
// driven by external approval/feedback events, not by the scheduler.
type PlanStatus string

const (
	StatusDraft           PlanStatus = "draft"
	StatusPendingApproval PlanStatus = "pending_approval"
	StatusActive          PlanStatus = "active"
	StatusCompleted       PlanStatus = "completed"
)

// MealPlanEntry is a single planned meal.
type MealPlanEntry struct {
	Date       string `json:"date"` // ISO calendar date
	DayOfWeek  string `json:"day_of_week"`
	RecipeID   string `json:"recipe_id"`
	RecipeName string `json:"recipe_name"`
}

// MealPlan is a weekly meal plan, entries in calendar order.
type MealPlan struct {
	ID                string          `json:"id,omitempty"`
	WeekStart         string          `json:"week_start"` // ISO calendar date
	Meals             []MealPlanEntry `json:"meals"`
	Status            PlanStatus      `json:"status"`
	FeedbackCollected bool            `json:"feedback_collected"`
	ApprovedBy        string          `json:"approved_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at,omitempty"`
}

// RecipeIDs returns the distinct recipe ids referenced by the plan.
func (p *MealPlan) RecipeIDs() []string {
	seen := make(map[string]bool, len(p.Meals))
	ids := make([]string, 0, len(p.Meals))
	for _, m := range p.Meals {
		if !seen[m.RecipeID] {
			seen[m.RecipeID] = true
			ids = append(ids, m.RecipeID)
		}
	}
	return ids
}
