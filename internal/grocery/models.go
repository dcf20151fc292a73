package grocery

import (
	"time"

	"menu-bot/internal/recipe"
)

// ListStatus is the lifecycle state of a grocery list.
type ListStatus string

const (
	StatusDraft           ListStatus = "draft"
	StatusPendingApproval ListStatus = "pending_approval"
	StatusApproved        ListStatus = "approved"
	StatusShopping        ListStatus = "shopping"
	StatusCompleted       ListStatus = "completed"
)

// Item is a single aggregated line on the grocery list.
type Item struct {
	Name          string          `json:"name"`
	Quantity      float64         `json:"quantity"`
	Unit          string          `json:"unit"`
	Store         string          `json:"store"`
	Category      recipe.Category `json:"category"`
	RecipeSources []string        `json:"recipe_sources,omitempty"`
	Checked       bool            `json:"checked"`
}

// List is a weekly grocery list derived from a meal plan.
type List struct {
	ID         string     `json:"id,omitempty"`
	MealPlanID string     `json:"meal_plan_id"`
	WeekStart  string     `json:"week_start"`
	Items      []Item     `json:"items"`
	Status     ListStatus `json:"status"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at,omitempty"`
}
