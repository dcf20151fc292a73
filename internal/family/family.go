package family

// MemberClass distinguishes adult and kid raters. Kid preferences are
// weighted above adult ones throughout the planner.
type MemberClass string

const (
	ClassAdult MemberClass = "adult"
	ClassKid   MemberClass = "kid"
)

// Member is one person in the household.
type Member struct {
	ChatUserID       string      `json:"chat_user_id"`
	Name             string      `json:"name"`
	Class            MemberClass `json:"class"`
	IsParent         bool        `json:"is_parent"` // parents can approve plans and lists
	PreferenceWeight float64     `json:"preference_weight"`
	TasksLinked      bool        `json:"tasks_linked"`
	TasksRefreshToken string     `json:"tasks_refresh_token,omitempty"`
}

// MinApprovedRecipes is how many approved recipes must exist before a
// weekly plan is worth generating.
const MinApprovedRecipes = 7

// Preferences are the process-wide planning knobs.
type Preferences struct {
	BootstrapComplete    bool     `json:"bootstrap_complete"`
	PreferredMealIDs     []string `json:"preferred_meal_ids"`
	AvoidedIngredients   []string `json:"avoided_ingredients"`
	HealthGoals          []string `json:"health_goals"`
	FavoriteMeals        []string `json:"favorite_meals"`
	Location             string   `json:"location"`
	MealRepeatBufferDays int      `json:"meal_repeat_buffer_days"`
}

// DefaultPreferences returns the preferences used before any setup.
func DefaultPreferences() Preferences {
	return Preferences{
		Location:             "ann_arbor_mi",
		MealRepeatBufferDays: 14,
	}
}

// IsPreferred reports whether a recipe is on the preferred list.
func (p Preferences) IsPreferred(recipeID string) bool {
	for _, id := range p.PreferredMealIDs {
		if id == recipeID {
			return true
		}
	}
	return false
}
