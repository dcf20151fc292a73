package recipe

import "time"

// Category classifies an ingredient for grocery routing.
type Category string

const (
	CategoryProduce    Category = "produce"
	CategoryFreshHerbs Category = "fresh_herbs"
	CategoryMeat       Category = "meat"
	CategorySeafood    Category = "seafood"
	CategoryDairy      Category = "dairy"
	CategoryCheese     Category = "cheese"
	CategoryPantry     Category = "pantry"
	CategorySpices     Category = "spices"
	CategoryBread      Category = "bread"
	CategorySpecialty  Category = "specialty"
	CategoryGeneral    Category = "general"
)

// Ingredient is a single recipe ingredient. A zero quantity means
// "to taste"/unspecified.
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Category Category `json:"category,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// Recipe represents a recipe in the system.
type Recipe struct {
	ID                  string       `json:"id,omitempty"`
	Name                string       `json:"name"`
	Source              string       `json:"source,omitempty"` // "url", "cookbook", "family", "text"
	SourceURL           string       `json:"source_url,omitempty"`
	Ingredients         []Ingredient `json:"ingredients"`
	Instructions        []string     `json:"instructions"`
	Servings            int          `json:"servings"`
	PrepTimeMin         int          `json:"prep_time_min,omitempty"`
	CookTimeMin         int          `json:"cook_time_min,omitempty"`
	Tags                []string     `json:"tags,omitempty"`
	SeasonalIngredients []string     `json:"seasonal_ingredients,omitempty"`
	KidFriendlyScore    float64      `json:"kid_friendly_score"`
	HealthScore         float64      `json:"health_score"`
	Approved            bool         `json:"approved"`
	ApprovedBy          string       `json:"approved_by,omitempty"`
	CreatedBy           string       `json:"created_by,omitempty"`
	CreatedAt           time.Time    `json:"created_at,omitempty"`
}

// HasTag reports whether the recipe carries the given tag.
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ClampScores forces the kid-friendly and health scores into [0, 1].
func (r *Recipe) ClampScores() {
	r.KidFriendlyScore = clamp01(r.KidFriendlyScore)
	r.HealthScore = clamp01(r.HealthScore)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
