package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"menu-bot/internal/llm"
)

// ErrNoRecipeFound is returned when the model reports that the supplied
// content does not contain an extractable recipe.
var ErrNoRecipeFound = errors.New("no recipe could be extracted from the provided content")

// Extractor turns raw recipe text into a structured Recipe using an LLM.
// Extraction quality is entirely the model's concern; the rest of the
// system only ever consumes the materialized Recipe value.
type Extractor struct {
	textGen llm.TextGenerator
}

// NewExtractor creates a new Extractor.
func NewExtractor(textGen llm.TextGenerator) *Extractor {
	return &Extractor{textGen: textGen}
}

type extractionResult struct {
	Error  string  `json:"error,omitempty"`
	Recipe *Recipe `json:"recipe,omitempty"`
}

// ExtractFromText asks the model to extract a structured recipe from free
// text (pasted text, a scraped page, or OCR output). The returned recipe
// is unapproved and carries no ID until saved.
func (e *Extractor) ExtractFromText(ctx context.Context, text, source, sourceURL string) (*Recipe, error) {
	prompt := fmt.Sprintf(`
You are a helpful assistant that extracts structured recipe information from text.
Extract the recipe name, ingredients (name, numeric quantity, unit, and category),
step-by-step instructions, servings, prep and cook time in minutes, tags,
and the names of any seasonal produce ingredients.
Also estimate kid_friendly_score and health_score, each between 0 and 1.

Categories must be one of: produce, fresh_herbs, meat, seafood, dairy, cheese,
pantry, spices, bread, specialty, general. Use a quantity of 0 for "to taste".
Use tags like "quick" (30 minutes or less total) and "kid-friendly" where they apply.

Return a JSON object with this structure:
{
  "recipe": {
    "name": "Recipe Name",
    "ingredients": [{"name": "...", "quantity": 1.5, "unit": "lb", "category": "meat"}],
    "instructions": ["step 1", "step 2"],
    "servings": 4,
    "prep_time_min": 15,
    "cook_time_min": 30,
    "tags": ["quick"],
    "seasonal_ingredients": ["tomatoes"],
    "kid_friendly_score": 0.7,
    "health_score": 0.6
  }
}

If the content does not contain a recipe, return {"error": "reason"} instead.
Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.

Content:
%s
`, text)

	resp, err := e.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get LLM response: %w", err)
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal LLM response into recipe: %w. LLM Response: %s", err, resp)
	}

	if result.Recipe == nil || result.Recipe.Name == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoRecipeFound, result.Error)
	}

	rec := result.Recipe
	rec.Source = source
	rec.SourceURL = sourceURL
	rec.Approved = false
	if rec.Servings == 0 {
		rec.Servings = 4
	}
	rec.ClampScores()
	return rec, nil
}

// stripCodeFence removes a markdown code fence if the model ignored the
// instruction not to add one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
