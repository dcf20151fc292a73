package recipe

import (
	"context"
	"errors"
	"testing"
)

type mockTextGenerator struct {
	response string
	err      error
}

func (m *mockTextGenerator) GenerateContent(_ context.Context, _ string) (string, error) {
	return m.response, m.err
}

const validExtraction = `{
  "recipe": {
    "name": "Weeknight Tacos",
    "ingredients": [
      {"name": "ground beef", "quantity": 1, "unit": "lb", "category": "meat"},
      {"name": "salt", "quantity": 0, "unit": "", "category": "spices"}
    ],
    "instructions": ["brown the beef", "assemble"],
    "servings": 0,
    "prep_time_min": 10,
    "cook_time_min": 15,
    "tags": ["quick", "kid-friendly"],
    "kid_friendly_score": 0.9,
    "health_score": 1.7
  }
}`

func TestExtractFromText(t *testing.T) {
	e := NewExtractor(&mockTextGenerator{response: validExtraction})

	rec, err := e.ExtractFromText(context.Background(), "some recipe text", "web", "https://example.com/tacos")
	if err != nil {
		t.Fatalf("ExtractFromText failed: %v", err)
	}

	if rec.Name != "Weeknight Tacos" {
		t.Errorf("name = %q", rec.Name)
	}
	if len(rec.Ingredients) != 2 {
		t.Fatalf("got %d ingredients, want 2", len(rec.Ingredients))
	}
	if rec.Ingredients[0].Category != CategoryMeat {
		t.Errorf("category = %s, want meat", rec.Ingredients[0].Category)
	}
	if rec.Source != "web" || rec.SourceURL != "https://example.com/tacos" {
		t.Errorf("source fields = %q %q", rec.Source, rec.SourceURL)
	}
	if rec.Approved {
		t.Error("extracted recipes must start unapproved")
	}
	if rec.Servings != 4 {
		t.Errorf("servings = %d, want default 4", rec.Servings)
	}
	if rec.HealthScore != 1.0 {
		t.Errorf("health score = %v, want clamped 1.0", rec.HealthScore)
	}
}

func TestExtractFromTextStripsCodeFence(t *testing.T) {
	e := NewExtractor(&mockTextGenerator{response: "```json\n" + validExtraction + "\n```"})

	rec, err := e.ExtractFromText(context.Background(), "text", "manual", "")
	if err != nil {
		t.Fatalf("ExtractFromText failed: %v", err)
	}
	if rec.Name != "Weeknight Tacos" {
		t.Errorf("name = %q", rec.Name)
	}
}

func TestExtractFromTextNoRecipe(t *testing.T) {
	e := NewExtractor(&mockTextGenerator{response: `{"error": "this is a blog post about gardening"}`})

	_, err := e.ExtractFromText(context.Background(), "text", "manual", "")
	if !errors.Is(err, ErrNoRecipeFound) {
		t.Fatalf("err = %v, want ErrNoRecipeFound", err)
	}
}

func TestExtractFromTextMalformedResponse(t *testing.T) {
	e := NewExtractor(&mockTextGenerator{response: "I could not process that."})

	if _, err := e.ExtractFromText(context.Background(), "text", "manual", ""); err == nil {
		t.Fatal("expected an unmarshal error")
	}
}
