package rating

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"menu-bot/internal/recipe"
)

// Repository handles persistence of ratings.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new rating repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save stores a new rating. Ratings are never updated in place.
func (r *Repository) Save(ctx context.Context, rt *Rating) (string, error) {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal rating: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO ratings (id, recipe_id, data, created_at) VALUES (?, ?, ?, ?)`,
		rt.ID, rt.RecipeID, string(data), rt.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save rating: %w", err)
	}
	return rt.ID, nil
}

// GetForRecipe retrieves all ratings for a recipe.
func (r *Repository) GetForRecipe(ctx context.Context, recipeID string) ([]Rating, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM ratings WHERE recipe_id = ?`, recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		var rt Rating
		if err := json.Unmarshal([]byte(data), &rt); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

// ScoresFor computes the weighted score for each given recipe.
func (r *Repository) ScoresFor(ctx context.Context, recipes []recipe.Recipe) (map[string]Score, error) {
	scores := make(map[string]Score, len(recipes))
	for _, rec := range recipes {
		ratings, err := r.GetForRecipe(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		scores[rec.ID] = WeightedScore(ratings, rec.KidFriendlyScore)
	}
	return scores, nil
}

// AveragesFor computes per-class averages for one recipe.
func (r *Repository) AveragesFor(ctx context.Context, recipeID string) (Averages, error) {
	ratings, err := r.GetForRecipe(ctx, recipeID)
	if err != nil {
		return Averages{}, err
	}
	return Average(ratings), nil
}
