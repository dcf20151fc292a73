package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository is a database-backed repository for recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or updates a recipe. A missing ID is assigned before
// writing, and the assigned ID is returned.
func (r *Repository) Save(ctx context.Context, rec *Recipe) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.ClampScores()

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	approved := 0
	if rec.Approved {
		approved = 1
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO recipes (id, data, approved, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, approved = excluded.approved`,
		rec.ID, string(data), approved, rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save recipe: %w", err)
	}
	return rec.ID, nil
}

// Get retrieves a recipe by its ID. A missing recipe returns (nil, nil).
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM recipes WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	rec.ID = id
	return &rec, nil
}

// GetByIDs retrieves multiple recipes by their IDs. IDs that no longer
// resolve are skipped rather than failing the whole lookup.
func (r *Repository) GetByIDs(ctx context.Context, ids []string) ([]Recipe, error) {
	recipes := make([]Recipe, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recipes = append(recipes, *rec)
		}
	}
	return recipes, nil
}

// GetApproved retrieves every recipe flagged eligible for meal planning.
func (r *Repository) GetApproved(ctx context.Context) ([]Recipe, error) {
	return r.list(ctx, `SELECT id, data FROM recipes WHERE approved = 1`)
}

// GetAll retrieves every recipe regardless of approval.
func (r *Repository) GetAll(ctx context.Context) ([]Recipe, error) {
	return r.list(ctx, `SELECT id, data FROM recipes`)
}

func (r *Repository) list(ctx context.Context, query string) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		var rec Recipe
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", id, err)
		}
		rec.ID = id
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// SearchByName returns recipes whose name contains the query,
// case-insensitive.
func (r *Repository) SearchByName(ctx context.Context, query string) ([]Recipe, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var matches []Recipe
	for _, rec := range all {
		if strings.Contains(strings.ToLower(rec.Name), q) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// Approve flags a recipe as eligible for meal planning. Parent-only
// action; the caller enforces that.
func (r *Repository) Approve(ctx context.Context, id, approvedBy string) error {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("recipe %s not found", id)
	}
	rec.Approved = true
	rec.ApprovedBy = approvedBy
	_, err = r.Save(ctx, rec)
	return err
}

// CountApproved returns the number of approved recipes.
func (r *Repository) CountApproved(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE approved = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}
