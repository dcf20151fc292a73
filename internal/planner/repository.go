package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository handles persistence of meal plans.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new meal plan repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or updates a meal plan, assigning an ID when missing.
func (r *Repository) Save(ctx context.Context, plan *MealPlan) (string, error) {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to marshal meal plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (id, data, status, week_start, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, status = excluded.status`,
		plan.ID, string(data), string(plan.Status), plan.WeekStart, plan.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save meal plan: %w", err)
	}
	return plan.ID, nil
}

// Get retrieves a meal plan by ID. A missing plan returns (nil, nil).
func (r *Repository) Get(ctx context.Context, id string) (*MealPlan, error) {
	return r.queryOne(ctx, `SELECT id, data FROM meal_plans WHERE id = ?`, id)
}

// GetCurrent retrieves the active meal plan, if any.
func (r *Repository) GetCurrent(ctx context.Context) (*MealPlan, error) {
	return r.queryOne(ctx,
		`SELECT id, data FROM meal_plans WHERE status = ? LIMIT 1`, string(StatusActive))
}

// GetPending retrieves a meal plan awaiting parent approval, if any.
func (r *Repository) GetPending(ctx context.Context) (*MealPlan, error) {
	return r.queryOne(ctx,
		`SELECT id, data FROM meal_plans WHERE status = ? LIMIT 1`, string(StatusPendingApproval))
}

func (r *Repository) queryOne(ctx context.Context, query string, args ...any) (*MealPlan, error) {
	var id, data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id, &data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query meal plan: %w", err)
	}

	var plan MealPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan %s: %w", id, err)
	}
	plan.ID = id
	return &plan, nil
}

// Approve activates a plan. Parent-only action; the caller enforces
// that.
func (r *Repository) Approve(ctx context.Context, id, approvedBy string) error {
	plan, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("meal plan %s not found", id)
	}
	plan.Status = StatusActive
	plan.ApprovedBy = approvedBy
	_, err = r.Save(ctx, plan)
	return err
}

// GetRecentlyUsedRecipeIDs collects recipe ids from every plan whose
// week start falls within the last N days.
func (r *Repository) GetRecentlyUsedRecipeIDs(ctx context.Context, days int) (map[string]bool, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(dateLayout)

	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM meal_plans WHERE week_start >= ?`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent meal plans: %w", err)
	}
	defer rows.Close()

	used := make(map[string]bool)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		var plan MealPlan
		if err := json.Unmarshal([]byte(data), &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
		}
		for _, m := range plan.Meals {
			used[m.RecipeID] = true
		}
	}
	return used, rows.Err()
}

// GetPlansForFeedback retrieves completed plans with feedback still
// owed.
func (r *Repository) GetPlansForFeedback(ctx context.Context) ([]MealPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data FROM meal_plans WHERE status = ?`, string(StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to query completed plans: %w", err)
	}
	defer rows.Close()

	var plans []MealPlan
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		var plan MealPlan
		if err := json.Unmarshal([]byte(data), &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal plan %s: %w", id, err)
		}
		plan.ID = id
		if !plan.FeedbackCollected {
			plans = append(plans, plan)
		}
	}
	return plans, rows.Err()
}

// MarkFeedbackCollected flags a completed plan as fully rated.
func (r *Repository) MarkFeedbackCollected(ctx context.Context, id string) error {
	plan, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("meal plan %s not found", id)
	}
	plan.FeedbackCollected = true
	_, err = r.Save(ctx, plan)
	return err
}
