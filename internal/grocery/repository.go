package grocery

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository handles persistence of grocery lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new grocery list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or updates a grocery list, assigning an ID when missing.
func (r *Repository) Save(ctx context.Context, list *List) (string, error) {
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal grocery list: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO grocery_lists (id, data, status, meal_plan_id, week_start, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, status = excluded.status`,
		list.ID, string(data), string(list.Status), list.MealPlanID, list.WeekStart, list.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save grocery list: %w", err)
	}
	return list.ID, nil
}

// Get retrieves a grocery list by ID. A missing list returns (nil, nil).
func (r *Repository) Get(ctx context.Context, id string) (*List, error) {
	return r.queryOne(ctx, `SELECT id, data FROM grocery_lists WHERE id = ?`, id)
}

// GetForPlan retrieves the list derived from a meal plan, if any.
func (r *Repository) GetForPlan(ctx context.Context, mealPlanID string) (*List, error) {
	return r.queryOne(ctx,
		`SELECT id, data FROM grocery_lists WHERE meal_plan_id = ? ORDER BY created_at DESC LIMIT 1`,
		mealPlanID,
	)
}

// GetPending retrieves a grocery list awaiting parent approval, if any.
func (r *Repository) GetPending(ctx context.Context) (*List, error) {
	return r.queryOne(ctx,
		`SELECT id, data FROM grocery_lists WHERE status = ? LIMIT 1`,
		string(StatusPendingApproval),
	)
}

func (r *Repository) queryOne(ctx context.Context, query string, args ...any) (*List, error) {
	var id, data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id, &data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query grocery list: %w", err)
	}

	var list List
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grocery list %s: %w", id, err)
	}
	list.ID = id
	return &list, nil
}

// Approve moves a list to approved. Parent-only action; the caller
// enforces that.
func (r *Repository) Approve(ctx context.Context, id, approvedBy string) error {
	list, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("grocery list %s not found", id)
	}
	list.Status = StatusApproved
	list.ApprovedBy = approvedBy
	_, err = r.Save(ctx, list)
	return err
}

// SetItemChecked toggles an item's checked flag by case-insensitive
// name match. Returns false when no item matched.
func (r *Repository) SetItemChecked(ctx context.Context, listID, itemName string, checked bool) (bool, error) {
	list, err := r.Get(ctx, listID)
	if err != nil {
		return false, err
	}
	if list == nil {
		return false, nil
	}

	target := strings.ToLower(itemName)
	found := false
	for i := range list.Items {
		if strings.ToLower(list.Items[i].Name) == target {
			list.Items[i].Checked = checked
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	_, err = r.Save(ctx, list)
	return true, err
}
