package family

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository handles persistence of family members and preferences.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new family repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// SaveMember inserts or updates a member keyed by chat user ID.
func (r *Repository) SaveMember(ctx context.Context, m Member) error {
	if m.PreferenceWeight == 0 {
		m.PreferenceWeight = 1.0
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal family member: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO family_members (chat_user_id, data) VALUES (?, ?)
		ON CONFLICT (chat_user_id) DO UPDATE SET data = excluded.data`,
		m.ChatUserID, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save family member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by chat user ID, (nil, nil) when absent.
func (r *Repository) GetMember(ctx context.Context, chatUserID string) (*Member, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM family_members WHERE chat_user_id = ?`, chatUserID,
	).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get family member: %w", err)
	}

	var m Member
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal family member: %w", err)
	}
	return &m, nil
}

// GetAllMembers retrieves every family member.
func (r *Repository) GetAllMembers(ctx context.Context) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM family_members`)
	if err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan family member row: %w", err)
		}
		var m Member
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal family member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetParents retrieves the members with approval rights.
func (r *Repository) GetParents(ctx context.Context) ([]Member, error) {
	members, err := r.GetAllMembers(ctx)
	if err != nil {
		return nil, err
	}
	var parents []Member
	for _, m := range members {
		if m.IsParent {
			parents = append(parents, m)
		}
	}
	return parents, nil
}

// IsParent reports whether the chat user has approval rights.
func (r *Repository) IsParent(ctx context.Context, chatUserID string) (bool, error) {
	m, err := r.GetMember(ctx, chatUserID)
	if err != nil {
		return false, err
	}
	return m != nil && m.IsParent, nil
}

// GetPreferences retrieves the household preferences, falling back to
// defaults when none are saved yet.
func (r *Repository) GetPreferences(ctx context.Context) (Preferences, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM preferences WHERE id = 1`).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return DefaultPreferences(), nil
		}
		return Preferences{}, fmt.Errorf("failed to get preferences: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Preferences{}, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	if p.MealRepeatBufferDays == 0 {
		p.MealRepeatBufferDays = DefaultPreferences().MealRepeatBufferDays
	}
	return p, nil
}

// SavePreferences persists the household preferences.
func (r *Repository) SavePreferences(ctx context.Context, p Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO preferences (id, data) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data`,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// AddPreferredMeal adds a recipe to the preferred list if absent.
func (r *Repository) AddPreferredMeal(ctx context.Context, recipeID string) error {
	p, err := r.GetPreferences(ctx)
	if err != nil {
		return err
	}
	if p.IsPreferred(recipeID) {
		return nil
	}
	p.PreferredMealIDs = append(p.PreferredMealIDs, recipeID)
	return r.SavePreferences(ctx, p)
}
