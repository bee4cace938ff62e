package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/manojmanivannan/MealPlanner/internal/models"
)

type WeeklyPlanRepository interface {
	FindByUser(ctx context.Context, userID string) ([]models.PlanSlot, error)
	FindSlot(ctx context.Context, userID string, day models.Day, mealType models.MealType) (models.PlanSlot, error)
	Upsert(ctx context.Context, slot models.PlanSlot) error
	RemoveRecipeID(ctx context.Context, userID string, recipeID string) error
}

type SQLiteWeeklyPlanRepository struct {
	database DB
}

func NewWeeklyPlanRepository(database DB) *SQLiteWeeklyPlanRepository {
	return &SQLiteWeeklyPlanRepository{database: database}
}

func (repository *SQLiteWeeklyPlanRepository) FindByUser(ctx context.Context, userID string) ([]models.PlanSlot, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT user_id, day, meal_type, recipe_ids, created_at, updated_at
		FROM weekly_plan WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding plan slots: %w", err)
	}
	defer rows.Close()

	var slots []models.PlanSlot
	for rows.Next() {
		var slot models.PlanSlot
		var recipeIDsJSON string
		if err := rows.Scan(&slot.UserID, &slot.Day, &slot.MealType, &recipeIDsJSON,
			&slot.CreatedAt, &slot.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan slot: %w", err)
		}
		if err := json.Unmarshal([]byte(recipeIDsJSON), &slot.RecipeIDs); err != nil {
			return nil, fmt.Errorf("unmarshalling recipe ids: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (repository *SQLiteWeeklyPlanRepository) FindSlot(ctx context.Context, userID string, day models.Day, mealType models.MealType) (models.PlanSlot, error) {
	var slot models.PlanSlot
	var recipeIDsJSON string
	err := repository.database.QueryRowContext(ctx,
		`SELECT user_id, day, meal_type, recipe_ids, created_at, updated_at
		FROM weekly_plan WHERE user_id = ? AND day = ? AND meal_type = ?`,
		userID, day, mealType,
	).Scan(&slot.UserID, &slot.Day, &slot.MealType, &recipeIDsJSON, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return models.PlanSlot{}, fmt.Errorf("finding plan slot: %w", err)
	}
	if err := json.Unmarshal([]byte(recipeIDsJSON), &slot.RecipeIDs); err != nil {
		return models.PlanSlot{}, fmt.Errorf("unmarshalling recipe ids: %w", err)
	}
	return slot, nil
}

// Upsert replaces the slot's recipe list wholesale; last write wins per
// (user, day, meal type) key.
func (repository *SQLiteWeeklyPlanRepository) Upsert(ctx context.Context, slot models.PlanSlot) error {
	if slot.RecipeIDs == nil {
		slot.RecipeIDs = []string{}
	}
	recipeIDsJSON, err := json.Marshal(slot.RecipeIDs)
	if err != nil {
		return fmt.Errorf("marshalling recipe ids: %w", err)
	}

	now := time.Now()
	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO weekly_plan (user_id, day, meal_type, recipe_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, day, meal_type) DO UPDATE SET
			recipe_ids = excluded.recipe_ids,
			updated_at = excluded.updated_at`,
		slot.UserID, slot.Day, slot.MealType, string(recipeIDsJSON), now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting plan slot: %w", err)
	}
	return nil
}

// RemoveRecipeID scrubs a recipe id from every slot of one user, keeping plan
// references resolvable after a recipe is deleted.
func (repository *SQLiteWeeklyPlanRepository) RemoveRecipeID(ctx context.Context, userID string, recipeID string) error {
	slots, err := repository.FindByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		remaining := make([]string, 0, len(slot.RecipeIDs))
		for _, id := range slot.RecipeIDs {
			if id != recipeID {
				remaining = append(remaining, id)
			}
		}
		if len(remaining) == len(slot.RecipeIDs) {
			continue
		}
		slot.RecipeIDs = remaining
		if err := repository.Upsert(ctx, slot); err != nil {
			return fmt.Errorf("scrubbing recipe from slot: %w", err)
		}
	}
	return nil
}
