package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/repository"
)

type PlanService struct {
	db          *sql.DB
	plan        repository.WeeklyPlanRepository
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
}

func NewPlanService(db *sql.DB) *PlanService {
	return &PlanService{
		db:          db,
		plan:        repository.NewWeeklyPlanRepository(db),
		recipes:     repository.NewRecipeRepository(db),
		ingredients: repository.NewIngredientRepository(db),
	}
}

// Grid returns the caller's full weekly grid. Every day and meal type is
// present, slots the user never wrote come back as empty lists.
func (service *PlanService) Grid(ctx context.Context, userID string) (models.WeeklyPlanGrid, error) {
	slots, err := service.plan.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	grid := models.NewWeeklyPlanGrid()
	for _, slot := range slots {
		grid[slot.Day][slot.MealType] = slot.RecipeIDs
	}
	return grid, nil
}

// SetSlot replaces one slot's recipe list. Every id must resolve to a recipe
// the caller can see, otherwise nothing is written.
func (service *PlanService) SetSlot(ctx context.Context, userID string, day models.Day, mealType models.MealType, recipeIDs []string) (models.PlanSlot, error) {
	if !day.Valid() {
		return models.PlanSlot{}, fmt.Errorf("%w: unknown day %q", ErrValidation, day)
	}
	if !mealType.Valid() {
		return models.PlanSlot{}, fmt.Errorf("%w: unknown meal type %q", ErrValidation, mealType)
	}
	if recipeIDs == nil {
		recipeIDs = []string{}
	}

	tx, err := service.db.BeginTx(ctx, nil)
	if err != nil {
		return models.PlanSlot{}, fmt.Errorf("beginning plan write: %w", err)
	}
	defer tx.Rollback()

	recipeRepo := repository.NewRecipeRepository(tx)
	for _, id := range recipeIDs {
		if _, err := recipeRepo.FindVisibleByID(ctx, id, userID); errors.Is(err, sql.ErrNoRows) {
			return models.PlanSlot{}, fmt.Errorf("%w: recipe %s", ErrBadReference, id)
		} else if err != nil {
			return models.PlanSlot{}, err
		}
	}

	slot := models.PlanSlot{
		UserID:    userID,
		Day:       day,
		MealType:  mealType,
		RecipeIDs: recipeIDs,
	}
	if err := repository.NewWeeklyPlanRepository(tx).Upsert(ctx, slot); err != nil {
		return models.PlanSlot{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.PlanSlot{}, fmt.Errorf("committing plan write: %w", err)
	}
	return slot, nil
}

// NutritionFor totals the stored aggregates of every recipe planned for one
// day, optionally narrowed to a single meal type. Ids that no longer resolve
// contribute nothing.
func (service *PlanService) NutritionFor(ctx context.Context, userID string, day models.Day, mealType *models.MealType) (models.NutritionTotals, error) {
	if !day.Valid() {
		return models.NutritionTotals{}, fmt.Errorf("%w: unknown day %q", ErrValidation, day)
	}
	if mealType != nil && !mealType.Valid() {
		return models.NutritionTotals{}, fmt.Errorf("%w: unknown meal type %q", ErrValidation, *mealType)
	}

	slots, err := service.plan.FindByUser(ctx, userID)
	if err != nil {
		return models.NutritionTotals{}, err
	}

	var totals models.NutritionTotals
	for _, slot := range slots {
		if slot.Day != day {
			continue
		}
		if mealType != nil && slot.MealType != *mealType {
			continue
		}
		for _, id := range slot.RecipeIDs {
			recipe, err := service.recipes.FindVisibleByID(ctx, id, userID)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return models.NutritionTotals{}, err
			}
			totals.Add(models.NutritionTotals{
				Protein: recipe.Protein,
				Carbs:   recipe.Carbs,
				Fat:     recipe.Fat,
				Fiber:   recipe.Fiber,
				Energy:  recipe.Energy,
			})
		}
	}
	return totals, nil
}

// ShoppingList walks every planned recipe and sums the quantities of line
// items whose ingredient is currently unavailable or unknown. Quantities are
// keyed case-insensitively by name, the first unit seen wins.
func (service *PlanService) ShoppingList(ctx context.Context, userID string) ([]models.ShoppingListItem, error) {
	slots, err := service.plan.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	needed := make(map[string]*models.ShoppingListItem)
	seenRecipes := make(map[string]bool)
	for _, slot := range slots {
		for _, id := range slot.RecipeIDs {
			recipe, err := service.recipes.FindVisibleByID(ctx, id, userID)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if seenRecipes[recipe.ID] {
				continue
			}
			seenRecipes[recipe.ID] = true

			for _, item := range recipe.Ingredients {
				ingredient, err := service.ingredients.FindVisibleByName(ctx, userID, item.Name)
				if err == nil && ingredient.Available {
					continue
				}
				if err != nil && !errors.Is(err, sql.ErrNoRows) {
					return nil, err
				}

				key := strings.ToLower(item.Name)
				if existing, ok := needed[key]; ok {
					existing.Quantity += item.Quantity
				} else {
					needed[key] = &models.ShoppingListItem{
						Name:        item.Name,
						Quantity:    item.Quantity,
						ServingUnit: item.ServingUnit,
					}
				}
			}
		}
	}

	items := make([]models.ShoppingListItem, 0, len(needed))
	for _, item := range needed {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}
