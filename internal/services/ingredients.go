package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/repository"
)

type IngredientService struct {
	db          *sql.DB
	ingredients repository.IngredientRepository
}

func NewIngredientService(db *sql.DB) *IngredientService {
	return &IngredientService{
		db:          db,
		ingredients: repository.NewIngredientRepository(db),
	}
}

type CreateIngredientParams struct {
	Name        string
	ShelfLife   *int
	ServingUnit models.ServingUnit
}

// UpdateIngredientParams carries partial updates; nil fields are left alone.
type UpdateIngredientParams struct {
	Name        *string
	Available   *bool
	ShelfLife   *int
	ServingUnit *models.ServingUnit
	ServingSize *float64
	Protein     *float64
	Carbs       *float64
	Fat         *float64
	Fiber       *float64
	Energy      *float64
	IronMg      *float64
	MagnesiumMg *float64
	CalciumMg   *float64
	PotassiumMg *float64
	SodiumMg    *float64
	VitaminCMg  *float64
}

func (service *IngredientService) Create(ctx context.Context, userID string, params CreateIngredientParams) (models.Ingredient, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return models.Ingredient{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !params.ServingUnit.Valid() {
		return models.Ingredient{}, fmt.Errorf("%w: unknown serving unit %q", ErrValidation, params.ServingUnit)
	}
	if params.ShelfLife != nil && *params.ShelfLife < 0 {
		return models.Ingredient{}, fmt.Errorf("%w: shelf life must not be negative", ErrValidation)
	}

	if _, err := service.ingredients.FindVisibleByName(ctx, userID, name); err == nil {
		return models.Ingredient{}, fmt.Errorf("%w: ingredient with this name already exists", ErrConflict)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.Ingredient{}, err
	}

	ingredient := models.Ingredient{
		Owner:       models.OwnedBy(userID),
		Name:        name,
		ShelfLife:   params.ShelfLife,
		Available:   false,
		ServingUnit: params.ServingUnit,
		ServingSize: models.DefaultServingSize(params.ServingUnit),
	}
	return service.ingredients.Create(ctx, ingredient)
}

// Update applies partial field changes to an owned ingredient. A name or
// serving-unit change is propagated into the line items of every recipe
// visible to the caller, in the same transaction as the ingredient write.
func (service *IngredientService) Update(ctx context.Context, userID string, id string, params UpdateIngredientParams) (models.Ingredient, error) {
	if params.ServingUnit != nil && !params.ServingUnit.Valid() {
		return models.Ingredient{}, fmt.Errorf("%w: unknown serving unit %q", ErrValidation, *params.ServingUnit)
	}
	if params.ShelfLife != nil && *params.ShelfLife < 0 {
		return models.Ingredient{}, fmt.Errorf("%w: shelf life must not be negative", ErrValidation)
	}

	tx, err := service.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("beginning ingredient update: %w", err)
	}
	defer tx.Rollback()

	ingredientRepo := repository.NewIngredientRepository(tx)

	ingredient, err := ingredientRepo.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ingredient{}, fmt.Errorf("%w: ingredient", ErrNotFound)
	}
	if err != nil {
		return models.Ingredient{}, err
	}

	oldName := ingredient.Name

	if params.Name != nil {
		newName := strings.TrimSpace(*params.Name)
		if newName == "" {
			return models.Ingredient{}, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		if !strings.EqualFold(newName, oldName) {
			if existing, err := ingredientRepo.FindVisibleByName(ctx, userID, newName); err == nil && existing.ID != ingredient.ID {
				return models.Ingredient{}, fmt.Errorf("%w: ingredient name already exists", ErrConflict)
			} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return models.Ingredient{}, err
			}
		}
		ingredient.Name = newName
	}
	if params.Available != nil {
		ingredient.Available = *params.Available
		if *params.Available {
			now := time.Now()
			ingredient.LastAvailable = &now
		}
	}
	if params.ShelfLife != nil {
		ingredient.ShelfLife = params.ShelfLife
	}
	unitChanged := false
	if params.ServingUnit != nil && *params.ServingUnit != ingredient.ServingUnit {
		ingredient.ServingUnit = *params.ServingUnit
		unitChanged = true
	}
	if params.ServingSize != nil {
		ingredient.ServingSize = *params.ServingSize
	}
	applyNutrients(&ingredient, params)

	nameChanged := ingredient.Name != oldName
	if nameChanged || unitChanged {
		if err := propagateLineItemChange(ctx, tx, userID, oldName, ingredient.Name, ingredient.ServingUnit); err != nil {
			return models.Ingredient{}, err
		}
	}

	if err := ingredientRepo.Update(ctx, ingredient); err != nil {
		return models.Ingredient{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Ingredient{}, fmt.Errorf("committing ingredient update: %w", err)
	}

	ingredient, err = service.ingredients.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return models.Ingredient{}, err
	}
	return ingredient, nil
}

func applyNutrients(ingredient *models.Ingredient, params UpdateIngredientParams) {
	if params.Protein != nil {
		ingredient.Protein = *params.Protein
	}
	if params.Carbs != nil {
		ingredient.Carbs = *params.Carbs
	}
	if params.Fat != nil {
		ingredient.Fat = *params.Fat
	}
	if params.Fiber != nil {
		ingredient.Fiber = *params.Fiber
	}
	if params.Energy != nil {
		ingredient.Energy = *params.Energy
	}
	if params.IronMg != nil {
		ingredient.IronMg = *params.IronMg
	}
	if params.MagnesiumMg != nil {
		ingredient.MagnesiumMg = *params.MagnesiumMg
	}
	if params.CalciumMg != nil {
		ingredient.CalciumMg = *params.CalciumMg
	}
	if params.PotassiumMg != nil {
		ingredient.PotassiumMg = *params.PotassiumMg
	}
	if params.SodiumMg != nil {
		ingredient.SodiumMg = *params.SodiumMg
	}
	if params.VitaminCMg != nil {
		ingredient.VitaminCMg = *params.VitaminCMg
	}
}

// propagateLineItemChange rewrites line items referencing oldName in every
// recipe visible to the caller. Name matching is case-insensitive. Other
// users' private recipes are never touched.
func propagateLineItemChange(ctx context.Context, tx *sql.Tx, userID, oldName, newName string, newUnit models.ServingUnit) error {
	recipeRepo := repository.NewRecipeRepository(tx)
	recipes, err := recipeRepo.FindVisible(ctx, userID)
	if err != nil {
		return err
	}

	for _, recipe := range recipes {
		changed := false
		for i, item := range recipe.Ingredients {
			if strings.EqualFold(item.Name, oldName) {
				recipe.Ingredients[i].Name = newName
				recipe.Ingredients[i].ServingUnit = newUnit
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := recipeRepo.Update(ctx, recipe); err != nil {
			return fmt.Errorf("propagating rename into recipe %q: %w", recipe.Name, err)
		}
		slog.Debug("rewrote recipe line items", "recipe", recipe.Name,
			"old_name", oldName, "new_name", newName)
	}
	return nil
}

// Delete removes an owned ingredient unless a visible recipe still references
// it by name, in which case the blocking error names every such recipe.
func (service *IngredientService) Delete(ctx context.Context, userID string, id string) error {
	tx, err := service.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning ingredient delete: %w", err)
	}
	defer tx.Rollback()

	ingredientRepo := repository.NewIngredientRepository(tx)
	ingredient, err := ingredientRepo.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: ingredient", ErrNotFound)
	}
	if err != nil {
		return err
	}

	recipes, err := repository.NewRecipeRepository(tx).FindVisible(ctx, userID)
	if err != nil {
		return err
	}
	var referencing []string
	for _, recipe := range recipes {
		for _, item := range recipe.Ingredients {
			if strings.EqualFold(item.Name, ingredient.Name) {
				referencing = append(referencing, recipe.Name)
				break
			}
		}
	}
	if len(referencing) > 0 {
		return &IngredientInUseError{Ingredient: ingredient.Name, Recipes: referencing}
	}

	if err := ingredientRepo.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns every ingredient visible to the caller, annotated with the
// remaining shelf life. The sort key is honored only if it names a sortable
// column, otherwise the default (available DESC, name) order applies.
func (service *IngredientService) List(ctx context.Context, userID string, sortKey string) ([]models.IngredientListItem, error) {
	ingredients, err := service.ingredients.FindVisible(ctx, userID, sortKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]models.IngredientListItem, 0, len(ingredients))
	for _, ingredient := range ingredients {
		item := models.IngredientListItem{Ingredient: ingredient}
		if ingredient.Available && ingredient.LastAvailable != nil && ingredient.ShelfLife != nil {
			daysPassed := int(now.Sub(*ingredient.LastAvailable).Hours() / 24)
			remaining := *ingredient.ShelfLife - daysPassed
			if remaining < 0 {
				remaining = 0
			}
			item.RemainingShelfLife = &remaining
		} else {
			item.RemainingShelfLife = ingredient.ShelfLife
		}
		items = append(items, item)
	}
	return items, nil
}
