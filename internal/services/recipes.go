package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/repository"
)

type RecipeService struct {
	db      *sql.DB
	recipes repository.RecipeRepository
}

func NewRecipeService(db *sql.DB) *RecipeService {
	return &RecipeService{
		db:      db,
		recipes: repository.NewRecipeRepository(db),
	}
}

type RecipeParams struct {
	Name         string                  `json:"name"`
	Serves       int                     `json:"serves"`
	Ingredients  []models.RecipeLineItem `json:"ingredients"`
	Instructions string                  `json:"instructions"`
	MealType     models.MealType         `json:"meal_type"`
	IsVegetarian bool                    `json:"is_vegetarian"`
}

func (params RecipeParams) validate() error {
	if strings.TrimSpace(params.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if params.Serves < 1 {
		return fmt.Errorf("%w: serves must be at least 1", ErrValidation)
	}
	if !params.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal type %q", ErrValidation, params.MealType)
	}
	for _, item := range params.Ingredients {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: line item name is required", ErrValidation)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: line item quantity must not be negative", ErrValidation)
		}
		if !item.ServingUnit.Valid() {
			return fmt.Errorf("%w: unknown serving unit %q", ErrValidation, item.ServingUnit)
		}
	}
	return nil
}

func (service *RecipeService) List(ctx context.Context, userID string) ([]models.Recipe, error) {
	recipes, err := service.recipes.FindVisible(ctx, userID)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return recipes, nil
}

func (service *RecipeService) Get(ctx context.Context, userID string, id string) (models.Recipe, error) {
	recipe, err := service.recipes.FindVisibleByID(ctx, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recipe{}, fmt.Errorf("%w: recipe", ErrNotFound)
	}
	return recipe, err
}

// Create stores a new private recipe with aggregate nutrition computed from
// the caller's visible ingredients at write time.
func (service *RecipeService) Create(ctx context.Context, userID string, params RecipeParams) (models.Recipe, error) {
	if err := params.validate(); err != nil {
		return models.Recipe{}, err
	}

	tx, err := service.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("beginning recipe create: %w", err)
	}
	defer tx.Rollback()

	recipe := models.Recipe{
		Owner:        models.OwnedBy(userID),
		Name:         strings.TrimSpace(params.Name),
		Serves:       params.Serves,
		Ingredients:  params.Ingredients,
		Instructions: params.Instructions,
		MealType:     params.MealType,
		IsVegetarian: params.IsVegetarian,
	}
	if err := computeNutrition(ctx, tx, userID, &recipe); err != nil {
		return models.Recipe{}, err
	}

	recipe, err = repository.NewRecipeRepository(tx).Create(ctx, recipe)
	if err != nil {
		return models.Recipe{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Recipe{}, fmt.Errorf("committing recipe create: %w", err)
	}
	return recipe, nil
}

// Update replaces an owned recipe's fields and recomputes its nutrition.
func (service *RecipeService) Update(ctx context.Context, userID string, id string, params RecipeParams) (models.Recipe, error) {
	if err := params.validate(); err != nil {
		return models.Recipe{}, err
	}

	tx, err := service.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("beginning recipe update: %w", err)
	}
	defer tx.Rollback()

	recipeRepo := repository.NewRecipeRepository(tx)
	recipe, err := recipeRepo.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recipe{}, fmt.Errorf("%w: recipe", ErrNotFound)
	}
	if err != nil {
		return models.Recipe{}, err
	}

	recipe.Name = strings.TrimSpace(params.Name)
	recipe.Serves = params.Serves
	recipe.Ingredients = params.Ingredients
	recipe.Instructions = params.Instructions
	recipe.MealType = params.MealType
	recipe.IsVegetarian = params.IsVegetarian
	if err := computeNutrition(ctx, tx, userID, &recipe); err != nil {
		return models.Recipe{}, err
	}

	if err := recipeRepo.Update(ctx, recipe); err != nil {
		return models.Recipe{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Recipe{}, fmt.Errorf("committing recipe update: %w", err)
	}
	return recipe, nil
}

// Delete removes an owned recipe and scrubs its id from the owner's weekly
// plan so no slot is left pointing at a missing recipe.
func (service *RecipeService) Delete(ctx context.Context, userID string, id string) error {
	tx, err := service.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning recipe delete: %w", err)
	}
	defer tx.Rollback()

	recipeRepo := repository.NewRecipeRepository(tx)
	if _, err := recipeRepo.FindByIDForUser(ctx, id, userID); errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: recipe", ErrNotFound)
	} else if err != nil {
		return err
	}

	if err := recipeRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := repository.NewWeeklyPlanRepository(tx).RemoveRecipeID(ctx, userID, id); err != nil {
		return err
	}
	return tx.Commit()
}

// computeNutrition sums each line item's contribution: the matching visible
// ingredient's per-serving values scaled by quantity over serving size. Line
// items naming an unknown ingredient contribute nothing.
func computeNutrition(ctx context.Context, tx *sql.Tx, userID string, recipe *models.Recipe) error {
	ingredientRepo := repository.NewIngredientRepository(tx)

	recipe.Protein, recipe.Carbs, recipe.Fat, recipe.Fiber, recipe.Energy = 0, 0, 0, 0, 0
	for _, item := range recipe.Ingredients {
		ingredient, err := ingredientRepo.FindVisibleByName(ctx, userID, item.Name)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return fmt.Errorf("resolving line item %q: %w", item.Name, err)
		}
		if ingredient.ServingSize <= 0 {
			continue
		}
		factor := item.Quantity / ingredient.ServingSize
		recipe.Protein += ingredient.Protein * factor
		recipe.Carbs += ingredient.Carbs * factor
		recipe.Fat += ingredient.Fat * factor
		recipe.Fiber += ingredient.Fiber * factor
		recipe.Energy += ingredient.Energy * factor
	}
	return nil
}
