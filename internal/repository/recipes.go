package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/manojmanivannan/MealPlanner/internal/models"
)

type RecipeRepository interface {
	FindVisible(ctx context.Context, viewerID string) ([]models.Recipe, error)
	FindOwnedBy(ctx context.Context, userID string) ([]models.Recipe, error)
	FindVisibleByID(ctx context.Context, id string, viewerID string) (models.Recipe, error)
	FindByIDForUser(ctx context.Context, id string, userID string) (models.Recipe, error)
	Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	Update(ctx context.Context, recipe models.Recipe) error
	Delete(ctx context.Context, id string) error
}

type SQLiteRecipeRepository struct {
	database DB
}

func NewRecipeRepository(database DB) *SQLiteRecipeRepository {
	return &SQLiteRecipeRepository{database: database}
}

const recipeColumns = `id, user_id, name, serves, ingredients, instructions, meal_type,
	is_vegetarian, protein, carbs, fat, fiber, energy, created_at, updated_at`

func scanRecipe(row interface{ Scan(...any) error }) (models.Recipe, error) {
	var recipe models.Recipe
	var ownerID sql.NullString
	var ingredientsJSON string
	err := row.Scan(
		&recipe.ID, &ownerID, &recipe.Name, &recipe.Serves, &ingredientsJSON,
		&recipe.Instructions, &recipe.MealType, &recipe.IsVegetarian,
		&recipe.Protein, &recipe.Carbs, &recipe.Fat, &recipe.Fiber, &recipe.Energy,
		&recipe.CreatedAt, &recipe.UpdatedAt,
	)
	if err != nil {
		return models.Recipe{}, err
	}
	if ownerID.Valid {
		recipe.Owner = models.OwnedBy(ownerID.String)
	} else {
		recipe.Owner = models.GlobalOwner()
	}
	if err := json.Unmarshal([]byte(ingredientsJSON), &recipe.Ingredients); err != nil {
		return models.Recipe{}, fmt.Errorf("unmarshalling line items: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) FindVisible(ctx context.Context, viewerID string) ([]models.Recipe, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		WHERE user_id = ? OR user_id IS NULL ORDER BY name COLLATE NOCASE`,
		viewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding visible recipes: %w", err)
	}
	defer rows.Close()
	return collectRecipes(rows)
}

func (repository *SQLiteRecipeRepository) FindOwnedBy(ctx context.Context, userID string) ([]models.Recipe, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE user_id = ? ORDER BY name COLLATE NOCASE`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding owned recipes: %w", err)
	}
	defer rows.Close()
	return collectRecipes(rows)
}

func collectRecipes(rows *sql.Rows) ([]models.Recipe, error) {
	var recipes []models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

func (repository *SQLiteRecipeRepository) FindVisibleByID(ctx context.Context, id string, viewerID string) (models.Recipe, error) {
	row := repository.database.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND (user_id = ? OR user_id IS NULL)`,
		id, viewerID,
	)
	recipe, err := scanRecipe(row)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("finding recipe by id: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) FindByIDForUser(ctx context.Context, id string, userID string) (models.Recipe, error) {
	row := repository.database.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	recipe, err := scanRecipe(row)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("finding owned recipe by id: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	if recipe.Ingredients == nil {
		recipe.Ingredients = []models.RecipeLineItem{}
	}
	ingredientsJSON, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("marshalling line items: %w", err)
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO recipes (id, user_id, name, serves, ingredients, instructions, meal_type,
			is_vegetarian, protein, carbs, fat, fiber, energy, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID, ownerValue(recipe.Owner), recipe.Name, recipe.Serves, string(ingredientsJSON),
		recipe.Instructions, recipe.MealType, recipe.IsVegetarian,
		recipe.Protein, recipe.Carbs, recipe.Fat, recipe.Fiber, recipe.Energy,
		recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("creating recipe: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) Update(ctx context.Context, recipe models.Recipe) error {
	recipe.UpdatedAt = time.Now()

	if recipe.Ingredients == nil {
		recipe.Ingredients = []models.RecipeLineItem{}
	}
	ingredientsJSON, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("marshalling line items: %w", err)
	}

	_, err = repository.database.ExecContext(ctx,
		`UPDATE recipes SET name = ?, serves = ?, ingredients = ?, instructions = ?,
			meal_type = ?, is_vegetarian = ?, protein = ?, carbs = ?, fat = ?, fiber = ?, energy = ?,
			updated_at = ?
		WHERE id = ?`,
		recipe.Name, recipe.Serves, string(ingredientsJSON), recipe.Instructions,
		recipe.MealType, recipe.IsVegetarian,
		recipe.Protein, recipe.Carbs, recipe.Fat, recipe.Fiber, recipe.Energy,
		recipe.UpdatedAt, recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}
	return nil
}

func (repository *SQLiteRecipeRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	return nil
}
