package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/manojmanivannan/MealPlanner/internal/models"
)

// Sortable ingredient columns for caller-supplied sort keys. Anything else
// falls back to the default (available DESC, name) ordering.
var ingredientSortColumns = map[string]string{
	"name":           "name COLLATE NOCASE",
	"available":      "available DESC",
	"shelf_life":     "shelf_life",
	"last_available": "last_available",
	"serving_unit":   "serving_unit",
	"serving_size":   "serving_size",
	"protein":        "protein",
	"carbs":          "carbs",
	"fat":            "fat",
	"fiber":          "fiber",
	"energy":         "energy",
	"created_at":     "created_at",
}

type IngredientRepository interface {
	FindVisible(ctx context.Context, viewerID string, sortKey string) ([]models.Ingredient, error)
	FindOwnedBy(ctx context.Context, userID string) ([]models.Ingredient, error)
	FindByIDForUser(ctx context.Context, id string, userID string) (models.Ingredient, error)
	FindVisibleByName(ctx context.Context, viewerID string, name string) (models.Ingredient, error)
	Create(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error)
	Update(ctx context.Context, ingredient models.Ingredient) error
	Delete(ctx context.Context, id string) error
}

type SQLiteIngredientRepository struct {
	database DB
}

func NewIngredientRepository(database DB) *SQLiteIngredientRepository {
	return &SQLiteIngredientRepository{database: database}
}

const ingredientColumns = `id, user_id, name, shelf_life, available, last_available,
	serving_unit, serving_size, protein, carbs, fat, fiber, energy,
	iron_mg, magnesium_mg, calcium_mg, potassium_mg, sodium_mg, vitamin_c_mg,
	created_at, updated_at`

func scanIngredient(row interface{ Scan(...any) error }) (models.Ingredient, error) {
	var ingredient models.Ingredient
	var ownerID sql.NullString
	var lastAvailable sql.NullTime
	err := row.Scan(
		&ingredient.ID, &ownerID, &ingredient.Name, &ingredient.ShelfLife,
		&ingredient.Available, &lastAvailable,
		&ingredient.ServingUnit, &ingredient.ServingSize,
		&ingredient.Protein, &ingredient.Carbs, &ingredient.Fat,
		&ingredient.Fiber, &ingredient.Energy,
		&ingredient.IronMg, &ingredient.MagnesiumMg, &ingredient.CalciumMg,
		&ingredient.PotassiumMg, &ingredient.SodiumMg, &ingredient.VitaminCMg,
		&ingredient.CreatedAt, &ingredient.UpdatedAt,
	)
	if err != nil {
		return models.Ingredient{}, err
	}
	if ownerID.Valid {
		ingredient.Owner = models.OwnedBy(ownerID.String)
	} else {
		ingredient.Owner = models.GlobalOwner()
	}
	if lastAvailable.Valid {
		ingredient.LastAvailable = &lastAvailable.Time
	}
	return ingredient, nil
}

func ownerValue(owner models.Owner) sql.NullString {
	if userID, ok := owner.UserID(); ok {
		return sql.NullString{String: userID, Valid: true}
	}
	return sql.NullString{}
}

func (repository *SQLiteIngredientRepository) FindVisible(ctx context.Context, viewerID string, sortKey string) ([]models.Ingredient, error) {
	orderBy := "available DESC, name COLLATE NOCASE"
	if column, ok := ingredientSortColumns[sortKey]; ok {
		orderBy = column
	}

	rows, err := repository.database.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients
		WHERE user_id = ? OR user_id IS NULL ORDER BY `+orderBy,
		viewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding visible ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []models.Ingredient
	for rows.Next() {
		ingredient, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, rows.Err()
}

func (repository *SQLiteIngredientRepository) FindOwnedBy(ctx context.Context, userID string) ([]models.Ingredient, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE user_id = ? ORDER BY name COLLATE NOCASE`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding owned ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []models.Ingredient
	for rows.Next() {
		ingredient, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, rows.Err()
}

func (repository *SQLiteIngredientRepository) FindByIDForUser(ctx context.Context, id string, userID string) (models.Ingredient, error) {
	row := repository.database.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	ingredient, err := scanIngredient(row)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("finding ingredient by id: %w", err)
	}
	return ingredient, nil
}

// FindVisibleByName resolves a name against the viewer's scope, preferring a
// private row over a global one. Name matching is case-insensitive.
func (repository *SQLiteIngredientRepository) FindVisibleByName(ctx context.Context, viewerID string, name string) (models.Ingredient, error) {
	row := repository.database.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients
		WHERE name = ? COLLATE NOCASE AND (user_id = ? OR user_id IS NULL)
		ORDER BY user_id IS NULL LIMIT 1`,
		name, viewerID,
	)
	ingredient, err := scanIngredient(row)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("finding ingredient by name: %w", err)
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) Create(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error) {
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	now := time.Now()
	ingredient.CreatedAt = now
	ingredient.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO ingredients (id, user_id, name, shelf_life, available, last_available,
			serving_unit, serving_size, protein, carbs, fat, fiber, energy,
			iron_mg, magnesium_mg, calcium_mg, potassium_mg, sodium_mg, vitamin_c_mg,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ingredient.ID, ownerValue(ingredient.Owner), ingredient.Name,
		ingredient.ShelfLife, ingredient.Available, ingredient.LastAvailable,
		ingredient.ServingUnit, ingredient.ServingSize,
		ingredient.Protein, ingredient.Carbs, ingredient.Fat,
		ingredient.Fiber, ingredient.Energy,
		ingredient.IronMg, ingredient.MagnesiumMg, ingredient.CalciumMg,
		ingredient.PotassiumMg, ingredient.SodiumMg, ingredient.VitaminCMg,
		ingredient.CreatedAt, ingredient.UpdatedAt,
	)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("creating ingredient: %w", err)
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) Update(ctx context.Context, ingredient models.Ingredient) error {
	ingredient.UpdatedAt = time.Now()

	_, err := repository.database.ExecContext(ctx,
		`UPDATE ingredients SET name = ?, shelf_life = ?, available = ?, last_available = ?,
			serving_unit = ?, serving_size = ?, protein = ?, carbs = ?, fat = ?, fiber = ?, energy = ?,
			iron_mg = ?, magnesium_mg = ?, calcium_mg = ?, potassium_mg = ?, sodium_mg = ?, vitamin_c_mg = ?,
			updated_at = ?
		WHERE id = ?`,
		ingredient.Name, ingredient.ShelfLife, ingredient.Available, ingredient.LastAvailable,
		ingredient.ServingUnit, ingredient.ServingSize,
		ingredient.Protein, ingredient.Carbs, ingredient.Fat, ingredient.Fiber, ingredient.Energy,
		ingredient.IronMg, ingredient.MagnesiumMg, ingredient.CalciumMg,
		ingredient.PotassiumMg, ingredient.SodiumMg, ingredient.VitaminCMg,
		ingredient.UpdatedAt, ingredient.ID,
	)
	if err != nil {
		return fmt.Errorf("updating ingredient: %w", err)
	}
	return nil
}

func (repository *SQLiteIngredientRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM ingredients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting ingredient: %w", err)
	}
	return nil
}
