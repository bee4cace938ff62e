package services_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/repository"
	"github.com/manojmanivannan/MealPlanner/internal/services"
	"github.com/manojmanivannan/MealPlanner/internal/testutil"
)

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecipeService_CreateComputesNutrition(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	recipeService := services.NewRecipeService(db)
	ctx := context.Background()

	user := signupTestUser(t, db, "alice@example.com")

	ingredientRepo := repository.NewIngredientRepository(db)
	if _, err := ingredientRepo.Create(ctx, models.Ingredient{
		Owner: models.OwnedBy(user.ID), Name: "Spinach",
		ServingUnit: models.UnitGrams, ServingSize: 100,
		Protein: 2.9, Carbs: 3.6, Fat: 0.4, Fiber: 2.2, Energy: 23,
	}); err != nil {
		t.Fatalf("seeding ingredient: %v", err)
	}
	if _, err := ingredientRepo.Create(ctx, models.Ingredient{
		Owner: models.GlobalOwner(), Name: "Paneer",
		ServingUnit: models.UnitGrams, ServingSize: 100,
		Protein: 18, Carbs: 1.2, Fat: 20, Fiber: 0, Energy: 265,
	}); err != nil {
		t.Fatalf("seeding ingredient: %v", err)
	}

	recipe, err := recipeService.Create(ctx, user.ID, services.RecipeParams{
		Name: "Palak Paneer", Serves: 2, MealType: models.MealTypeDinner, IsVegetarian: true,
		Ingredients: []models.RecipeLineItem{
			{Name: "Spinach", Quantity: 200, ServingUnit: models.UnitGrams},
			{Name: "Paneer", Quantity: 150, ServingUnit: models.UnitGrams},
			{Name: "Unknown Spice", Quantity: 5, ServingUnit: models.UnitGrams},
		},
	})
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}

	// 200/100 servings of spinach plus 150/100 servings of paneer.
	if !closeTo(recipe.Protein, 2*2.9+1.5*18) {
		t.Errorf("unexpected protein %v", recipe.Protein)
	}
	if !closeTo(recipe.Energy, 2*23+1.5*265) {
		t.Errorf("unexpected energy %v", recipe.Energy)
	}
	if !closeTo(recipe.Fiber, 2*2.2) {
		t.Errorf("unexpected fiber %v", recipe.Fiber)
	}
}

func TestRecipeService_UpdateRecomputesNutrition(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	recipeService := services.NewRecipeService(db)
	ctx := context.Background()

	user := signupTestUser(t, db, "alice@example.com")

	ingredientRepo := repository.NewIngredientRepository(db)
	if _, err := ingredientRepo.Create(ctx, models.Ingredient{
		Owner: models.OwnedBy(user.ID), Name: "Oats",
		ServingUnit: models.UnitGrams, ServingSize: 100, Protein: 13, Energy: 380,
	}); err != nil {
		t.Fatalf("seeding ingredient: %v", err)
	}

	recipe, err := recipeService.Create(ctx, user.ID, services.RecipeParams{
		Name: "Porridge", Serves: 1, MealType: models.MealTypeBreakfast,
		Ingredients: []models.RecipeLineItem{
			{Name: "Oats", Quantity: 50, ServingUnit: models.UnitGrams},
		},
	})
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}
	if !closeTo(recipe.Protein, 6.5) {
		t.Fatalf("unexpected initial protein %v", recipe.Protein)
	}

	updated, err := recipeService.Update(ctx, user.ID, recipe.ID, services.RecipeParams{
		Name: "Big Porridge", Serves: 2, MealType: models.MealTypeBreakfast,
		Ingredients: []models.RecipeLineItem{
			{Name: "Oats", Quantity: 100, ServingUnit: models.UnitGrams},
		},
	})
	if err != nil {
		t.Fatalf("updating recipe: %v", err)
	}
	if !closeTo(updated.Protein, 13) {
		t.Errorf("expected recomputed protein 13, got %v", updated.Protein)
	}
	if updated.Name != "Big Porridge" {
		t.Errorf("expected renamed recipe, got %q", updated.Name)
	}
}

func TestRecipeService_MutationRequiresOwnership(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	recipeService := services.NewRecipeService(db)
	ctx := context.Background()

	alice := signupTestUser(t, db, "alice@example.com")
	bob := signupTestUser(t, db, "bob@example.com")

	recipe, err := recipeService.Create(ctx, alice.ID, services.RecipeParams{
		Name: "Dal", Serves: 4, MealType: models.MealTypeLunch,
	})
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}

	if _, err := recipeService.Update(ctx, bob.ID, recipe.ID, services.RecipeParams{
		Name: "Stolen Dal", Serves: 4, MealType: models.MealTypeLunch,
	}); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected not found for foreign update, got %v", err)
	}
	if err := recipeService.Delete(ctx, bob.ID, recipe.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected not found for foreign delete, got %v", err)
	}

	global, err := repository.NewRecipeRepository(db).Create(ctx, models.Recipe{
		Owner: models.GlobalOwner(), Name: "House Dal", Serves: 4, MealType: models.MealTypeLunch,
	})
	if err != nil {
		t.Fatalf("seeding global recipe: %v", err)
	}
	if err := recipeService.Delete(ctx, alice.ID, global.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("global recipes must not be deletable through the service, got %v", err)
	}
}

func TestRecipeService_DeleteScrubsWeeklyPlan(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	recipeService := services.NewRecipeService(db)
	planService := services.NewPlanService(db)
	ctx := context.Background()

	user := signupTestUser(t, db, "alice@example.com")

	recipe, err := recipeService.Create(ctx, user.ID, services.RecipeParams{
		Name: "Khichdi", Serves: 2, MealType: models.MealTypeDinner,
	})
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}

	if _, err := planService.SetSlot(ctx, user.ID, models.Wednesday, models.MealTypeDinner, []string{recipe.ID}); err != nil {
		t.Fatalf("setting slot: %v", err)
	}

	if err := recipeService.Delete(ctx, user.ID, recipe.ID); err != nil {
		t.Fatalf("deleting recipe: %v", err)
	}

	grid, err := planService.Grid(ctx, user.ID)
	if err != nil {
		t.Fatalf("loading grid: %v", err)
	}
	if len(grid[models.Wednesday][models.MealTypeDinner]) != 0 {
		t.Errorf("expected slot scrubbed, got %v", grid[models.Wednesday][models.MealTypeDinner])
	}
}

func TestRecipeService_Validation(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	recipeService := services.NewRecipeService(db)
	ctx := context.Background()

	user := signupTestUser(t, db, "alice@example.com")

	cases := []struct {
		name   string
		params services.RecipeParams
	}{
		{"empty name", services.RecipeParams{Serves: 1, MealType: models.MealTypeLunch}},
		{"zero serves", services.RecipeParams{Name: "X", MealType: models.MealTypeLunch}},
		{"bad meal type", services.RecipeParams{Name: "X", Serves: 1, MealType: "brunch"}},
		{"bad line item unit", services.RecipeParams{
			Name: "X", Serves: 1, MealType: models.MealTypeLunch,
			Ingredients: []models.RecipeLineItem{{Name: "Salt", Quantity: 1, ServingUnit: "pinch"}},
		}},
	}
	for _, tc := range cases {
		if _, err := recipeService.Create(ctx, user.ID, tc.params); !errors.Is(err, services.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}
