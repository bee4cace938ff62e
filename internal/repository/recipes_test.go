package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/repository"
	"github.com/manojmanivannan/MealPlanner/internal/testutil"
)

func TestRecipeRepository_CreateAndFindByID(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "alice@example.com")

	recipe := models.Recipe{
		Owner:  models.OwnedBy(user.ID),
		Name:   "Palak Paneer",
		Serves: 2,
		Ingredients: []models.RecipeLineItem{
			{Name: "Spinach", Quantity: 250, ServingUnit: models.UnitGrams},
			{Name: "Paneer", Quantity: 200, ServingUnit: models.UnitGrams},
		},
		Instructions: "Blanch the spinach.\nFry the paneer.",
		MealType:     models.MealTypeDinner,
		IsVegetarian: true,
		Protein:      42.5,
		Energy:       610,
	}

	created, err := recipeRepo.Create(ctx, recipe)
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty ID")
	}

	found, err := recipeRepo.FindVisibleByID(ctx, created.ID, user.ID)
	if err != nil {
		t.Fatalf("finding recipe: %v", err)
	}
	if found.Name != "Palak Paneer" {
		t.Errorf("expected name 'Palak Paneer', got '%s'", found.Name)
	}
	if len(found.Ingredients) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(found.Ingredients))
	}
	if found.Ingredients[0].Name != "Spinach" || found.Ingredients[0].Quantity != 250 {
		t.Errorf("unexpected first line item: %+v", found.Ingredients[0])
	}
	if found.MealType != models.MealTypeDinner {
		t.Errorf("expected meal type dinner, got %s", found.MealType)
	}
	if !found.IsVegetarian {
		t.Error("expected vegetarian recipe")
	}
	if found.Protein != 42.5 {
		t.Errorf("expected protein 42.5, got %v", found.Protein)
	}
}

func TestRecipeRepository_EmptyLineItemsRoundTrip(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "alice@example.com")

	created, err := recipeRepo.Create(ctx, models.Recipe{
		Owner:    models.OwnedBy(user.ID),
		Name:     "Plain Toast",
		Serves:   1,
		MealType: models.MealTypeBreakfast,
	})
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}

	found, err := recipeRepo.FindVisibleByID(ctx, created.ID, user.ID)
	if err != nil {
		t.Fatalf("finding recipe: %v", err)
	}
	if found.Ingredients == nil {
		t.Error("expected empty slice, not nil line items")
	}
	if len(found.Ingredients) != 0 {
		t.Errorf("expected 0 line items, got %d", len(found.Ingredients))
	}
}

func TestRecipeRepository_VisibilityAcrossUsers(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, userRepo, "alice@example.com")
	bob := createTestUser(t, userRepo, "bob@example.com")

	global, err := recipeRepo.Create(ctx, models.Recipe{
		Owner: models.GlobalOwner(), Name: "Dal", Serves: 4, MealType: models.MealTypeLunch,
	})
	if err != nil {
		t.Fatalf("creating global recipe: %v", err)
	}
	private, err := recipeRepo.Create(ctx, models.Recipe{
		Owner: models.OwnedBy(bob.ID), Name: "Secret Curry", Serves: 2, MealType: models.MealTypeDinner,
	})
	if err != nil {
		t.Fatalf("creating private recipe: %v", err)
	}

	if _, err := recipeRepo.FindVisibleByID(ctx, global.ID, alice.ID); err != nil {
		t.Errorf("alice should see the global recipe: %v", err)
	}
	if _, err := recipeRepo.FindVisibleByID(ctx, private.ID, alice.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("alice should not see bob's recipe, got %v", err)
	}

	visible, err := recipeRepo.FindVisible(ctx, bob.ID)
	if err != nil {
		t.Fatalf("finding visible recipes: %v", err)
	}
	if len(visible) != 2 {
		t.Errorf("expected bob to see 2 recipes, got %d", len(visible))
	}
}

func TestRecipeRepository_UpdateRewritesLineItems(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "alice@example.com")

	created, err := recipeRepo.Create(ctx, models.Recipe{
		Owner:  models.OwnedBy(user.ID),
		Name:   "Smoothie",
		Serves: 1,
		Ingredients: []models.RecipeLineItem{
			{Name: "Banana", Quantity: 1, ServingUnit: models.UnitNos},
		},
		MealType: models.MealTypeSnack,
	})
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}

	created.Ingredients[0].Name = "Frozen Banana"
	if err := recipeRepo.Update(ctx, created); err != nil {
		t.Fatalf("updating recipe: %v", err)
	}

	found, err := recipeRepo.FindVisibleByID(ctx, created.ID, user.ID)
	if err != nil {
		t.Fatalf("finding recipe: %v", err)
	}
	if found.Ingredients[0].Name != "Frozen Banana" {
		t.Errorf("expected rewritten line item, got %q", found.Ingredients[0].Name)
	}
}
