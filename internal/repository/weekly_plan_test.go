package repository_test

import (
	"context"
	"testing"

	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/repository"
	"github.com/manojmanivannan/MealPlanner/internal/testutil"
)

func TestWeeklyPlanRepository_UpsertReplaces(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewWeeklyPlanRepository(db)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "alice@example.com")

	slot := models.PlanSlot{
		UserID:    user.ID,
		Day:       models.Monday,
		MealType:  models.MealTypeLunch,
		RecipeIDs: []string{"recipe-1", "recipe-2"},
	}
	if err := planRepo.Upsert(ctx, slot); err != nil {
		t.Fatalf("upserting slot: %v", err)
	}

	slot.RecipeIDs = []string{"recipe-3"}
	if err := planRepo.Upsert(ctx, slot); err != nil {
		t.Fatalf("upserting slot again: %v", err)
	}

	found, err := planRepo.FindSlot(ctx, user.ID, models.Monday, models.MealTypeLunch)
	if err != nil {
		t.Fatalf("finding slot: %v", err)
	}
	if len(found.RecipeIDs) != 1 || found.RecipeIDs[0] != "recipe-3" {
		t.Errorf("expected replacement, got %v", found.RecipeIDs)
	}
}

func TestWeeklyPlanRepository_UpsertEmptyClears(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewWeeklyPlanRepository(db)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "alice@example.com")

	slot := models.PlanSlot{
		UserID: user.ID, Day: models.Friday, MealType: models.MealTypeDinner,
		RecipeIDs: []string{"recipe-1"},
	}
	if err := planRepo.Upsert(ctx, slot); err != nil {
		t.Fatalf("upserting slot: %v", err)
	}

	slot.RecipeIDs = nil
	if err := planRepo.Upsert(ctx, slot); err != nil {
		t.Fatalf("clearing slot: %v", err)
	}

	found, err := planRepo.FindSlot(ctx, user.ID, models.Friday, models.MealTypeDinner)
	if err != nil {
		t.Fatalf("finding slot: %v", err)
	}
	if len(found.RecipeIDs) != 0 {
		t.Errorf("expected empty slot, got %v", found.RecipeIDs)
	}
	if found.RecipeIDs == nil {
		t.Error("expected empty slice, not nil")
	}
}

func TestWeeklyPlanRepository_FindByUserIsScoped(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewWeeklyPlanRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, userRepo, "alice@example.com")
	bob := createTestUser(t, userRepo, "bob@example.com")

	if err := planRepo.Upsert(ctx, models.PlanSlot{
		UserID: alice.ID, Day: models.Monday, MealType: models.MealTypeBreakfast,
		RecipeIDs: []string{"recipe-a"},
	}); err != nil {
		t.Fatalf("upserting alice's slot: %v", err)
	}
	if err := planRepo.Upsert(ctx, models.PlanSlot{
		UserID: bob.ID, Day: models.Monday, MealType: models.MealTypeBreakfast,
		RecipeIDs: []string{"recipe-b"},
	}); err != nil {
		t.Fatalf("upserting bob's slot: %v", err)
	}

	slots, err := planRepo.FindByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("finding alice's slots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot for alice, got %d", len(slots))
	}
	if slots[0].RecipeIDs[0] != "recipe-a" {
		t.Errorf("expected alice's own slot, got %v", slots[0].RecipeIDs)
	}
}

func TestWeeklyPlanRepository_RemoveRecipeID(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewWeeklyPlanRepository(db)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "alice@example.com")

	if err := planRepo.Upsert(ctx, models.PlanSlot{
		UserID: user.ID, Day: models.Monday, MealType: models.MealTypeLunch,
		RecipeIDs: []string{"keep", "drop"},
	}); err != nil {
		t.Fatalf("upserting slot: %v", err)
	}
	if err := planRepo.Upsert(ctx, models.PlanSlot{
		UserID: user.ID, Day: models.Tuesday, MealType: models.MealTypeDinner,
		RecipeIDs: []string{"drop"},
	}); err != nil {
		t.Fatalf("upserting slot: %v", err)
	}

	if err := planRepo.RemoveRecipeID(ctx, user.ID, "drop"); err != nil {
		t.Fatalf("removing recipe id: %v", err)
	}

	monday, err := planRepo.FindSlot(ctx, user.ID, models.Monday, models.MealTypeLunch)
	if err != nil {
		t.Fatalf("finding monday slot: %v", err)
	}
	if len(monday.RecipeIDs) != 1 || monday.RecipeIDs[0] != "keep" {
		t.Errorf("expected only 'keep' left, got %v", monday.RecipeIDs)
	}

	tuesday, err := planRepo.FindSlot(ctx, user.ID, models.Tuesday, models.MealTypeDinner)
	if err != nil {
		t.Fatalf("finding tuesday slot: %v", err)
	}
	if len(tuesday.RecipeIDs) != 0 {
		t.Errorf("expected tuesday slot emptied, got %v", tuesday.RecipeIDs)
	}
}
