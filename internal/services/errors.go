package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers both missing rows and rows not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate name inside the caller's visible scope.
	ErrConflict = errors.New("already exists")
	// ErrValidation marks a malformed request value, such as a bad enum.
	ErrValidation = errors.New("invalid value")
	// ErrBadReference marks a plan slot pointing at a recipe the caller
	// cannot see. The whole write is rejected.
	ErrBadReference = errors.New("unknown recipe reference")
	// ErrInvalidCredentials marks a failed login.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// IngredientInUseError blocks deleting an ingredient that visible recipes
// still reference by name.
type IngredientInUseError struct {
	Ingredient string
	Recipes    []string
}

func (e *IngredientInUseError) Error() string {
	return fmt.Sprintf("recipes %s are using ingredient %q",
		strings.Join(e.Recipes, ", "), e.Ingredient)
}
