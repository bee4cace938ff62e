package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/manojmanivannan/MealPlanner/internal/middleware"
	"github.com/manojmanivannan/MealPlanner/internal/services"
)

type RecipeHandler struct {
	recipeService *services.RecipeService
}

func NewRecipeHandler(recipeService *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (handler *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	recipes, err := handler.recipeService.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (handler *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	recipe, err := handler.recipeService.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (handler *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var params services.RecipeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "malformed request body")
		return
	}

	recipe, err := handler.recipeService.Create(r.Context(), user.ID, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

func (handler *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var params services.RecipeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "malformed request body")
		return
	}

	recipe, err := handler.recipeService.Update(r.Context(), user.ID, chi.URLParam(r, "id"), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (handler *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	if err := handler.recipeService.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "recipe deleted"})
}
