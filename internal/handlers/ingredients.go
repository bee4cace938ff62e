package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/manojmanivannan/MealPlanner/internal/middleware"
	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/services"
)

type IngredientHandler struct {
	ingredientService *services.IngredientService
}

func NewIngredientHandler(ingredientService *services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

func (handler *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	items, err := handler.ingredientService.List(r.Context(), user.ID, r.URL.Query().Get("sort_by"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create reads the new ingredient's fields from query parameters, matching
// the mutation contract of the ingredient endpoints.
func (handler *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	query := r.URL.Query()

	params := services.CreateIngredientParams{
		Name:        query.Get("name"),
		ServingUnit: models.ServingUnit(query.Get("serving_unit")),
	}
	if query.Has("shelf_life") {
		shelfLife, err := strconv.Atoi(query.Get("shelf_life"))
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "shelf_life must be an integer")
			return
		}
		params.ShelfLife = &shelfLife
	}

	ingredient, err := handler.ingredientService.Create(r.Context(), user.ID, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ingredient)
}

func (handler *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	params, err := parseIngredientUpdate(r.URL.Query())
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ingredient, err := handler.ingredientService.Update(r.Context(), user.ID, chi.URLParam(r, "id"), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

func (handler *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	if err := handler.ingredientService.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "ingredient deleted"})
}

func parseIngredientUpdate(query url.Values) (services.UpdateIngredientParams, error) {
	var params services.UpdateIngredientParams

	if query.Has("name") {
		name := query.Get("name")
		params.Name = &name
	}
	if query.Has("serving_unit") {
		unit := models.ServingUnit(query.Get("serving_unit"))
		params.ServingUnit = &unit
	}
	if query.Has("available") {
		available, err := strconv.ParseBool(query.Get("available"))
		if err != nil {
			return params, fmt.Errorf("available must be a boolean")
		}
		params.Available = &available
	}
	if query.Has("shelf_life") {
		shelfLife, err := strconv.Atoi(query.Get("shelf_life"))
		if err != nil {
			return params, fmt.Errorf("shelf_life must be an integer")
		}
		params.ShelfLife = &shelfLife
	}

	floatFields := map[string]**float64{
		"serving_size": &params.ServingSize,
		"protein":      &params.Protein,
		"carbs":        &params.Carbs,
		"fat":          &params.Fat,
		"fiber":        &params.Fiber,
		"energy":       &params.Energy,
		"iron_mg":      &params.IronMg,
		"magnesium_mg": &params.MagnesiumMg,
		"calcium_mg":   &params.CalciumMg,
		"potassium_mg": &params.PotassiumMg,
		"sodium_mg":    &params.SodiumMg,
		"vitamin_c_mg": &params.VitaminCMg,
	}
	for field, target := range floatFields {
		if !query.Has(field) {
			continue
		}
		value, err := strconv.ParseFloat(query.Get(field), 64)
		if err != nil {
			return params, fmt.Errorf("%s must be a number", field)
		}
		*target = &value
	}
	return params, nil
}
