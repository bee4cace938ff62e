package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/manojmanivannan/MealPlanner/internal/middleware"
	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/services"
)

type PlanHandler struct {
	planService *services.PlanService
}

func NewPlanHandler(planService *services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func (handler *PlanHandler) Grid(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	grid, err := handler.planService.Grid(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

type setSlotRequest struct {
	Day       models.Day      `json:"day"`
	MealType  models.MealType `json:"meal_type"`
	RecipeIDs []string        `json:"recipe_ids"`
}

func (handler *PlanHandler) SetSlot(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req setSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "malformed request body")
		return
	}

	slot, err := handler.planService.SetSlot(r.Context(), user.ID, req.Day, req.MealType, req.RecipeIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}
