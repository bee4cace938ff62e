package handlers

import (
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/go-chi/chi/v5"
	"github.com/manojmanivannan/MealPlanner/internal/middleware"
	"github.com/manojmanivannan/MealPlanner/internal/models"
	"github.com/manojmanivannan/MealPlanner/internal/services"
)

type UtilityHandler struct {
	authService   *services.AuthService
	planService   *services.PlanService
	recipeService *services.RecipeService
}

func NewUtilityHandler(
	authService *services.AuthService,
	planService *services.PlanService,
	recipeService *services.RecipeService,
) *UtilityHandler {
	return &UtilityHandler{
		authService:   authService,
		planService:   planService,
		recipeService: recipeService,
	}
}

func (handler *UtilityHandler) ListServingUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.AllServingUnits)
}

// Nutrition totals the planned recipes for one day, optionally narrowed to a
// meal type by the second path segment. An empty day totals to zero, never 404.
func (handler *UtilityHandler) Nutrition(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	day := models.Day(chi.URLParam(r, "day"))

	var mealType *models.MealType
	if raw := chi.URLParam(r, "mealType"); raw != "" {
		m := models.MealType(raw)
		mealType = &m
	}

	totals, err := handler.planService.NutritionFor(r.Context(), user.ID, day, mealType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (handler *UtilityHandler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	items, err := handler.planService.ShoppingList(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CalendarFeed serves the caller's current week as all-day events. Calendar
// clients cannot send headers, so the bearer token arrives as a query
// parameter instead.
func (handler *UtilityHandler) CalendarFeed(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := handler.authService.CurrentUser(r.Context(), token)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	grid, err := handler.planService.Grid(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId("-//MealPlanner//MealPlanner//EN")
	calendar.SetCalscale("GREGORIAN")
	calendar.SetXWRCalName("Meal Planner")

	monday := startOfWeek(time.Now())
	for offset, day := range models.AllDays {
		date := monday.AddDate(0, 0, offset)
		for _, mealType := range models.AllMealTypes {
			for _, recipeID := range grid[day][mealType] {
				recipe, err := handler.recipeService.Get(r.Context(), user.ID, recipeID)
				if err != nil {
					continue
				}
				event := calendar.AddEvent(fmt.Sprintf("%s-%s-%s@mealplanner", day, mealType, recipeID))
				event.SetSummary(fmt.Sprintf("[%s] %s", mealType, recipe.Name))
				event.SetAllDayStartAt(date)
				event.SetAllDayEndAt(date.AddDate(0, 0, 1))
				event.SetDtStampTime(time.Now())
			}
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=meal-planner.ics")
	w.Write([]byte(calendar.Serialize()))
}

func startOfWeek(now time.Time) time.Time {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	date := now.AddDate(0, 0, 1-weekday)
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
