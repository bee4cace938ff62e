package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/manojmanivannan/MealPlanner/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized becomes a 500 and is logged server side only.
func writeServiceError(w http.ResponseWriter, err error) {
	var inUse *services.IngredientInUseError
	switch {
	case errors.As(err, &inUse):
		writeDetail(w, http.StatusMethodNotAllowed, inUse.Error())
	case errors.Is(err, services.ErrValidation):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrConflict):
		writeDetail(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrBadReference):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("unhandled service error", "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}
