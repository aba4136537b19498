package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/repository"
	"github.com/avolkov/sadhana-tracker/internal/server/response"
)

type HabitsHandler struct {
	habits repository.HabitRepository
}

func NewHabitsHandler(habits repository.HabitRepository) *HabitsHandler {
	return &HabitsHandler{habits: habits}
}

type HabitLabelRequest struct {
	Label string `json:"label"`
}

func (h *HabitsHandler) List(w http.ResponseWriter, r *http.Request) {
	habits, err := h.habits.GetAll(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to load habits")
		return
	}
	if habits == nil {
		habits = []domain.HabitDefinition{}
	}
	response.JSON(w, http.StatusOK, habits)
}

func (h *HabitsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req HabitLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	habit, err := h.habits.Add(r.Context(), req.Label)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyLabel) {
			response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Habit label must not be empty")
			return
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to add habit")
		return
	}
	response.JSON(w, http.StatusCreated, habit)
}

func (h *HabitsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req HabitLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	habit, err := h.habits.Rename(r.Context(), key, req.Label)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Habit not found")
		case errors.Is(err, domain.ErrEmptyLabel):
			response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Habit label must not be empty")
		default:
			response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to rename habit")
		}
		return
	}
	response.JSON(w, http.StatusOK, habit)
}

func (h *HabitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.habits.Delete(r.Context(), key); err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to delete habit")
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
