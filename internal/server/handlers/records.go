package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/repository"
	"github.com/avolkov/sadhana-tracker/internal/server/response"
)

type RecordsHandler struct {
	records repository.RecordRepository
}

func NewRecordsHandler(records repository.RecordRepository) *RecordsHandler {
	return &RecordsHandler{records: records}
}

type HabitValueRequest struct {
	Value bool `json:"value"`
}

type YesterdayCheckResponse struct {
	HasData bool `json:"hasData"`
}

func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.records.GetAll(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to load sleep records")
		return
	}
	if entries == nil {
		entries = []domain.DailyEntry{}
	}
	response.JSON(w, http.StatusOK, entries)
}

func (h *RecordsHandler) PutSleep(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	var input domain.SleepInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	if err := h.records.UpdateSleepForDay(r.Context(), date, input); err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to update sleep record")
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *RecordsHandler) PatchHabit(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	habitKey := chi.URLParam(r, "habitKey")

	var req HabitValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	if err := h.records.UpdateHabitForDay(r.Context(), date, habitKey, req.Value); err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to update habit")
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *RecordsHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	habitKey := chi.URLParam(r, "habitKey")

	if err := h.records.RemoveHabitForDay(r.Context(), date, habitKey); err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to remove habit")
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *RecordsHandler) CheckYesterday(w http.ResponseWriter, r *http.Request) {
	hasData, err := h.records.HasYesterdaySleep(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to check yesterday")
		return
	}
	response.JSON(w, http.StatusOK, YesterdayCheckResponse{HasData: hasData})
}

func (h *RecordsHandler) SleepStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.records.SleepStats(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "Failed to compute sleep stats")
		return
	}
	response.JSON(w, http.StatusOK, stats)
}
