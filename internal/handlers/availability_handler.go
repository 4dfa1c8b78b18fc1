package handlers

import (
	"encoding/json"
	"net/http"

	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/models"
	"boardcafe/web/internal/partyfinder"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/utils"

	"go.uber.org/zap"
)

// AvailabilityHandler manages the authenticated user's weekly
// availability (weekday indices, Sunday = 0).
type AvailabilityHandler struct {
	Availability *repositories.AvailabilityRepository
	Cache        *cache.Cache
	Logger       *zap.Logger
}

type availabilityRequest struct {
	SelectedDays []int `json:"selectedDays"`
}

type availabilityResponse struct {
	SelectedDays []int `json:"selectedDays"`
}

func (h *AvailabilityHandler) GetAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	days, err := h.Availability.DaysForUser(currentUserID(r))
	if err != nil {
		h.Logger.Error("failed to load availability", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to load availability")
		return
	}
	if days == nil {
		days = []int{}
	}
	utils.JSON(w, http.StatusOK, availabilityResponse{SelectedDays: days})
}

// UpdateAvailabilityHandler replaces the full weekday set. An empty set
// is allowed and clears the schedule.
func (h *AvailabilityHandler) UpdateAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	seen := map[int]bool{}
	days := make([]int, 0, len(req.SelectedDays))
	for _, day := range req.SelectedDays {
		if !models.ValidDay(day) {
			utils.JSONError(w, http.StatusBadRequest, "days must be between 0 (Sunday) and 6 (Saturday)")
			return
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}

	if err := h.Availability.ReplaceForUser(currentUserID(r), days); err != nil {
		h.Logger.Error("failed to update availability", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to update availability")
		return
	}

	partyfinder.InvalidateDirectoryCaches(h.Cache)
	utils.JSON(w, http.StatusOK, availabilityResponse{SelectedDays: days})
}
