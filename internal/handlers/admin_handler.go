package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/models"
	"boardcafe/web/internal/partyfinder"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler serves system settings, account removal and the manual
// inactivity sweep.
type AdminHandler struct {
	Settings      *repositories.SettingRepository
	Users         *repositories.UserRepository
	Availability  *repositories.AvailabilityRepository
	Preferences   *repositories.PreferenceRepository
	PartySettings *partyfinder.Settings
	Sweeper       *partyfinder.Sweeper
	Cache         *cache.Cache
	Logger        *zap.Logger
}

type inactiveDaysResponse struct {
	InactiveDays int `json:"inactiveDays"`
}

type updateInactiveDaysRequest struct {
	InactiveDays int `json:"inactiveDays"`
}

type cleanupResponse struct {
	partyfinder.CleanupResult
	DurationMs int64 `json:"durationMs"`
}

func (h *AdminHandler) GetInactiveDaysHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, inactiveDaysResponse{InactiveDays: h.PartySettings.InactiveDays()})
}

// UpdateInactiveDaysHandler upserts the inactivity threshold and drops
// the cached value so the next read sees the new one.
func (h *AdminHandler) UpdateInactiveDaysHandler(w http.ResponseWriter, r *http.Request) {
	var req updateInactiveDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.InactiveDays < 1 || req.InactiveDays > 365 {
		utils.JSONError(w, http.StatusBadRequest, "inactiveDays must be between 1 and 365")
		return
	}

	err := h.Settings.UpsertSetting(
		models.SettingInactiveDays,
		strconv.Itoa(req.InactiveDays),
		"Days without login before a party-finder user is set to resting",
	)
	if err != nil {
		h.Logger.Error("failed to update inactive days setting", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to update setting")
		return
	}

	h.PartySettings.InvalidateThreshold()
	utils.JSON(w, http.StatusOK, inactiveDaysResponse{InactiveDays: req.InactiveDays})
}

// RemoveUserHandler deletes an account together with its availability
// and preference rows, then drops the directory caches that may still
// list the player.
func (h *AdminHandler) RemoveUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if _, err := h.Users.GetUserByID(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("failed to look up user for removal", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to remove user")
		return
	}

	if err := h.Availability.ReplaceForUser(userID, nil); err != nil {
		h.Logger.Error("failed to clear availability on removal", zap.String("user", userID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to remove user")
		return
	}
	if err := h.Preferences.ReplaceForUser(userID, nil); err != nil {
		h.Logger.Error("failed to clear preferences on removal", zap.String("user", userID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to remove user")
		return
	}
	if err := h.Users.DeleteUser(userID); err != nil {
		h.Logger.Error("failed to delete user", zap.String("user", userID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to remove user")
		return
	}

	partyfinder.InvalidateDirectoryCaches(h.Cache)
	w.WriteHeader(http.StatusNoContent)
}

// CleanupHandler triggers one inactivity sweep on demand.
func (h *AdminHandler) CleanupHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := h.Sweeper.CleanupInactiveUsers()
	if err != nil {
		h.Logger.Error("manual cleanup failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}
	utils.JSON(w, http.StatusOK, cleanupResponse{
		CleanupResult: result,
		DurationMs:    time.Since(start).Milliseconds(),
	})
}
