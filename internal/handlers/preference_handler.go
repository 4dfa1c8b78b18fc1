package handlers

import (
	"encoding/json"
	"net/http"

	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/partyfinder"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/utils"

	"go.uber.org/zap"
)

// PreferenceHandler manages the authenticated user's preferred games.
type PreferenceHandler struct {
	Preferences *repositories.PreferenceRepository
	Games       *repositories.GameRepository
	Cache       *cache.Cache
	Logger      *zap.Logger
}

type preferenceRequest struct {
	GameIDs []string `json:"gameIds"`
}

type preferenceResponse struct {
	GameIDs []string `json:"gameIds"`
}

func (h *PreferenceHandler) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Preferences.IDsForUser(currentUserID(r))
	if err != nil {
		h.Logger.Error("failed to load preferences", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	utils.JSON(w, http.StatusOK, preferenceResponse{GameIDs: ids})
}

// UpdatePreferencesHandler replaces the full preference set. Every id
// must already exist in the catalog; unknown ids are reported back.
func (h *PreferenceHandler) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	seen := map[string]bool{}
	ids := make([]string, 0, len(req.GameIDs))
	for _, id := range req.GameIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		existing, err := h.Games.FilterExistingBGGIDs(ids)
		if err != nil {
			h.Logger.Error("failed to validate preferences", zap.Error(err))
			utils.JSONError(w, http.StatusInternalServerError, "failed to update preferences")
			return
		}
		if len(existing) != len(ids) {
			known := map[string]bool{}
			for _, id := range existing {
				known[id] = true
			}
			invalid := []string{}
			for _, id := range ids {
				if !known[id] {
					invalid = append(invalid, id)
				}
			}
			utils.JSON(w, http.StatusBadRequest, map[string]any{
				"error":      "some games are not in the catalog",
				"invalidIds": invalid,
			})
			return
		}
	}

	if err := h.Preferences.ReplaceForUser(currentUserID(r), ids); err != nil {
		h.Logger.Error("failed to update preferences", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}

	partyfinder.InvalidateDirectoryCaches(h.Cache)
	utils.JSON(w, http.StatusOK, preferenceResponse{GameIDs: ids})
}
