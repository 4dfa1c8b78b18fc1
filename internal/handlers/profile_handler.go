package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/models"
	"boardcafe/web/internal/partyfinder"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/utils"

	"go.uber.org/zap"
)

// ProfileHandler serves the authenticated user's party-finder profile.
// Every mutation invalidates the directory caches, since profile fields
// feed both eligibility and scoring.
type ProfileHandler struct {
	Users  *repositories.UserRepository
	Cache  *cache.Cache
	Logger *zap.Logger
}

type updateProfileRequest struct {
	DisplayName      *string `json:"displayName"`
	Bio              *string `json:"bio"`
	ExperienceLevel  *string `json:"experienceLevel"`
	VibePreference   *string `json:"vibePreference"`
	OpenToAnyGame    *bool   `json:"openToAnyGame"`
	ContactMethod    *string `json:"contactMethod"`
	ContactValue     *string `json:"contactValue"`
	ContactVisibleTo *string `json:"contactVisibleTo"`
}

type updatePartyStatusRequest struct {
	LookingForParty *bool   `json:"lookingForParty"`
	PartyStatus     *string `json:"partyStatus"`
}

func (h *ProfileHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetUserByID(currentUserID(r))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

// UpdateProfileHandler applies a partial profile update. Absent fields
// are left untouched; present fields are validated before any write.
func (h *ProfileHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	updates := map[string]any{}

	if req.DisplayName != nil {
		name := utils.SanitizeInput(*req.DisplayName)
		if len(name) < 1 || len(name) > 50 {
			utils.JSONError(w, http.StatusBadRequest, "display name must be between 1-50 characters")
			return
		}
		updates["display_name"] = name
	}
	if req.Bio != nil {
		// Bio allows 500 chars, more than SanitizeInput's cap.
		bio := strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(*req.Bio))
		if len(bio) > 500 {
			utils.JSONError(w, http.StatusBadRequest, "bio must be at most 500 characters")
			return
		}
		updates["bio"] = bio
	}
	if req.ExperienceLevel != nil {
		level := models.ExperienceLevel(*req.ExperienceLevel)
		if level != models.ExperienceUnset && !level.Valid() {
			utils.JSONError(w, http.StatusBadRequest, "invalid experience level")
			return
		}
		updates["experience_level"] = level
	}
	if req.VibePreference != nil {
		vibe := models.VibePreference(*req.VibePreference)
		if vibe != models.VibeUnset && !vibe.Valid() {
			utils.JSONError(w, http.StatusBadRequest, "invalid vibe preference")
			return
		}
		updates["vibe_preference"] = vibe
	}
	if req.OpenToAnyGame != nil {
		updates["open_to_any_game"] = *req.OpenToAnyGame
	}
	if req.ContactMethod != nil || req.ContactValue != nil {
		if req.ContactMethod == nil || req.ContactValue == nil {
			utils.JSONError(w, http.StatusBadRequest, "contact method and value must be updated together")
			return
		}
		method := utils.SanitizeInput(*req.ContactMethod)
		value := utils.SanitizeInput(*req.ContactValue)
		if !utils.IsValidContact(method, value) {
			utils.JSONError(w, http.StatusBadRequest, "invalid contact information for the chosen method")
			return
		}
		updates["contact_method"] = method
		updates["contact_value"] = value
	}
	if req.ContactVisibleTo != nil {
		visibility := models.ContactVisibility(*req.ContactVisibleTo)
		if !visibility.Valid() {
			utils.JSONError(w, http.StatusBadRequest, "invalid contact visibility")
			return
		}
		updates["contact_visible_to"] = visibility
	}

	if len(updates) == 0 {
		utils.JSONError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	user, err := h.Users.UpdateUser(currentUserID(r), updates)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("profile update failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	partyfinder.InvalidateDirectoryCaches(h.Cache)
	utils.JSON(w, http.StatusOK, user)
}

// UpdatePartyStatusHandler toggles directory participation. Setting
// lookingForParty also aligns partyStatus unless the request pins it
// explicitly.
func (h *ProfileHandler) UpdatePartyStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req updatePartyStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.LookingForParty == nil && req.PartyStatus == nil {
		utils.JSONError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	updates := map[string]any{}
	if req.LookingForParty != nil {
		updates["looking_for_party"] = *req.LookingForParty
		if *req.LookingForParty {
			updates["party_status"] = models.PartyActive
		} else {
			updates["party_status"] = models.PartyResting
		}
	}
	if req.PartyStatus != nil {
		status := models.PartyStatus(*req.PartyStatus)
		if !status.Valid() {
			utils.JSONError(w, http.StatusBadRequest, "invalid party status")
			return
		}
		updates["party_status"] = status
	}

	user, err := h.Users.UpdateUser(currentUserID(r), updates)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("party status update failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to update party status")
		return
	}

	partyfinder.InvalidateDirectoryCaches(h.Cache)
	utils.JSON(w, http.StatusOK, user)
}
