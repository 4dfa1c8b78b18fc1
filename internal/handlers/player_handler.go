package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"boardcafe/web/internal/models"
	"boardcafe/web/internal/partyfinder"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultPlayerLimit = 20
	maxPlayerLimit     = 100
)

// PlayerHandler serves the player discovery directory.
type PlayerHandler struct {
	Users        *repositories.UserRepository
	Availability *repositories.AvailabilityRepository
	Preferences  *repositories.PreferenceRepository
	Directory    *partyfinder.Directory
	Logger       *zap.Logger
}

// ListPlayersHandler runs one directory query for the authenticated
// user. Filters arrive as query params; "" and "all" both mean
// unfiltered.
func (h *PlayerHandler) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	current, err := h.Users.GetUserByID(currentUserID(r))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to load players")
		return
	}

	opts, err := parseListOptions(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := h.Availability.DaysForUser(current.ID)
	if err != nil {
		h.Logger.Error("failed to load own availability", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to load players")
		return
	}
	gameIDs, err := h.Preferences.IDsForUser(current.ID)
	if err != nil {
		h.Logger.Error("failed to load own preferences", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to load players")
		return
	}

	page, err := h.Directory.ListPlayers(current, days, gameIDs, opts)
	if err != nil {
		if errors.Is(err, partyfinder.ErrInvalidOptions) {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("directory query failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to load players")
		return
	}

	scrubHiddenContacts(page.Data)
	utils.JSON(w, http.StatusOK, page)
}

func parseListOptions(r *http.Request) (partyfinder.ListOptions, error) {
	q := r.URL.Query()
	opts := partyfinder.ListOptions{
		Page:      1,
		Limit:     defaultPlayerLimit,
		SortBy:    partyfinder.SortCompatibility,
		SortOrder: partyfinder.OrderDesc,
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return opts, errors.New("page must be a positive integer")
		}
		opts.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return opts, errors.New("limit must be a positive integer")
		}
		if limit > maxPlayerLimit {
			limit = maxPlayerLimit
		}
		opts.Limit = limit
	}
	if raw := q.Get("sortBy"); raw != "" {
		opts.SortBy = raw
	}
	if raw := q.Get("sortOrder"); raw != "" {
		opts.SortOrder = raw
	}

	if raw := filterValue(q, "experience", "experienceLevel"); raw != "" {
		level := models.ExperienceLevel(raw)
		opts.Experience = &level
	}
	if raw := filterValue(q, "vibe", "vibePreference"); raw != "" {
		vibe := models.VibePreference(raw)
		opts.Vibe = &vibe
	}
	if raw := filterValue(q, "availability_day", "availabilityDay"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errors.New("availability_day must be an integer between 0 and 6")
		}
		opts.AvailabilityDay = &day
	}
	if raw := filterValue(q, "game_preference", "gamePreference"); raw != "" {
		game := raw
		opts.GamePreference = &game
	}
	return opts, nil
}

// filterValue reads the first non-empty name (the snake_case names the
// front end sends, with camelCase accepted as an alias); "all" means
// unfiltered.
func filterValue(q url.Values, names ...string) string {
	for _, name := range names {
		if raw := q.Get(name); raw != "" {
			if raw == "all" {
				return ""
			}
			return raw
		}
	}
	return ""
}

// scrubHiddenContacts strips contact details from players who opted out
// of sharing them.
func scrubHiddenContacts(players []partyfinder.Player) {
	for i := range players {
		if players[i].ContactVisibleTo == models.ContactVisibleNone {
			players[i].ContactMethod = ""
			players[i].ContactValue = ""
		}
	}
}
