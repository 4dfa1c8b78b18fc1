package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"boardcafe/web/internal/bgg"
	"boardcafe/web/internal/models"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultGameLimit  = 20
	maxGameLimit      = 100
	similarGamesLimit = 4
	searchGamesLimit  = 20
)

// GameHandler serves the board game catalog: public listing, detail,
// and search, plus the admin-only mutations and BGG import.
type GameHandler struct {
	Games    *repositories.GameRepository
	Importer *bgg.Importer
	Logger   *zap.Logger
}

type gameListMeta struct {
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type gameListResponse struct {
	Data []models.BoardGame `json:"data"`
	Meta gameListMeta       `json:"meta"`
}

type gameDetailResponse struct {
	*models.BoardGame
	SimilarGames []models.BoardGame `json:"similarGames"`
}

type importGameRequest struct {
	Name  string `json:"name"`
	BGGID string `json:"bggId"`
}

func (h *GameHandler) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := repositories.GameListParams{
		Name:      q.Get("name"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      1,
		Limit:     defaultGameLimit,
	}
	if params.SortBy == "" {
		params.SortBy = "name"
	}

	if raw := q.Get("maxDuration"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			utils.JSONError(w, http.StatusBadRequest, "maxDuration must be a positive integer")
			return
		}
		params.MaxDuration = value
	}
	if raw := q.Get("players"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			utils.JSONError(w, http.StatusBadRequest, "players must be a positive integer")
			return
		}
		params.Players = value
	}
	if raw := q.Get("mechanics"); raw != "" {
		for _, mech := range strings.Split(raw, ",") {
			if mech = strings.TrimSpace(mech); mech != "" {
				params.Mechanics = append(params.Mechanics, mech)
			}
		}
	}
	if raw := q.Get("page"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			utils.JSONError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		params.Page = value
	}
	if raw := q.Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			utils.JSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if value > maxGameLimit {
			value = maxGameLimit
		}
		params.Limit = value
	}

	games, total, err := h.Games.ListGames(params)
	if err != nil {
		h.Logger.Error("failed to list games", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to list games")
		return
	}
	if games == nil {
		games = []models.BoardGame{}
	}

	utils.JSON(w, http.StatusOK, gameListResponse{
		Data: games,
		Meta: gameListMeta{
			TotalCount: int(total),
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: int(math.Ceil(float64(total) / float64(params.Limit))),
		},
	})
}

// GetGameHandler returns one catalog entry plus a short shelf of games
// sharing a category.
func (h *GameHandler) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	bggID := chi.URLParam(r, "bggId")
	game, err := h.Games.GetGameByBGGID(bggID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			utils.JSONError(w, http.StatusNotFound, "game not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to load game")
		return
	}

	similar, err := h.Games.SimilarGames(game, similarGamesLimit)
	if err != nil {
		h.Logger.Warn("failed to load similar games", zap.String("bggId", bggID), zap.Error(err))
	}
	if similar == nil {
		similar = []models.BoardGame{}
	}
	utils.JSON(w, http.StatusOK, gameDetailResponse{BoardGame: game, SimilarGames: similar})
}

// SearchGamesHandler backs the preference picker's typeahead.
func (h *GameHandler) SearchGamesHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		utils.JSONError(w, http.StatusBadRequest, "query must be at least 2 characters")
		return
	}

	games, err := h.Games.SearchGames(query, searchGamesLimit)
	if err != nil {
		h.Logger.Error("game search failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if games == nil {
		games = []models.BoardGame{}
	}
	utils.JSON(w, http.StatusOK, games)
}

func (h *GameHandler) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var game models.BoardGame
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if game.BGGID == "" || game.Name == "" {
		utils.JSONError(w, http.StatusBadRequest, "bggId and name are required")
		return
	}
	if _, err := h.Games.GetGameByBGGID(game.BGGID); err == nil {
		utils.JSONError(w, http.StatusConflict, "game already in catalog")
		return
	}

	game.ID = 0
	if err := h.Games.CreateGame(&game); err != nil {
		h.Logger.Error("failed to create game", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	utils.JSON(w, http.StatusCreated, game)
}

func (h *GameHandler) UpdateGameHandler(w http.ResponseWriter, r *http.Request) {
	bggID := chi.URLParam(r, "bggId")
	var updates models.BoardGame
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	updates.ID = 0
	updates.BGGID = ""

	game, err := h.Games.UpdateGame(bggID, &updates)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			utils.JSONError(w, http.StatusNotFound, "game not found")
			return
		}
		h.Logger.Error("failed to update game", zap.String("bggId", bggID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to update game")
		return
	}
	utils.JSON(w, http.StatusOK, game)
}

func (h *GameHandler) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	bggID := chi.URLParam(r, "bggId")
	if err := h.Games.DeleteGame(bggID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			utils.JSONError(w, http.StatusNotFound, "game not found")
			return
		}
		h.Logger.Error("failed to delete game", zap.String("bggId", bggID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to delete game")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportGameHandler pulls a game into the catalog from BGG, by id when
// given, otherwise by exact title.
func (h *GameHandler) ImportGameHandler(w http.ResponseWriter, r *http.Request) {
	var req importGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" && req.BGGID == "" {
		utils.JSONError(w, http.StatusBadRequest, "name or bggId is required")
		return
	}

	var (
		game *models.BoardGame
		err  error
	)
	if req.BGGID != "" {
		game, err = h.Importer.ImportByID(r.Context(), req.BGGID)
	} else {
		game, err = h.Importer.ImportByName(r.Context(), req.Name)
	}
	switch {
	case errors.Is(err, bgg.ErrAlreadyInCatalog):
		utils.JSON(w, http.StatusOK, game)
	case errors.Is(err, bgg.ErrGameNotFoundOnBGG):
		utils.JSONError(w, http.StatusNotFound, "game not found on BGG")
	case err != nil:
		h.Logger.Error("BGG import failed", zap.Error(err))
		utils.JSONError(w, http.StatusBadGateway, "import from BGG failed")
	default:
		utils.JSON(w, http.StatusCreated, game)
	}
}
