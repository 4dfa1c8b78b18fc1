package handlers

import (
	"net/http"
	"strings"

	"boardcafe/web/internal/bgg"
	"boardcafe/web/internal/utils"

	"go.uber.org/zap"
)

// Search hits against BGG are hydrated one by one, so the proxy caps
// how many it will fetch per query.
const bggSearchLimit = 10

// BGGHandler proxies BoardGameGeek search for the admin catalog UI.
type BGGHandler struct {
	Client *bgg.Client
	Logger *zap.Logger
}

type bggSearchHit struct {
	BGGID         string `json:"bggId"`
	Name          string `json:"name"`
	YearPublished int    `json:"yearPublished"`
	MinPlayers    int    `json:"minPlayers"`
	MaxPlayers    int    `json:"maxPlayers"`
	PlayingTime   int    `json:"playingTime"`
	Thumbnail     string `json:"thumbnail"`
}

// SearchHandler runs a fuzzy BGG search and hydrates the top hits with
// thing-endpoint details so the UI can render a useful picker.
func (h *BGGHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		utils.JSONError(w, http.StatusBadRequest, "query must be at least 2 characters")
		return
	}

	results, err := h.Client.Search(r.Context(), query, false)
	if err != nil {
		h.Logger.Error("BGG search failed", zap.String("query", query), zap.Error(err))
		utils.JSONError(w, http.StatusBadGateway, "BGG search failed")
		return
	}
	if len(results) > bggSearchLimit {
		results = results[:bggSearchLimit]
	}

	hits := make([]bggSearchHit, 0, len(results))
	for _, result := range results {
		details, err := h.Client.Thing(r.Context(), result.ID)
		if err != nil {
			h.Logger.Warn("skipping unhydratable BGG hit", zap.String("bggId", result.ID), zap.Error(err))
			continue
		}
		hits = append(hits, bggSearchHit{
			BGGID:         details.BGGID,
			Name:          details.Name,
			YearPublished: details.YearPublished,
			MinPlayers:    details.MinPlayers,
			MaxPlayers:    details.MaxPlayers,
			PlayingTime:   details.PlayingTime,
			Thumbnail:     details.Thumbnail,
		})
	}
	utils.JSON(w, http.StatusOK, hits)
}
