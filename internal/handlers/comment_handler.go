package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"boardcafe/web/internal/models"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CommentHandler serves game comments: public submission and approved
// listing, plus admin moderation.
type CommentHandler struct {
	Comments *repositories.CommentRepository
	Games    *repositories.GameRepository
	Logger   *zap.Logger
}

type createCommentRequest struct {
	GameID     string `json:"gameId"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
}

type moderateCommentRequest struct {
	IsApproved bool `json:"isApproved"`
}

// CreateCommentHandler accepts a visitor comment; it stays hidden until
// an admin approves it.
func (h *CommentHandler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	authorName := utils.SanitizeInput(req.AuthorName)
	content := utils.SanitizeInput(req.Content)
	if req.GameID == "" || authorName == "" || content == "" {
		utils.JSONError(w, http.StatusBadRequest, "gameId, authorName, and content are required")
		return
	}

	if _, err := h.Games.GetGameByBGGID(req.GameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			utils.JSONError(w, http.StatusNotFound, "game not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to submit comment")
		return
	}

	comment := &models.GameComment{
		GameID:     req.GameID,
		AuthorName: authorName,
		Content:    content,
	}
	if err := h.Comments.CreateComment(comment); err != nil {
		h.Logger.Error("failed to create comment", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to submit comment")
		return
	}
	utils.JSON(w, http.StatusCreated, comment)
}

// ListCommentsHandler returns comments, scoped by gameId and
// approvedOnly query params. Only admins may see unapproved comments;
// for everyone else approvedOnly is forced on. Moderation lists
// without filters to see the pending queue.
func (h *CommentHandler) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var approvedOnly *bool
	if raw := q.Get("approvedOnly"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, "approvedOnly must be a boolean")
			return
		}
		approvedOnly = &value
	}
	if !utils.IsAdminFromClaims(claimsFrom(r)) {
		approved := true
		approvedOnly = &approved
	}

	comments, err := h.Comments.ListComments(q.Get("gameId"), approvedOnly)
	if err != nil {
		h.Logger.Error("failed to list comments", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}
	if comments == nil {
		comments = []models.CommentWithGame{}
	}
	utils.JSON(w, http.StatusOK, comments)
}

// ModerateCommentHandler approves a comment or, when rejected, deletes
// it outright.
func (h *CommentHandler) ModerateCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req moderateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.IsApproved {
		comment, err := h.Comments.ApproveComment(uint(id))
		if err != nil {
			if errors.Is(err, repositories.ErrCommentNotFound) {
				utils.JSONError(w, http.StatusNotFound, "comment not found")
				return
			}
			h.Logger.Error("failed to approve comment", zap.Uint64("id", id), zap.Error(err))
			utils.JSONError(w, http.StatusInternalServerError, "failed to moderate comment")
			return
		}
		utils.JSON(w, http.StatusOK, comment)
		return
	}

	if err := h.Comments.DeleteComment(uint(id)); err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			utils.JSONError(w, http.StatusNotFound, "comment not found")
			return
		}
		h.Logger.Error("failed to delete comment", zap.Uint64("id", id), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to moderate comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
