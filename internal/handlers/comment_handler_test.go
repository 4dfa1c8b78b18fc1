package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"boardcafe/web/internal/models"
)

func newCommentHandler(env *testEnv) *CommentHandler {
	return &CommentHandler{Comments: env.comments, Games: env.games, Logger: env.logger}
}

func TestCreateCommentHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedGame(t, "13", "Catan")
	h := newCommentHandler(env)

	t.Run("accepts a pending comment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateCommentHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/comments",
			map[string]any{"gameId": "13", "authorName": "alice", "content": "Longest road!"}))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		comment := decodeBody[models.GameComment](t, rec)
		if comment.IsApproved {
			t.Fatalf("new comments must start unapproved")
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateCommentHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/comments",
			map[string]any{"gameId": "13", "content": "anonymous"}))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects unknown game", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateCommentHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/comments",
			map[string]any{"gameId": "999", "authorName": "bob", "content": "hi"}))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestListAndModerateComments(t *testing.T) {
	env := newTestEnv(t)
	env.seedGame(t, "13", "Catan")
	h := newCommentHandler(env)

	seed := func(author string) *models.GameComment {
		c := &models.GameComment{GameID: "13", AuthorName: author, Content: "nice"}
		if err := env.comments.CreateComment(c); err != nil {
			t.Fatalf("failed to seed comment: %v", err)
		}
		return c
	}
	first := seed("alice")
	second := seed("bob")

	t.Run("approve", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ModerateCommentHandler(rec, withURLParam(jsonRequest(t, http.MethodPut, "/api/v1/comments/1",
			map[string]any{"isApproved": true}), "id", itoa(first.ID)))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("approved filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListCommentsHandler(rec, jsonRequest(t, http.MethodGet, "/api/v1/comments?gameId=13&approvedOnly=true", nil))
		comments := decodeBody[[]models.CommentWithGame](t, rec)
		if len(comments) != 1 || comments[0].AuthorName != "alice" {
			t.Fatalf("expected only alice approved, got %+v", comments)
		}
		if comments[0].GameName != "Catan" {
			t.Fatalf("expected joined game name, got %q", comments[0].GameName)
		}
	})

	t.Run("reject deletes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ModerateCommentHandler(rec, withURLParam(jsonRequest(t, http.MethodPut, "/api/v1/comments/2",
			map[string]any{"isApproved": false}), "id", itoa(second.ID)))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		h.ListCommentsHandler(rec, jsonRequest(t, http.MethodGet, "/api/v1/comments?gameId=13", nil))
		comments := decodeBody[[]models.CommentWithGame](t, rec)
		if len(comments) != 1 {
			t.Fatalf("expected rejected comment gone, got %d", len(comments))
		}
	})

	t.Run("pending comments hidden from non-admins", func(t *testing.T) {
		seed("carol")

		// Anonymous callers only ever see approved comments, even when
		// they ask for the unapproved ones.
		for _, target := range []string{"/api/v1/comments?gameId=13", "/api/v1/comments?gameId=13&approvedOnly=false"} {
			rec := httptest.NewRecorder()
			h.ListCommentsHandler(rec, jsonRequest(t, http.MethodGet, target, nil))
			for _, c := range decodeBody[[]models.CommentWithGame](t, rec) {
				if !c.IsApproved {
					t.Fatalf("unapproved comment leaked via %s: %+v", target, c)
				}
			}
		}

		rec := httptest.NewRecorder()
		r := asUser(jsonRequest(t, http.MethodGet, "/api/v1/comments?gameId=13&approvedOnly=false", nil), "admin", true)
		h.ListCommentsHandler(rec, r)
		comments := decodeBody[[]models.CommentWithGame](t, rec)
		if len(comments) != 1 || comments[0].AuthorName != "carol" {
			t.Fatalf("expected admin to see the pending queue, got %+v", comments)
		}
	})

	t.Run("bad filters and ids", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListCommentsHandler(rec, jsonRequest(t, http.MethodGet, "/api/v1/comments?approvedOnly=maybe", nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		h.ModerateCommentHandler(rec, withURLParam(jsonRequest(t, http.MethodPut, "/api/v1/comments/x",
			map[string]any{"isApproved": true}), "id", "x"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for a bad id, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		h.ModerateCommentHandler(rec, withURLParam(jsonRequest(t, http.MethodPut, "/api/v1/comments/9999",
			map[string]any{"isApproved": true}), "id", "9999"))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
