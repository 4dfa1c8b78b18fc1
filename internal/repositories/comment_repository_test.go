package repositories

import (
	"errors"
	"testing"

	"boardcafe/web/internal/models"
	"boardcafe/web/internal/testhelpers"
)

func TestCommentRepository(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := &CommentRepository{DB: db}
	games := &GameRepository{DB: db}

	if err := games.CreateGame(&models.BoardGame{BGGID: "13", Name: "Catan"}); err != nil {
		t.Fatalf("failed to seed game: %v", err)
	}

	mk := func(gameID, author, content string) *models.GameComment {
		c := &models.GameComment{GameID: gameID, AuthorName: author, Content: content}
		if err := repo.CreateComment(c); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		return c
	}

	pending := mk("13", "alice", "Loved it")
	approved := mk("13", "bob", "Solid trading game")
	other := mk("9209", "carol", "All aboard")

	if _, err := repo.ApproveComment(approved.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	t.Run("list all joins game names", func(t *testing.T) {
		comments, err := repo.ListComments("", nil)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(comments) != 3 {
			t.Fatalf("expected 3 comments, got %d", len(comments))
		}
		for _, c := range comments {
			if c.GameID == "13" && c.GameName != "Catan" {
				t.Fatalf("expected joined game name, got %q", c.GameName)
			}
		}
	})

	t.Run("approved filter scoped to a game", func(t *testing.T) {
		approvedOnly := true
		comments, err := repo.ListComments("13", &approvedOnly)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(comments) != 1 || comments[0].AuthorName != "bob" {
			t.Fatalf("expected only bob's comment, got %+v", comments)
		}
	})

	t.Run("pending filter", func(t *testing.T) {
		approvedOnly := false
		comments, err := repo.ListComments("13", &approvedOnly)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(comments) != 1 || comments[0].ID != pending.ID {
			t.Fatalf("expected only the pending comment, got %+v", comments)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteComment(other.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := repo.DeleteComment(other.ID); !errors.Is(err, ErrCommentNotFound) {
			t.Fatalf("expected ErrCommentNotFound, got %v", err)
		}
	})

	t.Run("approve missing comment", func(t *testing.T) {
		if _, err := repo.ApproveComment(9999); !errors.Is(err, ErrCommentNotFound) {
			t.Fatalf("expected ErrCommentNotFound, got %v", err)
		}
	})
}
