package repositories

import (
	"errors"

	"boardcafe/web/internal/models"

	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) CreateComment(comment *models.GameComment) error {
	return r.DB.Create(comment).Error
}

// ListComments returns comments newest first, optionally scoped to a
// game and/or to approved entries only, each joined with the game name.
func (r *CommentRepository) ListComments(gameID string, approvedOnly *bool) ([]models.CommentWithGame, error) {
	query := r.DB.Model(&models.GameComment{}).
		Select("game_comments.*, board_games.name AS game_name").
		Joins("LEFT JOIN board_games ON board_games.bgg_id = game_comments.game_id")

	if gameID != "" {
		query = query.Where("game_comments.game_id = ?", gameID)
	}
	if approvedOnly != nil {
		query = query.Where("game_comments.is_approved = ?", *approvedOnly)
	}

	var comments []models.CommentWithGame
	err := query.Order("game_comments.created_at DESC").Scan(&comments).Error
	return comments, err
}

func (r *CommentRepository) ApproveComment(id uint) (*models.GameComment, error) {
	var comment models.GameComment
	if err := r.DB.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if err := r.DB.Model(&comment).Update("is_approved", true).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) DeleteComment(id uint) error {
	result := r.DB.Delete(&models.GameComment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
