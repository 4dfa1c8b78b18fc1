package repositories

import (
	"errors"
	"fmt"
	"strings"

	"boardcafe/web/internal/models"

	"gorm.io/gorm"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository struct {
	DB *gorm.DB
}

// GameListParams describes the catalog listing query. Zero-valued
// filters are skipped.
type GameListParams struct {
	Name        string
	MaxDuration int
	Players     int
	Mechanics   []string
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

var gameSortColumns = map[string]string{
	"id":            "id",
	"name":          "name",
	"yearPublished": "year_published",
	"playingTime":   "playing_time",
	"minPlayers":    "min_players",
	"adminNote":     "admin_note",
}

func (r *GameRepository) CreateGame(game *models.BoardGame) error {
	return r.DB.Create(game).Error
}

func (r *GameRepository) GetGameByBGGID(bggID string) (*models.BoardGame, error) {
	var game models.BoardGame
	err := r.DB.First(&game, "bgg_id = ?", bggID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *GameRepository) UpdateGame(bggID string, updates *models.BoardGame) (*models.BoardGame, error) {
	var game models.BoardGame
	if err := r.DB.First(&game, "bgg_id = ?", bggID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if err := r.DB.Model(&game).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *GameRepository) DeleteGame(bggID string) error {
	result := r.DB.Delete(&models.BoardGame{}, "bgg_id = ?", bggID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

// ListGames applies the catalog filters, sorting, and offset pagination
// and returns the page plus the pre-pagination total.
func (r *GameRepository) ListGames(params GameListParams) ([]models.BoardGame, int64, error) {
	query := r.DB.Model(&models.BoardGame{})

	if params.Name != "" {
		query = query.Where("name LIKE ?", "%"+params.Name+"%")
	}
	if params.MaxDuration > 0 {
		query = query.Where("playing_time <= ?", params.MaxDuration)
	}
	if params.Players > 0 {
		query = query.Where("min_players <= ? AND max_players >= ?", params.Players, params.Players)
	}
	if len(params.Mechanics) > 0 {
		conditions := make([]string, 0, len(params.Mechanics))
		args := make([]any, 0, len(params.Mechanics))
		for _, mech := range params.Mechanics {
			conditions = append(conditions, "mechanics LIKE ?")
			args = append(args, "%"+mech+"%")
		}
		query = query.Where(strings.Join(conditions, " OR "), args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if col, ok := gameSortColumns[params.SortBy]; ok {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}
		query = query.Order(fmt.Sprintf("%s %s", col, direction))
	}

	offset := (params.Page - 1) * params.Limit
	var games []models.BoardGame
	err := query.Limit(params.Limit).Offset(offset).Find(&games).Error
	return games, total, err
}

// SearchGames is the lightweight name search used by the preference picker.
func (r *GameRepository) SearchGames(query string, limit int) ([]models.BoardGame, error) {
	var games []models.BoardGame
	err := r.DB.
		Where("name LIKE ?", "%"+query+"%").
		Order("name").
		Limit(limit).
		Find(&games).Error
	return games, err
}

// SimilarGames finds up to limit games sharing a category with the
// given game, excluding the game itself.
func (r *GameRepository) SimilarGames(game *models.BoardGame, limit int) ([]models.BoardGame, error) {
	categories := game.CategoryList()
	if len(categories) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(categories))
	args := make([]any, 0, len(categories)+1)
	for _, category := range categories {
		conditions = append(conditions, "categories LIKE ?")
		args = append(args, "%"+category+"%")
	}
	args = append(args, game.BGGID)

	var games []models.BoardGame
	err := r.DB.
		Where("("+strings.Join(conditions, " OR ")+") AND bgg_id != ?", args...).
		Limit(limit).
		Find(&games).Error
	return games, err
}

// FilterExistingBGGIDs returns the subset of ids present in the catalog.
func (r *GameRepository) FilterExistingBGGIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []string
	err := r.DB.Model(&models.BoardGame{}).
		Where("bgg_id IN ?", ids).
		Pluck("bgg_id", &existing).Error
	return existing, err
}
