package repositories

import (
	"boardcafe/web/internal/models"

	"gorm.io/gorm"
)

type PreferenceRepository struct {
	DB *gorm.DB
}

// ReplaceForUser swaps a user's game preferences for the given BGG ids.
// Callers must have verified the ids against the catalog first.
func (r *PreferenceRepository) ReplaceForUser(userID string, gameBGGIDs []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.GamePreference{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if len(gameBGGIDs) == 0 {
			return nil
		}
		entries := make([]models.GamePreference, 0, len(gameBGGIDs))
		for _, id := range gameBGGIDs {
			entries = append(entries, models.GamePreference{UserID: userID, GameBGGID: id})
		}
		return tx.Create(&entries).Error
	})
}

// IDsForUser returns the BGG ids a user prefers.
func (r *PreferenceRepository) IDsForUser(userID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&models.GamePreference{}).
		Where("user_id = ?", userID).
		Pluck("game_bgg_id", &ids).Error
	return ids, err
}

// GamesForUsers batches the preference/catalog join for the directory.
func (r *PreferenceRepository) GamesForUsers(userIDs []string) (map[string][]models.PreferredGame, error) {
	out := make(map[string][]models.PreferredGame, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		UserID    string
		GameBGGID string
		Name      string
		Thumbnail string
	}
	err := r.DB.Model(&models.GamePreference{}).
		Select("game_preferences.user_id, game_preferences.game_bgg_id, board_games.name, board_games.thumbnail").
		Joins("INNER JOIN board_games ON board_games.bgg_id = game_preferences.game_bgg_id").
		Where("game_preferences.user_id IN ?", userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], models.PreferredGame{
			GameBGGID: row.GameBGGID,
			Name:      row.Name,
			Thumbnail: row.Thumbnail,
		})
	}
	return out, nil
}
