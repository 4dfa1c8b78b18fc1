package models

import "time"

// GamePreference links a user to a catalog game they want to play.
type GamePreference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index" json:"userId"`
	GameBGGID string    `gorm:"column:game_bgg_id;not null" json:"gameBggId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PreferredGame is a preference joined with catalog details, as shown
// on player cards in the directory.
type PreferredGame struct {
	GameBGGID string `json:"gameBggId"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
