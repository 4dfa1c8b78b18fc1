package models

import "time"

// GameComment is a visitor comment on a catalog game. Comments are
// hidden until approved by an admin.
type GameComment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GameID     string    `gorm:"not null;index" json:"gameId"`
	AuthorName string    `gorm:"not null" json:"authorName"`
	Content    string    `gorm:"not null" json:"content"`
	IsApproved bool      `gorm:"not null;default:false" json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CommentWithGame is a comment joined with the game's display name for
// the moderation listing.
type CommentWithGame struct {
	GameComment
	GameName string `json:"gameName"`
}
