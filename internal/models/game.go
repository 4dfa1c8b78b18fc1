package models

import "encoding/json"

// BoardGame is a catalog entry keyed by its BoardGameGeek identifier.
// List-valued fields (categories, mechanics, ...) are stored as JSON
// arrays in text columns, matching what the BGG importer produces.
type BoardGame struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	BGGID         string `gorm:"column:bgg_id;unique;not null" json:"bggId"`
	Name          string `gorm:"not null;index" json:"name"`
	YearPublished int    `json:"yearPublished"`
	MinPlayers    int    `json:"minPlayers"`
	MaxPlayers    int    `json:"maxPlayers"`
	PlayingTime   int    `json:"playingTime"`
	MinPlayTime   int    `json:"minPlayTime"`
	MaxPlayTime   int    `json:"maxPlayTime"`
	Age           int    `json:"age"`
	Description   string `json:"description"`
	Thumbnail     string `json:"thumbnail"`
	Image         string `json:"image"`
	Categories    string `json:"categories"`
	Mechanics     string `json:"mechanics"`
	Designers     string `json:"designers"`
	Artists       string `json:"artists"`
	Publishers    string `json:"publishers"`
	IsStarred     bool   `gorm:"not null;default:false" json:"isStarred"`
	AdminNote     string `json:"adminNote"`
}

// CategoryList decodes the categories column; malformed data reads as empty.
func (g *BoardGame) CategoryList() []string {
	var out []string
	if err := json.Unmarshal([]byte(g.Categories), &out); err != nil {
		return nil
	}
	return out
}
