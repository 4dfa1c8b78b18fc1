package models

import "time"

// SettingInactiveDays configures how many days a user may go without
// logging in before the sweeper rests them.
const SettingInactiveDays = "party_finder_inactive_days"

// DefaultInactiveDays is the fallback when the setting is absent or
// unreadable.
const DefaultInactiveDays = 14

// SystemSetting is a single mutable key/value row.
type SystemSetting struct {
	Key         string    `gorm:"primaryKey" json:"key"`
	Value       string    `gorm:"not null" json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
