package models

import (
	"time"
)

// ExperienceLevel is an ordinal scale; the zero value means "not set".
type ExperienceLevel string

const (
	ExperienceUnset        ExperienceLevel = ""
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// Ordinal ranks levels beginner < intermediate < advanced. Unknown
// values rank lowest so they sort before every real level.
func (e ExperienceLevel) Ordinal() int {
	switch e {
	case ExperienceBeginner:
		return 1
	case ExperienceIntermediate:
		return 2
	case ExperienceAdvanced:
		return 3
	default:
		return 0
	}
}

// Adjacent reports whether two levels are one step apart on the scale.
func (e ExperienceLevel) Adjacent(other ExperienceLevel) bool {
	a, b := e.Ordinal(), other.Ordinal()
	if a == 0 || b == 0 {
		return false
	}
	diff := a - b
	return diff == 1 || diff == -1
}

func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// VibePreference is a user's stated play-style affinity.
type VibePreference string

const (
	VibeUnset       VibePreference = ""
	VibeCasual      VibePreference = "casual"
	VibeCompetitive VibePreference = "competitive"
	VibeBoth        VibePreference = "both"
)

func (v VibePreference) Valid() bool {
	switch v {
	case VibeCasual, VibeCompetitive, VibeBoth:
		return true
	}
	return false
}

// PartyStatus tracks whether a user is actively matchable.
type PartyStatus string

const (
	PartyActive  PartyStatus = "active"
	PartyResting PartyStatus = "resting"
)

func (p PartyStatus) Valid() bool {
	return p == PartyActive || p == PartyResting
}

// ContactVisibility scopes who may see a user's contact details.
type ContactVisibility string

const (
	ContactVisibleNone    ContactVisibility = "none"
	ContactVisibleMatches ContactVisibility = "matches"
	ContactVisibleAll     ContactVisibility = "all"
)

func (c ContactVisibility) Valid() bool {
	switch c {
	case ContactVisibleNone, ContactVisibleMatches, ContactVisibleAll:
		return true
	}
	return false
}

// User represents a registered café member and their party-finder profile.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `gorm:"not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"isAdmin"`

	DisplayName      string            `json:"displayName"`
	Bio              string            `json:"bio"`
	ExperienceLevel  ExperienceLevel   `json:"experienceLevel"`
	VibePreference   VibePreference    `json:"vibePreference"`
	LookingForParty  bool              `gorm:"not null;default:false" json:"lookingForParty"`
	PartyStatus      PartyStatus       `gorm:"not null;default:resting" json:"partyStatus"`
	OpenToAnyGame    bool              `gorm:"not null;default:false" json:"openToAnyGame"`
	ContactMethod    string            `json:"contactMethod"`
	ContactValue     string            `json:"contactValue"`
	ContactVisibleTo ContactVisibility `gorm:"default:matches" json:"contactVisibleTo"`

	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Eligible reports whether the user may appear in the player directory:
// opted in, active, and logged in since the inactivity cutoff.
func (u *User) Eligible(cutoff time.Time) bool {
	if !u.LookingForParty || u.PartyStatus != PartyActive {
		return false
	}
	return u.LastLogin != nil && u.LastLogin.After(cutoff)
}
