package partyfinder

import (
	"math"
	"time"

	"boardcafe/web/internal/models"
)

// Weights of the four compatibility factors; they sum to 100 so the
// final score needs no extra normalisation.
const (
	availabilityWeight = 40
	gameWeight         = 40
	experienceWeight   = 10
	vibeWeight         = 10
)

// Profile carries the matching attributes of the requesting user.
type Profile struct {
	ID              string
	ExperienceLevel models.ExperienceLevel
	VibePreference  models.VibePreference
	OpenToAnyGame   bool
}

// Player is a directory candidate with joined availability and
// preferences. Compatibility is filled per request and never persisted.
type Player struct {
	ID               string                   `json:"id"`
	Username         string                   `json:"username"`
	DisplayName      string                   `json:"displayName"`
	Bio              string                   `json:"bio"`
	ExperienceLevel  models.ExperienceLevel   `json:"experienceLevel"`
	VibePreference   models.VibePreference    `json:"vibePreference"`
	OpenToAnyGame    bool                     `json:"openToAnyGame"`
	ContactMethod    string                   `json:"contactMethod,omitempty"`
	ContactValue     string                   `json:"contactValue,omitempty"`
	ContactVisibleTo models.ContactVisibility `json:"contactVisibleTo"`
	LastLogin        *time.Time               `json:"lastLogin"`
	AvailabilityDays []int                    `json:"availabilityDays"`
	GamePreferences  []models.PreferredGame   `json:"gamePreferences"`
	Compatibility    int                      `json:"compatibility"`
}

// Score computes the 0-100 match score between the requesting user and
// a candidate. Deterministic and side-effect free.
func Score(current Profile, currentDays []int, currentGameIDs []string, candidate *Player) int {
	total := availabilityScore(currentDays, candidate.AvailabilityDays)
	total += gameScore(current, currentGameIDs, candidate)
	total += experienceScore(current.ExperienceLevel, candidate.ExperienceLevel)
	total += vibeScore(current.VibePreference, candidate.VibePreference)
	return int(math.Round(total))
}

// availabilityScore credits overlap proportional to the larger of the
// two day sets. The divisor floor of 1 keeps empty sets at zero rather
// than dividing by zero.
func availabilityScore(a, b []int) float64 {
	common := intersectInts(a, b)
	divisor := maxInt(len(a), len(b), 1)
	return availabilityWeight * float64(common) / float64(divisor)
}

// gameScore treats "open to any game" on either side as a full match.
func gameScore(current Profile, currentGameIDs []string, candidate *Player) float64 {
	if current.OpenToAnyGame || candidate.OpenToAnyGame {
		return gameWeight
	}
	candidateIDs := make([]string, 0, len(candidate.GamePreferences))
	for _, pref := range candidate.GamePreferences {
		candidateIDs = append(candidateIDs, pref.GameBGGID)
	}
	if len(currentGameIDs) == 0 || len(candidateIDs) == 0 {
		return 0
	}
	common := intersectStrings(currentGameIDs, candidateIDs)
	divisor := maxInt(len(currentGameIDs), len(candidateIDs), 1)
	return gameWeight * float64(common) / float64(divisor)
}

// experienceScore gives full credit for an exact match and half credit
// when intermediate bridges an adjacent level. Unset levels score zero.
func experienceScore(a, b models.ExperienceLevel) float64 {
	if !a.Valid() || !b.Valid() {
		return 0
	}
	if a == b {
		return experienceWeight
	}
	if (a == models.ExperienceIntermediate || b == models.ExperienceIntermediate) && a.Adjacent(b) {
		return experienceWeight / 2
	}
	return 0
}

// vibeScore: "both" matches everything; differing vibes still earn a
// small credit since casual and competitive are not incompatible.
func vibeScore(a, b models.VibePreference) float64 {
	if a == models.VibeBoth || b == models.VibeBoth {
		return vibeWeight
	}
	if a == b {
		return vibeWeight
	}
	return 2
}

func intersectInts(a, b []int) int {
	set := make(map[int]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	count := 0
	seen := make(map[int]struct{}, len(b))
	for _, v := range b {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			count++
		}
	}
	return count
}

func intersectStrings(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	count := 0
	seen := make(map[string]struct{}, len(b))
	for _, v := range b {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			count++
		}
	}
	return count
}

func maxInt(values ...int) int {
	out := values[0]
	for _, v := range values[1:] {
		if v > out {
			out = v
		}
	}
	return out
}
