package partyfinder

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/models"
	"boardcafe/web/internal/repositories"

	"go.uber.org/zap"
)

// ErrInvalidOptions marks a malformed directory query; handlers map it
// to a 400 response.
var ErrInvalidOptions = errors.New("invalid directory options")

const (
	SortCompatibility = "compatibility"
	SortDisplayName   = "displayName"
	SortExperience    = "experienceLevel"
	SortLastLogin     = "lastLogin"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

const (
	poolCacheTTL = 5 * time.Minute
	joinCacheTTL = 10 * time.Minute
)

// ListOptions describes one directory query. Nil filters mean
// "unfiltered"; the caller is responsible for clamping Page and Limit
// to positive values.
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string

	Experience      *models.ExperienceLevel
	Vibe            *models.VibePreference
	AvailabilityDay *int
	GamePreference  *string
}

func (o ListOptions) validate() error {
	switch o.SortBy {
	case SortCompatibility, SortDisplayName, SortExperience, SortLastLogin:
	default:
		return fmt.Errorf("%w: unknown sortBy %q", ErrInvalidOptions, o.SortBy)
	}
	switch o.SortOrder {
	case OrderAsc, OrderDesc:
	default:
		return fmt.Errorf("%w: unknown sortOrder %q", ErrInvalidOptions, o.SortOrder)
	}
	if o.Experience != nil && !o.Experience.Valid() {
		return fmt.Errorf("%w: unknown experience %q", ErrInvalidOptions, *o.Experience)
	}
	if o.Vibe != nil && !o.Vibe.Valid() {
		return fmt.Errorf("%w: unknown vibe %q", ErrInvalidOptions, *o.Vibe)
	}
	if o.AvailabilityDay != nil && !models.ValidDay(*o.AvailabilityDay) {
		return fmt.Errorf("%w: availability day %d out of range", ErrInvalidOptions, *o.AvailabilityDay)
	}
	return nil
}

// PageMeta accompanies every directory page.
type PageMeta struct {
	TotalCount           int `json:"totalCount"`
	Page                 int `json:"page"`
	Limit                int `json:"limit"`
	TotalPages           int `json:"totalPages"`
	AverageCompatibility int `json:"averageCompatibility"`
}

// PlayerPage is the directory listing result.
type PlayerPage struct {
	Data []Player `json:"data"`
	Meta PageMeta `json:"meta"`
}

// Directory orchestrates the player listing: load the eligible pool
// through the cache, join availability and preferences, filter, score,
// sort, and paginate.
type Directory struct {
	Users        *repositories.UserRepository
	Availability *repositories.AvailabilityRepository
	Preferences  *repositories.PreferenceRepository
	Settings     *Settings
	Cache        *cache.Cache
	Logger       *zap.Logger

	now func() time.Time
}

func NewDirectory(
	users *repositories.UserRepository,
	availability *repositories.AvailabilityRepository,
	preferences *repositories.PreferenceRepository,
	settings *Settings,
	c *cache.Cache,
	logger *zap.Logger,
) *Directory {
	return &Directory{
		Users:        users,
		Availability: availability,
		Preferences:  preferences,
		Settings:     settings,
		Cache:        c,
		Logger:       logger,
		now:          time.Now,
	}
}

// ListPlayers runs one directory query for the requesting user.
// currentDays and currentGameIDs are the requester's own availability
// and preferences, supplied by the caller.
func (d *Directory) ListPlayers(current *models.User, currentDays []int, currentGameIDs []string, opts ListOptions) (*PlayerPage, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	inactiveDays := d.Settings.InactiveDays()
	cutoff := d.now().AddDate(0, 0, -inactiveDays)

	pool, err := d.eligiblePool(cutoff)
	if err != nil {
		return nil, fmt.Errorf("loading candidate pool: %w", err)
	}

	candidates := make([]Player, 0, len(pool))
	for _, p := range pool {
		if p.ID == current.ID {
			continue
		}
		candidates = append(candidates, p)
	}

	if err := d.attachDetails(candidates); err != nil {
		return nil, fmt.Errorf("loading candidate details: %w", err)
	}

	filtered := applyFilters(candidates, opts)

	profile := Profile{
		ID:              current.ID,
		ExperienceLevel: current.ExperienceLevel,
		VibePreference:  current.VibePreference,
		OpenToAnyGame:   current.OpenToAnyGame,
	}
	scoreSum := 0
	for i := range filtered {
		filtered[i].Compatibility = Score(profile, currentDays, currentGameIDs, &filtered[i])
		scoreSum += filtered[i].Compatibility
	}

	sortPlayers(filtered, opts.SortBy, opts.SortOrder)

	total := len(filtered)
	average := 0
	if total > 0 {
		average = int(math.Round(float64(scoreSum) / float64(total)))
	}

	offset := (opts.Page - 1) * opts.Limit
	end := offset + opts.Limit
	var pageData []Player
	switch {
	case offset >= total:
		pageData = []Player{}
	case end > total:
		pageData = filtered[offset:]
	default:
		pageData = filtered[offset:end]
	}

	return &PlayerPage{
		Data: pageData,
		Meta: PageMeta{
			TotalCount:           total,
			Page:                 opts.Page,
			Limit:                opts.Limit,
			TotalPages:           int(math.Ceil(float64(total) / float64(opts.Limit))),
			AverageCompatibility: average,
		},
	}, nil
}

// eligiblePool loads (or recalls) every player passing the eligibility
// predicate. The cutoff is truncated to the minute so consecutive
// requests share a cache key within the pool TTL.
func (d *Directory) eligiblePool(cutoff time.Time) ([]Player, error) {
	key := fmt.Sprintf("party_finder_players_%d", cutoff.Truncate(time.Minute).Unix())
	if cached, ok := d.Cache.Get(key); ok {
		if pool, ok := cached.([]Player); ok {
			return pool, nil
		}
	}

	users, err := d.Users.ListEligiblePlayers(cutoff)
	if err != nil {
		return nil, err
	}

	pool := make([]Player, 0, len(users))
	for _, u := range users {
		pool = append(pool, Player{
			ID:               u.ID,
			Username:         u.Username,
			DisplayName:      u.DisplayName,
			Bio:              u.Bio,
			ExperienceLevel:  u.ExperienceLevel,
			VibePreference:   u.VibePreference,
			OpenToAnyGame:    u.OpenToAnyGame,
			ContactMethod:    u.ContactMethod,
			ContactValue:     u.ContactValue,
			ContactVisibleTo: u.ContactVisibleTo,
			LastLogin:        u.LastLogin,
		})
	}
	d.Cache.Set(key, pool, poolCacheTTL)
	return pool, nil
}

// attachDetails fills availability days and game preferences for every
// candidate, caching both joins under keys derived from the sorted id
// list. Keys carry the player_discovery prefix so eligibility
// mutations invalidate them together with the pool.
func (d *Directory) attachDetails(candidates []Player) error {
	if len(candidates) == 0 {
		return nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	idKey := strings.Join(ids, "_")

	availabilityKey := "player_discovery_availability_" + idKey
	days, ok := cachedMap[[]int](d.Cache, availabilityKey)
	if !ok {
		var err error
		days, err = d.Availability.DaysForUsers(ids)
		if err != nil {
			return err
		}
		d.Cache.Set(availabilityKey, days, joinCacheTTL)
	}

	preferencesKey := "player_discovery_preferences_" + idKey
	prefs, ok := cachedMap[[]models.PreferredGame](d.Cache, preferencesKey)
	if !ok {
		var err error
		prefs, err = d.Preferences.GamesForUsers(ids)
		if err != nil {
			return err
		}
		d.Cache.Set(preferencesKey, prefs, joinCacheTTL)
	}

	for i := range candidates {
		candidates[i].AvailabilityDays = days[candidates[i].ID]
		candidates[i].GamePreferences = prefs[candidates[i].ID]
	}
	return nil
}

func cachedMap[V any](c *cache.Cache, key string) (map[string]V, bool) {
	cached, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	value, ok := cached.(map[string]V)
	return value, ok
}

// applyFilters AND-combines the optional filters.
func applyFilters(candidates []Player, opts ListOptions) []Player {
	out := make([]Player, 0, len(candidates))
	for _, c := range candidates {
		if opts.Experience != nil && c.ExperienceLevel != *opts.Experience {
			continue
		}
		if opts.Vibe != nil && c.VibePreference != *opts.Vibe && c.VibePreference != models.VibeBoth {
			continue
		}
		if opts.AvailabilityDay != nil && !containsInt(c.AvailabilityDays, *opts.AvailabilityDay) {
			continue
		}
		if opts.GamePreference != nil && !c.OpenToAnyGame && !prefersGame(c.GamePreferences, *opts.GamePreference) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func prefersGame(prefs []models.PreferredGame, bggID string) bool {
	for _, p := range prefs {
		if p.GameBGGID == bggID {
			return true
		}
	}
	return false
}

func sortPlayers(players []Player, sortBy, sortOrder string) {
	less := func(a, b *Player) bool { return a.Compatibility < b.Compatibility }

	switch sortBy {
	case SortDisplayName:
		less = func(a, b *Player) bool {
			return strings.ToLower(nameOf(a)) < strings.ToLower(nameOf(b))
		}
	case SortExperience:
		less = func(a, b *Player) bool {
			return a.ExperienceLevel.Ordinal() < b.ExperienceLevel.Ordinal()
		}
	case SortLastLogin:
		less = func(a, b *Player) bool {
			return loginTime(a).Before(loginTime(b))
		}
	}

	sort.SliceStable(players, func(i, j int) bool {
		if sortOrder == OrderDesc {
			return less(&players[j], &players[i])
		}
		return less(&players[i], &players[j])
	})
}

func nameOf(p *Player) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}

func loginTime(p *Player) time.Time {
	if p.LastLogin == nil {
		return time.Time{}
	}
	return *p.LastLogin
}

// InvalidateDirectoryCaches drops every cached directory artifact.
// Called after any mutation that changes eligibility or preferences.
func InvalidateDirectoryCaches(c *cache.Cache) {
	c.Clear("party_finder")
	c.Clear("player_discovery")
}
