package partyfinder

import (
	"strconv"
	"time"

	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/models"
	"boardcafe/web/internal/repositories"

	"go.uber.org/zap"
)

const thresholdCacheKey = "party_finder_inactive_days_threshold"
const thresholdCacheTTL = 30 * time.Minute

// Settings resolves party-finder configuration with a short cache in
// front of the system_settings table.
type Settings struct {
	Repo   *repositories.SettingRepository
	Cache  *cache.Cache
	Logger *zap.Logger
}

func NewSettings(repo *repositories.SettingRepository, c *cache.Cache, logger *zap.Logger) *Settings {
	return &Settings{Repo: repo, Cache: c, Logger: logger}
}

// InactiveDays returns the configured inactivity threshold in days.
// The value is advisory, so lookup or parse failures fall back to the
// default instead of propagating.
func (s *Settings) InactiveDays() int {
	if cached, ok := s.Cache.Get(thresholdCacheKey); ok {
		if days, ok := cached.(int); ok {
			return days
		}
	}

	setting, err := s.Repo.GetSetting(models.SettingInactiveDays)
	if err != nil {
		if err != repositories.ErrSettingNotFound {
			s.Logger.Warn("failed to load inactive days threshold, using default",
				zap.Int("default", models.DefaultInactiveDays), zap.Error(err))
		}
		return models.DefaultInactiveDays
	}

	days, err := strconv.Atoi(setting.Value)
	if err != nil || days < 1 {
		s.Logger.Warn("invalid inactive days threshold value, using default",
			zap.String("value", setting.Value), zap.Int("default", models.DefaultInactiveDays))
		return models.DefaultInactiveDays
	}

	s.Cache.Set(thresholdCacheKey, days, thresholdCacheTTL)
	return days
}

// InvalidateThreshold drops the cached threshold after an admin update.
func (s *Settings) InvalidateThreshold() {
	s.Cache.Clear(thresholdCacheKey)
}
