package partyfinder

import (
	"fmt"
	"time"

	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/repositories"

	"go.uber.org/zap"
)

// CleanupResult reports one sweeper run. A non-empty Errors list with
// a positive Updated count means the batch partially succeeded.
type CleanupResult struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// Sweeper rests users who have not logged in within the configured
// threshold. It is triggered by an external scheduler (or the admin
// endpoint); overlapping runs are not guarded here.
type Sweeper struct {
	Users    *repositories.UserRepository
	Settings *Settings
	Cache    *cache.Cache
	Logger   *zap.Logger

	now func() time.Time
}

func NewSweeper(users *repositories.UserRepository, settings *Settings, c *cache.Cache, logger *zap.Logger) *Sweeper {
	return &Sweeper{Users: users, Settings: settings, Cache: c, Logger: logger, now: time.Now}
}

// CleanupInactiveUsers flips stale active users to resting. A single
// failed update is recorded and does not stop the batch; only a failed
// candidate query aborts the run.
func (s *Sweeper) CleanupInactiveUsers() (CleanupResult, error) {
	result := CleanupResult{Errors: []string{}}

	inactiveDays := s.Settings.InactiveDays()
	cutoff := s.now().AddDate(0, 0, -inactiveDays)

	inactive, err := s.Users.ListInactivePlayers(cutoff)
	if err != nil {
		return result, fmt.Errorf("listing inactive users: %w", err)
	}

	s.Logger.Info("found inactive users to rest",
		zap.Int("count", len(inactive)), zap.Int("thresholdDays", inactiveDays))

	for _, user := range inactive {
		if err := s.Users.SetResting(user.ID); err != nil {
			msg := fmt.Sprintf("failed to rest user %s (%s): %v", user.Username, user.ID, err)
			result.Errors = append(result.Errors, msg)
			s.Logger.Error("sweeper update failed",
				zap.String("userId", user.ID), zap.Error(err))
			continue
		}
		result.Updated++
		s.Logger.Info("set user to resting due to inactivity",
			zap.String("userId", user.ID), zap.String("username", user.Username))
	}

	InvalidateDirectoryCaches(s.Cache)

	s.Logger.Info("cleanup complete",
		zap.Int("updated", result.Updated), zap.Int("errors", len(result.Errors)))
	return result, nil
}
