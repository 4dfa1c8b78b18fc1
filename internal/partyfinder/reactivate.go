package partyfinder

import (
	"time"

	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/models"
	"boardcafe/web/internal/repositories"

	"go.uber.org/zap"
)

// Reactivator runs on the login hot path, so it logs and swallows
// storage errors rather than blocking authentication.
type Reactivator struct {
	Users  *repositories.UserRepository
	Cache  *cache.Cache
	Logger *zap.Logger

	now func() time.Time
}

func NewReactivator(users *repositories.UserRepository, c *cache.Cache, logger *zap.Logger) *Reactivator {
	return &Reactivator{Users: users, Cache: c, Logger: logger, now: time.Now}
}

// ReactivateUserIfAutoRested flips a resting-but-still-interested user
// back to active on login; everyone else just gets a fresh last_login.
func (r *Reactivator) ReactivateUserIfAutoRested(userID string) {
	user, err := r.Users.GetUserByID(userID)
	if err != nil {
		r.Logger.Error("reactivation lookup failed", zap.String("userId", userID), zap.Error(err))
		return
	}

	now := r.now()
	if user.PartyStatus == models.PartyResting && user.LookingForParty {
		if err := r.Users.ReactivateUser(userID, now); err != nil {
			r.Logger.Error("reactivation update failed", zap.String("userId", userID), zap.Error(err))
			return
		}
		r.Logger.Info("reactivated user on login", zap.String("userId", userID))
		InvalidateDirectoryCaches(r.Cache)
		return
	}

	if err := r.Users.StampLastLogin(userID, now); err != nil {
		r.Logger.Error("failed to stamp last login", zap.String("userId", userID), zap.Error(err))
	}
}
