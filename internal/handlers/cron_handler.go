package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"boardcafe/web/internal/partyfinder"
	"boardcafe/web/internal/utils"

	"go.uber.org/zap"
)

// CronHandler exposes the inactivity sweep to an external scheduler,
// authenticated by a shared secret header instead of a user token.
type CronHandler struct {
	Sweeper *partyfinder.Sweeper
	Secret  string
	Logger  *zap.Logger
}

// CleanupHandler runs the sweep when called with the right
// X-Cron-Secret. An unset secret disables the endpoint entirely.
func (h *CronHandler) CleanupHandler(w http.ResponseWriter, r *http.Request) {
	if h.Secret == "" {
		utils.JSONError(w, http.StatusNotFound, "not found")
		return
	}
	provided := r.Header.Get("X-Cron-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.Secret)) != 1 {
		utils.JSONError(w, http.StatusUnauthorized, "invalid cron secret")
		return
	}

	start := time.Now()
	result, err := h.Sweeper.CleanupInactiveUsers()
	if err != nil {
		h.Logger.Error("scheduled cleanup failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}
	utils.JSON(w, http.StatusOK, cleanupResponse{
		CleanupResult: result,
		DurationMs:    time.Since(start).Milliseconds(),
	})
}
