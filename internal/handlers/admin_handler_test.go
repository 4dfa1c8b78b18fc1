package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boardcafe/web/internal/models"
)

func newAdminHandler(env *testEnv) *AdminHandler {
	return &AdminHandler{
		Settings:      env.settings,
		Users:         env.users,
		Availability:  env.availability,
		Preferences:   env.preferences,
		PartySettings: env.partySettings,
		Sweeper:       env.sweeper,
		Cache:         env.cache,
		Logger:        env.logger,
	}
}

func TestInactiveDaysHandlers(t *testing.T) {
	env := newTestEnv(t)
	h := newAdminHandler(env)

	t.Run("default threshold", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetInactiveDaysHandler(rec, jsonRequest(t, http.MethodGet, "/api/v1/admin/settings/inactive-days", nil))
		resp := decodeBody[inactiveDaysResponse](t, rec)
		if resp.InactiveDays != models.DefaultInactiveDays {
			t.Fatalf("expected default %d, got %d", models.DefaultInactiveDays, resp.InactiveDays)
		}
	})

	t.Run("update persists and takes effect", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.UpdateInactiveDaysHandler(rec, jsonRequest(t, http.MethodPut, "/api/v1/admin/settings/inactive-days",
			map[string]any{"inactiveDays": 30}))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		h.GetInactiveDaysHandler(rec, jsonRequest(t, http.MethodGet, "/api/v1/admin/settings/inactive-days", nil))
		if resp := decodeBody[inactiveDaysResponse](t, rec); resp.InactiveDays != 30 {
			t.Fatalf("expected 30 after update, got %d", resp.InactiveDays)
		}
	})

	t.Run("range validation", func(t *testing.T) {
		for _, days := range []int{0, -5, 366} {
			rec := httptest.NewRecorder()
			h.UpdateInactiveDaysHandler(rec, jsonRequest(t, http.MethodPut, "/api/v1/admin/settings/inactive-days",
				map[string]any{"inactiveDays": days}))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 for %d days, got %d", days, rec.Code)
			}
		}
	})
}

func TestCleanupHandler(t *testing.T) {
	env := newTestEnv(t)
	old := time.Now().AddDate(0, 0, -20)
	env.seedUser(t, "stale", func(u *models.User) { u.LastLogin = &old })
	env.seedUser(t, "fresh", nil)
	h := newAdminHandler(env)

	rec := httptest.NewRecorder()
	h.CleanupHandler(rec, jsonRequest(t, http.MethodPost, "/api/v1/admin/cleanup", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[cleanupResponse](t, rec)
	if resp.Updated != 1 {
		t.Fatalf("expected 1 user rested, got %d", resp.Updated)
	}

	user, _ := env.users.GetUserByID("stale")
	if user.PartyStatus != models.PartyResting {
		t.Fatalf("expected stale user resting, got %s", user.PartyStatus)
	}
}

func TestRemoveUserHandler(t *testing.T) {
	env := newTestEnv(t)
	h := newAdminHandler(env)

	t.Run("removes account and profile rows", func(t *testing.T) {
		env.seedUser(t, "gone", nil)
		env.seedGame(t, "13", "Catan")
		if err := env.availability.ReplaceForUser("gone", []int{1, 3}); err != nil {
			t.Fatalf("failed to seed availability: %v", err)
		}
		if err := env.preferences.ReplaceForUser("gone", []string{"13"}); err != nil {
			t.Fatalf("failed to seed preferences: %v", err)
		}
		env.cache.Set("party_finder_players_stale", []string{"gone"}, time.Minute)

		rec := httptest.NewRecorder()
		r := withURLParam(jsonRequest(t, http.MethodDelete, "/api/v1/admin/users/gone", nil), "id", "gone")
		h.RemoveUserHandler(rec, r)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}

		if _, err := env.users.GetUserByID("gone"); err == nil {
			t.Fatalf("expected user to be deleted")
		}
		if days, _ := env.availability.DaysForUser("gone"); len(days) != 0 {
			t.Fatalf("expected availability cleared, got %v", days)
		}
		if ids, _ := env.preferences.IDsForUser("gone"); len(ids) != 0 {
			t.Fatalf("expected preferences cleared, got %v", ids)
		}
		if _, ok := env.cache.Get("party_finder_players_stale"); ok {
			t.Fatalf("expected directory caches invalidated")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := withURLParam(jsonRequest(t, http.MethodDelete, "/api/v1/admin/users/nope", nil), "id", "nope")
		h.RemoveUserHandler(rec, r)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCronCleanupHandler(t *testing.T) {
	env := newTestEnv(t)
	old := time.Now().AddDate(0, 0, -20)
	env.seedUser(t, "stale", func(u *models.User) { u.LastLogin = &old })
	h := &CronHandler{Sweeper: env.sweeper, Secret: "s3cret", Logger: env.logger}

	t.Run("wrong secret", func(t *testing.T) {
		r := jsonRequest(t, http.MethodGet, "/api/cron/cleanup", nil)
		r.Header.Set("X-Cron-Secret", "wrong")
		rec := httptest.NewRecorder()
		h.CleanupHandler(rec, r)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid secret runs the sweep", func(t *testing.T) {
		r := jsonRequest(t, http.MethodGet, "/api/cron/cleanup", nil)
		r.Header.Set("X-Cron-Secret", "s3cret")
		rec := httptest.NewRecorder()
		h.CleanupHandler(rec, r)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if resp := decodeBody[cleanupResponse](t, rec); resp.Updated != 1 {
			t.Fatalf("expected 1 user rested, got %d", resp.Updated)
		}
	})

	t.Run("unset secret disables the endpoint", func(t *testing.T) {
		disabled := &CronHandler{Sweeper: env.sweeper, Secret: "", Logger: env.logger}
		rec := httptest.NewRecorder()
		disabled.CleanupHandler(rec, jsonRequest(t, http.MethodGet, "/api/cron/cleanup", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 when no secret is configured, got %d", rec.Code)
		}
	})
}
