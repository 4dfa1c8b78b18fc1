package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"boardcafe/web/internal/cache"
	"boardcafe/web/internal/models"
	"boardcafe/web/internal/partyfinder"
	"boardcafe/web/internal/ratelimit"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/testhelpers"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "handler-test-secret"

// testEnv wires real repositories over an in-memory database, matching
// how main assembles the service.
type testEnv struct {
	db    *gorm.DB
	cache *cache.Cache

	users        *repositories.UserRepository
	games        *repositories.GameRepository
	availability *repositories.AvailabilityRepository
	preferences  *repositories.PreferenceRepository
	comments     *repositories.CommentRepository
	settings     *repositories.SettingRepository

	partySettings *partyfinder.Settings
	directory     *partyfinder.Directory
	sweeper       *partyfinder.Sweeper
	reactivator   *partyfinder.Reactivator
	limiter       *ratelimit.Limiter
	logger        *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	c := cache.New()
	logger := zap.NewNop()

	env := &testEnv{
		db:           db,
		cache:        c,
		users:        &repositories.UserRepository{DB: db},
		games:        &repositories.GameRepository{DB: db},
		availability: &repositories.AvailabilityRepository{DB: db},
		preferences:  &repositories.PreferenceRepository{DB: db},
		comments:     &repositories.CommentRepository{DB: db},
		settings:     &repositories.SettingRepository{DB: db},
		limiter:      &ratelimit.Limiter{Logger: logger},
		logger:       logger,
	}
	env.partySettings = partyfinder.NewSettings(env.settings, c, logger)
	env.directory = partyfinder.NewDirectory(env.users, env.availability, env.preferences, env.partySettings, c, logger)
	env.sweeper = partyfinder.NewSweeper(env.users, env.partySettings, c, logger)
	env.reactivator = partyfinder.NewReactivator(env.users, c, logger)
	return env
}

func (env *testEnv) seedGame(t *testing.T, bggID, name string) {
	t.Helper()
	if err := env.games.CreateGame(&models.BoardGame{BGGID: bggID, Name: name}); err != nil {
		t.Fatalf("failed to seed game %s: %v", name, err)
	}
}

func (env *testEnv) seedUser(t *testing.T, id string, mutate func(*models.User)) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	now := time.Now()
	user := &models.User{
		ID:              id,
		Username:        id,
		PasswordHash:    string(hash),
		DisplayName:     "User " + id,
		LookingForParty: true,
		PartyStatus:     models.PartyActive,
		LastLogin:       &now,
	}
	if mutate != nil {
		mutate(user)
	}
	if err := env.users.CreateUser(user); err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
	return user
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	r := httptest.NewRequest(method, target, reader)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// asUser attaches verified-claims context the way AuthMiddleware would.
func asUser(r *http.Request, userID string, admin bool) *http.Request {
	claims := jwt.MapClaims{"sub": userID, "admin": admin}
	return r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
