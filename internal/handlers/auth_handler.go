package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"boardcafe/web/internal/models"
	"boardcafe/web/internal/partyfinder"
	"boardcafe/web/internal/ratelimit"
	"boardcafe/web/internal/repositories"
	"boardcafe/web/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login and registration limits mirror the original deployment:
// brute-force protection on login, light throttling on signups.
const (
	loginAttempts  = 5
	loginWindow    = 15 * time.Minute
	registerLimit  = 3
	registerWindow = time.Hour
)

// AuthHandler manages registration, login, and the current-user endpoint.
type AuthHandler struct {
	Users       *repositories.UserRepository
	Games       *repositories.GameRepository
	Preferences *repositories.PreferenceRepository
	Reactivator *partyfinder.Reactivator
	Limiter     *ratelimit.Limiter
	Logger      *zap.Logger
	JWTSecret   string
}

type registerRequest struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	DisplayName   string   `json:"displayName"`
	ContactMethod string   `json:"contactMethod"`
	ContactValue  string   `json:"contactValue"`
	SelectedGames []string `json:"selectedGames"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if !h.Limiter.Allow(r.Context(), "register", clientIP(r), registerLimit, registerWindow) {
		utils.JSONError(w, http.StatusTooManyRequests, "too many registration attempts, please try again later")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	username := utils.SanitizeInput(req.Username)
	displayName := utils.SanitizeInput(req.DisplayName)
	contactMethod := utils.SanitizeInput(req.ContactMethod)
	contactValue := utils.SanitizeInput(req.ContactValue)

	if len(username) < 3 || len(username) > 31 {
		utils.JSONError(w, http.StatusBadRequest, "username must be between 3-31 characters")
		return
	}
	if !utils.IsPasswordValid(req.Password) {
		utils.JSONError(w, http.StatusBadRequest, "password must be at least 8 characters with uppercase, lowercase, and a number")
		return
	}
	if len(displayName) < 1 || len(displayName) > 50 {
		utils.JSONError(w, http.StatusBadRequest, "display name must be between 1-50 characters")
		return
	}
	if !utils.IsValidContact(contactMethod, contactValue) {
		utils.JSONError(w, http.StatusBadRequest, "invalid contact information for the chosen method")
		return
	}
	if len(req.SelectedGames) < 1 || len(req.SelectedGames) > 4 {
		utils.JSONError(w, http.StatusBadRequest, "select between 1 and 4 games")
		return
	}

	existing, err := h.Games.FilterExistingBGGIDs(req.SelectedGames)
	if err != nil {
		h.Logger.Error("failed to validate selected games", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "registration failed, please try again")
		return
	}
	if len(existing) != len(req.SelectedGames) {
		utils.JSONError(w, http.StatusBadRequest, "one or more selected games are not in the catalog")
		return
	}

	if u, err := h.Users.GetUserByUsername(username); err == nil && u != nil {
		utils.JSONError(w, http.StatusConflict, "username already exists")
		return
	}
	if u, err := h.Users.GetUserByContact(contactValue); err == nil && u != nil {
		utils.JSONError(w, http.StatusConflict, fmt.Sprintf("this %s is already registered", contactMethodName(contactMethod)))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	now := time.Now()
	user := &models.User{
		ID:            uuid.NewString(),
		Username:      username,
		PasswordHash:  string(hash),
		DisplayName:   displayName,
		PartyStatus:   models.PartyActive,
		ContactMethod: contactMethod,
		ContactValue:  contactValue,
		LastLogin:     &now,
	}
	if contactMethod == "email" {
		user.Email = contactValue
	}

	if err := h.Users.CreateUser(user); err != nil {
		h.Logger.Error("failed to create user", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "registration failed, please try again")
		return
	}

	if err := h.Preferences.ReplaceForUser(user.ID, req.SelectedGames); err != nil {
		// The account exists; seed preferences are recoverable later.
		h.Logger.Error("failed to seed game preferences", zap.String("userId", user.ID), zap.Error(err))
	}

	token, err := h.issueToken(user)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}
	utils.JSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !h.Limiter.Allow(r.Context(), "login", clientIP(r), loginAttempts, loginWindow) {
		utils.JSONError(w, http.StatusTooManyRequests, "too many login attempts, please try again later")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Username == "" || len(req.Username) > 31 || req.Password == "" || len(req.Password) > 255 {
		utils.JSONError(w, http.StatusBadRequest, "invalid input")
		return
	}

	user, err := h.Users.GetUserByUsername(req.Username)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			h.Logger.Error("login lookup failed", zap.Error(err))
		}
		utils.JSONError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSONError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	// Admins never participate in the party finder, so they only get a
	// login stamp.
	if user.IsAdmin {
		if err := h.Users.StampLastLogin(user.ID, time.Now()); err != nil {
			h.Logger.Error("failed to stamp admin login", zap.String("userId", user.ID), zap.Error(err))
		}
	} else {
		h.Reactivator.ReactivateUserIfAutoRested(user.ID)
	}

	token, err := h.issueToken(user)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}
	utils.JSON(w, http.StatusOK, authResponse{Token: token})
}

// MeHandler returns the authenticated user's fresh profile.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetUserByID(currentUserID(r))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"admin":    user.IsAdmin,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}

// clientIP strips the ephemeral port from RemoteAddr so limits key on
// the host; attempts over fresh connections must count together. The
// RealIP middleware may have already rewritten RemoteAddr to a bare IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func contactMethodName(method string) string {
	switch method {
	case "whatsapp":
		return "WhatsApp number"
	case "discord":
		return "Discord username"
	default:
		return method
	}
}
