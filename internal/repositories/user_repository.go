package repositories

import (
	"errors"
	"time"

	"boardcafe/web/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername matches case-insensitively so logins are not
// sensitive to the casing used at registration.
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "lower(username) = lower(?)", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByContact finds a user registered with the given contact value,
// used to reject duplicate contact details at registration.
func (r *UserRepository) GetUserByContact(value string) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "contact_value = ?", value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies the given column updates to a user. A map is used
// rather than a struct so zero values (cleared bio, resting status)
// are written through.
func (r *UserRepository) UpdateUser(userID string, updates map[string]any) (*models.User, error) {
	var user models.User
	if err := r.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := r.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListEligiblePlayers returns every user passing the directory
// eligibility predicate: opted in, active, and seen since cutoff.
func (r *UserRepository) ListEligiblePlayers(cutoff time.Time) ([]models.User, error) {
	var users []models.User
	err := r.DB.
		Where("looking_for_party = ? AND party_status = ? AND last_login >= ?", true, models.PartyActive, cutoff).
		Find(&users).Error
	return users, err
}

// ListInactivePlayers returns active, opted-in users whose last login
// predates cutoff; these are the sweeper's targets.
func (r *UserRepository) ListInactivePlayers(cutoff time.Time) ([]models.User, error) {
	var users []models.User
	err := r.DB.
		Where("party_status = ? AND looking_for_party = ? AND last_login < ?", models.PartyActive, true, cutoff).
		Find(&users).Error
	return users, err
}

// SetResting flips a user's party status without touching
// looking_for_party, so login can silently reactivate them later.
func (r *UserRepository) SetResting(userID string) error {
	result := r.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("party_status", models.PartyResting)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ReactivateUser sets a user active and stamps their last login.
func (r *UserRepository) ReactivateUser(userID string, now time.Time) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]any{"party_status": models.PartyActive, "last_login": now}).Error
}

// StampLastLogin records a successful login.
func (r *UserRepository) StampLastLogin(userID string, now time.Time) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("last_login", now).Error
}

func (r *UserRepository) DeleteUser(userID string) error {
	result := r.DB.Delete(&models.User{}, "id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
