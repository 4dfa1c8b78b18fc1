package repositories

import (
	"boardcafe/web/internal/models"

	"gorm.io/gorm"
)

type AvailabilityRepository struct {
	DB *gorm.DB
}

// ReplaceForUser swaps a user's availability for the given weekday set.
// The delete and inserts run in one transaction so a failed write
// cannot leave the user with a half-replaced schedule.
func (r *AvailabilityRepository) ReplaceForUser(userID string, days []int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Availability{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if len(days) == 0 {
			return nil
		}
		entries := make([]models.Availability, 0, len(days))
		for _, day := range days {
			entries = append(entries, models.Availability{UserID: userID, DayOfWeek: day})
		}
		return tx.Create(&entries).Error
	})
}

// DaysForUser returns the weekday indices a user marked as free.
func (r *AvailabilityRepository) DaysForUser(userID string) ([]int, error) {
	var days []int
	err := r.DB.Model(&models.Availability{}).
		Where("user_id = ?", userID).
		Order("day_of_week").
		Pluck("day_of_week", &days).Error
	return days, err
}

// DaysForUsers batches the availability lookup for the directory.
func (r *AvailabilityRepository) DaysForUsers(userIDs []string) (map[string][]int, error) {
	out := make(map[string][]int, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var entries []models.Availability
	if err := r.DB.Where("user_id IN ?", userIDs).Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, entry := range entries {
		out[entry.UserID] = append(out[entry.UserID], entry.DayOfWeek)
	}
	return out, nil
}
