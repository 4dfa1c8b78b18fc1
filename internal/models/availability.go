package models

import "time"

// Availability records one weekday a user is free to play. Time slots
// are reserved in the schema but not scored yet.
type Availability struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        string `gorm:"not null;index" json:"userId"`
	DayOfWeek     int    `gorm:"not null" json:"dayOfWeek"`
	TimeSlotStart string `json:"timeSlotStart,omitempty"`
	TimeSlotEnd   string `json:"timeSlotEnd,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ValidDay reports whether d is a weekday index (0 = Sunday .. 6 = Saturday).
func ValidDay(d int) bool {
	return d >= 0 && d <= 6
}
