package models

import (
	"time"

	"gorm.io/gorm"
)

// Duration is stored as the user typed it ("30 minutes", "1 hour").
// Everything that needs a number goes through services.ParseDurationMinutes.
type Workout struct {
	gorm.Model
	UserID         uint      `gorm:"index;not null"`
	Name           string    `gorm:"not null"`
	Duration       string    `gorm:"not null"`
	CaloriesBurned *int
	PerformedAt    time.Time `gorm:"index;not null"`
}
