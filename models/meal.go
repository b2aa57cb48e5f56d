package models

import (
	"time"

	"gorm.io/gorm"
)

// One logged meal: just a name and a calorie count.
type Meal struct {
	gorm.Model
	UserID   uint      `gorm:"index;not null"`
	Name     string    `gorm:"not null"`
	Calories int       `gorm:"not null"`
	AteAt    time.Time `gorm:"index;not null"`
}
