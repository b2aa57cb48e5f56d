package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`

	Weight        float64
	Height        float64
	Age           int
	Gender        string
	ActivityLevel string

	Goal           string  `gorm:"default:'Not set'"`
	GoalType       string  `gorm:"size:32;default:'Maintain Weight'"` // "Lose Weight" | "Maintain Weight" | "Gain Weight"
	TargetWeight   float64
	StartingWeight float64

	Avatar string

	NotifyWeeklySummary bool `gorm:"default:true"`
	NotifyDailyReminder bool `gorm:"default:false"`

	ResetToken    string
	ResetTokenExp time.Time
}
